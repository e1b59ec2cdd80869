package parser

import (
	"regexp"
	"strings"
	"time"
)

// timestampPattern matches the ISO-8601-ish timestamps the known emitters
// produce: T or space separated, optional fractional seconds, optional
// numeric offset or Z.
const timestampPattern = `\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`

// timestampLayouts are tried in order; the first successful parse wins.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// lineFormat is one recognized line shape. Formats are value objects tried
// in priority order; the first match wins. Group 1 is always the timestamp.
type lineFormat struct {
	re       *regexp.Regexp
	levelIdx int // 0 when the format captures no level
	catIdx   int
	msgIdx   int
}

// lineFormats is ordered most specific first; later entries exist purely as
// fallbacks for malformed or alternate emitters.
var lineFormats = []lineFormat{
	// <ts> <level> [<category>] : <message>
	{
		re:       regexp.MustCompile(`^(` + timestampPattern + `)\s+(\S+)\s+\[([^\]]+)\]\s*:\s*(.*)$`),
		levelIdx: 2, catIdx: 3, msgIdx: 4,
	},
	// <ts> <level> [<category>] <message>
	{
		re:       regexp.MustCompile(`^(` + timestampPattern + `)\s+(\S+)\s+\[([^\]]+)\]\s+(.*)$`),
		levelIdx: 2, catIdx: 3, msgIdx: 4,
	},
	// loose: <ts> ... [<category>] ... : <message>
	{
		re:     regexp.MustCompile(`^(` + timestampPattern + `)[^\[]*\[([^\]]+)\][^:]*:\s*(.*)$`),
		catIdx: 2, msgIdx: 3,
	},
}

// timestampPrefix anchors the timestamp pattern at the start of a line,
// for best-effort extraction on raw lines.
var timestampPrefix = regexp.MustCompile(`^(` + timestampPattern + `)`)

// LineParser turns one raw text line into a LogEntry.
type LineParser struct {
	formats []lineFormat
}

// NewLineParser creates a parser with the built-in line formats.
func NewLineParser() *LineParser {
	return &LineParser{formats: lineFormats}
}

// Parse attempts to parse one raw line. Returns (nil, false) for blank
// lines, lines without a bracketed category, and lines matching no known
// format. This is best-effort text mining, not a strict grammar: failures
// are expected and silent.
func (p *LineParser) Parse(line string) (*LogEntry, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.Contains(trimmed, "[") {
		return nil, false
	}

	for _, f := range p.formats {
		matches := f.re.FindStringSubmatch(trimmed)
		if matches == nil {
			continue
		}

		ts, ok := ParseTimestamp(matches[1])
		if !ok {
			return nil, false
		}

		entry := &LogEntry{
			Timestamp: ts,
			Category:  strings.TrimSpace(matches[f.catIdx]),
			Message:   strings.TrimSpace(matches[f.msgIdx]),
		}
		if f.levelIdx > 0 {
			entry.Level = matches[f.levelIdx]
		}
		entry.Params = ExtractParams(entry.Message)

		return entry, true
	}

	return nil, false
}

// ParseTimestamp parses a timestamp string against the known layouts in
// order. Returns (zero, false) when no layout matches.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ExtractLineTimestamp extracts a best-effort timestamp from the start of a
// raw line. Used by sources to keep merged streams in order.
func ExtractLineTimestamp(line string) (time.Time, bool) {
	matches := timestampPrefix.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(matches[1])
}
