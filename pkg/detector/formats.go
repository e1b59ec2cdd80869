package detector

import "regexp"

// LineFormat represents a known analytics log line shape for detection.
type LineFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for display
	Example    string         // Example line
}

const tsPattern = `\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`

// DefaultFormats returns the built-in line shapes to detect, ordered most
// specific first.
func DefaultFormats() []*LineFormat {
	formats := []*LineFormat{
		{
			Name:       "Timestamped with level, colon-separated message",
			PatternStr: `^(` + tsPattern + `)\s+\S+\s+\[[^\]]+\]\s*:\s*`,
			Example:    "2024-01-15T10:30:00+00:00 INFO [analytics] : sendEvent: screen_view, params: name:HOME",
		},
		{
			Name:       "Timestamped with level, space-separated message",
			PatternStr: `^(` + tsPattern + `)\s+\S+\s+\[[^\]]+\]\s+`,
			Example:    "2024-01-15 10:30:00 DEBUG [analytics] sendEvent: ui_button_tap, params: name:SAVE",
		},
		{
			Name:       "Loose bracketed category",
			PatternStr: `^(` + tsPattern + `)[^\[]*\[[^\]]+\][^:]*:\s*`,
			Example:    "2024-01-15T10:30:00Z worker-3 [analytics] emitter: app_launch",
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}
	return formats
}

// categoryPattern extracts the bracketed category from a line.
var categoryPattern = regexp.MustCompile(`\[([^\]]+)\]`)
