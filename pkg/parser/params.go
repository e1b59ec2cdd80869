package parser

import (
	"regexp"
	"strings"
)

// Param extraction passes, applied in order over the whole message.
// A key matched by several passes keeps the value of the last pass;
// quoted variants therefore win over bare ones. This is intentionally
// permissive, not a strict grammar.
var paramPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\w+):([^,\s"]+)`),
	regexp.MustCompile(`(\w+)=([^,\s"]+)`),
	regexp.MustCompile(`(\w+):"([^"]*)"`),
	regexp.MustCompile(`(\w+)="([^"]*)"`),
}

// ExtractParams scans a message for key:value, key=value and their quoted
// variants, accumulating everything into one map.
func ExtractParams(message string) map[string]string {
	params := make(map[string]string)
	for _, re := range paramPatterns {
		for _, m := range re.FindAllStringSubmatch(message, -1) {
			params[m[1]] = m[2]
		}
	}
	return params
}

// EventType extracts the event name from a "sendEvent: <type>, params: ..."
// shaped message: the token between the marker and the next comma, or the
// rest of the string if no comma follows. Returns ("", false) when the
// marker is absent.
func EventType(message, marker string) (string, bool) {
	idx := strings.Index(message, marker)
	if idx < 0 {
		return "", false
	}

	rest := message[idx+len(marker):]
	if comma := strings.Index(rest, ","); comma >= 0 {
		rest = rest[:comma]
	}

	event := strings.TrimSpace(rest)
	if event == "" {
		return "", false
	}
	return event, true
}
