package session

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/journeylog/journeylog/pkg/parser"
)

var setUserPropertyRe = regexp.MustCompile(`(?i)set\s*user\s*property:?\s*"?([\w.-]+)"?`)

// appendAction classifies the entry as a user action and appends it to the
// currently open screen visit, opening a synthetic "App" screen when the
// session has none yet.
func (r *Reconstructor) appendAction(entry *parser.LogEntry) {
	s := r.sessions[r.current]
	if len(s.Screens) == 0 {
		s.Screens = append(s.Screens, &ScreenVisit{Name: "App", EntryTime: entry.Timestamp})
	}
	screen := s.Screens[len(s.Screens)-1]

	name, raw := r.actionName(entry)

	screen.Actions = append(screen.Actions, UserAction{
		Timestamp: entry.Timestamp,
		Icon:      r.classifyAction(entry.Message),
		Details:   r.actionDetails(entry, name, screen.Name),
		RawEvent:  raw,
	})
}

// actionName derives a display name and the raw event token. sendEvent
// shapes always yield their event type; other shapes fall through param
// aliases, the set-user-property pattern, and finally the trailing message
// text. Only truly unrecognizable input yields "Unknown Action".
func (r *Reconstructor) actionName(entry *parser.LogEntry) (string, string) {
	if event, ok := parser.EventType(entry.Message, r.cfg.SendEventMarker); ok {
		return NormalizeScreenName(event), event
	}

	for _, key := range r.cfg.ActionParamKeys {
		if v := entry.Params[key]; v != "" {
			return NormalizeScreenName(v), v
		}
	}

	if m := setUserPropertyRe.FindStringSubmatch(entry.Message); m != nil {
		return "Set " + NormalizeScreenName(m[1]), m[1]
	}

	// Best effort: the text after the last colon, or the whole message.
	text := entry.Message
	if idx := strings.LastIndex(text, ":"); idx >= 0 {
		text = text[idx+1:]
	}
	if text = strings.TrimSpace(text); text != "" {
		return NormalizeScreenName(text), ""
	}

	return "Unknown Action", ""
}

// classifyAction picks an icon via ordered keyword matching over the
// lowercased message; first matching rule wins.
func (r *Reconstructor) classifyAction(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range r.cfg.ActionRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Icon
			}
		}
	}
	return r.cfg.DefaultActionIcon
}

// actionDetails formats the human-readable description: the action name,
// possibly overridden by a more specific param, plus value-transition and
// context fragments, then any leftover params sorted by key.
func (r *Reconstructor) actionDetails(entry *parser.LogEntry, name, currentScreen string) string {
	details := name
	consumed := map[string]bool{
		// The sendEvent marker itself leaks into params as a pseudo-key.
		strings.TrimSuffix(r.cfg.SendEventMarker, ":"): true,
		"params": true,
	}
	for _, key := range r.cfg.ActionParamKeys {
		consumed[key] = true
	}

	// A button's own name is more specific than the event type.
	if v, ok := firstParam(entry.Params, "name", "button"); ok {
		details = NormalizeScreenName(v)
		consumed["name"] = true
		consumed["button"] = true
	}

	// Value transitions: "from → to" when both ends are known.
	newVal, hasNew := firstParam(entry.Params, "newValue", "value", "to")
	oldVal, hasOld := firstParam(entry.Params, "from", "previous")
	if hasNew {
		if hasOld {
			details += fmt.Sprintf(" (%s → %s)", oldVal, newVal)
		} else {
			details += " → " + newVal
		}
	}
	for _, key := range []string{"newValue", "value", "to", "from", "previous"} {
		consumed[key] = true
	}

	// Mention the screen param only when it differs from where the action
	// was recorded.
	if v, ok := firstParam(entry.Params, r.cfg.ScreenParamKeys...); ok {
		if ref := NormalizeScreenName(v); ref != currentScreen && ref != details {
			details += " on " + ref
		}
	}
	for _, key := range r.cfg.ScreenParamKeys {
		consumed[key] = true
	}

	// Leftover params, sorted for determinism.
	var keys []string
	for key := range entry.Params {
		if !consumed[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		details += fmt.Sprintf(", %s: %s", NormalizeScreenName(key), entry.Params[key])
	}

	return details
}
