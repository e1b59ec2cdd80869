package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/journeylog/journeylog/pkg/session"
)

// NoSessionsMessage is the literal output for logs with no recognizable sessions.
const NoSessionsMessage = "No sessions found in the log."

const sessionSeparator = "----------------------------------------"

// Generate renders sessions into the human-readable journey report.
// Pure function: the same input always yields the same string.
func Generate(sessions []*session.Session) string {
	if len(sessions) == 0 {
		return NoSessionsMessage + "\n"
	}

	var b strings.Builder
	b.WriteString("=== Session Report ===\n\n")

	var total time.Duration
	var screens int
	for _, s := range sessions {
		total += s.Duration()
		screens += len(s.Screens)
	}
	avg := total / time.Duration(len(sessions))

	fmt.Fprintf(&b, "Sessions: %d\n", len(sessions))
	fmt.Fprintf(&b, "Average duration: %s\n", FormatDuration(avg))
	fmt.Fprintf(&b, "Average screens per session: %.1f\n\n", float64(screens)/float64(len(sessions)))

	for i, s := range sessions {
		writeSession(&b, s)
		if i < len(sessions)-1 {
			b.WriteString(sessionSeparator + "\n\n")
		}
	}

	return b.String()
}

func writeSession(b *strings.Builder, s *session.Session) {
	fmt.Fprintf(b, "📱 Session %d\n", s.Number)
	fmt.Fprintf(b, "🕐 Start: %s\n", FormatClock(s.StartTime))
	fmt.Fprintf(b, "⏱ Duration: %s\n", FormatDuration(s.Duration()))
	if s.LaunchCount > 0 {
		fmt.Fprintf(b, "🚀 Launch count: %d\n", s.LaunchCount)
	}

	keys := make([]string, 0, len(s.Metadata))
	for k := range s.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "📋 %s: %s\n", k, s.Metadata[k])
	}

	if len(s.Screens) > 0 {
		b.WriteString("🧭 Journey:\n")
		for i, sc := range s.Screens {
			fmt.Fprintf(b, "  %d. %s (%s)\n", i+1, sc.Name, FormatDuration(sc.Duration()))
			writeActions(b, sc.Actions)
		}
	}

	b.WriteString("\n")
}

// writeActions groups consecutive runs of identical icons. Within a run,
// distinct details keep first-appearance order; identical details collapse
// to one line with a ×N suffix, and those collapsed lines are sorted by
// detail text for determinism.
func writeActions(b *strings.Builder, actions []session.UserAction) {
	i := 0
	for i < len(actions) {
		j := i
		for j < len(actions) && actions[j].Icon == actions[i].Icon {
			j++
		}

		counts := make(map[string]int)
		var order []string
		for _, a := range actions[i:j] {
			if counts[a.Details] == 0 {
				order = append(order, a.Details)
			}
			counts[a.Details]++
		}

		var collapsed []string
		for _, d := range order {
			if counts[d] == 1 {
				fmt.Fprintf(b, "     %s %s\n", actions[i].Icon, d)
			} else {
				collapsed = append(collapsed, d)
			}
		}
		sort.Strings(collapsed)
		for _, d := range collapsed {
			fmt.Fprintf(b, "     %s %s ×%d\n", actions[i].Icon, d, counts[d])
		}

		i = j
	}
}
