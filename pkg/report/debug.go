package report

import (
	"fmt"
	"strings"

	"github.com/journeylog/journeylog/pkg/session"
)

const (
	debugSampleLines = 5
	debugLineWidth   = 100
)

// GenerateDebug renders the normal report followed by a diagnostic block:
// line counts, a sample of the first non-empty lines, and any lines
// matching the relevance marker. This is the user-visible fallback for
// diagnosing a format mismatch, not an error path.
func GenerateDebug(text string, sessions []*session.Session, marker string) string {
	var b strings.Builder
	b.WriteString(Generate(sessions))
	b.WriteString("\n=== Debug ===\n")

	lines := strings.Split(text, "\n")
	var nonEmpty, samples, relevant []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty = append(nonEmpty, trimmed)
		if len(samples) < debugSampleLines {
			samples = append(samples, trimmed)
		}
		if marker != "" && len(relevant) < debugSampleLines && strings.Contains(trimmed, marker) {
			relevant = append(relevant, trimmed)
		}
	}

	fmt.Fprintf(&b, "Total lines: %d\n", len(lines))
	fmt.Fprintf(&b, "Non-empty lines: %d\n", len(nonEmpty))

	if len(samples) > 0 {
		b.WriteString("First non-empty lines:\n")
		for _, s := range samples {
			fmt.Fprintf(&b, "  %s\n", truncateLine(s, debugLineWidth))
		}
	}

	if marker != "" {
		if len(relevant) > 0 {
			fmt.Fprintf(&b, "Lines containing %q:\n", marker)
			for _, s := range relevant {
				fmt.Fprintf(&b, "  %s\n", truncateLine(s, debugLineWidth))
			}
		} else {
			fmt.Fprintf(&b, "No lines contain %q - the log may use a different event marker.\n", marker)
		}
	}

	return b.String()
}

func truncateLine(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
