// Package report renders reconstructed sessions into shareable reports.
package report

import (
	"time"

	"github.com/journeylog/journeylog/pkg/session"
)

// Report is the complete output of one log analysis.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Sessions are the reconstructed sessions, in discovery order.
	Sessions []*session.Session `json:"sessions"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Sessions is the number of reconstructed sessions.
	Sessions int `json:"sessions"`

	// AvgDuration is the mean session duration.
	AvgDuration time.Duration `json:"avg_duration"`

	// AvgScreens is the mean number of screens per session.
	AvgScreens float64 `json:"avg_screens"`

	// LinesProcessed is the number of non-blank log lines examined.
	LinesProcessed int `json:"lines_processed"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Sources lists the log files that were analyzed (empty for stdin or
	// in-memory input).
	Sources []string `json:"sources,omitempty"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewReport creates a Report from reconstructed sessions.
func NewReport(sessions []*session.Session, sources []string, linesProcessed int) *Report {
	r := &Report{
		Sessions: sessions,
		Metadata: Metadata{
			Sources:     sources,
			GeneratedAt: time.Now(),
		},
		Summary: Summary{
			Sessions:       len(sessions),
			LinesProcessed: linesProcessed,
		},
	}

	if len(sessions) > 0 {
		var total time.Duration
		var screens int
		for _, s := range sessions {
			total += s.Duration()
			screens += len(s.Screens)
		}
		r.Summary.AvgDuration = total / time.Duration(len(sessions))
		r.Summary.AvgScreens = float64(screens) / float64(len(sessions))
	}

	return r
}

// HasSessions returns true if any sessions were reconstructed.
func (r *Report) HasSessions() bool {
	return r.Summary.Sessions > 0
}
