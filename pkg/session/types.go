// Package session reconstructs user sessions from parsed analytics log entries.
package session

import "time"

// Session is one reconstructed app session: a launch, a sequence of screen
// visits, and an end. Sessions are numbered 1..N in discovery order.
type Session struct {
	// Number is the 1-based sequence number in discovery order.
	Number int `json:"number"`

	// StartTime is when the session began (explicit marker or inferred).
	StartTime time.Time `json:"start_time"`

	// EndTime is zero until the session is finalized.
	EndTime time.Time `json:"end_time"`

	// Screens is the chronological sequence of screen visits.
	Screens []*ScreenVisit `json:"screens"`

	// LaunchCount is the app's cumulative launch count if the log carried
	// one, otherwise the running session count.
	LaunchCount int `json:"launch_count"`

	// Metadata holds interesting key-value pairs from the session start
	// line (app version, build, os, device).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Duration returns the session length, or zero if not finalized.
func (s *Session) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// ScreenVisit is one stay on a screen, with the actions taken there.
type ScreenVisit struct {
	// Name is the normalized display name of the screen.
	Name string `json:"name"`

	// EntryTime is when the screen appeared.
	EntryTime time.Time `json:"entry_time"`

	// ExitTime is zero while the visit is open. Once closed,
	// ExitTime - EntryTime never goes below the configured floor.
	ExitTime time.Time `json:"exit_time"`

	// Actions is the chronological list of user actions on this screen.
	Actions []UserAction `json:"actions,omitempty"`
}

// Duration returns the visit length, or zero while the visit is open.
func (v *ScreenVisit) Duration() time.Duration {
	if v.ExitTime.IsZero() {
		return 0
	}
	return v.ExitTime.Sub(v.EntryTime)
}

// UserAction is a single classified user interaction.
type UserAction struct {
	// Timestamp is when the action happened.
	Timestamp time.Time `json:"timestamp"`

	// Icon is the classification tag chosen by keyword heuristics.
	Icon string `json:"icon"`

	// Details is the formatted human-readable description.
	Details string `json:"details"`

	// RawEvent is the raw extracted event name, kept for traceability.
	RawEvent string `json:"raw_event,omitempty"`
}
