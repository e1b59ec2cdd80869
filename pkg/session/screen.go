package session

import (
	"strings"
	"time"
)

// visitScreen applies the screen-visit transition for the open session:
// duplicate suppression, re-entry suppression, then close-previous and
// append a new open visit.
func (r *Reconstructor) visitScreen(rawName string, ts time.Time) {
	s := r.sessions[r.current]
	name := NormalizeScreenName(rawName)

	if n := len(s.Screens); n > 0 {
		last := s.Screens[n-1]

		// Rapid re-emission of the current screen is one visit.
		if last.Name == name && ts.Sub(last.EntryTime) < r.cfg.DuplicateScreenWindow {
			return
		}

		// Re-opening a screen seen shortly before is usually noisy
		// re-emission, not a real back navigation. Explicitly allowed
		// (from, to) pairs bypass this.
		if last.Name != name && r.reentry(s, name, ts) && !r.navigationAllowed(last.Name, name) {
			return
		}

		if last.ExitTime.IsZero() {
			last.ExitTime = clampExit(last.EntryTime, ts, r.cfg.MinScreenDuration)
		}
	}

	s.Screens = append(s.Screens, &ScreenVisit{Name: name, EntryTime: ts})
}

// reentry reports whether a screen with this name was entered earlier in
// the session within the re-entry window. The immediately preceding screen
// is excluded; the duplicate rule covers that case.
func (r *Reconstructor) reentry(s *Session, name string, ts time.Time) bool {
	for i := len(s.Screens) - 2; i >= 0; i-- {
		sc := s.Screens[i]
		if sc.Name != name {
			continue
		}
		return ts.Sub(sc.EntryTime) < r.cfg.ReentryWindow
	}
	return false
}

func (r *Reconstructor) navigationAllowed(from, to string) bool {
	for _, nav := range r.cfg.AllowedNavigations {
		if NormalizeScreenName(nav.From) == from && NormalizeScreenName(nav.To) == to {
			return true
		}
	}
	return false
}

// NormalizeScreenName turns raw identifiers like "CREATE_NOTE" or
// "settings-page" into display names ("Create Note", "Settings Page").
func NormalizeScreenName(raw string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(raw))
	words := strings.Fields(strings.ToLower(cleaned))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
