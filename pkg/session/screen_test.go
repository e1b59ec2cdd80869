package session

import (
	"strings"
	"testing"

	"github.com/journeylog/journeylog/pkg/config"
)

func TestNormalizeScreenName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"CREATE_NOTE", "Create Note"},
		{"settings-page", "Settings Page"},
		{"home", "Home"},
		{"  user_profile  ", "User Profile"},
		{"ALREADY OK", "Already Ok"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeScreenName(tt.raw); got != tt.want {
			t.Errorf("NormalizeScreenName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDuplicateScreenSuppressed(t *testing.T) {
	log := strings.Join([]string{
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch",
		"2024-01-15T10:00:02Z INFO [analytics] : sendEvent: screen_view, params: name:HOME",
		"2024-01-15T10:00:03Z INFO [analytics] : sendEvent: screen_view, params: name:HOME",
	}, "\n")

	sessions := Parse(config.DefaultConfig(), log)
	if n := len(sessions[0].Screens); n != 1 {
		t.Errorf("got %d screens, want rapid re-emission collapsed to 1", n)
	}
}

func TestSameScreenAfterWindowIsNewVisit(t *testing.T) {
	log := strings.Join([]string{
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch",
		"2024-01-15T10:00:02Z INFO [analytics] : sendEvent: screen_view, params: name:HOME",
		"2024-01-15T10:00:06Z INFO [analytics] : sendEvent: screen_view, params: name:HOME",
	}, "\n")

	sessions := Parse(config.DefaultConfig(), log)
	if n := len(sessions[0].Screens); n != 2 {
		t.Errorf("got %d screens, want a fresh visit after the duplicate window", n)
	}
}

func TestReentrySuppressed(t *testing.T) {
	log := strings.Join([]string{
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch",
		"2024-01-15T10:00:01Z INFO [analytics] : sendEvent: screen_view, params: name:DASHBOARD",
		"2024-01-15T10:00:04Z INFO [analytics] : sendEvent: screen_view, params: name:SETTINGS",
		"2024-01-15T10:00:06Z INFO [analytics] : sendEvent: screen_view, params: name:DASHBOARD",
	}, "\n")

	sessions := Parse(config.DefaultConfig(), log)
	screens := sessions[0].Screens
	if len(screens) != 2 {
		t.Fatalf("got %d screens, want noisy re-entry suppressed", len(screens))
	}
	if screens[0].Name != "Dashboard" || screens[1].Name != "Settings" {
		t.Errorf("screens = %q, %q, want Dashboard, Settings", screens[0].Name, screens[1].Name)
	}
}

func TestReentryAllowedByNavigation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowedNavigations = []config.Navigation{{From: "Settings", To: "Dashboard"}}

	log := strings.Join([]string{
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch",
		"2024-01-15T10:00:01Z INFO [analytics] : sendEvent: screen_view, params: name:DASHBOARD",
		"2024-01-15T10:00:04Z INFO [analytics] : sendEvent: screen_view, params: name:SETTINGS",
		"2024-01-15T10:00:06Z INFO [analytics] : sendEvent: screen_view, params: name:DASHBOARD",
	}, "\n")

	sessions := Parse(cfg, log)
	if n := len(sessions[0].Screens); n != 3 {
		t.Errorf("got %d screens, want allowed back navigation kept", n)
	}
}

func TestReentryAfterWindowAllowed(t *testing.T) {
	log := strings.Join([]string{
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch",
		"2024-01-15T10:00:01Z INFO [analytics] : sendEvent: screen_view, params: name:DASHBOARD",
		"2024-01-15T10:00:04Z INFO [analytics] : sendEvent: screen_view, params: name:SETTINGS",
		"2024-01-15T10:00:20Z INFO [analytics] : sendEvent: screen_view, params: name:DASHBOARD",
	}, "\n")

	sessions := Parse(config.DefaultConfig(), log)
	if n := len(sessions[0].Screens); n != 3 {
		t.Errorf("got %d screens, want a real return outside the window kept", n)
	}
}

func TestScreenDurationFloor(t *testing.T) {
	log := strings.Join([]string{
		"2024-01-15T10:00:00Z INFO [analytics] : app_launch",
		"2024-01-15T10:00:02.000Z INFO [analytics] : sendEvent: screen_view, params: name:HOME",
		"2024-01-15T10:00:02.100Z INFO [analytics] : sendEvent: screen_view, params: name:SETTINGS",
		"2024-01-15T10:00:10Z INFO [analytics] : session_end",
	}, "\n")

	sessions := Parse(config.DefaultConfig(), log)
	screens := sessions[0].Screens
	if len(screens) != 2 {
		t.Fatalf("got %d screens, want 2", len(screens))
	}
	if d := screens[0].Duration(); d != config.DefaultMinScreenDuration {
		t.Errorf("first screen duration = %v, want clamped to %v", d, config.DefaultMinScreenDuration)
	}
}
