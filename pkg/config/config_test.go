package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
allowed_categories:
  - analytics
  - tracking
min_screen_duration: 250ms
reentry_window: 30s
send_event_marker: "emit:"
allowed_navigations:
  - from: Settings
    to: Home
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.AllowedCategories) != 2 {
		t.Errorf("AllowedCategories = %v, want 2 entries", cfg.AllowedCategories)
	}
	if cfg.MinScreenDuration != 250*time.Millisecond {
		t.Errorf("MinScreenDuration = %v, want 250ms", cfg.MinScreenDuration)
	}
	if cfg.ReentryWindow != 30*time.Second {
		t.Errorf("ReentryWindow = %v, want 30s", cfg.ReentryWindow)
	}
	if cfg.SendEventMarker != "emit:" {
		t.Errorf("SendEventMarker = %q, want %q", cfg.SendEventMarker, "emit:")
	}

	// Fields absent from the YAML keep their defaults.
	if len(cfg.SessionStartKeywords) == 0 {
		t.Error("SessionStartKeywords should keep defaults when not overridden")
	}
	if cfg.DuplicateScreenWindow != DefaultDuplicateScreenWindow {
		t.Errorf("DuplicateScreenWindow = %v, want default %v", cfg.DuplicateScreenWindow, DefaultDuplicateScreenWindow)
	}

	if len(cfg.AllowedNavigations) != 1 || cfg.AllowedNavigations[0].From != "Settings" {
		t.Errorf("AllowedNavigations = %v, want one Settings->Home pair", cfg.AllowedNavigations)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("allowed_categories: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no categories",
			mutate:  func(c *Config) { c.AllowedCategories = nil },
			wantErr: "allowed_categories",
		},
		{
			name:    "no start keywords",
			mutate:  func(c *Config) { c.SessionStartKeywords = nil },
			wantErr: "session_start_keywords",
		},
		{
			name: "no screen view detection",
			mutate: func(c *Config) {
				c.ScreenViewEvents = nil
				c.ScreenViewKeywords = nil
			},
			wantErr: "screen_view",
		},
		{
			name:    "no screen param keys",
			mutate:  func(c *Config) { c.ScreenParamKeys = nil },
			wantErr: "screen_param_keys",
		},
		{
			name:    "empty marker",
			mutate:  func(c *Config) { c.SendEventMarker = "" },
			wantErr: "send_event_marker",
		},
		{
			name:    "zero min screen duration",
			mutate:  func(c *Config) { c.MinScreenDuration = 0 },
			wantErr: "min_screen_duration",
		},
		{
			name:    "negative reentry window",
			mutate:  func(c *Config) { c.ReentryWindow = -time.Second },
			wantErr: "reentry_window",
		},
		{
			name:    "action rule without icon",
			mutate:  func(c *Config) { c.ActionRules = []ActionRule{{Keywords: []string{"tap"}}} },
			wantErr: "action_rules[0]",
		},
		{
			name:    "navigation missing to",
			mutate:  func(c *Config) { c.AllowedNavigations = []Navigation{{From: "Home"}} },
			wantErr: "allowed_navigations[0]",
		},
		{
			name:    "webhook without url",
			mutate:  func(c *Config) { c.Webhooks = []WebhookConfig{{Name: "test"}} },
			wantErr: "url is required",
		},
		{
			name:    "webhook bad scheme",
			mutate:  func(c *Config) { c.Webhooks = []WebhookConfig{{URL: "ftp://example.com"}} },
			wantErr: "scheme",
		},
		{
			name: "webhook bad trigger",
			mutate: func(c *Config) {
				c.Webhooks = []WebhookConfig{{URL: "https://example.com", Trigger: "sometimes"}}
			},
			wantErr: "invalid trigger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFillsWebhookDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/hook"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	wh := cfg.Webhooks[0]
	if wh.Trigger != WebhookTriggerOnSessions {
		t.Errorf("Trigger = %q, want %q", wh.Trigger, WebhookTriggerOnSessions)
	}
	if wh.Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want %v", wh.Timeout, DefaultWebhookTimeout)
	}
}

func TestWebhookTokenEnvExpansion(t *testing.T) {
	t.Setenv("JOURNEYLOG_TEST_TOKEN", "secret-token-123")

	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{
		URL:   "https://example.com/hook",
		Token: "${JOURNEYLOG_TEST_TOKEN}",
	}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Webhooks[0].Token != "secret-token-123" {
		t.Errorf("Token = %q, want expanded env value", cfg.Webhooks[0].Token)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvAllowedCategories, "metrics, events")
	t.Setenv(EnvSendEventMarker, "dispatch:")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("allowed_categories: [analytics]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := []string{"metrics", "events"}
	if len(cfg.AllowedCategories) != len(want) {
		t.Fatalf("AllowedCategories = %v, want %v", cfg.AllowedCategories, want)
	}
	for i, cat := range want {
		if cfg.AllowedCategories[i] != cat {
			t.Errorf("AllowedCategories[%d] = %q, want %q", i, cfg.AllowedCategories[i], cat)
		}
	}
	if cfg.SendEventMarker != "dispatch:" {
		t.Errorf("SendEventMarker = %q, want %q", cfg.SendEventMarker, "dispatch:")
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("JOURNEYLOG_TEST_VAR", "expanded")

	tests := []struct {
		input string
		want  string
	}{
		{"${JOURNEYLOG_TEST_VAR}", "expanded"},
		{"$JOURNEYLOG_TEST_VAR", "expanded"},
		{"literal-value", "literal-value"},
		{"", ""},
		{"${UNSET_VAR_XYZ}", ""},
	}

	for _, tt := range tests {
		if got := expandEnvVar(tt.input); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
