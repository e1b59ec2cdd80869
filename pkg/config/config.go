package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. Fields absent from the
// YAML keep their defaults.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if len(cfg.AllowedCategories) == 0 {
		return errors.New("allowed_categories: at least one category is required")
	}

	if len(cfg.SessionStartKeywords) == 0 {
		return errors.New("session_start_keywords: at least one keyword is required")
	}

	if len(cfg.ScreenViewEvents) == 0 && len(cfg.ScreenViewKeywords) == 0 {
		return errors.New("screen_view_events or screen_view_keywords: at least one is required")
	}

	if len(cfg.ScreenParamKeys) == 0 {
		return errors.New("screen_param_keys: at least one parameter name is required")
	}

	if cfg.SendEventMarker == "" {
		return errors.New("send_event_marker is required")
	}

	if cfg.MinScreenDuration <= 0 {
		return fmt.Errorf("min_screen_duration must be positive, got %s", cfg.MinScreenDuration)
	}
	if cfg.DuplicateScreenWindow < 0 {
		return fmt.Errorf("duplicate_screen_window must not be negative, got %s", cfg.DuplicateScreenWindow)
	}
	if cfg.ReentryWindow < 0 {
		return fmt.Errorf("reentry_window must not be negative, got %s", cfg.ReentryWindow)
	}

	for i := range cfg.ActionRules {
		if err := validateActionRule(&cfg.ActionRules[i]); err != nil {
			return fmt.Errorf("action_rules[%d]: %w", i, err)
		}
	}
	if cfg.DefaultActionIcon == "" {
		cfg.DefaultActionIcon = DefaultActionIcon
	}

	for i := range cfg.AllowedNavigations {
		nav := &cfg.AllowedNavigations[i]
		if nav.From == "" || nav.To == "" {
			return fmt.Errorf("allowed_navigations[%d]: both from and to are required", i)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateActionRule(rule *ActionRule) error {
	if len(rule.Keywords) == 0 {
		return errors.New("keywords are required")
	}
	if rule.Icon == "" {
		return errors.New("icon is required")
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnSessions, WebhookTriggerAlways, WebhookTriggerNever:
			// Valid
		default:
			return fmt.Errorf("invalid trigger %q (must be on_sessions, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnSessions
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
