// Package config provides configuration loading and validation for JourneyLog.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
// Every heuristic of the session reconstructor is data here, so the
// state machine itself never needs to change when a log emitter does.
type Config struct {
	// AllowedCategories are substring-matched (case-insensitive) against a
	// log entry's bracketed category. Entries from other categories are
	// ignored, except "main"-category lifecycle lines.
	AllowedCategories []string `yaml:"allowed_categories"`

	// SessionStartKeywords mark the beginning of a session.
	SessionStartKeywords []string `yaml:"session_start_keywords"`

	// SessionEndKeywords mark the end of a session.
	SessionEndKeywords []string `yaml:"session_end_keywords"`

	// ScreenViewKeywords mark generic screen-view lines.
	ScreenViewKeywords []string `yaml:"screen_view_keywords"`

	// ScreenViewEvents are sendEvent event types that mean "screen shown".
	ScreenViewEvents []string `yaml:"screen_view_events"`

	// ActionKeywords mark generic user-action lines.
	ActionKeywords []string `yaml:"action_keywords"`

	// ScreenParamKeys are parameter names checked, in order, for a screen name.
	ScreenParamKeys []string `yaml:"screen_param_keys"`

	// ActionParamKeys are parameter names checked, in order, for an action name.
	ActionParamKeys []string `yaml:"action_param_keys"`

	// MetadataKeys are parameter names copied into session metadata when a
	// session starts (app version, build, os, device).
	MetadataKeys []string `yaml:"metadata_keys"`

	// Separators are literal markers that, alone on a line, force session
	// finalization without being parsed as log entries.
	Separators []string `yaml:"separators"`

	// AdaptorMarkers identify downstream analytics adaptors whose
	// confirmation echoes must be ignored.
	AdaptorMarkers []string `yaml:"adaptor_markers"`

	// AdaptorNoisePhrases are the administrative phrases in adaptor echoes.
	AdaptorNoisePhrases []string `yaml:"adaptor_noise_phrases"`

	// SendEventMarker introduces the "sendEvent: <type>, params: ..." shape.
	SendEventMarker string `yaml:"send_event_marker"`

	// MinScreenDuration is the floor for a closed screen visit's duration.
	MinScreenDuration time.Duration `yaml:"min_screen_duration"`

	// DuplicateScreenWindow suppresses re-emission of the same screen as the
	// immediately preceding visit within this window.
	DuplicateScreenWindow time.Duration `yaml:"duplicate_screen_window"`

	// ReentryWindow suppresses re-opening a screen already seen in the
	// session within this window, unless the navigation is allowed.
	ReentryWindow time.Duration `yaml:"reentry_window"`

	// AllowedNavigations lists (from, to) screen pairs that bypass the
	// re-entry suppression. Empty by default.
	AllowedNavigations []Navigation `yaml:"allowed_navigations,omitempty"`

	// ActionRules classify actions into icons by keyword, first match wins.
	ActionRules []ActionRule `yaml:"action_rules"`

	// DefaultActionIcon is used when no action rule matches.
	DefaultActionIcon string `yaml:"default_action_icon"`

	// Webhooks receive the JSON report after generation.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// Navigation is a legitimate (from, to) screen transition. Names are
// compared after normalization.
type Navigation struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ActionRule maps message keywords to an action icon.
type ActionRule struct {
	Keywords []string `yaml:"keywords"`
	Icon     string   `yaml:"icon"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnSessions fires only when sessions were found (default).
	WebhookTriggerOnSessions WebhookTrigger = "on_sessions"
	// WebhookTriggerAlways fires after every report.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending generated reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_sessions" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
