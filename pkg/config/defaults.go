package config

import (
	"os"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultMinScreenDuration     = 500 * time.Millisecond
	DefaultDuplicateScreenWindow = 2 * time.Second
	DefaultReentryWindow         = 10 * time.Second
	DefaultSendEventMarker       = "sendEvent:"
	DefaultWebhookTimeout        = 10 * time.Second
	DefaultActionIcon            = "▶️"
)

// Environment variable names.
const (
	EnvAllowedCategories = "JOURNEYLOG_ALLOWED_CATEGORIES"
	EnvSendEventMarker   = "JOURNEYLOG_SEND_EVENT_MARKER"
)

// DefaultConfig returns the reference heuristics. The tool is usable with
// no config file at all; a YAML config overrides individual fields.
func DefaultConfig() *Config {
	return &Config{
		AllowedCategories: []string{"analytics"},

		SessionStartKeywords: []string{
			"app_launch",
			"application did finish launching",
			"session_start",
		},
		SessionEndKeywords: []string{
			"session_end",
			"app_terminate",
			"application will terminate",
		},
		ScreenViewKeywords: []string{
			"screen_view",
			"view shown",
			"did appear",
		},
		ScreenViewEvents: []string{"screen_view"},
		ActionKeywords: []string{
			"tap",
			"click",
			"toggle",
			"swipe",
			"select",
			"purchase",
			"set user property",
		},

		ScreenParamKeys: []string{"name", "screen", "screen_name", "view", "page"},
		ActionParamKeys: []string{"action", "event", "button"},
		MetadataKeys:    []string{"app_version", "version", "build", "os_version", "os", "device"},

		Separators: []string{"-- ** ** ** --", "===", "***"},

		AdaptorMarkers:      []string{"Adaptor"},
		AdaptorNoisePhrases: []string{"has logged event", "has logged", "did log event"},

		SendEventMarker: DefaultSendEventMarker,

		MinScreenDuration:     DefaultMinScreenDuration,
		DuplicateScreenWindow: DefaultDuplicateScreenWindow,
		ReentryWindow:         DefaultReentryWindow,

		ActionRules: []ActionRule{
			{Keywords: []string{"button", "tap", "click"}, Icon: "👆"},
			{Keywords: []string{"toggle", "switch"}, Icon: "🔄"},
			{Keywords: []string{"purchase", "paywall", "subscribe", "buy"}, Icon: "💰"},
			{Keywords: []string{"login", "sign in", "auth"}, Icon: "🔑"},
			{Keywords: []string{"search"}, Icon: "🔍"},
			{Keywords: []string{"share", "export"}, Icon: "📤"},
			{Keywords: []string{"delete", "remove"}, Icon: "🗑️"},
			{Keywords: []string{"setting", "preference"}, Icon: "⚙️"},
			{Keywords: []string{"user property", "property"}, Icon: "📝"},
		},
		DefaultActionIcon: DefaultActionIcon,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if cats := os.Getenv(EnvAllowedCategories); cats != "" {
		c.AllowedCategories = splitAndTrim(cats)
	}
	if marker := os.Getenv(EnvSendEventMarker); marker != "" {
		c.SendEventMarker = marker
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
