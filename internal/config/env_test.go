package config

import (
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_OVERLAY_VAR", "test_value")
	t.Setenv("TEST_OVERLAY_USER", "ada")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no variables", "plain text without variables", "plain text without variables"},
		{"simple ${VAR} format", "prefix ${TEST_OVERLAY_VAR} suffix", "prefix test_value suffix"},
		{"simple $VAR format", "prefix $TEST_OVERLAY_VAR suffix", "prefix test_value suffix"},
		{"unset variable becomes empty", "prefix ${UNSET_VAR_12345} suffix", "prefix  suffix"},
		{"unset variable with default", "${UNSET_VAR_12345:-default_value}", "default_value"},
		{"set variable ignores default", "hi ${TEST_OVERLAY_USER:-someone}", "hi ada"},
		{"empty default", "${UNSET_VAR_12345:-}", ""},
		{"multiple variables", "$TEST_OVERLAY_USER/${TEST_OVERLAY_VAR}", "ada/test_value"},
		{"lone dollar", "costs $5", "costs $5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.expected {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExpandEnvConfig(t *testing.T) {
	t.Setenv("TEST_OVERLAY_TITLE", "hud")

	cfg := DefaultConfig()
	cfg.Window.Title = "${TEST_OVERLAY_TITLE}-overlay"
	cfg.Scene.Widgets = []WidgetConfig{
		{ID: "a", Label: "user ${UNSET_VAR_12345:-nobody}"},
		{ID: "b", Label: "plain"},
	}

	ExpandEnvConfig(&cfg)

	if cfg.Window.Title != "hud-overlay" {
		t.Errorf("title = %q, want %q", cfg.Window.Title, "hud-overlay")
	}
	if cfg.Scene.Widgets[0].Label != "user nobody" {
		t.Errorf("label = %q, want %q", cfg.Scene.Widgets[0].Label, "user nobody")
	}
	if cfg.Scene.Widgets[1].Label != "plain" {
		t.Errorf("label = %q, want %q", cfg.Scene.Widgets[1].Label, "plain")
	}

	// nil inputs are ignored
	ExpandEnvConfig(nil)
	ExpandEnvScene(nil)
}
