package render

import (
	"testing"

	"github.com/opd-ai/go-overlay/internal/window"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() is invalid: %v", err)
	}
	if !cfg.Fullscreen || !cfg.CustomResolution {
		t.Error("default should be fullscreen with a custom resolution")
	}
	if cfg.Resolution != (window.Resolution{Width: 1280, Height: 720}) || cfg.TargetFrameRate != 30 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero width", func(c *Config) { c.Resolution.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Resolution.Height = -1 }, true},
		{"zero frame rate", func(c *Config) { c.TargetFrameRate = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
