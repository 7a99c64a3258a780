package config

import (
	"strings"
	"testing"
)

func validScene() SceneConfig {
	return SceneConfig{
		Camera: CameraConfig{Zoom: 1},
		Widgets: []WidgetConfig{
			{ID: "bar", Role: RoleDrag, Width: 100, Height: 20},
		},
		Bodies: []BodyConfig{
			{Name: "orb", Layer: 2, Shape: ShapeCircle, Radius: 10},
		},
	}
}

func TestValidationResult(t *testing.T) {
	var vr ValidationResult
	if !vr.IsValid() || vr.Error() != nil {
		t.Fatal("empty result should be valid")
	}

	vr.AddWarning("a", "soft")
	if !vr.IsValid() {
		t.Error("warnings alone should not invalidate")
	}

	vr.AddError("window.screen_width", "must be positive")
	vr.Merge(&ValidationResult{Errors: []ValidationError{{Field: "b", Message: "bad"}}})
	vr.Merge(nil)

	if vr.IsValid() {
		t.Error("result with errors should be invalid")
	}
	err := vr.Error()
	if err == nil {
		t.Fatal("Error() should be non-nil")
	}
	for _, part := range []string{"window.screen_width: must be positive", "b: bad"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q missing %q", err, part)
		}
	}
}

func TestValidatorValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantErrors []string
		wantWarns  []string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:       "zero resolution",
			mutate:     func(c *Config) { c.Window.Width, c.Window.Height = 0, -1 },
			wantErrors: []string{"window.screen_width", "window.screen_height"},
		},
		{
			name:       "zero frame rate",
			mutate:     func(c *Config) { c.Window.TargetFrameRate = 0 },
			wantErrors: []string{"window.target_frame_rate"},
		},
		{
			name:      "very high frame rate",
			mutate:    func(c *Config) { c.Window.TargetFrameRate = 500 },
			wantWarns: []string{"window.target_frame_rate"},
		},
		{
			name:      "huge resolution",
			mutate:    func(c *Config) { c.Window.Width = 20000 },
			wantWarns: []string{"window.screen_width"},
		},
		{
			name:      "empty title",
			mutate:    func(c *Config) { c.Window.Title = " " },
			wantWarns: []string{"window.title"},
		},
		{
			name:       "unknown backend",
			mutate:     func(c *Config) { c.Window.Backend = BackendKind(9) },
			wantErrors: []string{"window.backend"},
		},
		{
			name:       "bad logging",
			mutate:     func(c *Config) { c.Logging = LoggingConfig{Level: "loud", Format: "xml"} },
			wantErrors: []string{"logging.log_level", "logging.log_format"},
		},
		{
			name:      "empty mask with only bodies",
			mutate:    func(c *Config) { c.Input.ClickLayerMask = 0; c.Scene.Widgets = nil },
			wantWarns: []string{"input.click_layer_mask", "scene"},
		},
		{
			name: "duplicate widget ids",
			mutate: func(c *Config) {
				c.Scene.Widgets = append(c.Scene.Widgets, WidgetConfig{ID: "bar", Width: 1, Height: 1})
			},
			wantErrors: []string{"scene.widgets[2].id"},
		},
		{
			name:       "zero sized widget",
			mutate:     func(c *Config) { c.Scene.Widgets[0].Width = 0 },
			wantErrors: []string{"scene.widgets[1]"},
		},
		{
			name:       "layer out of range",
			mutate:     func(c *Config) { c.Scene.Bodies[0].Layer = 32 },
			wantErrors: []string{"scene.bodies[1].layer"},
		},
		{
			name:       "circle without radius",
			mutate:     func(c *Config) { c.Scene.Bodies[0].Radius = 0 },
			wantErrors: []string{"scene.bodies[1].radius"},
		},
		{
			name: "box without size",
			mutate: func(c *Config) {
				c.Scene.Bodies[0] = BodyConfig{Name: "b", Shape: ShapeBox, Width: 3}
			},
			wantErrors: []string{"scene.bodies[1]"},
		},
		{
			name:       "bad zoom",
			mutate:     func(c *Config) { c.Scene.Camera.Zoom = 0 },
			wantErrors: []string{"scene.camera.zoom"},
		},
		{
			name:      "empty scene",
			mutate:    func(c *Config) { c.Scene = SceneConfig{Camera: CameraConfig{Zoom: 1}} },
			wantWarns: []string{"scene"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Scene = validScene()
			tt.mutate(&cfg)

			result := NewValidator().Validate(&cfg)
			assertFields(t, "errors", result.Errors, tt.wantErrors)
			assertFields(t, "warnings", result.Warnings, tt.wantWarns)
		})
	}
}

func assertFields(t *testing.T, kind string, got []ValidationError, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d %s %v, want %v", len(got), kind, got, want)
	}
	for i, w := range want {
		if got[i].Field != w {
			t.Errorf("%s[%d].Field = %q, want %q", kind, i, got[i].Field, w)
		}
	}
}

func TestValidateSceneMaskedBodyIsInteractive(t *testing.T) {
	sc := SceneConfig{
		Camera: CameraConfig{Zoom: 1},
		Bodies: []BodyConfig{{Name: "orb", Layer: 3, Shape: ShapeCircle, Radius: 1}},
	}
	v := NewValidator()

	if r := v.ValidateScene(&sc, 1<<3); len(r.Warnings) != 0 {
		t.Errorf("masked body should count as interactive, got %v", r.Warnings)
	}
	if r := v.ValidateScene(&sc, 1<<4); len(r.Warnings) != 1 {
		t.Errorf("unmasked body should warn, got %v", r.Warnings)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
	if err := ValidateConfigStrict(nil); err == nil {
		t.Error("nil config should fail in strict mode")
	}

	cfg := DefaultConfig()
	if err := ValidateConfig(&cfg); err != nil {
		t.Errorf("default config should pass: %v", err)
	}
	// The default scene is empty, which only warns.
	if err := ValidateConfigStrict(&cfg); err == nil {
		t.Error("strict mode should turn the empty scene warning into an error")
	}
}
