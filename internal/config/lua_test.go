package config

import (
	"image/color"
	"strings"
	"testing"
)

func newTestLuaParser(t *testing.T) *LuaConfigParser {
	t.Helper()
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatalf("NewLuaConfigParser failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestLuaConfigParserParseConfig(t *testing.T) {
	p := newTestLuaParser(t)

	content := `
overlay.config = {
    title = 'hud',
    fullscreen = false,
    custom_resolution = 'no',
    screen_width = 1920,
    screen_height = 1080.0,
    target_frame_rate = 60,
    use_system_input = true,
    skip_taskbar = true,
    click_layer_mask = 5,
    backend = 'headless',
    log_level = 'debug',
    log_format = 'json',
}
`
	cfg, err := p.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Window.Title != "hud" {
		t.Errorf("title = %q, want hud", cfg.Window.Title)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen=false")
	}
	if cfg.Window.CustomResolution {
		t.Error("expected custom_resolution=false from string 'no'")
	}
	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("resolution = %dx%d, want 1920x1080", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.TargetFrameRate != 60 {
		t.Errorf("frame rate = %d, want 60", cfg.Window.TargetFrameRate)
	}
	if !cfg.Input.UseSystemInput {
		t.Error("expected use_system_input=true")
	}
	if !cfg.Window.SkipTaskbar {
		t.Error("expected skip_taskbar=true")
	}
	if cfg.Input.ClickLayerMask != 5 {
		t.Errorf("mask = %#x, want 0x5", cfg.Input.ClickLayerMask)
	}
	if cfg.Window.Backend != BackendHeadless {
		t.Errorf("backend = %v, want headless", cfg.Window.Backend)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLuaConfigParserDefaults(t *testing.T) {
	p := newTestLuaParser(t)

	cfg, err := p.Parse([]byte(`-- nothing set`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := DefaultConfig()
	if cfg.Window != want.Window || cfg.Input != want.Input || cfg.Logging != want.Logging {
		t.Errorf("empty config should yield defaults, got %+v", cfg)
	}
}

func TestLuaConfigParserLayerMask(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    uint32
		wantErr bool
	}{
		{"all layers", "~0", AllLayers, false},
		{"bit mask", "0x0c", 0x0c, false},
		{"layer list", "{ 0, 3 }", 1 | 1<<3, false},
		{"empty list", "{}", 0, false},
		{"out of range", "{ 32 }", 0, true},
		{"not a number", "{ 'a' }", 0, true},
		{"wrong type", "'everything'", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestLuaParser(t)
			cfg, err := p.Parse([]byte("overlay.config = { click_layer_mask = " + tt.expr + " }"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.Input.ClickLayerMask != tt.want {
				t.Errorf("mask = %#x, want %#x", cfg.Input.ClickLayerMask, tt.want)
			}
		})
	}
}

func TestLuaConfigParserScene(t *testing.T) {
	p := newTestLuaParser(t)

	content := `
local w = 100
overlay.scene = {
    camera = { x = 10, y = -5, zoom = 2 },
    widgets = {
        { id = 'bar', role = 'drag', label = 'Title', x = 0, y = 0, width = w, height = 20, color = '#ff000080' },
        { role = 'button', width = 10, height = 10 },
    },
    bodies = {
        { name = 'orb', layer = 4, shape = 'circle', x = 1, y = 2, radius = 3 },
        { width = 5, height = 6 },
    },
}
`
	cfg, err := p.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sc := cfg.Scene
	if sc.Camera != (CameraConfig{X: 10, Y: -5, Zoom: 2}) {
		t.Errorf("camera = %+v", sc.Camera)
	}
	if len(sc.Widgets) != 2 {
		t.Fatalf("got %d widgets, want 2", len(sc.Widgets))
	}
	bar := sc.Widgets[0]
	if bar.ID != "bar" || bar.Role != RoleDrag || bar.Label != "Title" || bar.Width != 100 || bar.Height != 20 {
		t.Errorf("widget[0] = %+v", bar)
	}
	if bar.Color != (color.RGBA{R: 255, A: 128}) {
		t.Errorf("widget[0] color = %v", bar.Color)
	}
	if sc.Widgets[1].ID != "widget2" || sc.Widgets[1].Color != DefaultWidgetColor {
		t.Errorf("widget[1] defaults not applied: %+v", sc.Widgets[1])
	}

	if len(sc.Bodies) != 2 {
		t.Fatalf("got %d bodies, want 2", len(sc.Bodies))
	}
	orb := sc.Bodies[0]
	if orb.Name != "orb" || orb.Layer != 4 || orb.Shape != ShapeCircle || orb.Radius != 3 || orb.X != 1 || orb.Y != 2 {
		t.Errorf("body[0] = %+v", orb)
	}
	if sc.Bodies[1].Name != "body2" || sc.Bodies[1].Shape != ShapeBox {
		t.Errorf("body[1] defaults not applied: %+v", sc.Bodies[1])
	}
}

func TestLuaConfigParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"syntax error", "overlay.config = {", "compile"},
		{"runtime error", "error('boom')", "execute"},
		{"overlay replaced", "overlay = 5", "not a table"},
		{"bad backend", "overlay.config = { backend = 'wayland' }", "backend"},
		{"bad role", "overlay.scene = { widgets = { { role = 'slider' } } }", "widgets"},
		{"bad shape", "overlay.scene = { bodies = { { shape = 'star' } } }", "bodies"},
		{"bad color", "overlay.scene = { widgets = { { color = 'nope' } } }", "color"},
		{"non-table widget", "overlay.scene = { widgets = { 1 } }", "not a table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestLuaParser(t)
			_, err := p.Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

func TestLuaConfigParserResetsBetweenParses(t *testing.T) {
	p := newTestLuaParser(t)

	if _, err := p.Parse([]byte(`overlay.config = { screen_width = 640 }`)); err != nil {
		t.Fatalf("first Parse failed: %v", err)
	}
	cfg, err := p.Parse([]byte(`overlay.config.screen_height = 480`))
	if err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}
	if cfg.Window.Width != DefaultWidth {
		t.Errorf("width leaked from previous parse: %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 480 {
		t.Errorf("height = %d, want 480", cfg.Window.Height)
	}
}

func TestLuaConfigParserClose(t *testing.T) {
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatalf("NewLuaConfigParser failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, err := p.Parse([]byte("")); err == nil {
		t.Error("Parse after Close should fail")
	}
}
