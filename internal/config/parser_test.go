package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestParserParseExpandsEnv(t *testing.T) {
	t.Setenv("TEST_OVERLAY_NAME", "ops")
	p := newTestParser(t)

	cfg, err := p.Parse([]byte(`
overlay.config = { title = '${TEST_OVERLAY_NAME}-hud' }
overlay.scene = { widgets = { { label = 'hello $TEST_OVERLAY_NAME', width = 1, height = 1 } } }
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Window.Title != "ops-hud" {
		t.Errorf("title = %q, want ops-hud", cfg.Window.Title)
	}
	if cfg.Scene.Widgets[0].Label != "hello ops" {
		t.Errorf("label = %q, want %q", cfg.Scene.Widgets[0].Label, "hello ops")
	}
}

func TestParserParseFile(t *testing.T) {
	p := newTestParser(t)

	path := filepath.Join(t.TempDir(), "overlay.lua")
	if err := os.WriteFile(path, []byte(`overlay.config = { target_frame_rate = 15 }`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := p.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if cfg.Window.TargetFrameRate != 15 {
		t.Errorf("frame rate = %d, want 15", cfg.Window.TargetFrameRate)
	}
}

func TestParserParseFileNotFound(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseFile(filepath.Join(t.TempDir(), "missing.lua"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParserParseExampleConfig(t *testing.T) {
	t.Setenv("USER", "tester")
	p := newTestParser(t)

	cfg, err := p.ParseFile("../../test/configs/overlay.lua")
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if cfg.Window.Fullscreen {
		t.Error("example config is windowed")
	}
	if cfg.Input.ClickLayerMask != 0b101 {
		t.Errorf("mask = %#b, want 0b101", cfg.Input.ClickLayerMask)
	}
	if len(cfg.Scene.Widgets) != 3 || len(cfg.Scene.Bodies) != 3 {
		t.Errorf("scene has %d widgets and %d bodies", len(cfg.Scene.Widgets), len(cfg.Scene.Bodies))
	}
	if cfg.Scene.Widgets[0].Label != "tester - drag me" {
		t.Errorf("label = %q", cfg.Scene.Widgets[0].Label)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("example config does not validate: %v", err)
	}
}

func TestParserParseFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"configs/hud.lua": &fstest.MapFile{Data: []byte(`overlay.config = { screen_width = 800 }`)},
	}
	p := newTestParser(t)

	cfg, err := p.ParseFromFS(fsys, "configs/hud.lua")
	if err != nil {
		t.Fatalf("ParseFromFS failed: %v", err)
	}
	if cfg.Window.Width != 800 {
		t.Errorf("width = %d, want 800", cfg.Window.Width)
	}

	if _, err := p.ParseFromFS(fsys, "configs/missing.lua"); err == nil {
		t.Error("ParseFromFS with a missing file should fail")
	}
}

func TestParserParseReader(t *testing.T) {
	p := newTestParser(t)
	cfg, err := p.ParseReader(strings.NewReader(`overlay.config = { fullscreen = false }`))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen=false")
	}
}

func TestParserSetLimits(t *testing.T) {
	p := newTestParser(t)
	p.SetLimits(0, 0)
	if p.luaParser.cpuLimit != DefaultLuaCPULimit || p.luaParser.memoryLimit != DefaultLuaMemoryLimit {
		t.Error("zero limits should keep defaults")
	}
	p.SetLimits(1000, 2048)
	if p.luaParser.cpuLimit != 1000 || p.luaParser.memoryLimit != 2048 {
		t.Error("limits not applied")
	}
}
