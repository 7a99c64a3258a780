//go:build integration

// Package integration runs the configuration, scene, input, driver and
// window packages together against the headless window backend. The
// ebiten host is left out because it needs a display.
package integration

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/driver"
	"github.com/opd-ai/go-overlay/internal/input"
	"github.com/opd-ai/go-overlay/internal/scene"
	"github.com/opd-ai/go-overlay/internal/window"
)

// getTestConfigsDir returns the path to the test configs directory.
func getTestConfigsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed to get current file path")
	}
	return filepath.Join(filepath.Dir(file), "..", "configs")
}

func loadExample(t *testing.T) *config.Config {
	t.Helper()
	parser, err := config.NewParser()
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	defer parser.Close()

	cfg, err := parser.ParseFile(filepath.Join(getTestConfigsDir(t), "overlay.lua"))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
	return cfg
}

func buildScene(t *testing.T, sc config.SceneConfig) *scene.Scene {
	t.Helper()
	var widgets []scene.Widget
	for _, w := range sc.Widgets {
		role := scene.RoleLabel
		switch w.Role {
		case config.RoleButton:
			role = scene.RoleButton
		case config.RoleDrag:
			role = scene.RoleDrag
		}
		widgets = append(widgets, scene.Widget{
			ID: w.ID, Role: role, Label: w.Label,
			Bounds: scene.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height},
		})
	}
	var bodies []scene.Body
	for _, b := range sc.Bodies {
		center := scene.Vec2{X: b.X, Y: b.Y}
		var shape scene.Shape = scene.Box{Center: center, Width: b.Width, Height: b.Height}
		if b.Shape == config.ShapeCircle {
			shape = scene.Circle{Center: center, Radius: b.Radius}
		}
		bodies = append(bodies, scene.Body{Name: b.Name, Layer: b.Layer, Shape: shape})
	}
	world, err := scene.NewWorld(bodies...)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	cam := scene.NewCamera(scene.Vec2{X: sc.Camera.X, Y: sc.Camera.Y}, sc.Camera.Zoom)
	return scene.New(scene.NewUI(widgets...), world, cam)
}

type pipeline struct {
	backend    *window.HeadlessBackend
	controller *window.Controller
	driver     *driver.Driver
}

func newPipeline(t *testing.T, cfg *config.Config, origin window.Point) *pipeline {
	t.Helper()
	res := window.Resolution{Width: cfg.Window.Width, Height: cfg.Window.Height}
	backend := window.NewHeadlessBackend(window.Rect{
		Left: origin.X, Top: origin.Y, Right: origin.X + res.Width, Bottom: origin.Y + res.Height,
	})
	pointer := &input.Pointer{}
	controller := window.NewController(backend, window.NewHeadlessSurface(), window.WithAxisResetter(pointer))
	sc := buildScene(t, cfg.Scene)
	sc.Camera.SetViewport(float64(res.Width), float64(res.Height))

	d, err := driver.New(driver.Config{
		UI:      sc.UI,
		Physics: sc.World,
		Camera:  sc.Camera,
		Pointer: pointer,
		System:  input.NewSystemInput(backend, controller, pointer, nil),
		Sink:    controller,
		Mask:    scene.LayerMask(cfg.Input.ClickLayerMask),
	})
	if err != nil {
		t.Fatalf("driver.New failed: %v", err)
	}
	if err := controller.Initialize(res, cfg.Window.Fullscreen); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return &pipeline{backend: backend, controller: controller, driver: d}
}

// TestExampleConfigSweep moves the OS cursor across the example scene and
// checks the window mode after every frame.
func TestExampleConfigSweep(t *testing.T) {
	cfg := loadExample(t)
	origin := window.Point{X: 200, Y: 100}
	p := newPipeline(t, cfg, origin)

	// Window-relative positions; the camera centres world (0,0) at (640,360).
	steps := []struct {
		name string
		x, y int
		want window.Mode
	}{
		{"empty corner", 1200, 700, window.ModeClickThrough},
		{"drag handle", 30, 30, window.ModeOpaque},
		{"close button", 350, 30, window.ModeOpaque},
		{"label only", 30, 60, window.ModeClickThrough},
		{"orb on layer 0", 640, 360, window.ModeOpaque},
		{"halo on layer 1", 640 + 100, 360, window.ModeClickThrough},
		{"panel on layer 2", 640 + 400, 360 - 200, window.ModeOpaque},
	}
	for _, s := range steps {
		p.backend.SetCursor(window.Point{X: origin.X + s.x, Y: origin.Y + s.y})
		if got := p.driver.Tick(); got != s.want {
			t.Errorf("%s: mode = %v, want %v", s.name, got, s.want)
		}
	}

	if got := p.backend.CallCount(window.OpBounds); got != 1+len(steps) {
		t.Errorf("Bounds calls = %d, want one at init plus one per frame", got)
	}
}

// TestStylingOnlyOnEdges checks that a steady pointer does not re-run the
// OS styling sequence.
func TestStylingOnlyOnEdges(t *testing.T) {
	cfg := loadExample(t)
	p := newPipeline(t, cfg, window.Point{})

	p.backend.SetCursor(window.Point{X: 1200, Y: 700})
	p.driver.Tick()
	layered := p.backend.CallCount(window.OpSetLayeredAttributes)
	for i := 0; i < 10; i++ {
		p.driver.Tick()
	}
	if got := p.backend.CallCount(window.OpSetLayeredAttributes); got != layered {
		t.Errorf("SetLayeredAttributes calls grew from %d to %d without a mode change", layered, got)
	}
	if !p.backend.State().ExStyle.Has(window.ExStyleTransparent) {
		t.Error("click-through window should carry the transparent extended style")
	}

	p.backend.SetCursor(window.Point{X: 640, Y: 360})
	if got := p.driver.Tick(); got != window.ModeOpaque {
		t.Fatalf("mode = %v, want opaque over the orb", got)
	}
	if p.backend.State().ExStyle.Has(window.ExStyleTransparent) {
		t.Error("opaque window should not carry the transparent extended style")
	}
}

// TestDragFollowsPresentation checks the drag handle against windowed and
// fullscreen presentation.
func TestDragFollowsPresentation(t *testing.T) {
	cfg := loadExample(t)

	p := newPipeline(t, cfg, window.Point{})
	if !p.controller.DragCurrentWindow() {
		t.Error("windowed example config should allow dragging")
	}

	cfg.Window.Fullscreen = true
	p = newPipeline(t, cfg, window.Point{})
	if p.controller.DragCurrentWindow() {
		t.Error("fullscreen window must not start a drag")
	}
	if got := p.backend.State().Drags; got != 0 {
		t.Errorf("drags = %d, want 0", got)
	}
}
