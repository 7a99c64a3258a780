package overlay

import (
	"testing"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/scene"
)

func TestBuildScene(t *testing.T) {
	sc, err := buildScene(config.SceneConfig{
		Camera: config.CameraConfig{X: 10, Y: 5, Zoom: 2},
		Widgets: []config.WidgetConfig{
			{ID: "bar", Role: config.RoleDrag, X: 0, Y: 0, Width: 100, Height: 20},
			{ID: "ok", Role: config.RoleButton, X: 0, Y: 30, Width: 40, Height: 20},
			{ID: "hint", Role: config.RoleLabel, X: 0, Y: 60, Width: 100, Height: 20},
		},
		Bodies: []config.BodyConfig{
			{Name: "orb", Layer: 3, Shape: config.ShapeCircle, Radius: 5},
			{Name: "panel", Layer: 1, Shape: config.ShapeBox, X: 50, Width: 10, Height: 10},
		},
	})
	if err != nil {
		t.Fatalf("buildScene: %v", err)
	}

	if sc.UI.Len() != 3 || sc.World.Len() != 2 {
		t.Fatalf("scene has %d widgets, %d bodies", sc.UI.Len(), sc.World.Len())
	}
	if w, ok := sc.UI.InteractiveAt(5, 5); !ok || w.Role != scene.RoleDrag {
		t.Errorf("InteractiveAt(5,5) = %+v, %v; want drag handle", w, ok)
	}
	if sc.UI.PointerOverInteractive(5, 65) {
		t.Error("labels must not capture the pointer")
	}
	if sc.Camera.Zoom != 2 || sc.Camera.Position != (scene.Vec2{X: 10, Y: 5}) {
		t.Errorf("camera = %+v", sc.Camera)
	}
	if !sc.World.OverlapPoint(scene.Vec2{X: 1, Y: 1}, scene.LayerBit(3)) {
		t.Error("orb should be hit on its layer")
	}
	if sc.World.OverlapPoint(scene.Vec2{X: 1, Y: 1}, scene.LayerBit(1)) {
		t.Error("orb should be ignored outside its layer")
	}
	if b, ok := sc.World.BodyAt(scene.Vec2{X: 52, Y: 2}, scene.AllLayers); !ok || b.Name != "panel" {
		t.Errorf("BodyAt(52,2) = %+v, %v; want panel", b, ok)
	}
}

func TestBuildSceneRejectsBadLayer(t *testing.T) {
	_, err := buildScene(config.SceneConfig{
		Camera: config.CameraConfig{Zoom: 1},
		Bodies: []config.BodyConfig{{Name: "deep", Layer: 40, Shape: config.ShapeCircle, Radius: 1}},
	})
	if err == nil {
		t.Error("expected error for layer 40")
	}
}

func TestBuildSceneRejectsUnknownRole(t *testing.T) {
	_, err := buildScene(config.SceneConfig{
		Widgets: []config.WidgetConfig{{ID: "x", Role: config.WidgetRole(9), Width: 1, Height: 1}},
	})
	if err == nil {
		t.Error("expected error for unknown role")
	}
}
