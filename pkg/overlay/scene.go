package overlay

import (
	"fmt"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/scene"
)

// buildScene turns the overlay.scene section into hit-test collaborators.
func buildScene(sc config.SceneConfig) (*scene.Scene, error) {
	widgets := make([]scene.Widget, 0, len(sc.Widgets))
	for _, w := range sc.Widgets {
		role, err := widgetRole(w.Role)
		if err != nil {
			return nil, fmt.Errorf("widget %q: %w", w.ID, err)
		}
		widgets = append(widgets, scene.Widget{
			ID:     w.ID,
			Role:   role,
			Label:  w.Label,
			Bounds: scene.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height},
			Color:  w.Color,
		})
	}

	world, err := scene.NewWorld()
	if err != nil {
		return nil, err
	}
	for _, b := range sc.Bodies {
		center := scene.Vec2{X: b.X, Y: b.Y}
		var shape scene.Shape
		switch b.Shape {
		case config.ShapeCircle:
			shape = scene.Circle{Center: center, Radius: b.Radius}
		case config.ShapeBox:
			shape = scene.Box{Center: center, Width: b.Width, Height: b.Height}
		default:
			return nil, fmt.Errorf("body %q: unknown shape %s", b.Name, b.Shape)
		}
		if err := world.Add(scene.Body{Name: b.Name, Layer: b.Layer, Shape: shape, Color: b.Color}); err != nil {
			return nil, err
		}
	}

	camera := scene.NewCamera(scene.Vec2{X: sc.Camera.X, Y: sc.Camera.Y}, sc.Camera.Zoom)
	return scene.New(scene.NewUI(widgets...), world, camera), nil
}

func widgetRole(r config.WidgetRole) (scene.Role, error) {
	switch r {
	case config.RoleLabel:
		return scene.RoleLabel, nil
	case config.RoleButton:
		return scene.RoleButton, nil
	case config.RoleDrag:
		return scene.RoleDrag, nil
	default:
		return scene.RoleLabel, fmt.Errorf("unknown role %s", r)
	}
}
