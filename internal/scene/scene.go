package scene

// Scene bundles the hit-test collaborators of one frame. A scene is
// immutable once built; reloading swaps in a new Scene.
type Scene struct {
	UI     *UI
	World  *World
	Camera *Camera
}

// New returns a scene. Nil parts are replaced by empty ones.
func New(ui *UI, world *World, camera *Camera) *Scene {
	if ui == nil {
		ui = NewUI()
	}
	if world == nil {
		world = &World{}
	}
	if camera == nil {
		camera = NewCamera(Vec2{}, 1)
	}
	return &Scene{UI: ui, World: world, Camera: camera}
}

// Interactive reports whether the scene contains anything that can
// capture the pointer under mask.
func (s *Scene) Interactive(mask LayerMask) bool {
	for _, w := range s.UI.widgets {
		if w.Interactive() {
			return true
		}
	}
	for _, b := range s.World.bodies {
		if mask.Has(b.Layer) {
			return true
		}
	}
	return false
}
