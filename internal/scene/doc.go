// Package scene holds the interactive content the frame driver hit-tests
// each frame: screen-space UI widgets, a world of layered 2D colliders and
// the camera that maps screen positions into that world.
//
// Hit testing runs front to back: the widget or body added last is tested
// first.
//
//	world := scene.NewWorld()
//	world.Add(scene.Body{Name: "orb", Layer: 3, Shape: scene.Circle{Radius: 40}})
//	cam := scene.NewCamera(scene.Vec2{}, 1)
//	cam.SetViewport(1280, 720)
//	hit := world.OverlapPoint(cam.ScreenToWorld(640, 360), scene.LayerBit(3))
package scene
