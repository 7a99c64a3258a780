// Package driver runs the per-frame decision of whether the overlay window
// should capture pointer input or let it fall through to the desktop.
//
// Each Tick polls system input when enabled, asks the UI and the collider
// world whether the pointer is over something interactive, refreshes the
// window geometry and requests the matching window mode. The window
// controller only issues OS calls when the requested mode differs from
// the applied one.
package driver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/scene"
	"github.com/opd-ai/go-overlay/internal/window"
)

// UIHitTester reports whether a screen position is over an interactive
// UI element.
type UIHitTester interface {
	PointerOverInteractive(x, y float64) bool
}

// PhysicsQuery reports whether any collider on a masked layer overlaps a
// world position.
type PhysicsQuery interface {
	OverlapPoint(p scene.Vec2, mask scene.LayerMask) bool
}

// Camera projects screen positions into the world.
type Camera interface {
	ScreenToWorld(x, y float64) scene.Vec2
}

// PointerSource supplies the pointer position in window coordinates.
type PointerSource interface {
	Position() (x, y float64)
}

// SystemInput is the focus-independent input poller run before hit
// testing.
type SystemInput interface {
	Process() error
}

// ModeSink receives the mode requested for the frame. *window.Controller
// implements it.
type ModeSink interface {
	SetMode(mode window.Mode) bool
	RefreshBounds() error
	Mode() window.Mode
}

// Dragger starts an OS window drag and reports whether it was issued.
// *window.Controller implements it.
type Dragger interface {
	DragCurrentWindow() bool
}

// Config wires a Driver. Physics, Camera, Pointer and Sink are required.
// A nil UI means there is no active UI system; a nil System disables
// system input polling. A nil Dragger makes RequestDrag a no-op.
type Config struct {
	UI      UIHitTester
	Physics PhysicsQuery
	Camera  Camera
	Pointer PointerSource
	System  SystemInput
	Sink    ModeSink
	Dragger Dragger
	Mask    scene.LayerMask
	Logger  logging.Logger
}

// ErrMissingCollaborator is returned by New when a required collaborator
// is nil.
var ErrMissingCollaborator = errors.New("driver: missing collaborator")

// Driver decides the window mode once per frame.
type Driver struct {
	mu      sync.Mutex
	ui      UIHitTester
	physics PhysicsQuery
	camera  Camera

	pointer PointerSource
	system  SystemInput
	sink    ModeSink
	dragger Dragger
	mask    scene.LayerMask
	logger  logging.Logger

	focus       bool
	frames      uint64
	dragPending bool
}

// New validates cfg and returns a Driver.
func New(cfg Config) (*Driver, error) {
	switch {
	case cfg.Physics == nil:
		return nil, fmt.Errorf("%w: physics query", ErrMissingCollaborator)
	case cfg.Camera == nil:
		return nil, fmt.Errorf("%w: camera", ErrMissingCollaborator)
	case cfg.Pointer == nil:
		return nil, fmt.Errorf("%w: pointer", ErrMissingCollaborator)
	case cfg.Sink == nil:
		return nil, fmt.Errorf("%w: mode sink", ErrMissingCollaborator)
	}
	return &Driver{
		ui:      cfg.UI,
		physics: cfg.Physics,
		camera:  cfg.Camera,
		pointer: cfg.Pointer,
		system:  cfg.System,
		sink:    cfg.Sink,
		dragger: cfg.Dragger,
		mask:    cfg.Mask,
		logger:  logging.OrNop(cfg.Logger),
	}, nil
}

// SetScene replaces the hit-test collaborators. It is safe to call from
// another goroutine; the new scene is used from the next Tick. A nil
// physics or camera keeps the current one.
func (d *Driver) SetScene(ui UIHitTester, physics PhysicsQuery, camera Camera) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ui = ui
	if physics != nil {
		d.physics = physics
	}
	if camera != nil {
		d.camera = camera
	}
}

// Tick runs one frame and returns the window mode after it.
func (d *Driver) Tick() window.Mode {
	if d.system != nil {
		if err := d.system.Process(); err != nil {
			d.logger.Debug("system input processing failed", "error", err)
		}
	}

	focus := d.hitTest()

	// Geometry is re-read every frame because the window can be moved
	// externally while the mode stays the same.
	_ = d.sink.RefreshBounds()

	mode := window.ModeClickThrough
	if focus {
		mode = window.ModeOpaque
	}
	d.sink.SetMode(mode)

	d.mu.Lock()
	d.focus = focus
	d.frames++
	drag := d.dragPending
	d.dragPending = false
	d.mu.Unlock()

	if drag && !d.dragger.DragCurrentWindow() {
		d.logger.Debug("requested window drag not issued")
	}

	return d.sink.Mode()
}

func (d *Driver) hitTest() bool {
	d.mu.Lock()
	ui, physics, camera := d.ui, d.physics, d.camera
	d.mu.Unlock()

	x, y := d.pointer.Position()
	if ui != nil && ui.PointerOverInteractive(x, y) {
		return true
	}
	return physics.OverlapPoint(camera.ScreenToWorld(x, y), d.mask)
}

// RequestDrag queues a window drag for the next Tick, so that the native
// calls run on the frame goroutine. It is safe to call from any goroutine
// and reports false when no Dragger is configured.
func (d *Driver) RequestDrag() bool {
	if d.dragger == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dragPending = true
	return true
}

// FocusForInput reports the hit-test result of the last Tick.
func (d *Driver) FocusForInput() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus
}

// Frames returns the number of completed ticks.
func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}
