package window

import (
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/go-overlay/internal/logging"
)

// clickThroughExStyle is the extended style of a window that lets pointer
// input fall through to whatever is beneath it.
const clickThroughExStyle = ExStyleLayered | ExStyleTransparent

// popupStyle is the borderless base style applied at initialization and
// on every switch to click-through.
const popupStyle = StylePopup | StyleVisible

const positionFlags = PosDrawFrame | PosShowWindow

// Controller owns the overlay window handle, its cached geometry and its
// current transparency mode. Mode changes are issued from the frame
// goroutine; the mutex only makes the accessors safe for status readers.
//
// A mode whose styling sequence had a failed call is marked dirty and is
// applied again by the next SetMode, even when the requested mode is
// unchanged.
type Controller struct {
	mu sync.Mutex

	backend  Backend
	surface  Surface
	axes     AxisResetter
	logger   logging.Logger
	observer Observer

	handle     Handle
	bounds     Rect
	resolution Resolution
	mode       Mode
	exStyle    Style
	dirty      bool

	// failing holds the ops whose last call failed; repeats log at debug.
	failing map[string]bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.logger = logging.OrNop(l) }
}

// WithObserver registers an observer for mode changes and failures.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithAxisResetter sets the input system cleared after a window drag.
func WithAxisResetter(a AxisResetter) Option {
	return func(c *Controller) { c.axes = a }
}

// NewController creates a controller for the window behind backend. The
// surface receives the render resolution during Initialize.
func NewController(backend Backend, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		surface:  surface,
		logger:   logging.Nop(),
		observer: nopObserver{},
		failing:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize sizes the render surface, acquires the window handle and turns
// the window into a borderless topmost popup whose whole area is paintable.
// A failed bounds query is logged and initialization continues with zeroed
// geometry. Only a missing window or an invalid resolution is fatal.
func (c *Controller) Initialize(res Resolution, fullscreen bool) error {
	if !res.Valid() {
		return fmt.Errorf("invalid resolution %dx%d", res.Width, res.Height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeUninitialized {
		return fmt.Errorf("window controller already initialized")
	}

	presentation := PresentationWindowed
	if fullscreen {
		presentation = PresentationFullscreen
	}
	if c.surface != nil {
		c.surface.SetRenderResolution(res, presentation)
	}
	c.resolution = res

	h, err := c.backend.AcquireWindow()
	if err != nil {
		if !errors.Is(err, ErrNoWindow) {
			err = fmt.Errorf("%w: %v", ErrNoWindow, err)
		}
		return err
	}
	c.handle = h

	_ = c.refreshBoundsLocked()

	// Extended style bits set by the host toolkit are kept across mode
	// changes; only the layered and transparent bits are toggled.
	ex, err := c.backend.Style(h, FieldExStyle)
	if c.check(OpGetStyle, err) {
		c.exStyle = ex
	}

	ok := c.check(OpSetStyle, c.backend.SetStyle(h, FieldStyle, popupStyle))
	ok = c.applyPositionLocked() && ok
	ok = c.check(OpExtendFrame, c.backend.ExtendFrame(h, FullBleedMargins())) && ok

	c.mode = ModeOpaque
	c.dirty = !ok || c.exStyle&clickThroughExStyle != 0
	c.logger.Info("overlay window initialized",
		"backend", c.backend.Name(),
		"width", res.Width,
		"height", res.Height,
		"presentation", presentation.String(),
		"bounds", c.bounds.String())
	c.observer.ModeApplied(ModeUninitialized, ModeOpaque)
	return nil
}

// EnterFocusMode restores normal input capture: the layered and
// transparent extended style bits are cleared and the window is re-shown
// topmost with a forced redraw.
func (c *Controller) EnterFocusMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enterLocked(ModeOpaque)
}

// EnterClickThroughMode makes the window transparent to pointer input while
// keeping it visually rendered.
func (c *Controller) EnterClickThroughMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enterLocked(ModeClickThrough)
}

// SetMode applies mode when it differs from the last applied one, or when
// the last application did not complete. It reports whether the OS
// styling sequence ran.
func (c *Controller) SetMode(mode Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeUninitialized || mode == ModeUninitialized {
		return false
	}
	if mode == c.mode && !c.dirty {
		c.observer.ModeSkipped(mode)
		return false
	}
	return c.enterLocked(mode) == nil
}

func (c *Controller) enterLocked(mode Mode) error {
	if c.mode == ModeUninitialized {
		return ErrNotInitialized
	}

	h := c.handle
	ok := true
	switch mode {
	case ModeOpaque:
		c.exStyle &^= clickThroughExStyle
		ok = c.check(OpSetStyle, c.backend.SetStyle(h, FieldExStyle, c.exStyle)) && ok
		ok = c.applyPositionLocked() && ok
	case ModeClickThrough:
		ok = c.check(OpSetStyle, c.backend.SetStyle(h, FieldStyle, popupStyle)) && ok
		c.exStyle |= clickThroughExStyle
		ok = c.check(OpSetStyle, c.backend.SetStyle(h, FieldExStyle, c.exStyle)) && ok
		ok = c.check(OpSetLayeredAttributes, c.backend.SetLayeredAttributes(h, 0, 255, LayeredAlpha)) && ok
		ok = c.applyPositionLocked() && ok
	default:
		return fmt.Errorf("cannot enter mode %s", mode)
	}

	prev := c.mode
	c.mode = mode
	c.dirty = !ok
	if prev != mode {
		c.logger.Debug("window mode changed", "from", prev.String(), "to", mode.String())
	}
	c.observer.ModeApplied(prev, mode)
	return nil
}

// applyPositionLocked keeps the window at its own origin, sized to the
// render resolution, topmost and visible.
func (c *Controller) applyPositionLocked() bool {
	err := c.backend.SetPosition(c.handle, ZTopmost,
		c.bounds.Left, c.bounds.Top, c.resolution.Width, c.resolution.Height, positionFlags)
	return c.check(OpSetPosition, err)
}

// RefreshBounds re-reads the window rectangle. On failure the previous
// geometry is kept and an error wrapping ErrGeometryQuery is returned.
func (c *Controller) RefreshBounds() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeUninitialized {
		return ErrNotInitialized
	}
	return c.refreshBoundsLocked()
}

func (c *Controller) refreshBoundsLocked() error {
	r, err := c.backend.Bounds(c.handle)
	if err != nil {
		c.logger.Warn("window bounds query failed, keeping last geometry",
			"error", err, "bounds", c.bounds.String())
		c.observer.GeometryQueryFailed(err)
		return fmt.Errorf("%w: %v", ErrGeometryQuery, err)
	}
	c.bounds = r
	return nil
}

// DragCurrentWindow starts an OS window drag as if the title bar had been
// grabbed. It does nothing unless the surface is windowed. It reports
// whether the drag sequence was issued.
func (c *Controller) DragCurrentWindow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeUninitialized {
		return false
	}
	if c.surface == nil || c.surface.PresentationMode() != PresentationWindowed {
		return false
	}

	c.check(OpReleaseCapture, c.backend.ReleaseCapture())
	c.check(OpBeginSystemDrag, c.backend.BeginSystemDrag(c.handle))
	if c.axes != nil {
		c.axes.ResetAxes()
	}
	c.logger.Debug("window drag started")
	c.observer.DragStarted()
	return true
}

// check logs and reports a failed backend call and returns whether the call
// succeeded. The first failure of an op in a row is logged at warn level,
// repeats at debug.
func (c *Controller) check(op string, err error) bool {
	if err == nil {
		delete(c.failing, op)
		return true
	}
	var be *BackendError
	if !errors.As(err, &be) {
		err = &BackendError{Op: op, Err: err}
	}
	if c.failing[op] {
		c.logger.Debug("native window call still failing", "op", op, "error", err)
	} else {
		c.failing[op] = true
		c.logger.Warn("native window call failed", "op", op, "error", err)
	}
	c.observer.BackendCallFailed(op, err)
	return false
}

// Dirty reports whether the last mode application had a failed call and
// will be retried by the next SetMode.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Mode returns the last applied mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Bounds returns the cached window rectangle.
func (c *Controller) Bounds() Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

// Handle returns the window handle, or zero before initialization.
func (c *Controller) Handle() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// ExStyle returns the extended style last written to the window.
func (c *Controller) ExStyle() Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exStyle
}

// Resolution returns the render resolution set by Initialize.
func (c *Controller) Resolution() Resolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolution
}

// BackendName returns the name of the native backend.
func (c *Controller) BackendName() string {
	return c.backend.Name()
}
