package window

import (
	"errors"
	"fmt"
)

var (
	// ErrGeometryQuery reports that the window bounds could not be read.
	// It is the only failure the controller recognises; callers log it and
	// keep going with the last known geometry.
	ErrGeometryQuery = errors.New("window bounds query failed")
	// ErrNoWindow reports that the backend could not find the window owned
	// by this process.
	ErrNoWindow = errors.New("no window owned by this process")
	// ErrNotInitialized is returned by mode changes issued before Initialize.
	ErrNotInitialized = errors.New("window controller not initialized")
	// ErrUnsupported is returned by NewNativeBackend on platforms without a
	// native implementation.
	ErrUnsupported = errors.New("no native window backend for this platform")
)

// BackendError wraps a failed native call with the operation name.
type BackendError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error { return e.Err }

// Backend operation names, used in BackendError and by the headless
// backend's call log.
const (
	OpAcquireWindow        = "AcquireWindow"
	OpBounds               = "Bounds"
	OpGetStyle             = "GetStyle"
	OpSetStyle             = "SetStyle"
	OpSetPosition          = "SetPosition"
	OpSetLayeredAttributes = "SetLayeredAttributes"
	OpExtendFrame          = "ExtendFrame"
	OpReleaseCapture       = "ReleaseCapture"
	OpBeginSystemDrag      = "BeginSystemDrag"
	OpCursorPosition       = "CursorPosition"
)

// Backend is the native windowing capability the controller drives. One
// implementation talks to the real OS; the headless one only records.
type Backend interface {
	// Name identifies the implementation in logs and status output.
	Name() string
	// AcquireWindow returns the window owned by this process.
	AcquireWindow() (Handle, error)
	// Bounds returns the current window rectangle in screen coordinates.
	Bounds(h Handle) (Rect, error)
	// Style reads one of the window style words.
	Style(h Handle, field StyleField) (Style, error)
	// SetStyle replaces one of the window style words.
	SetStyle(h Handle, field StyleField, style Style) error
	// SetPosition moves, resizes and restacks the window.
	SetPosition(h Handle, z ZOrder, x, y, width, height int, flags PositionFlags) error
	// SetLayeredAttributes configures layered-window blending.
	SetLayeredAttributes(h Handle, colorKey uint32, alpha uint8, flags LayeredFlags) error
	// ExtendFrame extends the window frame into the client area.
	ExtendFrame(h Handle, m Margins) error
	// ReleaseCapture releases any implicit mouse capture held by this
	// thread. Native backends expect to be called on the thread that owns
	// the window.
	ReleaseCapture() error
	// BeginSystemDrag hands the pointer to the window manager as if the
	// title bar had been grabbed.
	BeginSystemDrag(h Handle) error
	// CursorPosition returns the pointer position in screen coordinates,
	// regardless of which window has focus.
	CursorPosition() (Point, error)
	// Close releases backend resources.
	Close() error
}

// Surface is the rendering surface whose size and presentation the
// controller sets during initialization.
type Surface interface {
	SetRenderResolution(res Resolution, mode PresentationMode)
	PresentationMode() PresentationMode
}

// AxisResetter clears accumulated input deltas after a synthetic drag.
type AxisResetter interface {
	ResetAxes()
}

// Observer receives notifications about controller activity. All methods
// are called on the frame goroutine and must not block.
type Observer interface {
	ModeApplied(from, to Mode)
	ModeSkipped(mode Mode)
	GeometryQueryFailed(err error)
	BackendCallFailed(op string, err error)
	DragStarted()
}

type nopObserver struct{}

func (nopObserver) ModeApplied(Mode, Mode)          {}
func (nopObserver) ModeSkipped(Mode)                {}
func (nopObserver) GeometryQueryFailed(error)       {}
func (nopObserver) BackendCallFailed(string, error) {}
func (nopObserver) DragStarted()                    {}
