package overlay

import (
	"time"

	"github.com/opd-ai/go-overlay/internal/window"
)

// Mode is the transparency mode of the overlay window.
type Mode = window.Mode

// Window modes.
const (
	ModeUninitialized = window.ModeUninitialized
	ModeOpaque        = window.ModeOpaque
	ModeClickThrough  = window.ModeClickThrough
)

// Rect is a window rectangle in screen coordinates.
type Rect = window.Rect

// Status represents the current state of an Overlay.
type Status struct {
	// Running indicates if the overlay loop is active.
	Running bool
	// StartTime is when the overlay was last started.
	StartTime time.Time
	// Frames is the number of frames driven since the last start.
	Frames uint64
	// Mode is the current window mode.
	Mode Mode
	// FocusForInput is the hit-test result of the last frame.
	FocusForInput bool
	// Bounds is the last known window rectangle.
	Bounds Rect
	// Backend names the native window backend in use.
	Backend string
	// LastError is the most recent error (nil if none).
	LastError error
	// ConfigSource describes where the configuration came from.
	ConfigSource string
}

// ErrorHandler is a callback for runtime errors. It is called
// asynchronously; do not block in the handler.
type ErrorHandler func(err error)

// EventHandler is a callback for overlay events. It is called
// asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event is a lifecycle or interaction event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
	// Widget is the widget ID for EventWidgetClicked.
	Widget string
	// Mode is the new mode for EventModeChanged.
	Mode Mode
}

// EventType enumerates event types.
type EventType int

const (
	// EventStarted is emitted when the overlay starts.
	EventStarted EventType = iota
	// EventStopped is emitted when the overlay loop ends.
	EventStopped
	// EventModeChanged is emitted when the window switches between opaque
	// and click-through.
	EventModeChanged
	// EventWidgetClicked is emitted when a button widget is pressed.
	EventWidgetClicked
	// EventDragStarted is emitted when a window drag begins.
	EventDragStarted
	// EventSceneReloaded is emitted after a scene hot reload.
	EventSceneReloaded
	// EventError is emitted when a recoverable error occurs.
	EventError
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventModeChanged:
		return "mode_changed"
	case EventWidgetClicked:
		return "widget_clicked"
	case EventDragStarted:
		return "drag_started"
	case EventSceneReloaded:
		return "scene_reloaded"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
