//go:build !linux

package render

// CompositorStatus is the detected state of the desktop compositor.
type CompositorStatus int

const (
	// CompositorUnknown means detection failed.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means a compositor is running and per-pixel
	// transparency works.
	CompositorActive
	// CompositorInactive means no compositor was found.
	CompositorInactive
)

// String returns the status name.
func (cs CompositorStatus) String() string {
	switch cs {
	case CompositorActive:
		return "active"
	case CompositorInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// DetectCompositor reports CompositorActive: DWM and the macOS window
// server always composite.
func DetectCompositor() CompositorStatus { return CompositorActive }

// IsWayland is always false off Linux.
func IsWayland() bool { return false }

// CheckTransparencySupport always returns an empty string off Linux.
func CheckTransparencySupport() string { return "" }
