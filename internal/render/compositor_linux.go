//go:build linux

package render

import (
	"os"
	"os/exec"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// CompositorStatus is the detected state of the desktop compositor.
type CompositorStatus int

const (
	// CompositorUnknown means detection failed.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means a compositor is running and per-pixel
	// transparency works.
	CompositorActive
	// CompositorInactive means no compositor was found; the transparent
	// framebuffer will be shown opaque.
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

// knownCompositors are process names checked when the X11 selection
// cannot be queried.
var knownCompositors = []string{
	"picom", "compton", "compiz", "mutter", "kwin_x11", "kwin_wayland", "xfwm4", "marco", "muffin",
}

// DetectCompositor reports whether an X11 compositor is running. The EWMH
// _NET_WM_CM_S0 selection owner is authoritative; known compositor
// processes are the fallback.
func DetectCompositor() CompositorStatus {
	if status := detectCompositorSelection(); status != CompositorUnknown {
		return status
	}
	return detectCompositorProcess()
}

func detectCompositorSelection() CompositorStatus {
	conn, err := xgb.NewConn()
	if err != nil {
		return CompositorUnknown
	}
	defer conn.Close()

	if len(xproto.Setup(conn).Roots) == 0 {
		return CompositorUnknown
	}

	const name = "_NET_WM_CM_S0"
	atom, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil || atom == nil {
		return CompositorUnknown
	}
	owner, err := xproto.GetSelectionOwner(conn, atom.Atom).Reply()
	if err != nil {
		return CompositorUnknown
	}
	if owner.Owner != xproto.WindowNone {
		return CompositorActive
	}
	return CompositorInactive
}

func detectCompositorProcess() CompositorStatus {
	for _, name := range knownCompositors {
		if exec.Command("pgrep", "-x", name).Run() == nil {
			return CompositorActive
		}
	}
	return CompositorInactive
}

// IsWayland reports whether the session runs on Wayland, where the
// compositor is always present.
func IsWayland() bool {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// CheckTransparencySupport returns a warning when the overlay's
// transparent framebuffer will not show the desktop through it, or an
// empty string when it will.
func CheckTransparencySupport() string {
	if IsWayland() {
		return ""
	}
	switch DetectCompositor() {
	case CompositorActive:
		return ""
	case CompositorInactive:
		return "no compositor detected: the overlay background will be drawn opaque " +
			"(start picom or enable your desktop's compositor)"
	default:
		return "could not detect a compositor: the overlay background may be drawn opaque"
	}
}
