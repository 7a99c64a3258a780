// Package window implements the overlay window controller: a small state
// machine that switches an OS window between an opaque, input-capturing
// mode and a layered click-through mode, on top of a pluggable native
// window backend.
package window

import "fmt"

// Handle identifies the OS window owned by this process. It is acquired
// once during initialization and never reassigned.
type Handle uintptr

// Rect is a window rectangle in screen coordinates.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// String formats r as "(left,top)-(right,bottom)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Resolution is a render surface size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (r Resolution) Valid() bool { return r.Width > 0 && r.Height > 0 }

// Mode is the transparency mode of the overlay window.
type Mode int

const (
	// ModeUninitialized is the state before Initialize succeeds.
	ModeUninitialized Mode = iota
	// ModeOpaque captures mouse and keyboard input normally.
	ModeOpaque
	// ModeClickThrough lets the OS deliver pointer input to the windows
	// beneath the overlay.
	ModeClickThrough
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeUninitialized:
		return "uninitialized"
	case ModeOpaque:
		return "opaque"
	case ModeClickThrough:
		return "click-through"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Margins describe how far the window frame is extended into the client
// area. FullBleed extends it over the whole window, title and border
// included, and the numeric fields are then ignored.
type Margins struct {
	FullBleed bool
	Left      int
	Right     int
	Top       int
	Bottom    int
}

// FullBleedMargins returns margins that make the entire surface paintable.
func FullBleedMargins() Margins {
	return Margins{FullBleed: true}
}

// Style is a window style bit set. The values match the Win32 window style
// constants; other backends translate them.
type Style uint32

const (
	StylePopup         Style = 0x80000000
	StyleVisible       Style = 0x10000000
	ExStyleTransparent Style = 0x00000020
	ExStyleLayered     Style = 0x00080000
)

// Has reports whether every bit of flag is set in s.
func (s Style) Has(flag Style) bool { return s&flag == flag }

// StyleField selects which style word SetStyle writes.
type StyleField int

const (
	FieldStyle   StyleField = -16
	FieldExStyle StyleField = -20
)

// String returns the field name.
func (f StyleField) String() string {
	switch f {
	case FieldStyle:
		return "style"
	case FieldExStyle:
		return "exstyle"
	default:
		return fmt.Sprintf("StyleField(%d)", int(f))
	}
}

// ZOrder is the insert-after argument of SetPosition.
type ZOrder int

const (
	ZTop     ZOrder = 0
	ZTopmost ZOrder = -1
)

// PositionFlags modify SetPosition.
type PositionFlags uint32

const (
	PosDrawFrame  PositionFlags = 0x0020
	PosShowWindow PositionFlags = 0x0040
)

// LayeredFlags select which layered-window attribute applies.
type LayeredFlags uint32

const (
	LayeredColorKey LayeredFlags = 0x1
	LayeredAlpha    LayeredFlags = 0x2
)

// PresentationMode is how the render surface is shown.
type PresentationMode int

const (
	PresentationWindowed PresentationMode = iota
	PresentationFullscreen
)

// String returns the presentation mode name.
func (p PresentationMode) String() string {
	if p == PresentationFullscreen {
		return "fullscreen"
	}
	return "windowed"
}
