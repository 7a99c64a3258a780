package scene

import (
	"fmt"
	"image/color"
)

// Role is what a widget does with pointer input.
type Role int

const (
	// RoleLabel is display only; the pointer passes through it.
	RoleLabel Role = iota
	// RoleButton captures the pointer and reports clicks.
	RoleButton
	// RoleDrag captures the pointer and starts a window drag on press.
	RoleDrag
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleLabel:
		return "label"
	case RoleButton:
		return "button"
	case RoleDrag:
		return "drag"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Widget is a rectangular screen-space UI element.
type Widget struct {
	ID     string
	Role   Role
	Label  string
	Bounds Rect
	Color  color.RGBA
}

// Interactive reports whether the widget captures the pointer.
func (w Widget) Interactive() bool { return w.Role != RoleLabel }

// UI is the set of screen-space widgets, in back-to-front order.
type UI struct {
	widgets []Widget
}

// NewUI returns a UI holding widgets.
func NewUI(widgets ...Widget) *UI {
	return &UI{widgets: append([]Widget(nil), widgets...)}
}

// PointerOverInteractive reports whether (x, y) is over an interactive
// widget.
func (u *UI) PointerOverInteractive(x, y float64) bool {
	_, ok := u.InteractiveAt(x, y)
	return ok
}

// InteractiveAt returns the front-most interactive widget under (x, y).
// Labels never shadow interactive widgets behind them.
func (u *UI) InteractiveAt(x, y float64) (Widget, bool) {
	if u == nil {
		return Widget{}, false
	}
	p := Vec2{x, y}
	for i := len(u.widgets) - 1; i >= 0; i-- {
		w := u.widgets[i]
		if w.Interactive() && w.Bounds.Contains(p) {
			return w, true
		}
	}
	return Widget{}, false
}

// Widgets returns the widgets in back-to-front order.
func (u *UI) Widgets() []Widget {
	if u == nil {
		return nil
	}
	return append([]Widget(nil), u.widgets...)
}

// Len returns the number of widgets.
func (u *UI) Len() int {
	if u == nil {
		return 0
	}
	return len(u.widgets)
}
