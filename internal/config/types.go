// Package config provides configuration data structures for go-overlay.
// Configuration is written in Lua: the overlay.config table carries the
// window and input settings, and the overlay.scene table describes the
// interactive content the frame driver hit-tests against.
package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Config represents the complete go-overlay configuration.
// It is read once at startup and treated as immutable afterwards; only the
// Scene section may be replaced by a hot reload.
type Config struct {
	// Window contains the overlay window and presentation settings.
	Window WindowConfig
	// Input contains hit-test and input polling settings.
	Input InputConfig
	// Logging selects the log level and output format.
	Logging LoggingConfig
	// Scene describes the widgets and colliders drawn by the overlay.
	Scene SceneConfig
}

// WindowConfig holds the presentation settings for the overlay window.
type WindowConfig struct {
	// Title is the window title. Native backends locate the window by it.
	Title string
	// Fullscreen requests fullscreen presentation.
	Fullscreen bool
	// CustomResolution keeps Width/Height when Fullscreen is set instead of
	// matching the desktop resolution.
	CustomResolution bool
	// Width is the target render width in pixels.
	Width int
	// Height is the target render height in pixels.
	Height int
	// TargetFrameRate is the requested frame cadence in frames per second.
	TargetFrameRate int
	// Backend selects the native window backend.
	Backend BackendKind
	// SkipTaskbar hides the window from the taskbar where supported.
	SkipTaskbar bool
}

// InputConfig holds the hit-test settings.
type InputConfig struct {
	// ClickLayerMask selects which collider layers suppress click-through.
	ClickLayerMask uint32
	// UseSystemInput polls the OS cursor every frame instead of relying on
	// pointer events delivered to the window.
	UseSystemInput bool
}

// LoggingConfig selects the logger built by the command.
type LoggingConfig struct {
	Level  string
	Format string
}

// BackendKind selects the native window backend implementation.
type BackendKind int

const (
	// BackendAuto uses the native backend for the current OS when one exists
	// and falls back to headless otherwise.
	BackendAuto BackendKind = iota
	// BackendNative requires the native backend.
	BackendNative
	// BackendHeadless never touches an OS window.
	BackendHeadless
)

var backendKindNames = map[BackendKind]string{
	BackendAuto:     "auto",
	BackendNative:   "native",
	BackendHeadless: "headless",
}

// String returns the configuration name of the backend kind.
func (b BackendKind) String() string {
	if name, ok := backendKindNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BackendKind(%d)", int(b))
}

// ParseBackendKind parses a backend name.
func ParseBackendKind(s string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return BackendAuto, nil
	case "native", "win32", "x11":
		return BackendNative, nil
	case "headless", "none":
		return BackendHeadless, nil
	default:
		return BackendAuto, fmt.Errorf("unknown backend: %s", s)
	}
}

// SceneConfig describes the interactive content of the overlay.
type SceneConfig struct {
	Camera  CameraConfig
	Widgets []WidgetConfig
	Bodies  []BodyConfig
}

// IsEmpty reports whether the scene has nothing to hit-test.
func (s SceneConfig) IsEmpty() bool {
	return len(s.Widgets) == 0 && len(s.Bodies) == 0
}

// CameraConfig positions the world camera. X and Y are the world
// coordinates shown at the centre of the screen.
type CameraConfig struct {
	X    float64
	Y    float64
	Zoom float64
}

// WidgetRole identifies what a screen-space widget does when clicked.
type WidgetRole int

const (
	// RoleLabel is display only and never captures input.
	RoleLabel WidgetRole = iota
	// RoleButton captures input and emits a click event.
	RoleButton
	// RoleDrag captures input and starts a window drag on mouse-down.
	RoleDrag
)

var widgetRoleNames = map[WidgetRole]string{
	RoleLabel:  "label",
	RoleButton: "button",
	RoleDrag:   "drag",
}

// String returns the configuration name of the role.
func (r WidgetRole) String() string {
	if name, ok := widgetRoleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("WidgetRole(%d)", int(r))
}

// ParseWidgetRole parses a widget role name.
func ParseWidgetRole(s string) (WidgetRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "label":
		return RoleLabel, nil
	case "button":
		return RoleButton, nil
	case "drag", "titlebar":
		return RoleDrag, nil
	default:
		return RoleLabel, fmt.Errorf("unknown widget role: %s", s)
	}
}

// WidgetConfig is a rectangular screen-space UI element.
type WidgetConfig struct {
	ID     string
	Role   WidgetRole
	Label  string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  color.RGBA
}

// ShapeKind is the collider shape of a body.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

// String returns the configuration name of the shape.
func (s ShapeKind) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(s))
	}
}

// ParseShapeKind parses a collider shape name.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "box", "rect":
		return ShapeBox, nil
	case "circle":
		return ShapeCircle, nil
	default:
		return ShapeBox, fmt.Errorf("unknown shape: %s", s)
	}
}

// BodyConfig is a world-space collider. Box bodies are centred on X/Y with
// the given Width and Height; circle bodies use Radius.
type BodyConfig struct {
	Name   string
	Layer  int
	Shape  ShapeKind
	X      float64
	Y      float64
	Width  float64
	Height float64
	Radius float64
	Color  color.RGBA
}
