// Package render hosts the overlay on ebiten: it owns the game loop, runs
// the frame driver once per tick, turns clicks on drag handles into OS
// window drags and draws the scene on a transparent framebuffer.
package render

import (
	"fmt"
	"image/color"
	"time"

	"github.com/opd-ai/go-overlay/internal/scene"
	"github.com/opd-ai/go-overlay/internal/window"
)

// Config holds the rendering configuration options.
type Config struct {
	// Title is the window title. The native backend also uses it to find
	// the window handle.
	Title string
	// Resolution is the requested render resolution.
	Resolution window.Resolution
	// Fullscreen requests fullscreen presentation.
	Fullscreen bool
	// CustomResolution keeps Resolution in fullscreen. When false a
	// fullscreen window matches the desktop resolution instead.
	CustomResolution bool
	// TargetFrameRate is the tick rate of the game loop.
	TargetFrameRate int
	// SkipTaskbar hides the window from the taskbar.
	SkipTaskbar bool
	// LabelSize is the widget label font size in points.
	LabelSize float64
	// LabelColor is the widget label color.
	LabelColor color.RGBA
	// HoverColor outlines the interactive widget or body under the
	// pointer.
	HoverColor color.RGBA
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Title:            "go-overlay",
		Resolution:       window.Resolution{Width: 1280, Height: 720},
		Fullscreen:       true,
		CustomResolution: true,
		TargetFrameRate:  30,
		LabelSize:        defaultFontSize,
		LabelColor:       color.RGBA{R: 230, G: 230, B: 230, A: 255},
		HoverColor:       color.RGBA{R: 255, G: 255, B: 255, A: 160},
	}
}

// Validate checks if the Config has valid values.
func (c Config) Validate() error {
	if !c.Resolution.Valid() {
		return fmt.Errorf("resolution must be positive, got %dx%d", c.Resolution.Width, c.Resolution.Height)
	}
	if c.TargetFrameRate <= 0 {
		return fmt.Errorf("target frame rate must be positive, got %d", c.TargetFrameRate)
	}
	return nil
}

// FrameInfo describes one completed tick.
type FrameInfo struct {
	Mode     window.Mode
	Focus    bool
	Duration time.Duration
}

// Hooks are optional callbacks invoked from the game loop. They must not
// block.
type Hooks struct {
	// OnFrame runs after every tick.
	OnFrame func(FrameInfo)
	// OnWidgetClicked runs when a button widget is pressed.
	OnWidgetClicked func(scene.Widget)
	// OnInitialized runs once the window controller is initialized.
	OnInitialized func(window.Resolution)
}
