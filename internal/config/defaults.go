package config

import (
	"image/color"
)

// Default values for configuration options.
const (
	// DefaultTitle is the window title used to locate the overlay window.
	DefaultTitle = "go-overlay"
	// DefaultWidth is the default render width in pixels.
	DefaultWidth = 1280
	// DefaultHeight is the default render height in pixels.
	DefaultHeight = 720
	// DefaultTargetFrameRate is the default frame cadence.
	DefaultTargetFrameRate = 30
	// AllLayers is the click mask that matches every collider layer.
	AllLayers uint32 = ^uint32(0)
	// MaxLayer is the highest collider layer index.
	MaxLayer = 31
)

// Default colors.
var (
	// DefaultWidgetColor is the fill used for widgets without a color.
	DefaultWidgetColor = color.RGBA{R: 40, G: 44, B: 52, A: 220}
	// DefaultBodyColor is the fill used for bodies without a color.
	DefaultBodyColor = color.RGBA{R: 97, G: 175, B: 239, A: 200}
)

// DefaultConfig returns a Config with the default overlay settings:
// a fullscreen 1280x720 surface at 30 fps whose click mask covers every layer.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:            DefaultTitle,
			Fullscreen:       true,
			CustomResolution: true,
			Width:            DefaultWidth,
			Height:           DefaultHeight,
			TargetFrameRate:  DefaultTargetFrameRate,
			Backend:          BackendAuto,
		},
		Input: InputConfig{
			ClickLayerMask: AllLayers,
			UseSystemInput: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Scene: SceneConfig{
			Camera: CameraConfig{Zoom: 1},
		},
	}
}
