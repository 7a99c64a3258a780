package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-overlay/internal/window"
)

// Surface is the ebiten rendering surface. It implements window.Surface so
// the window controller can size the framebuffer during initialization.
type Surface struct {
	mu         sync.RWMutex
	resolution window.Resolution
	mode       window.PresentationMode
}

// NewSurface returns a windowed surface of res.
func NewSurface(res window.Resolution) *Surface {
	return &Surface{resolution: res, mode: window.PresentationWindowed}
}

// SetRenderResolution resizes the ebiten window and switches between
// fullscreen and windowed presentation.
func (s *Surface) SetRenderResolution(res window.Resolution, mode window.PresentationMode) {
	s.mu.Lock()
	s.resolution = res
	s.mode = mode
	s.mu.Unlock()

	ebiten.SetFullscreen(mode == window.PresentationFullscreen)
	ebiten.SetWindowSize(res.Width, res.Height)
}

// PresentationMode implements window.Surface.
func (s *Surface) PresentationMode() window.PresentationMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Resolution returns the current render resolution.
func (s *Surface) Resolution() window.Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolution
}

// DesktopResolution returns the size of the monitor the window is on, or
// false when ebiten cannot report one yet.
func DesktopResolution() (window.Resolution, bool) {
	m := ebiten.Monitor()
	if m == nil {
		return window.Resolution{}, false
	}
	w, h := m.Size()
	res := window.Resolution{Width: w, Height: h}
	return res, res.Valid()
}
