//go:build !noebiten

package render

import (
	"testing"

	"github.com/opd-ai/go-overlay/internal/window"
)

func TestSurfaceSetRenderResolution(t *testing.T) {
	s := NewSurface(window.Resolution{Width: 640, Height: 480})
	if s.PresentationMode() != window.PresentationWindowed {
		t.Errorf("new surface mode = %s, want windowed", s.PresentationMode())
	}

	res := window.Resolution{Width: 1024, Height: 768}
	s.SetRenderResolution(res, window.PresentationWindowed)
	if s.Resolution() != res {
		t.Errorf("Resolution() = %+v, want %+v", s.Resolution(), res)
	}
}

var _ window.Surface = (*Surface)(nil)
