package input

import (
	"fmt"

	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/window"
)

// CursorSource reports the OS cursor in screen coordinates.
type CursorSource interface {
	CursorPosition() (window.Point, error)
}

// OriginSource reports the window rectangle used to convert screen
// coordinates to window coordinates.
type OriginSource interface {
	Bounds() window.Rect
}

// SystemInput polls the OS cursor once per frame and feeds it to a
// Pointer in window coordinates.
type SystemInput struct {
	cursor  CursorSource
	origin  OriginSource
	pointer *Pointer
	logger  logging.Logger
	failing bool
}

// NewSystemInput returns a poller writing to pointer. A nil origin treats
// screen and window coordinates as equal.
func NewSystemInput(cursor CursorSource, origin OriginSource, pointer *Pointer, logger logging.Logger) *SystemInput {
	return &SystemInput{
		cursor:  cursor,
		origin:  origin,
		pointer: pointer,
		logger:  logging.OrNop(logger),
	}
}

// Process reads the cursor and moves the pointer. A failing cursor query
// leaves the pointer where it was; the failure is logged once until the
// query succeeds again.
func (s *SystemInput) Process() error {
	p, err := s.cursor.CursorPosition()
	if err != nil {
		if !s.failing {
			s.logger.Warn("system cursor query failed", "error", err)
			s.failing = true
		}
		return fmt.Errorf("system input: %w", err)
	}
	if s.failing {
		s.logger.Info("system cursor query recovered")
		s.failing = false
	}

	var origin window.Point
	if s.origin != nil {
		r := s.origin.Bounds()
		origin = window.Point{X: r.Left, Y: r.Top}
	}
	s.pointer.Move(float64(p.X-origin.X), float64(p.Y-origin.Y))
	return nil
}
