package scene

import (
	"fmt"
	"image/color"
	"math"
)

// Shape is a collider outline in world space.
type Shape interface {
	ContainsPoint(p Vec2) bool
	// Bounds returns the axis-aligned bounding rectangle.
	Bounds() Rect
}

// Box is an axis-aligned rectangle centred on Center.
type Box struct {
	Center Vec2
	Width  float64
	Height float64
}

// ContainsPoint reports whether p lies inside the box, edges included.
func (b Box) ContainsPoint(p Vec2) bool {
	return math.Abs(p.X-b.Center.X) <= b.Width/2 && math.Abs(p.Y-b.Center.Y) <= b.Height/2
}

// Bounds implements Shape.
func (b Box) Bounds() Rect {
	return Rect{X: b.Center.X - b.Width/2, Y: b.Center.Y - b.Height/2, Width: b.Width, Height: b.Height}
}

// Circle is a disc of Radius around Center.
type Circle struct {
	Center Vec2
	Radius float64
}

// ContainsPoint reports whether p lies inside the circle, edge included.
func (c Circle) ContainsPoint(p Vec2) bool {
	d := p.Sub(c.Center)
	return d.X*d.X+d.Y*d.Y <= c.Radius*c.Radius
}

// Bounds implements Shape.
func (c Circle) Bounds() Rect {
	return Rect{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

// Body is a named collider on one layer.
type Body struct {
	Name  string
	Layer int
	Shape Shape
	Color color.RGBA
}

// World is a flat collection of bodies supporting point queries.
type World struct {
	bodies []Body
}

// NewWorld returns a world holding bodies. Invalid bodies are rejected
// with an error.
func NewWorld(bodies ...Body) (*World, error) {
	w := &World{}
	for _, b := range bodies {
		if err := w.Add(b); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Add appends a body. Later bodies are in front of earlier ones.
func (w *World) Add(b Body) error {
	if b.Layer < 0 || b.Layer > MaxLayer {
		return fmt.Errorf("body %q: layer %d out of range 0..%d", b.Name, b.Layer, MaxLayer)
	}
	if b.Shape == nil {
		return fmt.Errorf("body %q: no shape", b.Name)
	}
	w.bodies = append(w.bodies, b)
	return nil
}

// OverlapPoint reports whether any body whose layer is in mask contains p.
func (w *World) OverlapPoint(p Vec2, mask LayerMask) bool {
	_, ok := w.BodyAt(p, mask)
	return ok
}

// BodyAt returns the front-most body in mask containing p.
func (w *World) BodyAt(p Vec2, mask LayerMask) (Body, bool) {
	if w == nil {
		return Body{}, false
	}
	for i := len(w.bodies) - 1; i >= 0; i-- {
		b := w.bodies[i]
		if mask.Has(b.Layer) && b.Shape.ContainsPoint(p) {
			return b, true
		}
	}
	return Body{}, false
}

// Bodies returns the bodies in back-to-front order.
func (w *World) Bodies() []Body {
	if w == nil {
		return nil
	}
	return append([]Body(nil), w.bodies...)
}

// Len returns the number of bodies.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}
