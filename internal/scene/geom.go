package scene

import "fmt"

// Vec2 is a 2D vector in world or screen units.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// String formats v as "(x, y)".
func (v Vec2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// LayerMask selects collider layers, one bit per layer.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers = ^LayerMask(0)

// MaxLayer is the highest valid layer index.
const MaxLayer = 31

// LayerBit returns the mask containing only layer. Out of range layers
// yield an empty mask.
func LayerBit(layer int) LayerMask {
	if layer < 0 || layer > MaxLayer {
		return 0
	}
	return 1 << uint(layer)
}

// Has reports whether layer is selected by m.
func (m LayerMask) Has(layer int) bool {
	return m&LayerBit(layer) != 0
}
