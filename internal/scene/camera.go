package scene

// Camera maps between screen pixels and world units. Position is the world
// point shown at the centre of the viewport; Zoom is screen pixels per
// world unit. Both spaces have y growing downwards.
type Camera struct {
	Position Vec2
	Zoom     float64

	viewportW float64
	viewportH float64
}

// NewCamera returns a camera centred on pos. A non-positive zoom is
// replaced by 1.
func NewCamera(pos Vec2, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{Position: pos, Zoom: zoom}
}

// SetViewport sets the screen size the camera renders into.
func (c *Camera) SetViewport(width, height float64) {
	c.viewportW, c.viewportH = width, height
}

// Viewport returns the screen size set by SetViewport.
func (c *Camera) Viewport() (width, height float64) {
	return c.viewportW, c.viewportH
}

func (c *Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// ScreenToWorld projects a screen position into world space.
func (c *Camera) ScreenToWorld(x, y float64) Vec2 {
	z := c.zoom()
	return Vec2{
		X: c.Position.X + (x-c.viewportW/2)/z,
		Y: c.Position.Y + (y-c.viewportH/2)/z,
	}
}

// WorldToScreen projects a world position onto the screen.
func (c *Camera) WorldToScreen(p Vec2) (x, y float64) {
	z := c.zoom()
	return (p.X-c.Position.X)*z + c.viewportW/2, (p.Y-c.Position.Y)*z + c.viewportH/2
}
