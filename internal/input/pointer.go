// Package input tracks the pointer for the frame driver and, when enabled,
// polls the OS cursor directly so hit testing keeps working while the
// window is click-through and receives no pointer events.
package input

import "sync"

// Pointer holds the pointer position in window coordinates together with
// the movement accumulated since the last axis reset.
type Pointer struct {
	mu      sync.Mutex
	x, y    float64
	dx, dy  float64
	known   bool
	pressed bool
}

// Move records a new pointer position.
func (p *Pointer) Move(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveLocked(x, y)
}

func (p *Pointer) moveLocked(x, y float64) {
	if p.known {
		p.dx += x - p.x
		p.dy += y - p.y
	}
	p.x, p.y, p.known = x, y, true
}

// Update records a position and the primary button state.
func (p *Pointer) Update(x, y float64, pressed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveLocked(x, y)
	p.pressed = pressed
}

// Position returns the last recorded position.
func (p *Pointer) Position() (x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y
}

// Pressed reports whether the primary button was down at the last update.
func (p *Pointer) Pressed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pressed
}

// Axes returns the movement accumulated since the last reset.
func (p *Pointer) Axes() (dx, dy float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dx, p.dy
}

// ResetAxes clears accumulated movement and the button state, and forgets
// the last position so the jump caused by a window drag is not counted as
// movement.
func (p *Pointer) ResetAxes() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dx, p.dy = 0, 0
	p.pressed = false
	p.known = false
}
