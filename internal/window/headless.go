package window

import (
	"fmt"
	"sync"
)

// Call is one recorded backend invocation.
type Call struct {
	Op     string
	Detail string
}

// HeadlessBackend is a Backend that never touches an OS window. It records
// every call and simulates the resulting window state, which makes it the
// test double for the controller and the backend of preview runs.
type HeadlessBackend struct {
	mu sync.Mutex

	handle   Handle
	bounds   Rect
	style    Style
	exStyle  Style
	topmost  bool
	visible  bool
	colorKey uint32
	alpha    uint8
	layered  LayeredFlags
	margins  Margins
	cursor   Point
	captured bool
	drags    int

	boundsErr error
	failures  map[string]error
	calls     []Call
}

// NewHeadlessBackend returns a backend simulating a window at bounds.
func NewHeadlessBackend(bounds Rect) *HeadlessBackend {
	return &HeadlessBackend{
		handle:   1,
		bounds:   bounds,
		captured: true,
		failures: make(map[string]error),
	}
}

// Name implements Backend.
func (b *HeadlessBackend) Name() string { return "headless" }

func (b *HeadlessBackend) record(op, format string, args ...any) error {
	b.calls = append(b.calls, Call{Op: op, Detail: fmt.Sprintf(format, args...)})
	if err := b.failures[op]; err != nil {
		return &BackendError{Op: op, Err: err}
	}
	return nil
}

// AcquireWindow implements Backend.
func (b *HeadlessBackend) AcquireWindow() (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpAcquireWindow, ""); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoWindow, err)
	}
	return b.handle, nil
}

// Bounds implements Backend.
func (b *HeadlessBackend) Bounds(h Handle) (Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpBounds, "%d", h); err != nil {
		return Rect{}, err
	}
	if b.boundsErr != nil {
		return Rect{}, b.boundsErr
	}
	return b.bounds, nil
}

// Style implements Backend. Style reads are not recorded.
func (b *HeadlessBackend) Style(h Handle, field StyleField) (Style, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failures[OpGetStyle]; err != nil {
		return 0, &BackendError{Op: OpGetStyle, Err: err}
	}
	switch field {
	case FieldStyle:
		return b.style, nil
	case FieldExStyle:
		return b.exStyle, nil
	}
	return 0, &BackendError{Op: OpGetStyle, Err: fmt.Errorf("unknown field %d", field)}
}

// SetStyle implements Backend.
func (b *HeadlessBackend) SetStyle(h Handle, field StyleField, style Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpSetStyle, "%s=%#x", field, uint32(style)); err != nil {
		return err
	}
	switch field {
	case FieldStyle:
		b.style = style
		b.visible = style.Has(StyleVisible)
	case FieldExStyle:
		b.exStyle = style
	default:
		return &BackendError{Op: OpSetStyle, Err: fmt.Errorf("unknown field %d", field)}
	}
	return nil
}

// SetPosition implements Backend.
func (b *HeadlessBackend) SetPosition(h Handle, z ZOrder, x, y, width, height int, flags PositionFlags) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpSetPosition, "z=%d %d,%d %dx%d flags=%#x", z, x, y, width, height, uint32(flags)); err != nil {
		return err
	}
	b.bounds = Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
	b.topmost = z == ZTopmost
	if flags&PosShowWindow != 0 {
		b.visible = true
	}
	return nil
}

// SetLayeredAttributes implements Backend.
func (b *HeadlessBackend) SetLayeredAttributes(h Handle, colorKey uint32, alpha uint8, flags LayeredFlags) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpSetLayeredAttributes, "key=%#x alpha=%d flags=%#x", colorKey, alpha, uint32(flags)); err != nil {
		return err
	}
	b.colorKey, b.alpha, b.layered = colorKey, alpha, flags
	return nil
}

// ExtendFrame implements Backend.
func (b *HeadlessBackend) ExtendFrame(h Handle, m Margins) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpExtendFrame, "%+v", m); err != nil {
		return err
	}
	b.margins = m
	return nil
}

// ReleaseCapture implements Backend.
func (b *HeadlessBackend) ReleaseCapture() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpReleaseCapture, ""); err != nil {
		return err
	}
	b.captured = false
	return nil
}

// BeginSystemDrag implements Backend.
func (b *HeadlessBackend) BeginSystemDrag(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record(OpBeginSystemDrag, "%d", h); err != nil {
		return err
	}
	b.drags++
	return nil
}

// CursorPosition implements Backend. Cursor polls are not recorded so that
// per-frame input polling does not flood the call log.
func (b *HeadlessBackend) CursorPosition() (Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failures[OpCursorPosition]; err != nil {
		return Point{}, &BackendError{Op: OpCursorPosition, Err: err}
	}
	return b.cursor, nil
}

// Close implements Backend.
func (b *HeadlessBackend) Close() error { return nil }

// SetCursor moves the simulated pointer.
func (b *HeadlessBackend) SetCursor(p Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = p
}

// PresetStyle sets a style word without recording a call, as the host
// toolkit would when it creates the window.
func (b *HeadlessBackend) PresetStyle(field StyleField, style Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch field {
	case FieldStyle:
		b.style = style
	case FieldExStyle:
		b.exStyle = style
	}
}

// MoveTo simulates the user or window manager moving the window.
func (b *HeadlessBackend) MoveTo(r Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bounds = r
}

// FailBounds makes subsequent Bounds calls fail with err. A nil err clears
// the failure.
func (b *HeadlessBackend) FailBounds(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boundsErr = err
}

// FailOp makes every call to op fail with err. A nil err clears it.
func (b *HeadlessBackend) FailOp(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Calls returns a copy of the call log.
func (b *HeadlessBackend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Ops returns the operation names of the call log in order.
func (b *HeadlessBackend) Ops() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ops := make([]string, len(b.calls))
	for i, c := range b.calls {
		ops[i] = c.Op
	}
	return ops
}

// CallCount returns how many times op was called.
func (b *HeadlessBackend) CallCount(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (b *HeadlessBackend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// HeadlessState is a snapshot of the simulated window.
type HeadlessState struct {
	Bounds   Rect
	Style    Style
	ExStyle  Style
	Topmost  bool
	Visible  bool
	ColorKey uint32
	Alpha    uint8
	Layered  LayeredFlags
	Margins  Margins
	Captured bool
	Drags    int
}

// State returns the simulated window state.
func (b *HeadlessBackend) State() HeadlessState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return HeadlessState{
		Bounds:   b.bounds,
		Style:    b.style,
		ExStyle:  b.exStyle,
		Topmost:  b.topmost,
		Visible:  b.visible,
		ColorKey: b.colorKey,
		Alpha:    b.alpha,
		Layered:  b.layered,
		Margins:  b.margins,
		Captured: b.captured,
		Drags:    b.drags,
	}
}

// HeadlessSurface is a Surface that only remembers what it was told.
type HeadlessSurface struct {
	mu           sync.Mutex
	resolution   Resolution
	presentation PresentationMode
}

// NewHeadlessSurface returns a windowed surface with no resolution set.
func NewHeadlessSurface() *HeadlessSurface {
	return &HeadlessSurface{}
}

// SetRenderResolution implements Surface.
func (s *HeadlessSurface) SetRenderResolution(res Resolution, mode PresentationMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolution = res
	s.presentation = mode
}

// PresentationMode implements Surface.
func (s *HeadlessSurface) PresentationMode() PresentationMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentation
}

// Resolution returns the last resolution set.
func (s *HeadlessSurface) Resolution() Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolution
}
