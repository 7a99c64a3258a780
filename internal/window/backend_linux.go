//go:build linux

package window

import (
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"

	"github.com/opd-ai/go-overlay/internal/logging"
)

// EWMH constants.
const (
	netWMStateAdd         = 1
	netWMMoveResizeMove   = 8
	sourceApplication     = 1
	motifHintsDecorations = 1 << 1
)

// X11Backend maps the backend contract onto X11: the popup style becomes
// undecorated Motif hints, the transparent ex-style becomes an empty SHAPE
// input region, topmost becomes _NET_WM_STATE_ABOVE and layered alpha
// becomes _NET_WM_WINDOW_OPACITY.
type X11Backend struct {
	mu          sync.Mutex
	conn        *xgb.Conn
	root        xproto.Window
	atoms       map[string]xproto.Atom
	title       string
	skipTaskbar bool
	shapeOK     bool
	aboveSet    bool
	logger      logging.Logger

	// X11 has no style words; the last written ones are kept for Style.
	style   Style
	exStyle Style
}

// NewNativeBackend connects to the X server named by $DISPLAY.
func NewNativeBackend(opts NativeOptions) (Backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("X server has no screens")
	}

	b := &X11Backend{
		conn:        conn,
		root:        setup.Roots[0].Root,
		atoms:       make(map[string]xproto.Atom),
		title:       opts.Title,
		skipTaskbar: opts.SkipTaskbar,
		logger:      logging.OrNop(opts.Logger),
	}
	if err := shape.Init(conn); err != nil {
		b.logger.Warn("X SHAPE extension unavailable, click-through disabled", "error", err)
	} else {
		b.shapeOK = true
	}
	return b, nil
}

// Name implements Backend.
func (b *X11Backend) Name() string { return "x11" }

// getAtom retrieves or interns an X11 atom by name.
func (b *X11Backend) getAtom(name string) (xproto.Atom, error) {
	if atom, ok := b.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(b.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	b.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// AcquireWindow looks for a client window whose _NET_WM_PID is this
// process. Windows found by title, as the active window or as the input
// focus are only accepted when their _NET_WM_PID is this process too, so
// another client's window is never restyled. ErrNoWindow is returned until
// the host window has been mapped and announced by the window manager.
func (b *X11Backend) AcquireWindow() (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, err := b.findWindow()
	if err != nil {
		return 0, &BackendError{Op: OpAcquireWindow, Err: err}
	}
	if w == xproto.WindowNone {
		return 0, ErrNoWindow
	}
	if b.skipTaskbar {
		if err := b.addState(w, "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER"); err != nil {
			b.logger.Warn("could not hide window from taskbar", "error", err)
		}
	}
	return Handle(w), nil
}

func (b *X11Backend) findWindow() (xproto.Window, error) {
	pid := uint32(os.Getpid())
	pidOf := func(w xproto.Window) (uint32, error) { return b.cardinal(w, "_NET_WM_PID") }

	clients, err := b.windowList(b.root, "_NET_CLIENT_LIST")
	if err == nil {
		if w := ownedWindow(clients, pid, pidOf); w != xproto.WindowNone {
			return w, nil
		}
	}

	var candidates []xproto.Window
	if b.title != "" {
		for _, w := range clients {
			if b.windowTitle(w) == b.title {
				candidates = append(candidates, w)
			}
		}
	}
	if active, err := b.windowList(b.root, "_NET_ACTIVE_WINDOW"); err == nil && len(active) > 0 {
		candidates = append(candidates, active[0])
	}
	if focus, err := xproto.GetInputFocus(b.conn).Reply(); err == nil {
		candidates = append(candidates, focus.Focus)
	}
	w := ownedWindow(candidates, pid, pidOf)
	if w == xproto.WindowNone {
		b.logger.Debug("no window owned by this process yet", "pid", pid, "candidates", len(candidates))
	}
	return w, nil
}

// ownedWindow returns the first candidate whose pid is pid, or WindowNone.
// Candidates without a readable pid are skipped.
func ownedWindow(candidates []xproto.Window, pid uint32, pidOf func(xproto.Window) (uint32, error)) xproto.Window {
	for _, w := range candidates {
		if w == xproto.WindowNone || w == xproto.Window(xproto.InputFocusPointerRoot) {
			continue
		}
		if p, err := pidOf(w); err == nil && p == pid {
			return w
		}
	}
	return xproto.WindowNone
}

func (b *X11Backend) windowList(w xproto.Window, prop string) ([]xproto.Window, error) {
	atom, err := b.getAtom(prop)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(b.conn, false, w, atom, xproto.AtomWindow, 0, 1024).Reply()
	if err != nil {
		return nil, err
	}
	windows := make([]xproto.Window, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		windows = append(windows, xproto.Window(xgb.Get32(reply.Value[i:])))
	}
	return windows, nil
}

func (b *X11Backend) cardinal(w xproto.Window, prop string) (uint32, error) {
	atom, err := b.getAtom(prop)
	if err != nil {
		return 0, err
	}
	reply, err := xproto.GetProperty(b.conn, false, w, atom, xproto.AtomCardinal, 0, 1).Reply()
	if err != nil {
		return 0, err
	}
	if len(reply.Value) < 4 {
		return 0, fmt.Errorf("%s not set", prop)
	}
	return xgb.Get32(reply.Value), nil
}

func (b *X11Backend) windowTitle(w xproto.Window) string {
	if utf8, err := b.getAtom("UTF8_STRING"); err == nil {
		if name, err := b.getAtom("_NET_WM_NAME"); err == nil {
			reply, err := xproto.GetProperty(b.conn, false, w, name, utf8, 0, 256).Reply()
			if err == nil && len(reply.Value) > 0 {
				return string(reply.Value)
			}
		}
	}
	reply, err := xproto.GetProperty(b.conn, false, w, xproto.AtomWmName, xproto.AtomString, 0, 256).Reply()
	if err != nil {
		return ""
	}
	return string(reply.Value)
}

// Bounds returns the window rectangle in root coordinates.
func (b *X11Backend) Bounds(h Handle) (Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w := xproto.Window(h)
	geom, err := xproto.GetGeometry(b.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return Rect{}, &BackendError{Op: OpBounds, Err: err}
	}
	pos, err := xproto.TranslateCoordinates(b.conn, w, b.root, 0, 0).Reply()
	if err != nil {
		return Rect{}, &BackendError{Op: OpBounds, Err: err}
	}
	left, top := int(pos.DstX), int(pos.DstY)
	return Rect{Left: left, Top: top, Right: left + int(geom.Width), Bottom: top + int(geom.Height)}, nil
}

// Style implements Backend. It returns the last style word written through
// SetStyle, zero before the first write.
func (b *X11Backend) Style(h Handle, field StyleField) (Style, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch field {
	case FieldStyle:
		return b.style, nil
	case FieldExStyle:
		return b.exStyle, nil
	}
	return 0, &BackendError{Op: OpGetStyle, Err: fmt.Errorf("unknown style field %d", field)}
}

// SetStyle implements Backend.
func (b *X11Backend) SetStyle(h Handle, field StyleField, style Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w := xproto.Window(h)
	var err error
	switch field {
	case FieldStyle:
		if style.Has(StylePopup) {
			err = b.setUndecorated(w)
		}
		if err == nil && style.Has(StyleVisible) {
			err = xproto.MapWindowChecked(b.conn, w).Check()
		}
	case FieldExStyle:
		err = b.setInputPassthrough(w, style.Has(ExStyleTransparent))
	default:
		err = fmt.Errorf("unknown style field %d", field)
	}
	if err != nil {
		return &BackendError{Op: OpSetStyle, Err: err}
	}
	if field == FieldStyle {
		b.style = style
	} else {
		b.exStyle = style
	}
	return nil
}

// setUndecorated asks the window manager to drop the frame through
// _MOTIF_WM_HINTS.
func (b *X11Backend) setUndecorated(w xproto.Window) error {
	atom, err := b.getAtom("_MOTIF_WM_HINTS")
	if err != nil {
		return err
	}
	// flags, functions, decorations, input_mode, status
	data := make([]byte, 5*4)
	xgb.Put32(data[0:], motifHintsDecorations)
	return xproto.ChangePropertyChecked(b.conn, xproto.PropModeReplace, w,
		atom, atom, 32, 5, data).Check()
}

// setInputPassthrough installs an empty input shape so pointer events go
// to the windows below, or resets the input shape to the window bounds.
func (b *X11Backend) setInputPassthrough(w xproto.Window, passthrough bool) error {
	if !b.shapeOK {
		return fmt.Errorf("SHAPE extension unavailable")
	}
	if passthrough {
		return shape.RectanglesChecked(b.conn, shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, w, 0, 0, nil).Check()
	}
	return shape.MaskChecked(b.conn, shape.SoSet, shape.SkInput, w, 0, 0, xproto.PixmapNone).Check()
}

// SetPosition implements Backend. ZTopmost is sent once as
// _NET_WM_STATE_ABOVE; the stacking request is repeated every call.
func (b *X11Backend) SetPosition(h Handle, z ZOrder, x, y, width, height int, flags PositionFlags) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w := xproto.Window(h)
	if flags&PosShowWindow != 0 {
		if err := xproto.MapWindowChecked(b.conn, w).Check(); err != nil {
			return &BackendError{Op: OpSetPosition, Err: err}
		}
	}

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowStackMode)
	values := []uint32{
		uint32(int32(x)),
		uint32(int32(y)),
		uint32(width),
		uint32(height),
		xproto.StackModeAbove,
	}
	if err := xproto.ConfigureWindowChecked(b.conn, w, mask, values).Check(); err != nil {
		return &BackendError{Op: OpSetPosition, Err: err}
	}

	if z == ZTopmost && !b.aboveSet {
		if err := b.addState(w, "_NET_WM_STATE_ABOVE"); err != nil {
			return &BackendError{Op: OpSetPosition, Err: err}
		}
		b.aboveSet = true
	}
	return nil
}

// addState asks the window manager to add _NET_WM_STATE atoms.
func (b *X11Backend) addState(w xproto.Window, names ...string) error {
	stateAtom, err := b.getAtom("_NET_WM_STATE")
	if err != nil {
		return err
	}
	atoms := make([]uint32, 2)
	for i, name := range names {
		if i >= len(atoms) {
			break
		}
		a, err := b.getAtom(name)
		if err != nil {
			return err
		}
		atoms[i] = uint32(a)
	}
	return b.sendRootMessage(w, stateAtom, []uint32{netWMStateAdd, atoms[0], atoms[1], sourceApplication, 0})
}

func (b *X11Backend) sendRootMessage(w xproto.Window, msgType xproto.Atom, data []uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   msgType,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	return xproto.SendEventChecked(b.conn, false, b.root, mask, string(ev.Bytes())).Check()
}

// SetLayeredAttributes maps the alpha value onto _NET_WM_WINDOW_OPACITY.
// Colour keys have no X11 counterpart and are ignored.
func (b *X11Backend) SetLayeredAttributes(h Handle, colorKey uint32, alpha uint8, flags LayeredFlags) error {
	if flags&LayeredAlpha == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	atom, err := b.getAtom("_NET_WM_WINDOW_OPACITY")
	if err != nil {
		return &BackendError{Op: OpSetLayeredAttributes, Err: err}
	}
	data := make([]byte, 4)
	xgb.Put32(data, uint32(alpha)*0x01010101)
	err = xproto.ChangePropertyChecked(b.conn, xproto.PropModeReplace, xproto.Window(h),
		atom, xproto.AtomCardinal, 32, 1, data).Check()
	if err != nil {
		return &BackendError{Op: OpSetLayeredAttributes, Err: err}
	}
	return nil
}

// ExtendFrame is a no-op: an undecorated ARGB window is already paintable
// edge to edge.
func (b *X11Backend) ExtendFrame(h Handle, m Margins) error { return nil }

// ReleaseCapture ungrabs the pointer on the backend's own connection. The
// implicit grab of a button press belongs to the host toolkit's client, so
// this does not release it; window managers that grab the pointer for
// _NET_WM_MOVERESIZE may then refuse the drag with AlreadyGrabbed.
// TODO: release through the host's X connection once ebiten exposes it.
func (b *X11Backend) ReleaseCapture() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := xproto.UngrabPointerChecked(b.conn, xproto.TimeCurrentTime).Check(); err != nil {
		return &BackendError{Op: OpReleaseCapture, Err: err}
	}
	return nil
}

// BeginSystemDrag sends _NET_WM_MOVERESIZE so the window manager moves the
// window with the pointer.
func (b *X11Backend) BeginSystemDrag(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ptr, err := xproto.QueryPointer(b.conn, b.root).Reply()
	if err != nil {
		return &BackendError{Op: OpBeginSystemDrag, Err: err}
	}
	atom, err := b.getAtom("_NET_WM_MOVERESIZE")
	if err != nil {
		return &BackendError{Op: OpBeginSystemDrag, Err: err}
	}
	data := []uint32{
		uint32(int32(ptr.RootX)),
		uint32(int32(ptr.RootY)),
		netWMMoveResizeMove,
		uint32(xproto.ButtonIndex1),
		sourceApplication,
	}
	if err := b.sendRootMessage(xproto.Window(h), atom, data); err != nil {
		return &BackendError{Op: OpBeginSystemDrag, Err: err}
	}
	return nil
}

// CursorPosition implements Backend.
func (b *X11Backend) CursorPosition() (Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ptr, err := xproto.QueryPointer(b.conn, b.root).Reply()
	if err != nil {
		return Point{}, &BackendError{Op: OpCursorPosition, Err: err}
	}
	return Point{X: int(ptr.RootX), Y: int(ptr.RootY)}, nil
}

// Close releases the X11 connection.
func (b *X11Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	return nil
}
