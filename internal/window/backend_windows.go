//go:build windows

package window

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/opd-ai/go-overlay/internal/logging"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procFindWindowW                  = user32.NewProc("FindWindowW")
	procEnumWindows                  = user32.NewProc("EnumWindows")
	procGetWindowThreadProcessID     = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible              = user32.NewProc("IsWindowVisible")
	procGetWindowRect                = user32.NewProc("GetWindowRect")
	procGetWindowLongW               = user32.NewProc("GetWindowLongW")
	procSetWindowLongW               = user32.NewProc("SetWindowLongW")
	procSetWindowPos                 = user32.NewProc("SetWindowPos")
	procSetLayeredWindowAttributes   = user32.NewProc("SetLayeredWindowAttributes")
	procReleaseCapture               = user32.NewProc("ReleaseCapture")
	procPostMessageW                 = user32.NewProc("PostMessageW")
	procGetCursorPos                 = user32.NewProc("GetCursorPos")
	procDwmExtendFrameIntoClientArea = dwmapi.NewProc("DwmExtendFrameIntoClientArea")
)

const (
	wmSysCommand = 0x0112
	// scDragMove is SC_MOVE combined with HTCAPTION, the undocumented
	// system command that starts a title-bar drag.
	scDragMove = 0xF012
	// wsExToolWindow keeps the window off the taskbar.
	wsExToolWindow Style = 0x00000080
)

type win32Rect struct {
	Left, Top, Right, Bottom int32
}

type win32Point struct {
	X, Y int32
}

// win32Margins mirrors the DWM MARGINS structure.
type win32Margins struct {
	CxLeftWidth    int32
	CxRightWidth   int32
	CyTopHeight    int32
	CyBottomHeight int32
}

// Win32Backend drives the overlay window through user32 and dwmapi.
//
// Style and position changes send messages to the window synchronously,
// and ReleaseCapture only affects the calling thread, so every call must
// come from the thread that created the window. The render host runs its
// update loop on that thread.
type Win32Backend struct {
	title       string
	skipTaskbar bool
	logger      logging.Logger
}

// NewNativeBackend returns the Win32 backend.
func NewNativeBackend(opts NativeOptions) (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32: %w", err)
	}
	return &Win32Backend{
		title:       opts.Title,
		skipTaskbar: opts.SkipTaskbar,
		logger:      logging.OrNop(opts.Logger),
	}, nil
}

// Name implements Backend.
func (b *Win32Backend) Name() string { return "win32" }

// AcquireWindow finds the window by title, then falls back to the first
// visible top-level window owned by this process.
func (b *Win32Backend) AcquireWindow() (Handle, error) {
	if b.title != "" {
		title, err := windows.UTF16PtrFromString(b.title)
		if err != nil {
			return 0, &BackendError{Op: OpAcquireWindow, Err: err}
		}
		hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
		if hwnd != 0 && ownedByProcess(hwnd) {
			return Handle(hwnd), nil
		}
		b.logger.Debug("window not found by title, scanning process windows", "title", b.title)
	}

	hwnd := findProcessWindow(uint32(os.Getpid()))
	if hwnd == 0 {
		return 0, ErrNoWindow
	}
	return Handle(hwnd), nil
}

func ownedByProcess(hwnd uintptr) bool {
	var pid uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return pid == uint32(os.Getpid())
}

// EnumWindows callbacks are a scarce resource, so a single callback is
// created and the search state lives in package variables.
var (
	enumOnce     sync.Once
	enumCallback uintptr
	enumMu       sync.Mutex
	enumPID      uint32
	enumFound    uintptr
)

func findProcessWindow(pid uint32) uintptr {
	enumOnce.Do(func() {
		enumCallback = windows.NewCallback(func(hwnd, _ uintptr) uintptr {
			var owner uint32
			procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&owner)))
			if owner != enumPID {
				return 1
			}
			if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
				return 1
			}
			enumFound = hwnd
			return 0
		})
	})

	enumMu.Lock()
	defer enumMu.Unlock()
	enumPID, enumFound = pid, 0
	procEnumWindows.Call(enumCallback, 0)
	return enumFound
}

// Bounds implements Backend.
func (b *Win32Backend) Bounds(h Handle) (Rect, error) {
	var r win32Rect
	ret, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, win32Error(OpBounds, err)
	}
	return Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}, nil
}

// Style implements Backend.
func (b *Win32Backend) Style(h Handle, field StyleField) (Style, error) {
	ret, _, err := procGetWindowLongW.Call(uintptr(h), uintptr(int(field)))
	if ret == 0 && !isSuccess(err) {
		return 0, &BackendError{Op: OpGetStyle, Err: err}
	}
	return Style(uint32(ret)), nil
}

// SetStyle implements Backend. The tool-window bit is added to the extended
// style when the window should stay off the taskbar.
func (b *Win32Backend) SetStyle(h Handle, field StyleField, style Style) error {
	if field == FieldExStyle && b.skipTaskbar {
		style |= wsExToolWindow
	}
	ret, _, err := procSetWindowLongW.Call(uintptr(h), uintptr(int(field)), uintptr(style))
	// SetWindowLong returns the previous value, which may legitimately be
	// zero; only a non-zero last error means failure.
	if ret == 0 && !isSuccess(err) {
		return &BackendError{Op: OpSetStyle, Err: err}
	}
	return nil
}

// SetPosition implements Backend.
func (b *Win32Backend) SetPosition(h Handle, z ZOrder, x, y, width, height int, flags PositionFlags) error {
	ret, _, err := procSetWindowPos.Call(
		uintptr(h),
		uintptr(int(z)),
		uintptr(int(x)),
		uintptr(int(y)),
		uintptr(width),
		uintptr(height),
		uintptr(flags),
	)
	if ret == 0 {
		return win32Error(OpSetPosition, err)
	}
	return nil
}

// SetLayeredAttributes implements Backend.
func (b *Win32Backend) SetLayeredAttributes(h Handle, colorKey uint32, alpha uint8, flags LayeredFlags) error {
	ret, _, err := procSetLayeredWindowAttributes.Call(uintptr(h), uintptr(colorKey), uintptr(alpha), uintptr(flags))
	if ret == 0 {
		return win32Error(OpSetLayeredAttributes, err)
	}
	return nil
}

// ExtendFrame implements Backend. Full-bleed margins are passed to DWM as
// -1 on every side.
func (b *Win32Backend) ExtendFrame(h Handle, m Margins) error {
	margins := win32Margins{
		CxLeftWidth:    int32(m.Left),
		CxRightWidth:   int32(m.Right),
		CyTopHeight:    int32(m.Top),
		CyBottomHeight: int32(m.Bottom),
	}
	if m.FullBleed {
		margins = win32Margins{-1, -1, -1, -1}
	}
	if err := procDwmExtendFrameIntoClientArea.Find(); err != nil {
		return &BackendError{Op: OpExtendFrame, Err: err}
	}
	hr, _, _ := procDwmExtendFrameIntoClientArea.Call(uintptr(h), uintptr(unsafe.Pointer(&margins)))
	if hr != 0 {
		return &BackendError{Op: OpExtendFrame, Err: fmt.Errorf("HRESULT %#x", uint32(hr))}
	}
	return nil
}

// ReleaseCapture implements Backend.
func (b *Win32Backend) ReleaseCapture() error {
	ret, _, err := procReleaseCapture.Call()
	if ret == 0 {
		return win32Error(OpReleaseCapture, err)
	}
	return nil
}

// BeginSystemDrag posts the title-bar drag command. It is posted rather
// than sent so the frame goroutine does not block inside the modal move
// loop.
func (b *Win32Backend) BeginSystemDrag(h Handle) error {
	ret, _, err := procPostMessageW.Call(uintptr(h), wmSysCommand, scDragMove, 0)
	if ret == 0 {
		return win32Error(OpBeginSystemDrag, err)
	}
	return nil
}

// CursorPosition implements Backend.
func (b *Win32Backend) CursorPosition() (Point, error) {
	var p win32Point
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if ret == 0 {
		return Point{}, win32Error(OpCursorPosition, err)
	}
	return Point{X: int(p.X), Y: int(p.Y)}, nil
}

// Close implements Backend.
func (b *Win32Backend) Close() error { return nil }

func isSuccess(err error) bool {
	var errno syscall.Errno
	return err == nil || (errors.As(err, &errno) && errno == 0)
}

func win32Error(op string, err error) error {
	if isSuccess(err) {
		err = errors.New("call failed")
	}
	return &BackendError{Op: op, Err: err}
}
