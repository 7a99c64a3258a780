//go:build !windows && !linux

package window

// NewNativeBackend reports ErrUnsupported: only Win32 and X11 backends
// exist. Callers fall back to the headless backend.
func NewNativeBackend(opts NativeOptions) (Backend, error) {
	return nil, ErrUnsupported
}
