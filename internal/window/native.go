package window

import "github.com/opd-ai/go-overlay/internal/logging"

// NativeOptions configure the OS backend returned by NewNativeBackend.
type NativeOptions struct {
	// Title is used to find the window owned by this process.
	Title string
	// SkipTaskbar hides the window from taskbars and pagers where the
	// backend can do so after the window exists.
	SkipTaskbar bool
	// Logger receives backend diagnostics. Nil discards them.
	Logger logging.Logger
}
