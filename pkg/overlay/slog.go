package overlay

import (
	"io"
	"log/slog"
	"os"

	"github.com/opd-ai/go-overlay/internal/logging"
)

// Logger is the slog-style logging interface accepted by Options.Logger.
type Logger = logging.Logger

// NewSlogAdapter wraps a *slog.Logger as a Logger. A nil logger uses
// slog.Default().
//
// Example:
//
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	opts.Logger = overlay.NewSlogAdapter(slog.New(handler))
func NewSlogAdapter(logger *slog.Logger) Logger {
	return logging.NewSlogAdapter(logger)
}

// DefaultLogger logs text at Info level to stderr.
func DefaultLogger() Logger {
	return logging.NewTextLogger(os.Stderr, slog.LevelInfo)
}

// DebugLogger logs text at Debug level to stderr, with source locations.
func DebugLogger() Logger {
	return logging.NewTextLogger(os.Stderr, slog.LevelDebug)
}

// JSONLogger logs JSON at level to w (stderr when nil).
func JSONLogger(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	return logging.NewJSONLogger(w, level)
}

// NopLogger discards all messages.
func NopLogger() Logger {
	return logging.Nop()
}
