package overlay

import (
	"time"

	"github.com/opd-ai/go-overlay/internal/window"
)

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures an Overlay.
type Options struct {
	// Headless drives frames on a ticker without creating an ebiten window.
	// The headless window backend is used unless Backend is set.
	Headless bool

	// Backend overrides the native window backend selected from the
	// configuration. Used for embedding and tests.
	Backend window.Backend

	// WindowTitle overrides the configured window title.
	WindowTitle string

	// LuaCPULimit overrides the Lua instruction limit (zero keeps the
	// default of 10 million).
	LuaCPULimit uint64

	// LuaMemoryLimit overrides the Lua memory limit in bytes (zero keeps
	// the default of 50 MB).
	LuaMemoryLimit uint64

	// ShutdownTimeout bounds Stop. Zero means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger receives diagnostics. Nil discards them.
	Logger Logger

	// Metrics collects counters. Nil means DefaultMetrics().
	Metrics *Metrics

	// ErrorTracker aggregates errors. Nil means DefaultErrorTracker().
	ErrorTracker *ErrorTracker

	// WatchScene reloads overlay.scene when the configuration file changes
	// on disk. Window and input settings are not reloaded.
	WatchScene bool

	// WatchDebounce coalesces rapid file changes. Zero means
	// DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}
