package overlay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/opd-ai/go-overlay/internal/config"
)

// Overlay is an embedded overlay window with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Overlay interface {
	// Start begins the frame loop in a background goroutine and returns
	// immediately. Returns an error if already running or if the window
	// backend cannot be set up.
	Start() error

	// Run drives the frame loop on the calling goroutine until ctx is
	// cancelled, Stop is called or the window is closed. The ebiten host
	// must run on the main goroutine, so GUI programs call Run from main.
	Run(ctx context.Context) error

	// Stop ends the frame loop and waits for it to finish.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// ReloadScene re-reads the configuration source and swaps in its
	// overlay.scene section between frames. Window and input settings are
	// not reloaded. On error the previous scene stays active.
	ReloadScene() error

	// DragWindow queues an OS drag of the overlay window; it starts on the
	// next frame, on the frame goroutine. It reports false when the window
	// is fullscreen or not yet initialized.
	DragWindow() bool

	// IsRunning returns true if the frame loop is active.
	IsRunning() bool

	// Status returns detailed status information about the overlay.
	Status() Status

	// Health returns a health check result for monitoring.
	Health() HealthCheck

	// Metrics returns the metrics collector for this instance.
	Metrics() *Metrics

	// ErrorTracker returns the error tracker for this instance.
	ErrorTracker() *ErrorTracker

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously; panics in it are recovered.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle and interaction
	// events.
	SetEventHandler(handler EventHandler)
}

// New creates an Overlay from a Lua configuration file on disk. An empty
// path uses the default configuration. The overlay is created but not
// started.
//
// Example:
//
//	o, err := overlay.New("overlay.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := o.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
func New(configPath string, opts *Options) (Overlay, error) {
	opts = orDefaultOptions(opts)
	if configPath == "" {
		cfg := config.DefaultConfig()
		return newOverlay(&cfg, *opts, "defaults", "", nil), nil
	}

	loader := func() (*config.Config, error) {
		return parseWith(opts, func(p *config.Parser) (*config.Config, error) {
			return p.ParseFile(configPath)
		})
	}
	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return newOverlay(cfg, *opts, configPath, configPath, loader), nil
}

// NewFromFS creates an Overlay using a configuration file inside fsys,
// typically an embed.FS. Scene watching is not available for embedded
// configurations; ReloadScene re-reads fsys.
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (Overlay, error) {
	opts = orDefaultOptions(opts)
	loader := func() (*config.Config, error) {
		return parseWith(opts, func(p *config.Parser) (*config.Config, error) {
			return p.ParseFromFS(fsys, configPath)
		})
	}
	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config from FS: %w", err)
	}
	return newOverlay(cfg, *opts, "embedded:"+configPath, "", loader), nil
}

// NewFromReader creates an Overlay from Lua configuration content. Empty
// content yields the default configuration.
func NewFromReader(r io.Reader, opts *Options) (Overlay, error) {
	opts = orDefaultOptions(opts)

	// Read content once (can't re-read a Reader)
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	loader := func() (*config.Config, error) {
		return parseWith(opts, func(p *config.Parser) (*config.Config, error) {
			return p.ParseReader(bytes.NewReader(content))
		})
	}
	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return newOverlay(cfg, *opts, "reader", "", loader), nil
}

func orDefaultOptions(opts *Options) *Options {
	if opts == nil {
		defaultOpts := DefaultOptions()
		return &defaultOpts
	}
	return opts
}

// parseWith runs fn on a fresh parser carrying the Lua limits from opts.
func parseWith(opts *Options, fn func(*config.Parser) (*config.Config, error)) (*config.Config, error) {
	p, err := config.NewParser()
	if err != nil {
		return nil, fmt.Errorf("parser init: %w", err)
	}
	defer p.Close()
	p.SetLimits(opts.LuaCPULimit, opts.LuaMemoryLimit)
	return fn(p)
}
