// Package main provides the go-overlay command: a transparent, always-on-top
// window that captures the mouse only over its interactive content and lets
// clicks fall through to the desktop everywhere else.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/profiling"
	"github.com/opd-ai/go-overlay/pkg/overlay"
)

// Version is the current version of go-overlay.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	configPath string
	version    bool
	headless   bool
	watch      bool
	debug      bool
	check      bool
	cpuProfile string
	memProfile string
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("go-overlay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "c", "", "Path to Lua configuration file (defaults are used when empty)")
	fs.BoolVar(&f.version, "v", false, "Print version and exit")
	fs.BoolVar(&f.headless, "headless", false, "Run the frame driver without a window, against the headless backend")
	fs.BoolVar(&f.watch, "watch", false, "Reload overlay.scene when the configuration file changes")
	fs.BoolVar(&f.debug, "debug", false, "Log at debug level")
	fs.BoolVar(&f.check, "check", false, "Parse and validate the configuration, then exit")
	fs.StringVar(&f.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&f.memProfile, "memprofile", "", "Write memory profile to file")
	err := fs.Parse(args)
	return f, err
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if f.version {
		fmt.Fprintf(stdout, "go-overlay version %s\n", Version)
		return 0
	}

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	if f.check {
		return runCheck(cfg, stdout, stderr)
	}

	logger, err := newLogger(cfg.Logging, f.debug, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid logging configuration: %v\n", err)
		return 1
	}

	result := config.NewValidator().Validate(cfg)
	for _, w := range result.Warnings {
		logger.Warn("configuration warning", "field", w.Field, "message", w.Message)
	}
	if err := result.Error(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	profConfig := profiling.Config{CPUProfilePath: f.cpuProfile, MemProfilePath: f.memProfile}
	if profConfig.Enabled() {
		profiler := profiling.New(profConfig, logger)
		if err := profiler.Start(); err != nil {
			logger.Error("failed to start profiling", "error", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				logger.Warn("failed to stop profiling", "error", err)
			}
		}()
	}

	opts := overlay.DefaultOptions()
	opts.Headless = f.headless
	opts.WatchScene = f.watch
	opts.Logger = logger

	o, err := overlay.New(f.configPath, &opts)
	if err != nil {
		logger.Error("error creating overlay", "error", err)
		return 1
	}
	o.SetErrorHandler(func(err error) {
		logger.Warn("overlay error", "error", err)
	})
	o.SetEventHandler(func(e overlay.Event) {
		switch e.Type {
		case overlay.EventModeChanged, overlay.EventDragStarted:
			logger.Debug("overlay event", "type", e.Type.String(), "message", e.Message)
		default:
			logger.Info("overlay event", "type", e.Type.String(), "message", e.Message, "widget", e.Widget)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reloadOnHangup(ctx, o, logger)

	logger.Info("go-overlay starting", "version", Version, "config", configLabel(f.configPath))
	if err := o.Run(ctx); err != nil {
		logger.Error("overlay stopped with error", "error", err)
		return 1
	}
	return 0
}

// reloadOnHangup swaps in the scene from disk on every SIGHUP until ctx is
// done.
func reloadOnHangup(ctx context.Context, o overlay.Overlay, logger logging.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("received SIGHUP, reloading scene")
			if err := o.ReloadScene(); err != nil {
				logger.Warn("scene reload failed", "error", err)
			}
		}
	}
}

// loadConfig parses path, or returns the defaults for an empty path.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.DefaultConfig()
		return &cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, err
	}
	p, err := config.NewParser()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ParseFile(path)
}

// runCheck prints the validation result of cfg.
func runCheck(cfg *config.Config, stdout, stderr io.Writer) int {
	result := config.NewValidator().Validate(cfg)
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(stderr, "error: %s\n", e)
	}
	if !result.IsValid() {
		return 1
	}
	fmt.Fprintf(stdout, "configuration OK: %d widgets, %d bodies\n", len(cfg.Scene.Widgets), len(cfg.Scene.Bodies))
	return 0
}

// newLogger builds the logger selected by the configuration. -debug forces
// debug level text output.
func newLogger(lc config.LoggingConfig, debug bool, w io.Writer) (logging.Logger, error) {
	if debug {
		return logging.New(w, "text", "debug")
	}
	return logging.New(w, lc.Format, lc.Level)
}

func configLabel(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
