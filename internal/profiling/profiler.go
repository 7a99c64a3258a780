// Package profiling writes CPU and heap profiles of an overlay run for
// inspection with go tool pprof.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"

	"github.com/opd-ai/go-overlay/internal/logging"
)

// Config selects the profiles to write. Empty paths disable a profile.
type Config struct {
	// CPUProfilePath receives the CPU profile of the whole run.
	CPUProfilePath string
	// MemProfilePath receives a heap profile taken when the run stops.
	MemProfilePath string
}

// Enabled reports whether any profile is configured.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// Profiler brackets a run: Start begins CPU sampling, Stop ends it and
// takes the heap snapshot.
type Profiler struct {
	mu      sync.Mutex
	cfg     Config
	logger  logging.Logger
	cpuFile *os.File
	running bool
}

// New returns a stopped Profiler.
func New(cfg Config, logger logging.Logger) *Profiler {
	return &Profiler{cfg: cfg, logger: logging.OrNop(logger)}
}

// Start begins CPU profiling when a CPU profile path is configured.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler is already running")
	}
	if p.cfg.CPUProfilePath != "" {
		f, err := os.Create(p.cfg.CPUProfilePath)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
		p.cpuFile = f
		p.logger.Info("CPU profiling started", "path", p.cfg.CPUProfilePath)
	}
	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile. Every step is
// attempted; the failures are joined.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return errors.New("profiler is not running")
	}
	p.running = false

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}
		p.cpuFile = nil
		p.logger.Info("CPU profile written", "path", p.cfg.CPUProfilePath)
	}
	if p.cfg.MemProfilePath != "" {
		if err := WriteHeapProfile(p.cfg.MemProfilePath); err != nil {
			errs = append(errs, err)
		} else {
			p.logger.Info("heap profile written", "path", p.cfg.MemProfilePath)
		}
	}
	return errors.Join(errs...)
}

// IsRunning reports whether Start has been called without Stop.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile forces a collection and writes a heap profile to path.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}
	return nil
}
