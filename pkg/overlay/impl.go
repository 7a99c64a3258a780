package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/window"
)

// errBox lets atomic.Value hold errors of different concrete types.
type errBox struct{ err error }

// overlayImpl is the private implementation of the Overlay interface.
type overlayImpl struct {
	// Configuration
	cfg          *config.Config
	opts         Options
	configSource string
	watchPath    string // Disk path for the scene watcher ("" when not watchable)
	configLoader func() (*config.Config, error)

	// Components
	logger  Logger
	metrics *Metrics
	tracker *ErrorTracker
	rt      *runtime
	watcher *sceneWatcher

	// State
	running   atomic.Bool
	startTime time.Time
	frames    atomic.Uint64
	lastError atomic.Value // stores errBox

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Synchronization
	mu     sync.RWMutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Verify interface implementation at compile time.
var _ Overlay = (*overlayImpl)(nil)

func newOverlay(cfg *config.Config, opts Options, source, watchPath string, loader func() (*config.Config, error)) *overlayImpl {
	if opts.WindowTitle != "" {
		cfg.Window.Title = opts.WindowTitle
	}
	o := &overlayImpl{
		cfg:          cfg,
		opts:         opts,
		configSource: source,
		watchPath:    watchPath,
		configLoader: loader,
		logger:       logging.OrNop(opts.Logger),
		metrics:      opts.Metrics,
		tracker:      opts.ErrorTracker,
	}
	if o.metrics == nil {
		o.metrics = DefaultMetrics()
	}
	if o.tracker == nil {
		o.tracker = DefaultErrorTracker()
	}
	return o
}

// Start begins the frame loop in a background goroutine.
func (o *overlayImpl) Start() error {
	ctx, err := o.begin(context.Background())
	if err != nil {
		return err
	}
	go func() {
		defer o.finish()
		if err := o.loop(ctx); err != nil {
			o.notifyError(err, ErrorCategoryRender, SeverityCritical)
		}
	}()
	return nil
}

// Run drives the frame loop on the calling goroutine.
func (o *overlayImpl) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, err := o.begin(ctx)
	if err != nil {
		return err
	}
	defer o.finish()
	if err := o.loop(runCtx); err != nil {
		o.notifyError(err, ErrorCategoryRender, SeverityCritical)
		return err
	}
	return nil
}

// begin builds the runtime and marks the overlay running.
func (o *overlayImpl) begin(parent context.Context) (context.Context, error) {
	o.mu.Lock()

	if o.running.Load() {
		o.mu.Unlock()
		return nil, errors.New("overlay already running")
	}

	rt, err := o.newRuntime()
	if err != nil {
		o.mu.Unlock()
		wrapped := fmt.Errorf("failed to initialize: %w", err)
		o.notifyError(wrapped, ErrorCategoryWindow, SeverityCritical)
		return nil, wrapped
	}

	ctx, cancel := context.WithCancel(parent)
	o.rt = rt
	o.cancel = cancel
	o.startTime = time.Now()
	o.frames.Store(0)
	o.lastError.Store(errBox{})

	if o.opts.WatchScene && o.watchPath != "" {
		w, err := newSceneWatcher(o.watchPath, o.opts.WatchDebounce, o.reloadFromWatcher, func(err error) {
			o.notifyError(fmt.Errorf("scene watcher: %w", err), ErrorCategoryConfig, SeverityWarning)
		})
		if err != nil {
			o.logger.Warn("scene watcher unavailable", "path", o.watchPath, "error", err)
		} else {
			o.watcher = w
			w.Start()
		}
	}

	// Set running state before the loop starts to avoid a race with Stop.
	o.running.Store(true)
	o.wg.Add(1)
	o.metrics.IncrementStarts()
	o.metrics.SetRunning(true)
	o.mu.Unlock()

	o.logger.Info("overlay started",
		"backend", rt.controller.BackendName(),
		"config", o.configSource,
		"headless", o.opts.Headless)
	o.emitEvent(Event{Type: EventStarted, Message: "Overlay started"})
	return ctx, nil
}

// finish tears down the runtime after the loop returns.
func (o *overlayImpl) finish() {
	o.mu.Lock()
	w := o.watcher
	o.watcher = nil
	rt := o.rt
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	if rt != nil {
		if err := rt.close(); err != nil {
			o.logger.Warn("closing window backend failed", "error", err)
		}
	}

	o.running.Store(false)
	o.metrics.SetRunning(false)
	o.logger.Info("overlay stopped", "frames", o.frames.Load())
	o.emitEvent(Event{Type: EventStopped, Message: "Overlay stopped"})
	o.wg.Done()
}

func (o *overlayImpl) newRuntime() (*runtime, error) {
	if o.cfg == nil {
		return nil, errors.New("configuration is nil")
	}
	res := window.Resolution{Width: o.cfg.Window.Width, Height: o.cfg.Window.Height}
	var surface window.Surface
	if o.opts.Headless {
		surface = window.NewHeadlessSurface()
	} else {
		surface = newHostSurface(res)
	}
	return newRuntime(o.cfg, &o.opts, o.cfg.Window.Title, surface, o.logger, frameObserver{o: o})
}

// loop runs the GUI host, or the ticker loop for headless runs.
func (o *overlayImpl) loop(ctx context.Context) error {
	if o.opts.Headless {
		return o.runHeadless(ctx)
	}
	return o.runRender(ctx)
}

// runHeadless drives frames on a ticker at the target frame rate without a
// host window.
func (o *overlayImpl) runHeadless(ctx context.Context) error {
	o.mu.RLock()
	rt := o.rt
	win := o.cfg.Window
	o.mu.RUnlock()

	interval, err := frameInterval(win.TargetFrameRate)
	if err != nil {
		return err
	}
	res := window.Resolution{Width: win.Width, Height: win.Height}
	if err := rt.controller.Initialize(res, win.Fullscreen); err != nil {
		return fmt.Errorf("initialize overlay window: %w", err)
	}
	rt.currentScene().Camera.SetViewport(float64(res.Width), float64(res.Height))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			o.headlessFrame(rt)
		}
	}
}

func (o *overlayImpl) headlessFrame(rt *runtime) {
	rt.applyPending()
	start := time.Now()
	mode := rt.driver.Tick()
	o.recordFrame(mode, rt.driver.FocusForInput(), time.Since(start))
}

func (o *overlayImpl) recordFrame(mode Mode, focus bool, d time.Duration) {
	o.frames.Add(1)
	o.metrics.RecordFrame(mode, focus, d)
}

// Stop ends the frame loop and waits for it to finish.
func (o *overlayImpl) Stop() error {
	if !o.running.Load() {
		return nil // Already stopped
	}

	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	timeout := o.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		o.metrics.IncrementStops()
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: frame loop did not stop", timeout)
		o.notifyError(err, ErrorCategoryRender, SeverityError)
		return err
	}
}

// ReloadScene re-reads the configuration and swaps in its scene.
func (o *overlayImpl) ReloadScene() error {
	if !o.running.Load() {
		return errors.New("overlay not running")
	}
	if o.configLoader == nil {
		return errors.New("no config loader available")
	}

	newCfg, err := o.configLoader()
	if err != nil {
		wrapped := fmt.Errorf("scene reload failed: %w", err)
		o.notifyError(wrapped, ErrorCategoryConfig, SeverityError)
		return wrapped
	}

	o.mu.RLock()
	oldCfg := o.cfg
	rt := o.rt
	o.mu.RUnlock()

	result := config.NewValidator().ValidateScene(&newCfg.Scene, oldCfg.Input.ClickLayerMask)
	if err := result.Error(); err != nil {
		wrapped := fmt.Errorf("scene reload failed: %w", err)
		o.notifyError(wrapped, ErrorCategoryScene, SeverityError)
		return wrapped
	}
	for _, w := range result.Warnings {
		o.logger.Warn("scene warning", "field", w.Field, "message", w.Message)
	}

	sc, err := buildScene(newCfg.Scene)
	if err != nil {
		wrapped := fmt.Errorf("scene reload failed: %w", err)
		o.notifyError(wrapped, ErrorCategoryScene, SeverityError)
		return wrapped
	}

	if o.opts.WindowTitle != "" {
		newCfg.Window.Title = o.opts.WindowTitle
	}
	if newCfg.Window != oldCfg.Window || newCfg.Input != oldCfg.Input {
		o.logger.Info("window or input settings changed; restart to apply them")
	}

	o.mu.Lock()
	updated := *oldCfg
	updated.Scene = newCfg.Scene
	o.cfg = &updated
	o.mu.Unlock()

	if rt != nil {
		rt.setScene(sc)
	}

	o.metrics.IncrementSceneReloads()
	o.logger.Info("scene reloaded",
		"widgets", len(newCfg.Scene.Widgets),
		"bodies", len(newCfg.Scene.Bodies))
	o.emitEvent(Event{Type: EventSceneReloaded, Message: "Scene reloaded"})
	return nil
}

func (o *overlayImpl) reloadFromWatcher() error {
	if err := o.ReloadScene(); err != nil {
		o.logger.Warn("scene reload from file change failed", "error", err)
	}
	return nil
}

// DragWindow queues an OS drag of the overlay window for the next frame.
func (o *overlayImpl) DragWindow() bool {
	o.mu.RLock()
	rt := o.rt
	o.mu.RUnlock()
	if rt == nil || !o.running.Load() {
		return false
	}
	if rt.controller.Mode() == window.ModeUninitialized ||
		rt.surface.PresentationMode() != window.PresentationWindowed {
		return false
	}
	return rt.driver.RequestDrag()
}

// IsRunning returns true if the frame loop is active.
func (o *overlayImpl) IsRunning() bool {
	return o.running.Load()
}

// Status returns detailed status information about the overlay.
func (o *overlayImpl) Status() Status {
	o.mu.RLock()
	rt := o.rt
	st := Status{
		Running:      o.running.Load(),
		StartTime:    o.startTime,
		Frames:       o.frames.Load(),
		LastError:    o.getError(),
		ConfigSource: o.configSource,
	}
	o.mu.RUnlock()

	if rt != nil {
		st.Mode = rt.controller.Mode()
		st.Bounds = rt.controller.Bounds()
		st.Backend = rt.controller.BackendName()
		st.FocusForInput = rt.driver.FocusForInput()
	}
	return st
}

// Health returns a health check result for the overlay.
func (o *overlayImpl) Health() HealthCheck {
	now := time.Now()
	components := make(map[string]ComponentHealth)
	running := o.running.Load()

	o.mu.RLock()
	var uptime time.Duration
	if running && !o.startTime.IsZero() {
		uptime = now.Sub(o.startTime)
	}
	rt := o.rt
	o.mu.RUnlock()

	switch {
	case !running || rt == nil:
		components["window"] = ComponentHealth{Status: HealthUnhealthy, Message: "Overlay is not running"}
	case rt.controller.Mode() == ModeUninitialized:
		components["window"] = ComponentHealth{Status: HealthDegraded, Message: "Waiting for the window to initialize"}
	default:
		components["window"] = ComponentHealth{
			Status:  HealthOK,
			Message: fmt.Sprintf("%s window in %s mode, %d frames", rt.controller.BackendName(), rt.controller.Mode(), o.frames.Load()),
		}
	}

	if rt != nil {
		sc := rt.currentScene()
		if sc.Interactive(rt.mask) {
			components["scene"] = ComponentHealth{
				Status:  HealthOK,
				Message: fmt.Sprintf("%d widgets, %d bodies", sc.UI.Len(), sc.World.Len()),
			}
		} else {
			components["scene"] = ComponentHealth{
				Status:  HealthDegraded,
				Message: "Scene has no interactive content; the window always clicks through",
			}
		}
	}

	lastErr := o.getError()
	if lastErr != nil {
		components["errors"] = ComponentHealth{Status: HealthDegraded, Message: lastErr.Error()}
	} else {
		components["errors"] = ComponentHealth{Status: HealthOK, Message: "No recent errors"}
	}

	overall := HealthOK
	message := "All components healthy"
	if !running {
		overall = HealthUnhealthy
		message = "Overlay is not running"
	} else {
		for _, name := range []string{"window", "scene", "errors"} {
			if c, ok := components[name]; ok && c.Status != HealthOK {
				overall = HealthDegraded
				message = "Degraded component: " + name
				break
			}
		}
	}

	return HealthCheck{
		Status:     overall,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// Metrics returns the metrics collector for this instance.
func (o *overlayImpl) Metrics() *Metrics {
	return o.metrics
}

// ErrorTracker returns the error tracker for this instance.
func (o *overlayImpl) ErrorTracker() *ErrorTracker {
	return o.tracker
}

// SetErrorHandler registers a callback for runtime errors.
func (o *overlayImpl) SetErrorHandler(handler ErrorHandler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (o *overlayImpl) SetEventHandler(handler EventHandler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.eventHandler = handler
}

// getError retrieves the last error.
func (o *overlayImpl) getError() error {
	if v, ok := o.lastError.Load().(errBox); ok {
		return v.err
	}
	return nil
}

// recordError stores err and adds it to the tracker without notifying the
// handlers. Per-frame failures use it directly.
func (o *overlayImpl) recordError(err error, category ErrorCategory, severity ErrorSeverity, kv ...string) {
	o.lastError.Store(errBox{err: err})
	o.metrics.IncrementErrors()
	ce := NewCategorizedError(err, category, severity)
	for i := 0; i+1 < len(kv); i += 2 {
		ce.WithContext(kv[i], kv[i+1])
	}
	o.tracker.Record(ce)
}

// notifyError records err and invokes the error handler if registered.
func (o *overlayImpl) notifyError(err error, category ErrorCategory, severity ErrorSeverity) {
	o.recordError(err, category, severity)

	o.mu.RLock()
	handler := o.errorHandler
	o.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("error handler panicked", "panic", r, "original_error", err)
				}
			}()
			handler(err)
		}()
	}

	o.emitEvent(Event{Type: EventError, Message: err.Error()})
}

// emitEvent sends ev to the event handler if configured.
func (o *overlayImpl) emitEvent(ev Event) {
	o.metrics.IncrementEventsEmitted()
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	o.mu.RLock()
	handler := o.eventHandler
	o.mu.RUnlock()

	if handler == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.mu.RLock()
				errHandler := o.errorHandler
				o.mu.RUnlock()
				o.logger.Error("event handler panicked", "panic", r, "event", ev.Type.String())
				if errHandler != nil {
					if err, ok := r.(error); ok {
						errHandler(fmt.Errorf("panic in event handler: %w", err))
					} else {
						errHandler(fmt.Errorf("panic in event handler: %v", r))
					}
				}
			}
		}()
		handler(ev)
	}()
}

// frameObserver turns controller notifications into metrics, tracked
// errors and events. It is called with the controller lock held and must
// not call back into the controller.
type frameObserver struct {
	o *overlayImpl
}

func (f frameObserver) ModeApplied(from, to window.Mode) {
	f.o.metrics.SetMode(to)
	if from == window.ModeUninitialized || from == to {
		return
	}
	f.o.metrics.IncrementModeTransitions()
	f.o.logger.Debug("window mode changed", "from", from.String(), "to", to.String())
	f.o.emitEvent(Event{Type: EventModeChanged, Message: to.String(), Mode: to})
}

func (f frameObserver) ModeSkipped(window.Mode) {
	f.o.metrics.IncrementSkippedApplies()
}

func (f frameObserver) GeometryQueryFailed(err error) {
	f.o.metrics.IncrementGeometryFailures()
	f.o.recordError(err, ErrorCategoryGeometry, SeverityWarning)
}

func (f frameObserver) BackendCallFailed(op string, err error) {
	f.o.metrics.IncrementBackendErrors()
	f.o.recordError(err, ErrorCategoryWindow, SeverityWarning, "op", op)
}

func (f frameObserver) DragStarted() {
	f.o.metrics.IncrementDrags()
	f.o.emitEvent(Event{Type: EventDragStarted, Message: "Window drag started"})
}
