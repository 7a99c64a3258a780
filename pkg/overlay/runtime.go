package overlay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opd-ai/go-overlay/internal/config"
	"github.com/opd-ai/go-overlay/internal/driver"
	"github.com/opd-ai/go-overlay/internal/input"
	"github.com/opd-ai/go-overlay/internal/scene"
	"github.com/opd-ai/go-overlay/internal/window"
)

// sceneSink receives scene swaps for the GUI host.
type sceneSink interface {
	SetScene(*scene.Scene)
}

// runtime is the per-run object graph: the native backend, the window
// controller, the pointer and the frame driver.
type runtime struct {
	backend    window.Backend
	ownBackend bool
	controller *window.Controller
	surface    window.Surface
	pointer    *input.Pointer
	driver     *driver.Driver
	mask       scene.LayerMask
	// systemInput is true when the driver polls the OS cursor itself.
	systemInput bool

	mu      sync.Mutex
	scene   *scene.Scene
	pending *scene.Scene
	host    sceneSink
}

// selectBackend picks the native window backend for a run. Options.Backend
// wins; a headless run or a headless configuration uses the headless
// backend; otherwise the OS backend is created, falling back to headless
// in auto mode.
func selectBackend(cfg *config.Config, opts *Options, title string, logger Logger) (window.Backend, bool, error) {
	if opts.Backend != nil {
		return opts.Backend, false, nil
	}
	headless := window.NewHeadlessBackend(window.Rect{Right: cfg.Window.Width, Bottom: cfg.Window.Height})
	if opts.Headless || cfg.Window.Backend == config.BackendHeadless {
		return headless, true, nil
	}

	native, err := window.NewNativeBackend(window.NativeOptions{
		Title:       title,
		SkipTaskbar: cfg.Window.SkipTaskbar,
		Logger:      logger,
	})
	if err == nil {
		return native, true, nil
	}
	if cfg.Window.Backend == config.BackendNative {
		return nil, false, fmt.Errorf("native window backend: %w", err)
	}
	logger.Warn("native window backend unavailable, using headless backend", "error", err)
	return headless, true, nil
}

// newRuntime wires a runtime for cfg. surface receives the render
// resolution during controller initialization.
func newRuntime(cfg *config.Config, opts *Options, title string, surface window.Surface, logger Logger, observer window.Observer) (*runtime, error) {
	sc, err := buildScene(cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	backend, own, err := selectBackend(cfg, opts, title, logger)
	if err != nil {
		return nil, err
	}

	pointer := &input.Pointer{}
	controller := window.NewController(backend, surface,
		window.WithLogger(logger),
		window.WithObserver(observer),
		window.WithAxisResetter(pointer),
	)

	rt := &runtime{
		backend:    backend,
		ownBackend: own,
		controller: controller,
		surface:    surface,
		pointer:    pointer,
		mask:       scene.LayerMask(cfg.Input.ClickLayerMask),
		scene:      sc,
	}

	// Headless runs have no window events, so the OS cursor is the only
	// pointer source.
	var system driver.SystemInput
	if cfg.Input.UseSystemInput || opts.Headless {
		system = input.NewSystemInput(backend, controller, pointer, logger)
		rt.systemInput = true
	}

	rt.driver, err = driver.New(driver.Config{
		UI:      sc.UI,
		Physics: sc.World,
		Camera:  sc.Camera,
		Pointer: pointer,
		System:  system,
		Sink:    controller,
		Dragger: controller,
		Mask:    rt.mask,
		Logger:  logger,
	})
	if err != nil {
		rt.close()
		return nil, err
	}
	return rt, nil
}

// setScene hands sc to the GUI host, or queues it for the next headless
// frame.
func (rt *runtime) setScene(sc *scene.Scene) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.host != nil {
		rt.host.SetScene(sc)
		rt.scene = sc
		return
	}
	rt.pending = sc
}

// attachHost routes later scene swaps to host. A queued scene is handed
// over immediately. A nil host detaches.
func (rt *runtime) attachHost(host sceneSink) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.host = host
	if host != nil && rt.pending != nil {
		host.SetScene(rt.pending)
		rt.scene = rt.pending
		rt.pending = nil
	}
}

func (rt *runtime) currentScene() *scene.Scene {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.pending != nil {
		return rt.pending
	}
	return rt.scene
}

// applyPending installs a queued scene. It runs on the frame goroutine.
func (rt *runtime) applyPending() {
	rt.mu.Lock()
	sc := rt.pending
	rt.pending = nil
	if sc != nil {
		rt.scene = sc
	}
	rt.mu.Unlock()
	if sc == nil {
		return
	}
	res := rt.controller.Resolution()
	sc.Camera.SetViewport(float64(res.Width), float64(res.Height))
	rt.driver.SetScene(sc.UI, sc.World, sc.Camera)
}

func (rt *runtime) close() error {
	if !rt.ownBackend {
		return nil
	}
	return rt.backend.Close()
}

// errTargetFrameRate is returned for a headless run without a positive
// frame rate.
var errTargetFrameRate = errors.New("target frame rate must be positive")

// frameInterval converts a frame rate to a ticker period.
func frameInterval(fps int) (time.Duration, error) {
	if fps <= 0 {
		return 0, errTargetFrameRate
	}
	return time.Second / time.Duration(fps), nil
}
