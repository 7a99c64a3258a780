package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-overlay/internal/driver"
	"github.com/opd-ai/go-overlay/internal/input"
	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/scene"
	"github.com/opd-ai/go-overlay/internal/window"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

var errWindowPending = errors.New("overlay window not available yet")

// GameOptions wires a Game. Controller, Driver, Pointer and Scene are
// required.
type GameOptions struct {
	Config     Config
	Controller *window.Controller
	Driver     *driver.Driver
	Pointer    *input.Pointer
	Scene      *scene.Scene
	Mask       scene.LayerMask
	// SystemInput reports that the pointer is fed by the driver's system
	// poller rather than by ebiten cursor events.
	SystemInput bool
	Logger      logging.Logger
	Hooks       Hooks
}

// Game implements ebiten.Game. Each Update is one overlay frame.
type Game struct {
	config     Config
	controller *window.Controller
	driver     *driver.Driver
	pointer    *input.Pointer
	system     bool
	logger     logging.Logger
	hooks      Hooks
	metrics    *FrameMetrics
	mask       scene.LayerMask

	input   InputReader
	labels  LabelRendererInterface
	desktop func() (window.Resolution, bool)

	mu          sync.RWMutex
	scene       *scene.Scene
	pending     *scene.Scene
	hover       hover
	ctx         context.Context
	initialized bool
	running     bool
	initTries   int
}

// maxInitFrames is how many frames a missing window is retried before
// initialization fails; window managers may announce a new window a few
// frames after it is mapped.
const maxInitFrames = 120

// NewGame creates a Game from opts.
func NewGame(opts GameOptions) (*Game, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	if opts.Controller == nil || opts.Driver == nil || opts.Pointer == nil || opts.Scene == nil {
		return nil, errors.New("render: controller, driver, pointer and scene are required")
	}
	labels := NewLabelRenderer()
	labels.SetFontSize(opts.Config.LabelSize)
	return &Game{
		config:     opts.Config,
		controller: opts.Controller,
		driver:     opts.Driver,
		pointer:    opts.Pointer,
		system:     opts.SystemInput,
		logger:     logging.OrNop(opts.Logger),
		hooks:      opts.Hooks,
		metrics:    NewFrameMetrics(time.Second),
		input:      ebitenInput{},
		labels:     labels,
		desktop:    DesktopResolution,
		scene:      opts.Scene,
		mask:       opts.Mask,
	}, nil
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetScene schedules sc to replace the current scene at the start of the
// next frame. It is safe to call from any goroutine.
func (g *Game) SetScene(sc *scene.Scene) {
	if sc == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = sc
}

// Scene returns the scene used by the last frame.
func (g *Game) Scene() *scene.Scene {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scene
}

// Metrics returns the frame timing metrics.
func (g *Game) Metrics() *FrameMetrics {
	return g.metrics
}

// Update implements ebiten.Game.Update.
func (g *Game) Update() error {
	g.mu.Lock()
	ctx := g.ctx
	g.mu.Unlock()
	if ctx != nil {
		select {
		case <-ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	if err := g.ensureInitialized(); err != nil {
		if errors.Is(err, errWindowPending) {
			return nil
		}
		return err
	}
	sc := g.applyPendingScene()

	start := time.Now()
	if !g.system {
		x, y := g.input.CursorPosition()
		g.pointer.Update(float64(x), float64(y), g.input.LeftPressed())
	}
	mode := g.driver.Tick()
	g.handlePress(sc)
	elapsed := time.Since(start)

	g.metrics.RecordFrame(elapsed)
	if g.hooks.OnFrame != nil {
		g.hooks.OnFrame(FrameInfo{Mode: mode, Focus: g.driver.FocusForInput(), Duration: elapsed})
	}
	return nil
}

// ensureInitialized runs the controller initialization on the first frame,
// when the host window exists.
func (g *Game) ensureInitialized() error {
	g.mu.RLock()
	done := g.initialized
	g.mu.RUnlock()
	if done {
		return nil
	}

	res := g.targetResolution()
	if err := g.controller.Initialize(res, g.config.Fullscreen); err != nil {
		g.initTries++
		if errors.Is(err, window.ErrNoWindow) && g.initTries < maxInitFrames {
			if g.initTries == 1 {
				g.logger.Debug("overlay window not found yet, retrying", "error", err)
			}
			return errWindowPending
		}
		return fmt.Errorf("initialize overlay window after %d frames: %w", g.initTries, err)
	}

	g.mu.Lock()
	g.initialized = true
	g.scene.Camera.SetViewport(float64(res.Width), float64(res.Height))
	g.mu.Unlock()

	if g.hooks.OnInitialized != nil {
		g.hooks.OnInitialized(res)
	}
	return nil
}

// targetResolution is the configured resolution, or the desktop
// resolution for a fullscreen window without a custom resolution.
func (g *Game) targetResolution() window.Resolution {
	res := g.config.Resolution
	if g.config.Fullscreen && !g.config.CustomResolution {
		if desktop, ok := g.desktop(); ok {
			res = desktop
		} else {
			g.logger.Warn("desktop resolution unavailable, using configured resolution",
				"width", res.Width, "height", res.Height)
		}
	}
	return res
}

func (g *Game) applyPendingScene() *scene.Scene {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		res := g.controller.Resolution()
		g.pending.Camera.SetViewport(float64(res.Width), float64(res.Height))
		g.scene = g.pending
		g.pending = nil
		g.driver.SetScene(g.scene.UI, g.scene.World, g.scene.Camera)
		g.logger.Debug("scene swapped",
			"widgets", g.scene.UI.Len(), "bodies", g.scene.World.Len())
	}
	return g.scene
}

// handlePress acts on a fresh left press: drag handles start an OS window
// drag and buttons fire OnWidgetClicked.
func (g *Game) handlePress(sc *scene.Scene) {
	x, y := g.pointer.Position()
	var h hover
	w, onWidget := sc.UI.InteractiveAt(x, y)
	if onWidget {
		h.widget = w.ID
	} else if g.driver.FocusForInput() {
		if b, ok := sc.World.BodyAt(sc.Camera.ScreenToWorld(x, y), g.mask); ok {
			h.body = b.Name
		}
	}
	g.mu.Lock()
	g.hover = h
	g.mu.Unlock()

	if !onWidget || !g.input.LeftJustPressed() {
		return
	}
	switch w.Role {
	case scene.RoleDrag:
		if !g.controller.DragCurrentWindow() {
			g.logger.Debug("drag ignored outside windowed presentation", "widget", w.ID)
		}
	case scene.RoleButton:
		g.logger.Debug("widget clicked", "widget", w.ID)
		if g.hooks.OnWidgetClicked != nil {
			g.hooks.OnWidgetClicked(w)
		}
	}
}

// Draw implements ebiten.Game.Draw. The framebuffer is cleared to zero
// alpha so only the scene is visible over the desktop.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.RLock()
	sc, h := g.scene, g.hover
	g.mu.RUnlock()

	screen.Clear()
	g.drawScene(screen, sc, h)
}

// Layout implements ebiten.Game.Layout.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if res := g.controller.Resolution(); res.Valid() {
		return res.Width, res.Height
	}
	return g.config.Resolution.Width, g.config.Resolution.Height
}

// Run starts the ebiten game loop on a transparent, always-updating window.
// It blocks until the window is closed or the context is cancelled.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowSize(g.config.Resolution.Width, g.config.Resolution.Height)
	ebiten.SetWindowDecorated(false)
	ebiten.SetTPS(g.config.TargetFrameRate)
	ebiten.SetRunnableOnUnfocused(true)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	// Update must run on the thread that owns the OS window: native window
	// calls are synchronous messages to that thread.
	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       g.config.SkipTaskbar,
		SingleThread:      true,
	})

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
