//go:build !noebiten

package overlay

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-overlay/internal/render"
	"github.com/opd-ai/go-overlay/internal/scene"
	"github.com/opd-ai/go-overlay/internal/window"
)

func newHostSurface(res window.Resolution) window.Surface {
	return render.NewSurface(res)
}

// renderConfig maps the window settings onto the ebiten host.
func (o *overlayImpl) renderConfig() render.Config {
	o.mu.RLock()
	win := o.cfg.Window
	o.mu.RUnlock()

	rc := render.DefaultConfig()
	rc.Title = win.Title
	rc.Resolution = window.Resolution{Width: win.Width, Height: win.Height}
	rc.Fullscreen = win.Fullscreen
	rc.CustomResolution = win.CustomResolution
	rc.TargetFrameRate = win.TargetFrameRate
	rc.SkipTaskbar = win.SkipTaskbar
	return rc
}

// runRender hosts the frame loop on ebiten. It blocks until the window is
// closed or ctx is cancelled.
func (o *overlayImpl) runRender(ctx context.Context) error {
	if warning := render.CheckTransparencySupport(); warning != "" {
		o.logger.Warn(warning)
	}

	o.mu.RLock()
	rt := o.rt
	o.mu.RUnlock()

	game, err := render.NewGame(render.GameOptions{
		Config:      o.renderConfig(),
		Controller:  rt.controller,
		Driver:      rt.driver,
		Pointer:     rt.pointer,
		Scene:       rt.currentScene(),
		Mask:        rt.mask,
		SystemInput: rt.systemInput,
		Logger:      o.logger,
		Hooks: render.Hooks{
			OnFrame: func(fi render.FrameInfo) {
				o.recordFrame(fi.Mode, fi.Focus, fi.Duration)
			},
			OnWidgetClicked: func(w scene.Widget) {
				o.metrics.IncrementWidgetClicks()
				o.emitEvent(Event{Type: EventWidgetClicked, Message: w.Label, Widget: w.ID})
			},
			OnInitialized: func(res window.Resolution) {
				o.logger.Debug("render surface ready", "width", res.Width, "height", res.Height)
			},
		},
	})
	if err != nil {
		return err
	}
	game.SetContext(ctx)

	rt.attachHost(game)
	defer rt.attachHost(nil)

	if err := game.Run(); err != nil {
		return fmt.Errorf("render loop error: %w", err)
	}
	return nil
}
