//go:build noebiten

package overlay

import (
	"context"

	"github.com/opd-ai/go-overlay/internal/window"
)

func newHostSurface(window.Resolution) window.Surface {
	return window.NewHeadlessSurface()
}

// runRender falls back to the headless loop in noebiten builds.
func (o *overlayImpl) runRender(ctx context.Context) error {
	o.logger.Warn("built without ebiten, running the headless frame loop")
	return o.runHeadless(ctx)
}
