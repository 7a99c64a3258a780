package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-overlay/internal/scene"
)

// hover identifies what the pointer is over, for highlighting.
type hover struct {
	widget string
	body   string
}

// drawScene draws the collider world behind the UI. Bodies are projected
// through the camera; widgets are already in screen space.
func (g *Game) drawScene(screen *ebiten.Image, sc *scene.Scene, h hover) {
	for _, b := range sc.World.Bodies() {
		g.drawBody(screen, sc.Camera, b, b.Name == h.body)
	}
	for _, w := range sc.UI.Widgets() {
		g.drawWidget(screen, w, w.ID == h.widget)
	}
}

func (g *Game) drawBody(screen *ebiten.Image, cam *scene.Camera, b scene.Body, hovered bool) {
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	switch s := b.Shape.(type) {
	case scene.Circle:
		x, y := cam.WorldToScreen(s.Center)
		r := float32(s.Radius * zoom)
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, b.Color, true)
		if hovered {
			vector.StrokeCircle(screen, float32(x), float32(y), r, 2, g.config.HoverColor, true)
		}
	case scene.Box:
		x, y := cam.WorldToScreen(scene.Vec2{X: s.Center.X - s.Width/2, Y: s.Center.Y - s.Height/2})
		w, h := float32(s.Width*zoom), float32(s.Height*zoom)
		vector.DrawFilledRect(screen, float32(x), float32(y), w, h, b.Color, true)
		if hovered {
			vector.StrokeRect(screen, float32(x), float32(y), w, h, 2, g.config.HoverColor, true)
		}
	}
}

func (g *Game) drawWidget(screen *ebiten.Image, w scene.Widget, hovered bool) {
	r := w.Bounds
	x, y := float32(r.X), float32(r.Y)
	width, height := float32(r.Width), float32(r.Height)

	if w.Color.A > 0 {
		vector.DrawFilledRect(screen, x, y, width, height, w.Color, true)
	}
	if hovered {
		vector.StrokeRect(screen, x, y, width, height, 1, g.config.HoverColor, true)
	}
	if w.Label == "" || g.labels == nil {
		return
	}

	tw, th := g.labels.MeasureText(w.Label)
	lx := r.X + 6
	if w.Role == scene.RoleButton {
		lx = r.X + (r.Width-tw)/2
	}
	ly := r.Y + (r.Height-th)/2
	g.labels.DrawText(screen, w.Label, lx, ly, labelColor(g.config.LabelColor))
}

func labelColor(c color.RGBA) color.RGBA {
	if c.A == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}
