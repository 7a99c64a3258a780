package render

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// defaultFontSize is the default label size in points.
const defaultFontSize = 14.0

// LabelRendererInterface draws widget labels. This allows for mocking in
// tests.
type LabelRendererInterface interface {
	DrawText(screen *ebiten.Image, label string, x, y float64, clr color.RGBA)
	MeasureText(label string) (width, height float64)
	SetFontSize(size float64)
	FontSize() float64
}

// LabelRenderer draws text with the embedded Go Regular face.
type LabelRenderer struct {
	source   *text.GoTextFaceSource
	fontSize float64
	mu       sync.RWMutex
}

// NewLabelRenderer creates a LabelRenderer at the default size.
func NewLabelRenderer() *LabelRenderer {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("failed to load embedded font: " + err.Error())
	}
	return &LabelRenderer{source: source, fontSize: defaultFontSize}
}

// SetFontSize sets the label size. Non-positive sizes are ignored.
func (lr *LabelRenderer) SetFontSize(size float64) {
	if size <= 0 {
		return
	}
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.fontSize = size
}

// FontSize returns the current label size.
func (lr *LabelRenderer) FontSize() float64 {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return lr.fontSize
}

func (lr *LabelRenderer) face() *text.GoTextFace {
	return &text.GoTextFace{Source: lr.source, Size: lr.fontSize}
}

// DrawText draws label with its top-left corner at x, y.
func (lr *LabelRenderer) DrawText(screen *ebiten.Image, label string, x, y float64, clr color.RGBA) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = lr.fontSize * 1.2
	text.Draw(screen, label, lr.face(), op)
}

// MeasureText returns the size of label.
func (lr *LabelRenderer) MeasureText(label string) (width, height float64) {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return text.Measure(label, lr.face(), lr.fontSize*1.2)
}
