//go:build !noebiten

package render

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLabelRendererFontSize(t *testing.T) {
	lr := NewLabelRenderer()
	if lr.FontSize() != defaultFontSize {
		t.Errorf("FontSize() = %v, want %v", lr.FontSize(), defaultFontSize)
	}
	lr.SetFontSize(20)
	lr.SetFontSize(0)
	if lr.FontSize() != 20 {
		t.Errorf("FontSize() = %v, want 20", lr.FontSize())
	}
}

func TestLabelRendererMeasure(t *testing.T) {
	lr := NewLabelRenderer()
	short, h := lr.MeasureText("ab")
	long, _ := lr.MeasureText("abcdef")
	if short <= 0 || h <= 0 {
		t.Fatalf("MeasureText() = %v,%v", short, h)
	}
	if long <= short {
		t.Errorf("longer label measured %v, not wider than %v", long, short)
	}
	if w, _ := lr.MeasureText(""); w != 0 {
		t.Errorf("empty label width = %v", w)
	}
}

func TestLabelRendererDraw(t *testing.T) {
	lr := NewLabelRenderer()
	screen := ebiten.NewImage(100, 40)
	defer screen.Deallocate()
	lr.DrawText(screen, "overlay", 4, 4, color.RGBA{R: 255, A: 255})
}
