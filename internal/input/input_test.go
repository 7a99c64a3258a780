package input

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/window"
)

func TestPointerAxes(t *testing.T) {
	var p Pointer

	p.Move(10, 10)
	if dx, dy := p.Axes(); dx != 0 || dy != 0 {
		t.Errorf("first move should not produce movement, got %v,%v", dx, dy)
	}
	p.Move(15, 7)
	p.Update(20, 7, true)
	if dx, dy := p.Axes(); dx != 10 || dy != -3 {
		t.Errorf("Axes() = %v,%v, want 10,-3", dx, dy)
	}
	if x, y := p.Position(); x != 20 || y != 7 {
		t.Errorf("Position() = %v,%v", x, y)
	}
	if !p.Pressed() {
		t.Error("Pressed() should be true")
	}

	p.ResetAxes()
	if dx, dy := p.Axes(); dx != 0 || dy != 0 {
		t.Errorf("Axes() after reset = %v,%v", dx, dy)
	}
	if p.Pressed() {
		t.Error("reset should clear the button")
	}

	// The jump after a drag is not counted.
	p.Move(500, 500)
	if dx, dy := p.Axes(); dx != 0 || dy != 0 {
		t.Errorf("jump after reset counted as movement: %v,%v", dx, dy)
	}
}

type fakeOrigin struct{ r window.Rect }

func (f fakeOrigin) Bounds() window.Rect { return f.r }

func TestSystemInputProcess(t *testing.T) {
	backend := window.NewHeadlessBackend(window.Rect{})
	backend.SetCursor(window.Point{X: 150, Y: 260})
	var p Pointer

	si := NewSystemInput(backend, fakeOrigin{window.Rect{Left: 100, Top: 200, Right: 900, Bottom: 800}}, &p, nil)
	if err := si.Process(); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if x, y := p.Position(); x != 50 || y != 60 {
		t.Errorf("pointer = %v,%v, want window coordinates 50,60", x, y)
	}

	noOrigin := NewSystemInput(backend, nil, &p, nil)
	if err := noOrigin.Process(); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if x, y := p.Position(); x != 150 || y != 260 {
		t.Errorf("pointer = %v,%v, want screen coordinates", x, y)
	}
}

func TestSystemInputFailureLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	backend := window.NewHeadlessBackend(window.Rect{})
	backend.SetCursor(window.Point{X: 1, Y: 2})
	var p Pointer
	si := NewSystemInput(backend, nil, &p, logger)

	_ = si.Process()
	backend.FailOp(window.OpCursorPosition, errors.New("no pointer"))
	for i := 0; i < 3; i++ {
		if err := si.Process(); err == nil {
			t.Fatal("Process should fail")
		}
	}
	if n := strings.Count(buf.String(), "system cursor query failed"); n != 1 {
		t.Errorf("failure logged %d times, want 1", n)
	}
	if x, y := p.Position(); x != 1 || y != 2 {
		t.Errorf("pointer moved on failure: %v,%v", x, y)
	}

	backend.FailOp(window.OpCursorPosition, nil)
	if err := si.Process(); err != nil {
		t.Fatalf("Process after recovery failed: %v", err)
	}
	if !strings.Contains(buf.String(), "recovered") {
		t.Error("recovery not logged")
	}
}
