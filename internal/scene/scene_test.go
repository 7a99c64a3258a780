package scene

import (
	"math"
	"testing"
)

func TestLayerMask(t *testing.T) {
	if LayerBit(0) != 1 || LayerBit(31) != 1<<31 {
		t.Error("LayerBit returned wrong bits")
	}
	if LayerBit(-1) != 0 || LayerBit(32) != 0 {
		t.Error("out of range layers should yield an empty mask")
	}
	m := LayerBit(2) | LayerBit(5)
	if !m.Has(2) || !m.Has(5) || m.Has(3) {
		t.Errorf("mask %#b membership wrong", m)
	}
	if !AllLayers.Has(31) || !AllLayers.Has(0) {
		t.Error("AllLayers should contain every layer")
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		p     Vec2
		want  bool
	}{
		{"box centre", Box{Center: Vec2{10, 10}, Width: 4, Height: 2}, Vec2{10, 10}, true},
		{"box edge", Box{Center: Vec2{10, 10}, Width: 4, Height: 2}, Vec2{12, 11}, true},
		{"box outside", Box{Center: Vec2{10, 10}, Width: 4, Height: 2}, Vec2{12.1, 10}, false},
		{"circle inside", Circle{Center: Vec2{0, 0}, Radius: 5}, Vec2{3, 4}, true},
		{"circle outside", Circle{Center: Vec2{0, 0}, Radius: 5}, Vec2{4, 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.ContainsPoint(tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if b := (Circle{Center: Vec2{1, 1}, Radius: 2}).Bounds(); b != (Rect{X: -1, Y: -1, Width: 4, Height: 4}) {
		t.Errorf("circle bounds = %+v", b)
	}
	if b := (Box{Center: Vec2{0, 0}, Width: 4, Height: 2}).Bounds(); b != (Rect{X: -2, Y: -1, Width: 4, Height: 2}) {
		t.Errorf("box bounds = %+v", b)
	}
}

func TestWorldOverlapPoint(t *testing.T) {
	w, err := NewWorld(
		Body{Name: "back", Layer: 1, Shape: Circle{Radius: 100}},
		Body{Name: "front", Layer: 3, Shape: Box{Width: 10, Height: 10}},
	)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	tests := []struct {
		name     string
		p        Vec2
		mask     LayerMask
		want     bool
		wantBody string
	}{
		{"front body wins", Vec2{0, 0}, AllLayers, true, "front"},
		{"masked front falls back", Vec2{0, 0}, LayerBit(1), true, "back"},
		{"only back body", Vec2{50, 0}, AllLayers, true, "back"},
		{"mask excludes back", Vec2{50, 0}, LayerBit(3), false, ""},
		{"empty mask", Vec2{0, 0}, 0, false, ""},
		{"outside everything", Vec2{500, 500}, AllLayers, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.OverlapPoint(tt.p, tt.mask); got != tt.want {
				t.Errorf("OverlapPoint = %v, want %v", got, tt.want)
			}
			b, _ := w.BodyAt(tt.p, tt.mask)
			if b.Name != tt.wantBody {
				t.Errorf("BodyAt = %q, want %q", b.Name, tt.wantBody)
			}
		})
	}
	if w.Len() != 2 || len(w.Bodies()) != 2 {
		t.Errorf("world has %d bodies, want 2", w.Len())
	}
}

func TestWorldAddRejectsInvalid(t *testing.T) {
	if _, err := NewWorld(Body{Name: "x", Layer: 32, Shape: Circle{Radius: 1}}); err == nil {
		t.Error("layer 32 should be rejected")
	}
	if _, err := NewWorld(Body{Name: "x"}); err == nil {
		t.Error("body without shape should be rejected")
	}
	var nilWorld *World
	if nilWorld.OverlapPoint(Vec2{}, AllLayers) || nilWorld.Len() != 0 || nilWorld.Bodies() != nil {
		t.Error("nil world should be empty")
	}
}

func TestCamera(t *testing.T) {
	cam := NewCamera(Vec2{100, 50}, 2)
	cam.SetViewport(800, 600)

	tests := []struct {
		sx, sy float64
		want   Vec2
	}{
		{400, 300, Vec2{100, 50}},
		{0, 0, Vec2{-100, -100}},
		{800, 600, Vec2{300, 200}},
	}
	for _, tt := range tests {
		got := cam.ScreenToWorld(tt.sx, tt.sy)
		if got != tt.want {
			t.Errorf("ScreenToWorld(%v, %v) = %v, want %v", tt.sx, tt.sy, got, tt.want)
		}
		x, y := cam.WorldToScreen(got)
		if math.Abs(x-tt.sx) > 1e-9 || math.Abs(y-tt.sy) > 1e-9 {
			t.Errorf("WorldToScreen(%v) = (%v, %v), want (%v, %v)", got, x, y, tt.sx, tt.sy)
		}
	}

	if w, h := cam.Viewport(); w != 800 || h != 600 {
		t.Errorf("Viewport() = %v, %v", w, h)
	}
	if NewCamera(Vec2{}, 0).Zoom != 1 {
		t.Error("non-positive zoom should default to 1")
	}
	zero := &Camera{}
	if got := zero.ScreenToWorld(3, 4); got != (Vec2{3, 4}) {
		t.Errorf("zero camera ScreenToWorld = %v", got)
	}
}

func TestUIPointerOverInteractive(t *testing.T) {
	ui := NewUI(
		Widget{ID: "bar", Role: RoleDrag, Bounds: Rect{X: 0, Y: 0, Width: 100, Height: 20}},
		Widget{ID: "btn", Role: RoleButton, Bounds: Rect{X: 80, Y: 0, Width: 20, Height: 20}},
		Widget{ID: "note", Role: RoleLabel, Bounds: Rect{X: 0, Y: 0, Width: 200, Height: 200}},
	)

	tests := []struct {
		x, y   float64
		want   bool
		wantID string
	}{
		{10, 10, true, "bar"},
		{90, 10, true, "btn"},
		{150, 150, false, ""},
		{100, 10, false, ""},
		{-1, 0, false, ""},
	}
	for _, tt := range tests {
		if got := ui.PointerOverInteractive(tt.x, tt.y); got != tt.want {
			t.Errorf("PointerOverInteractive(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
		w, _ := ui.InteractiveAt(tt.x, tt.y)
		if w.ID != tt.wantID {
			t.Errorf("InteractiveAt(%v, %v) = %q, want %q", tt.x, tt.y, w.ID, tt.wantID)
		}
	}

	var nilUI *UI
	if nilUI.PointerOverInteractive(0, 0) || nilUI.Len() != 0 {
		t.Error("nil UI should have nothing interactive")
	}
}

func TestSceneInteractive(t *testing.T) {
	empty := New(nil, nil, nil)
	if empty.Interactive(AllLayers) {
		t.Error("empty scene should not be interactive")
	}

	labels := New(NewUI(Widget{ID: "l", Role: RoleLabel}), nil, nil)
	if labels.Interactive(AllLayers) {
		t.Error("labels alone are not interactive")
	}

	w, _ := NewWorld(Body{Name: "b", Layer: 4, Shape: Circle{Radius: 1}})
	bodies := New(nil, w, nil)
	if !bodies.Interactive(LayerBit(4)) {
		t.Error("masked body should be interactive")
	}
	if bodies.Interactive(LayerBit(5)) {
		t.Error("unmasked body should not be interactive")
	}
}

func TestRoleString(t *testing.T) {
	if RoleDrag.String() != "drag" || RoleButton.String() != "button" || RoleLabel.String() != "label" {
		t.Error("role names wrong")
	}
	if Role(9).String() != "Role(9)" {
		t.Errorf("Role(9).String() = %q", Role(9).String())
	}
}
