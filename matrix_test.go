package deferred

import (
	"math"
	"testing"
)

const matrixEps = 1e-9

func rectNear(a, b Rect) bool {
	return math.Abs(a.MinX-b.MinX) < matrixEps &&
		math.Abs(a.MinY-b.MinY) < matrixEps &&
		math.Abs(a.MaxX-b.MaxX) < matrixEps &&
		math.Abs(a.MaxY-b.MaxY) < matrixEps
}

func TestIsPureTranslate(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"translation", Translate(10, 20), true},
		{"scale", Scale(2, 2), false},
		{"rotation", Rotate(math.Pi / 4), false},
		{"zero matrix", Matrix{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsPureTranslate(); got != tt.want {
				t.Errorf("Matrix%+v.IsPureTranslate() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestRectToRect(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"translation", Translate(10, 20), true},
		{"scale", Scale(2, 0.5), true},
		{"exact axis swap", Matrix{A: 0, B: -1, D: 1, E: 0}, true},
		{"rotation 90deg has residue", Rotate(math.Pi / 2), false},
		{"rotation 45deg", Rotate(math.Pi / 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.RectToRect(); got != tt.want {
				t.Errorf("Matrix%+v.RectToRect() = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestMultiplyOrder(t *testing.T) {
	// Multiply applies the argument first: scale then translate moves the
	// scaled point, not the other way around.
	m := Translate(100, 0).Multiply(Scale(2, 2))
	p := m.TransformPoint(Point{X: 5, Y: 5})
	if p.X != 110 || p.Y != 10 {
		t.Errorf("TransformPoint = %+v, want (110, 10)", p)
	}

	reversed := Scale(2, 2).Multiply(Translate(100, 0))
	p = reversed.TransformPoint(Point{X: 5, Y: 5})
	if p.X != 210 || p.Y != 10 {
		t.Errorf("TransformPoint = %+v, want (210, 10)", p)
	}
}

func TestMapRect(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		r    Rect
		want Rect
	}{
		{"identity", Identity(), NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4)},
		{"translate", Translate(10, 20), NewRect(0, 0, 5, 5), NewRect(10, 20, 5, 5)},
		{"scale", Scale(2, 3), NewRect(1, 1, 2, 2), NewRectLTRB(2, 3, 6, 9)},
		{"rotation 90deg", Rotate(math.Pi / 2), NewRect(0, 0, 10, 20), NewRectLTRB(-20, 0, 0, 10)},
		{
			"rotation 45deg",
			Rotate(math.Pi / 4),
			NewRectLTRB(-10, -10, 10, 10),
			NewRectLTRB(-10*math.Sqrt2, -10*math.Sqrt2, 10*math.Sqrt2, 10*math.Sqrt2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.MapRect(tt.r); !rectNear(got, tt.want) {
				t.Errorf("MapRect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMapRectDegenerate(t *testing.T) {
	// An empty rect still carries a position through the transform.
	got := Translate(7, 9).MapRect(Rect{MinX: 3, MinY: 4, MaxX: 3, MaxY: 4})
	if got.MinX != 10 || got.MinY != 13 {
		t.Errorf("MapRect degenerate = %+v, want point (10, 13)", got)
	}
	if !got.IsEmpty() {
		t.Error("mapped degenerate rect should stay empty")
	}

	// A zero-height rect keeps its horizontal extent. Hairline geometry
	// depends on this before stroke outsetting.
	line := Rect{MinX: 50, MinY: 100, MaxX: 150, MaxY: 100}
	if got := Identity().MapRect(line); got != line {
		t.Errorf("MapRect hairline = %+v, want %+v", got, line)
	}
	if got := Translate(10, 0).MapRect(line); got.MinX != 60 || got.MaxX != 160 {
		t.Errorf("MapRect translated hairline = %+v, want MinX 60 MaxX 160", got)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Translate(12, -7).Multiply(Rotate(0.3)).Multiply(Scale(2, 0.5))
	inv := m.Invert()
	p := Point{X: 3, Y: 4}
	back := inv.TransformPoint(m.TransformPoint(p))
	if math.Abs(back.X-p.X) > matrixEps || math.Abs(back.Y-p.Y) > matrixEps {
		t.Errorf("invert round trip = %+v, want %+v", back, p)
	}
}

func TestIsInvertible(t *testing.T) {
	if !Rotate(1.1).IsInvertible() {
		t.Error("rotation should be invertible")
	}
	if Scale(0, 1).IsInvertible() {
		t.Error("zero-scale matrix should not be invertible")
	}
}
