package deferred

import (
	"testing"
)

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero rect", Rect{}, true},
		{"normal rect", NewRect(0, 0, 10, 10), false},
		{"zero width", NewRectLTRB(5, 0, 5, 10), true},
		{"zero height", NewRectLTRB(0, 5, 10, 5), true},
		{"inverted", NewRectLTRB(10, 10, 0, 0), true},
		{"negative origin", NewRect(-5, -5, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("%+v.IsEmpty() = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRectLTRB(5, 5, 10, 10)},
		{"contained", NewRect(0, 0, 100, 100), NewRect(10, 10, 20, 20), NewRect(10, 10, 20, 20)},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 10, 10), Rect{}},
		{"touching edge", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), Rect{}},
		{"identical", NewRect(3, 4, 5, 6), NewRect(3, 4, 5, 6), NewRect(3, 4, 5, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 10, 10), NewRectLTRB(0, 0, 30, 30)},
		{"empty left", Rect{}, NewRect(5, 5, 10, 10), NewRect(5, 5, 10, 10)},
		{"empty right", NewRect(5, 5, 10, 10), Rect{}, NewRect(5, 5, 10, 10)},
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRectLTRB(0, 0, 15, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)
	tests := []struct {
		name  string
		inner Rect
		want  bool
	}{
		{"fully inside", NewRect(10, 10, 20, 20), true},
		{"equal", NewRect(0, 0, 100, 100), true},
		{"overhangs right", NewRect(90, 0, 20, 10), false},
		{"outside", NewRect(200, 200, 10, 10), false},
		{"empty inner", Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestRectOutset(t *testing.T) {
	r := NewRect(10, 10, 10, 10).Outset(2.5)
	want := NewRectLTRB(7.5, 7.5, 22.5, 22.5)
	if r != want {
		t.Errorf("Outset = %+v, want %+v", r, want)
	}
}

func TestRectRoundOut(t *testing.T) {
	r := NewRectLTRB(0.3, 0.7, 9.1, 9.9).RoundOut()
	want := NewRectLTRB(0, 0, 10, 10)
	if r != want {
		t.Errorf("RoundOut = %+v, want %+v", r, want)
	}
}
