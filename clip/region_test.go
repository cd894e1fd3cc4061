package clip

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/deferred"
)

func TestRegionFromRect(t *testing.T) {
	rg := NewRegionFromRect(image.Rect(10, 20, 30, 40))
	if rg.IsEmpty() {
		t.Fatal("nonempty rect")
	}
	if !rg.IsRect() {
		t.Error("single rect region should report IsRect")
	}
	if got := rg.Bounds(); got != image.Rect(10, 20, 30, 40) {
		t.Errorf("Bounds = %v", got)
	}
	if !rg.Contains(10, 20) || rg.Contains(30, 40) {
		t.Error("containment should be half-open like image.Rectangle")
	}
}

func TestRegionBoundsTightenAcrossBands(t *testing.T) {
	// The widest runs sit in the second band; Bounds must find them
	// without inflating the first band's extent.
	got := NewRegionFromRect(image.Rect(10, 0, 20, 10)).
		Union(NewRegionFromRect(image.Rect(0, 10, 40, 20)))
	if got.Bounds() != image.Rect(0, 0, 40, 20) {
		t.Errorf("Bounds = %v, want (0,0)-(40,20)", got.Bounds())
	}

	// And the narrowest: a single band's bounds are exactly its run.
	narrow := NewRegionFromRect(image.Rect(10, 20, 30, 40))
	if narrow.Bounds() != image.Rect(10, 20, 30, 40) {
		t.Errorf("Bounds = %v, want (10,20)-(30,40)", narrow.Bounds())
	}
}

func TestRegionIntersect(t *testing.T) {
	a := NewRegionFromRect(image.Rect(0, 0, 20, 20))
	b := NewRegionFromRect(image.Rect(10, 10, 30, 30))
	got := a.Intersect(b)
	if !got.IsRect() || got.Bounds() != image.Rect(10, 10, 20, 20) {
		t.Errorf("Intersect = %v", got.Bounds())
	}

	disjoint := a.Intersect(NewRegionFromRect(image.Rect(50, 50, 60, 60)))
	if !disjoint.IsEmpty() {
		t.Errorf("disjoint Intersect = %v, want empty", disjoint.Bounds())
	}
}

func TestRegionUnion(t *testing.T) {
	a := NewRegionFromRect(image.Rect(0, 0, 10, 10))
	b := NewRegionFromRect(image.Rect(20, 0, 30, 10))
	got := a.Union(b)
	if got.IsRect() {
		t.Error("disjoint union should not be a single rect")
	}
	if got.Bounds() != image.Rect(0, 0, 30, 10) {
		t.Errorf("Bounds = %v", got.Bounds())
	}
	if !got.Contains(5, 5) || got.Contains(15, 5) || !got.Contains(25, 5) {
		t.Error("union should cover both rects and not the gap")
	}

	// Adjacent rects fuse back into one.
	fused := a.Union(NewRegionFromRect(image.Rect(10, 0, 20, 10)))
	if !fused.IsRect() || fused.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Errorf("adjacent union = %v, want single rect", fused.Bounds())
	}
}

func TestRegionFromTransformedRect(t *testing.T) {
	t.Run("axis aligned rounds exactly", func(t *testing.T) {
		rg := regionFromTransformedRect(deferred.NewRect(0, 0, 10, 10), deferred.Translate(5, 7))
		if !rg.IsRect() || rg.Bounds() != image.Rect(5, 7, 15, 17) {
			t.Errorf("bounds = %v", rg.Bounds())
		}
	})

	t.Run("rotated covers the diamond", func(t *testing.T) {
		transform := deferred.Translate(50, 50).
			Multiply(deferred.Rotate(math.Pi / 4)).
			Multiply(deferred.Translate(-50, -50))
		rg := regionFromTransformedRect(deferred.NewRect(30, 30, 40, 40), transform)
		if rg.IsRect() {
			t.Error("rotated rect should not rasterize to one rect")
		}
		if !rg.Contains(50, 50) {
			t.Error("center must be covered")
		}
		if rg.Contains(32, 32) {
			t.Error("original corner rotates away and must be uncovered")
		}
	})
}
