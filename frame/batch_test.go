package frame

import (
	"image"
	"testing"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
	"github.com/gogpu/deferred/record"
)

func TestSideFlagsString(t *testing.T) {
	tests := []struct {
		flags SideFlags
		want  string
	}{
		{SideNone, "none"},
		{SideLeft, "left"},
		{SideRight | SideBottom, "right|bottom"},
		{SideFull, "left|top|right|bottom"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("String(%b) = %q, want %q", tt.flags, got, tt.want)
		}
	}
}

func TestBatchKeyString(t *testing.T) {
	if got := BatchShadowedText.String(); got != "ShadowedText" {
		t.Errorf("String = %q", got)
	}
	if got := BatchKey(99).String(); got != "Unknown" {
		t.Errorf("String = %q", got)
	}
}

// A batch whose right edge was cut by its clip cannot absorb an op that
// extends past that edge: the merged draw would scissor the newcomer to
// the old clip.
func TestMergeRespectsClipCutSides(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	c := record.NewCanvas(100, 100)
	c.Save()
	c.ClipRect(deferred.NewRect(0, 0, 50, 50), clip.OpIntersect)
	c.DrawBitmap(img, 45, 0, nil) // clipped at x=50
	c.Restore()
	c.Save()
	c.ClipRect(deferred.NewRect(0, 0, 80, 50), clip.OpIntersect)
	c.DrawBitmap(img, 55, 0, nil) // extends past the first op's cut edge
	c.Restore()

	f := NewFrameBuilder(100, 100, fullRepaint(100, 100), deferred.DefaultOptions())
	f.DeferDisplayList(c.Finish())
	r := replayFrame(t, f, 100, 100)

	assertEvents(t, r.events, []string{
		"startFrame 100x100", "bitmap", "bitmap", "endFrame",
	})
}

// Ops clipped by the same rectangle merge, and the batch aggregates the
// clip for the combined draw.
func TestMergedBatchAggregatesClip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	c := record.NewCanvas(100, 100)
	c.ClipRect(deferred.NewRect(0, 0, 50, 50), clip.OpIntersect)
	c.DrawBitmap(img, 45, 0, nil)  // clipped right
	c.DrawBitmap(img, 0, 45, nil)  // clipped bottom
	c.DrawBitmap(img, 20, 20, nil) // unclipped

	f := NewFrameBuilder(100, 100, fullRepaint(100, 100), deferred.DefaultOptions())
	f.DeferDisplayList(c.Finish())

	main := f.layerBuilders[0]
	if main.BatchCount() != 1 {
		t.Fatalf("batches = %d, want 1", main.BatchCount())
	}
	b := main.batches[0]
	if len(b.ops) != 3 {
		t.Fatalf("merged %d ops, want 3", len(b.ops))
	}
	if want := SideRight | SideBottom; b.clipSideFlags != want {
		t.Errorf("clipSideFlags = %v, want %v", b.clipSideFlags, want)
	}
	if want := deferred.NewRect(0, 0, 50, 50); b.clipRect != want {
		t.Errorf("clipRect = %+v, want %+v", b.clipRect, want)
	}

	r := replayFrame(t, f, 100, 100)
	assertEvents(t, r.events, []string{
		"startFrame 100x100", "mergedBitmaps 3", "endFrame",
	})
}
