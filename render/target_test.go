// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
)

func newTestTarget() *Target {
	pool := NewBufferPool(&stubAllocator{}, 0)
	return NewTarget(200, 100, gputypes.TextureFormatRGBA8Unorm, pool)
}

func TestTargetBounds(t *testing.T) {
	target := newTestTarget()
	if got := target.Bounds(); got != deferred.NewRect(0, 0, 200, 100) {
		t.Errorf("Bounds = %+v", got)
	}
	if target.Width() != 200 || target.Height() != 100 {
		t.Errorf("size = %dx%d", target.Width(), target.Height())
	}
	if target.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v", target.Format())
	}
}

func TestApplyClipScissorCaching(t *testing.T) {
	target := newTestTarget()

	// The first draw always sets the scissor, even unclipped.
	scissorChanged, stencilChanged := target.ApplyClip(nil)
	if !scissorChanged || stencilChanged {
		t.Errorf("first apply = (%v, %v), want (true, false)", scissorChanged, stencilChanged)
	}
	if target.Scissor() != target.Bounds() {
		t.Errorf("Scissor = %+v, want full bounds", target.Scissor())
	}

	// Repeating the same clip is a no-op.
	if sc, st := target.ApplyClip(nil); sc || st {
		t.Error("unchanged clip should report no changes")
	}

	rect := &clip.Descriptor{Mode: clip.ModeRectangle, Rect: deferred.NewRect(10, 10, 50, 50)}
	if sc, _ := target.ApplyClip(rect); !sc {
		t.Error("new scissor rect should report a change")
	}
	if target.Scissor() != rect.Rect {
		t.Errorf("Scissor = %+v", target.Scissor())
	}

	// A different descriptor with the same rect leaves the scissor alone.
	same := &clip.Descriptor{Mode: clip.ModeRectangle, Rect: rect.Rect}
	if sc, st := target.ApplyClip(same); sc || st {
		t.Error("equal rect clip should report no changes")
	}
}

func TestApplyClipStencil(t *testing.T) {
	target := newTestTarget()
	region := clip.NewRegionFromRect(image.Rect(0, 0, 40, 40))
	complex := &clip.Descriptor{
		Mode:   clip.ModeRegion,
		Rect:   deferred.NewRect(0, 0, 40, 40),
		Region: &region,
	}

	sc, st := target.ApplyClip(complex)
	if !sc || !st {
		t.Errorf("complex clip = (%v, %v), want both changed", sc, st)
	}
	if target.StencilClip() != complex {
		t.Error("stencil should hold the descriptor")
	}

	// The same descriptor pointer means the stencil contents are current.
	if _, st := target.ApplyClip(complex); st {
		t.Error("same descriptor should not re-upload the stencil")
	}

	// Back to a simple clip disables the stencil.
	if _, st := target.ApplyClip(nil); !st {
		t.Error("dropping the stencil should report a change")
	}
	if target.StencilClip() != nil {
		t.Error("stencil should be off for unclipped draws")
	}
}

func TestTargetResetState(t *testing.T) {
	target := newTestTarget()
	target.ApplyClip(&clip.Descriptor{Mode: clip.ModeRectangle, Rect: deferred.NewRect(1, 2, 3, 4)})
	target.ResetState()

	if target.Scissor() != target.Bounds() {
		t.Errorf("Scissor after reset = %+v", target.Scissor())
	}
	if sc, _ := target.ApplyClip(nil); !sc {
		t.Error("reset should force the next scissor set")
	}
}
