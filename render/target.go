// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
	"github.com/gogpu/gputypes"
)

// Target describes the destination surface of one replayed frame and
// caches clip state across consecutive draws so receivers only issue
// scissor and stencil changes when the resolved clip actually differs.
type Target struct {
	width  int
	height int
	format gputypes.TextureFormat
	pool   *BufferPool

	scissor    deferred.Rect
	scissorSet bool
	stencil    *clip.Descriptor
}

// NewTarget creates a frame target of the given dimensions. The pool is
// used for temporary layer buffers and may be shared between targets.
func NewTarget(width, height int, format gputypes.TextureFormat, pool *BufferPool) *Target {
	return &Target{
		width:  width,
		height: height,
		format: format,
		pool:   pool,
	}
}

// Width returns the target width in pixels.
func (t *Target) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *Target) Height() int {
	return t.height
}

// Format returns the pixel format of the target.
func (t *Target) Format() gputypes.TextureFormat {
	return t.format
}

// Pool returns the offscreen buffer pool for layer allocation.
func (t *Target) Pool() *BufferPool {
	return t.pool
}

// Bounds returns the full target rectangle.
func (t *Target) Bounds() deferred.Rect {
	return deferred.NewRect(0, 0, float64(t.width), float64(t.height))
}

// ApplyClip updates the cached clip state for a draw. It reports whether
// the scissor rectangle changed and whether the stencil clip changed, so
// the receiver can skip redundant state updates. A nil descriptor means
// the draw is unclipped (scissor covers the full target, stencil off).
//
// Rectangular clips use the scissor only. Rectangle-list and region clips
// additionally require the stencil; the descriptor pointer identifies the
// stencil contents, which is stable for one serialized clip within a frame.
func (t *Target) ApplyClip(d *clip.Descriptor) (scissorChanged, stencilChanged bool) {
	scissor := t.Bounds()
	var stencil *clip.Descriptor
	if d != nil {
		scissor = d.Rect
		if !d.IsSimple() {
			stencil = d
		}
	}

	if !t.scissorSet || scissor != t.scissor {
		t.scissor = scissor
		t.scissorSet = true
		scissorChanged = true
	}
	if stencil != t.stencil {
		t.stencil = stencil
		stencilChanged = true
	}
	return scissorChanged, stencilChanged
}

// Scissor returns the cached scissor rectangle.
func (t *Target) Scissor() deferred.Rect {
	if !t.scissorSet {
		return t.Bounds()
	}
	return t.scissor
}

// StencilClip returns the cached stencil clip descriptor, or nil when the
// stencil is not in use.
func (t *Target) StencilClip() *clip.Descriptor {
	return t.stencil
}

// ResetState clears the cached clip state. Call at the start of a frame
// or after switching render passes, when the GPU state is unknown.
func (t *Target) ResetState() {
	t.scissorSet = false
	t.stencil = nil
}
