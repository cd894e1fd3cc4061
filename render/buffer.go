// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/deferred"
)

// bufferPadding is the allocation granularity for offscreen buffers.
// Rounding dimensions up lets slightly different layer sizes share pooled
// textures across frames.
const bufferPadding = 64

// DefaultPoolBytes is the default retention budget for the buffer pool.
const DefaultPoolBytes = 8 * 1024 * 1024

// OffscreenBuffer is a pooled texture that a temporary or repaint layer
// renders into. The texture may be larger than the layer; Viewport gives
// the used portion.
type OffscreenBuffer struct {
	texture        Texture
	viewportWidth  int
	viewportHeight int
}

// ViewportWidth returns the used width in pixels.
func (b *OffscreenBuffer) ViewportWidth() int {
	return b.viewportWidth
}

// ViewportHeight returns the used height in pixels.
func (b *OffscreenBuffer) ViewportHeight() int {
	return b.viewportHeight
}

// TextureWidth returns the allocated (padded) width in pixels.
func (b *OffscreenBuffer) TextureWidth() int {
	return int(b.texture.Width())
}

// TextureHeight returns the allocated (padded) height in pixels.
func (b *OffscreenBuffer) TextureHeight() int {
	return int(b.texture.Height())
}

// Texture returns the backing texture.
func (b *OffscreenBuffer) Texture() Texture {
	return b.texture
}

// sizeBytes returns the allocated size assuming 4 bytes per pixel.
func (b *OffscreenBuffer) sizeBytes() int {
	return b.TextureWidth() * b.TextureHeight() * 4
}

// idealDimension rounds a layer dimension up to the pool granularity.
func idealDimension(dim int) int {
	if dim <= 0 {
		return bufferPadding
	}
	return (dim + bufferPadding - 1) / bufferPadding * bufferPadding
}

// BufferPool recycles offscreen buffers across frames. Save layers are
// typically created and destroyed every frame at stable sizes, so reuse
// avoids most texture allocation churn.
//
// The pool is not safe for concurrent use; frames replay on one goroutine.
type BufferPool struct {
	alloc    Allocator
	free     []*OffscreenBuffer
	bytes    int
	maxBytes int
	serial   int
}

// NewBufferPool creates a pool on top of an allocator with the given
// retention budget in bytes. A budget of 0 uses DefaultPoolBytes.
func NewBufferPool(alloc Allocator, maxBytes int) *BufferPool {
	if maxBytes <= 0 {
		maxBytes = DefaultPoolBytes
	}
	return &BufferPool{alloc: alloc, maxBytes: maxBytes}
}

// Get returns a buffer whose texture covers at least width x height,
// reusing a pooled texture of the same padded size when available.
func (p *BufferPool) Get(width, height int) (*OffscreenBuffer, error) {
	texW := idealDimension(width)
	texH := idealDimension(height)

	for i, b := range p.free {
		if b.TextureWidth() == texW && b.TextureHeight() == texH {
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.bytes -= b.sizeBytes()
			b.viewportWidth = width
			b.viewportHeight = height
			return b, nil
		}
	}

	p.serial++
	tex, err := p.alloc.CreateTexture(
		fmt.Sprintf("layer_%d_%dx%d", p.serial, texW, texH),
		uint32(texW), uint32(texH),
	)
	if err != nil {
		return nil, fmt.Errorf("offscreen buffer %dx%d: %w", width, height, err)
	}
	return &OffscreenBuffer{
		texture:        tex,
		viewportWidth:  width,
		viewportHeight: height,
	}, nil
}

// Put returns a buffer to the pool, destroying the oldest pooled buffers
// if the retention budget is exceeded.
func (p *BufferPool) Put(b *OffscreenBuffer) {
	if b == nil || b.texture == nil {
		return
	}
	p.free = append(p.free, b)
	p.bytes += b.sizeBytes()
	for p.bytes > p.maxBytes && len(p.free) > 0 {
		old := p.free[0]
		p.free = p.free[1:]
		p.bytes -= old.sizeBytes()
		deferred.Logger().Debug("evicting pooled layer buffer",
			"width", old.TextureWidth(), "height", old.TextureHeight())
		old.texture.Destroy()
	}
}

// Resize adjusts a buffer's viewport in place when the padded texture
// already fits, otherwise allocates a replacement and destroys the old
// texture. Contents are not preserved on reallocation.
func (p *BufferPool) Resize(b *OffscreenBuffer, width, height int) (*OffscreenBuffer, error) {
	if idealDimension(width) == b.TextureWidth() && idealDimension(height) == b.TextureHeight() {
		b.viewportWidth = width
		b.viewportHeight = height
		return b, nil
	}
	replacement, err := p.Get(width, height)
	if err != nil {
		return nil, err
	}
	b.texture.Destroy()
	b.texture = nil
	return replacement, nil
}

// PooledBytes returns the bytes currently retained by the pool.
func (p *BufferPool) PooledBytes() int {
	return p.bytes
}

// Clear destroys all pooled buffers.
func (p *BufferPool) Clear() {
	for _, b := range p.free {
		b.texture.Destroy()
	}
	p.free = nil
	p.bytes = 0
}
