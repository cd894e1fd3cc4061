// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render provides the GPU-facing resource layer for deferred
// frame replay: offscreen layer textures, their pooled reuse, and the
// per-frame target state cache.
package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is an allocator-owned offscreen texture that layers render into
// and composite from.
type Texture interface {
	// Width returns the allocated width in pixels.
	Width() uint32

	// Height returns the allocated height in pixels.
	Height() uint32

	// Destroy releases the backing resources.
	Destroy()
}

// Allocator creates offscreen textures for layer rendering.
//
// Implementations:
//   - HALAllocator: textures on a wgpu hal.Device
//   - ContextAllocator: textures through a host gpucontext.TextureCreator
type Allocator interface {
	// CreateTexture allocates a render-attachment texture of the given
	// size. The label is used for GPU debug tooling.
	CreateTexture(label string, width, height uint32) (Texture, error)
}

// HALAllocator allocates layer textures directly on a wgpu HAL device.
type HALAllocator struct {
	device hal.Device
	format gputypes.TextureFormat
}

// NewHALAllocator creates an allocator for the given device. Textures are
// created in the given format, typically RGBA8Unorm.
func NewHALAllocator(device hal.Device, format gputypes.TextureFormat) *HALAllocator {
	return &HALAllocator{device: device, format: format}
}

// CreateTexture allocates a texture usable both as a render attachment
// (layer content) and as a binding (layer composite).
func (a *HALAllocator) CreateTexture(label string, width, height uint32) (Texture, error) {
	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        a.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("create layer texture: %w", err)
	}

	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: label + "_view",
	})
	if err != nil {
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create layer texture view: %w", err)
	}

	return &halTexture{
		device: a.device,
		tex:    tex,
		view:   view,
		width:  width,
		height: height,
	}, nil
}

// halTexture bundles a HAL texture with its sampled view.
type halTexture struct {
	device hal.Device
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

func (t *halTexture) Width() uint32  { return t.width }
func (t *halTexture) Height() uint32 { return t.height }

// View returns the HAL texture view for binding during composite.
func (t *halTexture) View() hal.TextureView {
	return t.view
}

func (t *halTexture) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// ContextAllocator allocates layer textures through a host-provided
// gpucontext.TextureCreator, for embedding inside an existing renderer.
type ContextAllocator struct {
	creator gpucontext.TextureCreator
}

// NewContextAllocator wraps a host texture creator.
func NewContextAllocator(creator gpucontext.TextureCreator) *ContextAllocator {
	return &ContextAllocator{creator: creator}
}

// CreateTexture allocates a zero-initialized RGBA texture via the host.
func (a *ContextAllocator) CreateTexture(label string, width, height uint32) (Texture, error) {
	_ = label // host creators do not accept debug labels
	data := make([]byte, int(width)*int(height)*4)
	handle, err := a.creator.NewTextureFromRGBA(int(width), int(height), data)
	if err != nil {
		return nil, fmt.Errorf("create layer texture: %w", err)
	}
	return &contextTexture{handle: handle, width: width, height: height}, nil
}

// contextTexture wraps an opaque host texture handle.
type contextTexture struct {
	handle any
	width  uint32
	height uint32
}

func (t *contextTexture) Width() uint32  { return t.width }
func (t *contextTexture) Height() uint32 { return t.height }

// Handle returns the opaque host texture for drawing during composite.
func (t *contextTexture) Handle() any {
	return t.handle
}

func (t *contextTexture) Destroy() {
	if d, ok := t.handle.(interface{ Destroy() }); ok {
		d.Destroy()
	}
	t.handle = nil
}

var (
	_ Allocator = (*HALAllocator)(nil)
	_ Allocator = (*ContextAllocator)(nil)
	_ Texture   = (*halTexture)(nil)
	_ Texture   = (*contextTexture)(nil)
)
