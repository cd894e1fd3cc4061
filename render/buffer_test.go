// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"strings"
	"testing"
)

type stubTexture struct {
	label     string
	w, h      uint32
	destroyed bool
}

func (t *stubTexture) Width() uint32  { return t.w }
func (t *stubTexture) Height() uint32 { return t.h }
func (t *stubTexture) Destroy()       { t.destroyed = true }

type stubAllocator struct {
	created  []*stubTexture
	failNext bool
}

func (a *stubAllocator) CreateTexture(label string, w, h uint32) (Texture, error) {
	if a.failNext {
		a.failNext = false
		return nil, errAllocFailed
	}
	tex := &stubTexture{label: label, w: w, h: h}
	a.created = append(a.created, tex)
	return tex, nil
}

var errAllocFailed = errors.New("allocation failed")

func TestIdealDimension(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 64},
		{1, 64},
		{64, 64},
		{65, 128},
		{100, 128},
		{128, 128},
		{700, 704},
	}
	for _, tt := range tests {
		if got := idealDimension(tt.in); got != tt.want {
			t.Errorf("idealDimension(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPoolGetPadsAndTracksViewport(t *testing.T) {
	alloc := &stubAllocator{}
	pool := NewBufferPool(alloc, 0)

	b, err := pool.Get(100, 40)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.ViewportWidth() != 100 || b.ViewportHeight() != 40 {
		t.Errorf("viewport = %dx%d", b.ViewportWidth(), b.ViewportHeight())
	}
	if b.TextureWidth() != 128 || b.TextureHeight() != 64 {
		t.Errorf("texture = %dx%d, want 128x64", b.TextureWidth(), b.TextureHeight())
	}
	if !strings.Contains(alloc.created[0].label, "128x64") {
		t.Errorf("label = %q, want padded size in label", alloc.created[0].label)
	}
}

func TestPoolReusesSamePaddedSize(t *testing.T) {
	alloc := &stubAllocator{}
	pool := NewBufferPool(alloc, 0)

	b, _ := pool.Get(100, 100)
	pool.Put(b)
	if pool.PooledBytes() != 128*128*4 {
		t.Errorf("PooledBytes = %d", pool.PooledBytes())
	}

	// A slightly different size pads to the same texture and reuses it.
	b2, _ := pool.Get(90, 70)
	if len(alloc.created) != 1 {
		t.Errorf("allocated %d textures, want 1 (reuse)", len(alloc.created))
	}
	if b2.ViewportWidth() != 90 || b2.ViewportHeight() != 70 {
		t.Errorf("viewport = %dx%d", b2.ViewportWidth(), b2.ViewportHeight())
	}
	if pool.PooledBytes() != 0 {
		t.Errorf("PooledBytes = %d after reuse", pool.PooledBytes())
	}

	// A different padded size allocates fresh.
	pool.Get(300, 300)
	if len(alloc.created) != 2 {
		t.Errorf("allocated %d textures, want 2", len(alloc.created))
	}
}

func TestPoolEvictsOldestOverBudget(t *testing.T) {
	alloc := &stubAllocator{}
	// Budget fits exactly one 64x64 texture.
	pool := NewBufferPool(alloc, 64*64*4)

	a, _ := pool.Get(64, 64)
	b, _ := pool.Get(64, 64)
	pool.Put(a)
	pool.Put(b)

	if !alloc.created[0].destroyed {
		t.Error("oldest pooled buffer should be destroyed over budget")
	}
	if alloc.created[1].destroyed {
		t.Error("newest pooled buffer should survive")
	}
	if pool.PooledBytes() != 64*64*4 {
		t.Errorf("PooledBytes = %d", pool.PooledBytes())
	}
}

func TestPoolGetError(t *testing.T) {
	alloc := &stubAllocator{failNext: true}
	pool := NewBufferPool(alloc, 0)
	if _, err := pool.Get(10, 10); err == nil {
		t.Fatal("Get should propagate allocation failure")
	}
}

func TestPoolResize(t *testing.T) {
	alloc := &stubAllocator{}
	pool := NewBufferPool(alloc, 0)

	b, _ := pool.Get(100, 100)
	// Within the same padded texture: adjusts in place.
	same, err := pool.Resize(b, 120, 90)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if same != b || len(alloc.created) != 1 {
		t.Error("resize within padding should not reallocate")
	}
	if b.ViewportWidth() != 120 || b.ViewportHeight() != 90 {
		t.Errorf("viewport = %dx%d", b.ViewportWidth(), b.ViewportHeight())
	}

	// Growing past the padding replaces the texture.
	grown, err := pool.Resize(b, 200, 200)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if grown == b {
		t.Error("growing resize should return a replacement buffer")
	}
	if !alloc.created[0].destroyed {
		t.Error("old texture should be destroyed on reallocation")
	}
}

func TestPoolClear(t *testing.T) {
	alloc := &stubAllocator{}
	pool := NewBufferPool(alloc, 0)
	b, _ := pool.Get(64, 64)
	pool.Put(b)
	pool.Clear()
	if !alloc.created[0].destroyed {
		t.Error("Clear should destroy pooled textures")
	}
	if pool.PooledBytes() != 0 {
		t.Errorf("PooledBytes = %d after Clear", pool.PooledBytes())
	}
}
