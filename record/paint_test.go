package record

import (
	"image/color"
	"testing"
)

type fakeShader struct{}

func (fakeShader) ShaderBounds() (float64, float64) { return 0, 0 }

type fakeFilter struct{}

func (fakeFilter) FilterDescription() string { return "fake" }

func TestPaintNilDefaults(t *testing.T) {
	var p *Paint
	if p.Alpha() != 255 {
		t.Errorf("Alpha = %d, want 255", p.Alpha())
	}
	if p.Shadowed() {
		t.Error("nil paint should not be shadowed")
	}
	if !p.IsDefault() || !p.IsOpaque() {
		t.Error("nil paint is the default opaque paint")
	}
}

func TestPaintIsOpaque(t *testing.T) {
	tests := []struct {
		name  string
		paint Paint
		want  bool
	}{
		{"opaque srcover", Paint{Color: color.RGBA{A: 255}}, true},
		{"translucent srcover", Paint{Color: color.RGBA{A: 128}}, false},
		{"translucent src", Paint{Color: color.RGBA{A: 128}, Blend: BlendSrc}, true},
		{"clear", Paint{Color: color.RGBA{A: 255}, Blend: BlendClear}, false},
		{"shader defeats opacity", Paint{Color: color.RGBA{A: 255}, Shader: fakeShader{}}, false},
		{"filter defeats opacity", Paint{Color: color.RGBA{A: 255}, ColorFilter: fakeFilter{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.paint.IsOpaque(); got != tt.want {
				t.Errorf("IsOpaque = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeCompatible(t *testing.T) {
	opaqueRed := &Paint{Color: color.RGBA{R: 255, A: 255}}
	opaqueBlue := &Paint{Color: color.RGBA{B: 255, A: 255}}
	translucent := &Paint{Color: color.RGBA{R: 255, A: 100}}
	translucentToo := &Paint{Color: color.RGBA{B: 255, A: 100}}
	filtered := &Paint{Color: color.RGBA{A: 255}, ColorFilter: fakeFilter{}}

	tests := []struct {
		name string
		a, b *Paint
		want bool
	}{
		{"same pointer", translucent, translucent, true},
		{"both nil", nil, nil, true},
		{"nil vs opaque", nil, opaqueRed, true},
		{"color difference tolerated", opaqueRed, opaqueBlue, true},
		{"alpha mismatch", opaqueRed, translucent, false},
		{"matching alpha", translucent, translucentToo, true},
		{"nil vs translucent", nil, translucent, false},
		{"filter mismatch", opaqueRed, filtered, false},
		{"matching filter", filtered, &Paint{Color: color.RGBA{A: 255}, ColorFilter: filtered.ColorFilter}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeCompatible(tt.a, tt.b); got != tt.want {
				t.Errorf("MergeCompatible = %v, want %v", got, tt.want)
			}
		})
	}
}
