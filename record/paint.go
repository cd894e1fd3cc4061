package record

import "image/color"

// BlendMode specifies how drawn pixels composite with the destination.
// Only the modes the batching engine reasons about are enumerated;
// receivers may support more through shaders.
type BlendMode uint8

const (
	// BlendSrcOver is standard alpha compositing (the default).
	BlendSrcOver BlendMode = iota
	// BlendSrc replaces the destination entirely.
	BlendSrc
	// BlendClear erases the destination to transparent.
	BlendClear
)

// String returns a human-readable name for the blend mode.
func (b BlendMode) String() string {
	switch b {
	case BlendSrcOver:
		return "SrcOver"
	case BlendSrc:
		return "Src"
	case BlendClear:
		return "Clear"
	default:
		return "Unknown"
	}
}

// Style specifies whether geometry is filled, stroked, or both.
type Style uint8

const (
	// StyleFill fills the geometry's interior.
	StyleFill Style = iota
	// StyleStroke strokes the geometry's outline.
	StyleStroke
	// StyleStrokeAndFill does both.
	StyleStrokeAndFill
)

// Shader produces per-pixel color for a paint. The batching engine treats
// shaders as opaque values compared by identity; evaluation belongs to the
// receiver.
type Shader interface {
	ShaderBounds() (width, height float64)
}

// ColorFilter transforms a paint's output color. Compared by identity.
type ColorFilter interface {
	FilterDescription() string
}

// Paint carries the color, style, and compositing attributes of a
// recorded op.
type Paint struct {
	// Color is the source color including alpha.
	Color color.RGBA

	// Style selects fill, stroke, or both.
	Style Style

	// StrokeWidth is the stroke width in local units. Zero means hairline.
	StrokeWidth float64

	// Blend is the compositing mode.
	Blend BlendMode

	// Shader overrides Color when non-nil.
	Shader Shader

	// ColorFilter post-processes the output color when non-nil.
	ColorFilter ColorFilter

	// HasShadow marks text paints that draw a drop shadow beneath the
	// glyphs. Shadowed text batches separately and never merges.
	HasShadow bool
}

// Alpha returns the paint's alpha channel; a nil paint is fully opaque.
func (p *Paint) Alpha() uint8 {
	if p == nil {
		return 255
	}
	return p.Color.A
}

// Shadowed reports whether the paint draws a drop shadow; a nil paint
// does not.
func (p *Paint) Shadowed() bool {
	return p != nil && p.HasShadow
}

// IsDefault reports whether the paint has no attributes that affect merge
// safety: fully opaque, no color filter, no shader. A nil paint is default.
func (p *Paint) IsDefault() bool {
	if p == nil {
		return true
	}
	return p.Color.A == 255 && p.ColorFilter == nil && p.Shader == nil
}

// IsOpaque reports whether drawing with this paint fully replaces the
// destination over the covered area.
func (p *Paint) IsOpaque() bool {
	if p == nil {
		return true
	}
	if p.Shader != nil || p.ColorFilter != nil {
		return false
	}
	switch p.Blend {
	case BlendSrc:
		return true
	case BlendSrcOver:
		return p.Color.A == 255
	default:
		return false
	}
}

// MergeCompatible reports whether two paints may share one combined draw.
// Identical pointers short-circuit; otherwise each side must either be a
// default paint, or the two must agree on alpha, color filter, and shader.
// Color itself is deliberately excluded: mergeable op types tolerate
// per-instance color.
func MergeCompatible(a, b *Paint) bool {
	if a == b {
		return true
	}
	if a.IsDefault() && b.IsDefault() {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Color.A == b.Color.A &&
		a.ColorFilter == b.ColorFilter &&
		a.Shader == b.Shader
}
