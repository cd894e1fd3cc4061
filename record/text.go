package record

import (
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/deferred"
)

// Glyph is one positioned glyph within a run, in 26.6 fixed point
// relative to the run's baseline origin.
type Glyph struct {
	// ID is the glyph index in the run's font.
	ID uint32
	// X, Y offset the glyph from the run origin.
	X, Y fixed.Int26_6
}

// GlyphRun is a shaped, positioned sequence of glyphs ready for a TextOp.
// Runs are immutable once built.
type GlyphRun struct {
	// Glyphs in visual order.
	Glyphs []Glyph
	// Bounds is the conservative extent of the run relative to its
	// origin; the baseline is at y=0.
	Bounds deferred.Rect
	// Size is the font size in pixels.
	Size float64
	// RTL is true when the run's base direction is right-to-left.
	RTL bool
}

// ShapeRun shapes text against a parsed font at the given pixel size.
// The base direction is resolved with the Unicode bidi algorithm and
// shaping runs through HarfBuzz-equivalent OpenType layout.
func ShapeRun(fnt *font.Font, text string, size float64) *GlyphRun {
	if text == "" || fnt == nil {
		return &GlyphRun{Size: size}
	}

	rtl := baseDirectionRTL(text)
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}

	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(fnt),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	var shaper shaping.HarfbuzzShaper
	output := shaper.Shape(input)

	run := &GlyphRun{
		Glyphs: make([]Glyph, 0, len(output.Glyphs)),
		Size:   size,
		RTL:    rtl,
	}
	var x fixed.Int26_6
	for _, g := range output.Glyphs {
		run.Glyphs = append(run.Glyphs, Glyph{
			ID: uint32(g.GlyphID),
			X:  x + g.XOffset,
			Y:  -g.YOffset,
		})
		x += g.XAdvance
	}
	run.Bounds = deferred.NewRectLTRB(
		0,
		-fixedToFloat(output.GlyphBounds.Ascent),
		fixedToFloat(output.Advance),
		-fixedToFloat(output.GlyphBounds.Descent),
	)
	return run
}

// baseDirectionRTL resolves the paragraph's base direction.
func baseDirectionRTL(text string) bool {
	var p bidi.Paragraph
	p.SetString(text)
	order, err := p.Order()
	if err != nil {
		return false
	}
	return order.Direction() == bidi.RightToLeft
}

// detectScript picks the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return language.LookupScript(r)
		}
	}
	return language.LookupScript('a')
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
