package record

import (
	"image"
	"image/color"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/render"
)

// --------------------------------------------------------------------------
// Drawing Ops
// --------------------------------------------------------------------------

// RectOp fills or strokes an axis-aligned rectangle.
type RectOp struct {
	RecordedOp
}

// Kind implements Op.
func (*RectOp) Kind() OpKind { return KindRect }

// SimpleRectsOp fills a set of rectangles with one paint in a single
// draw. It is also synthesized internally for coalesced layer clears.
type SimpleRectsOp struct {
	RecordedOp
	// Rects are the rectangles to fill, in local coordinates.
	Rects []deferred.Rect
}

// Kind implements Op.
func (*SimpleRectsOp) Kind() OpKind { return KindSimpleRects }

// BitmapOp draws an image at its recorded bounds.
type BitmapOp struct {
	RecordedOp
	// Image is the pixel source. Ops sharing the same Image value are
	// candidates for one merged draw.
	Image image.Image
}

// Kind implements Op.
func (*BitmapOp) Kind() OpKind { return KindBitmap }

// ImageIsOpaque reports whether an image has no transparent pixels,
// consulting the image's own Opaque method when available.
func ImageIsOpaque(img image.Image) bool {
	type opaquer interface {
		Opaque() bool
	}
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}
	return false
}

// PointsOp draws stroked points. UnmappedBounds is empty; the visible
// extent comes entirely from stroke expansion at resolve time.
type PointsOp struct {
	RecordedOp
	Points []deferred.Point
}

// Kind implements Op.
func (*PointsOp) Kind() OpKind { return KindPoints }

// LinesOp draws stroked line segments between consecutive point pairs.
type LinesOp struct {
	RecordedOp
	Points []deferred.Point
}

// Kind implements Op.
func (*LinesOp) Kind() OpKind { return KindLines }

// TextOp draws a shaped glyph run at a baseline origin.
type TextOp struct {
	RecordedOp
	// Run holds the shaped glyphs.
	Run *GlyphRun
	// X, Y position the run's baseline origin in local coordinates.
	X, Y float64
}

// Kind implements Op.
func (*TextOp) Kind() OpKind { return KindText }

// ColorOp fills the entire clip with a color. It has no bounds of its
// own and always resolves unbounded.
type ColorOp struct {
	RecordedOp
	Color color.RGBA
	Blend BlendMode
}

// Kind implements Op.
func (*ColorOp) Kind() OpKind { return KindColor }

// Functor is an external draw callback (for example an embedded GL view).
// The engine only schedules it; drawing happens in the receiver.
type Functor interface {
	Draw(clip deferred.Rect)
}

// FunctorOp invokes an external draw callback over the current clip.
// Always resolves unbounded.
type FunctorOp struct {
	RecordedOp
	Functor Functor
}

// Kind implements Op.
func (*FunctorOp) Kind() OpKind { return KindFunctor }

// --------------------------------------------------------------------------
// Structure Ops
// --------------------------------------------------------------------------

// NodeOp draws a nested display list under this op's transform, clip,
// and alpha.
type NodeOp struct {
	RecordedOp
	// List is the nested display list.
	List *DisplayList
	// Alpha multiplies into the inherited alpha for the subtree.
	Alpha float64
	// ProjectionMask, when non-nil, is a convex outline in node space
	// that masks projected descendants.
	ProjectionMask []deferred.Point
}

// Kind implements Op.
func (*NodeOp) Kind() OpKind { return KindNode }

// BeginLayerOp opens a clipped off-screen layer. Content up to the
// matching EndLayerOp renders into a temporary buffer which is then
// composited with this op's paint.
type BeginLayerOp struct {
	RecordedOp
}

// Kind implements Op.
func (*BeginLayerOp) Kind() OpKind { return KindBeginLayer }

// EndLayerOp closes the matching BeginLayerOp.
type EndLayerOp struct {
	RecordedOp
}

// Kind implements Op.
func (*EndLayerOp) Kind() OpKind { return KindEndLayer }

// BeginUnclippedLayerOp opens an unclipped layer bracket. Instead of an
// off-screen buffer, the affected target region is copied aside, cleared,
// drawn over, and composited back by the matching end op.
type BeginUnclippedLayerOp struct {
	RecordedOp
}

// Kind implements Op.
func (*BeginUnclippedLayerOp) Kind() OpKind { return KindBeginUnclippedLayer }

// EndUnclippedLayerOp closes the matching BeginUnclippedLayerOp.
type EndUnclippedLayerOp struct {
	RecordedOp
}

// Kind implements Op.
func (*EndUnclippedLayerOp) Kind() OpKind { return KindEndUnclippedLayer }

// CopyToLayerOp copies the target region under the paired begin op into
// a scratch layer. Synthesized by the frame builder; never recorded.
type CopyToLayerOp struct {
	RecordedOp
	// Paired is the begin op whose region is being preserved.
	Paired *BeginUnclippedLayerOp
	// Handle receives the scratch buffer at replay time.
	Handle *LayerHandle
}

// Kind implements Op.
func (*CopyToLayerOp) Kind() OpKind { return KindCopyToLayer }

// CopyFromLayerOp composites a scratch layer back into the target.
// Synthesized by the frame builder; never recorded.
type CopyFromLayerOp struct {
	RecordedOp
	Paired *BeginUnclippedLayerOp
	Handle *LayerHandle
}

// Kind implements Op.
func (*CopyFromLayerOp) Kind() OpKind { return KindCopyFromLayer }

// LayerHandle carries an off-screen buffer reference that is only
// assigned once the buffer's content exists, partway through replay.
type LayerHandle struct {
	Buffer *render.OffscreenBuffer
}

// LayerOp composites a rendered off-screen buffer into the current
// target. Synthesized by the frame builder when a layer bracket closes,
// or recorded directly for cached render-node layers.
type LayerOp struct {
	RecordedOp
	// Handle resolves to the buffer at replay time; layers are rendered
	// before any op that composites them.
	Handle *LayerHandle
	// Cached is true for persistent render-node layers, which are not
	// recycled after compositing.
	Cached bool
}

// Kind implements Op.
func (*LayerOp) Kind() OpKind { return KindLayer }
