package frame

import (
	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/record"
)

// BatchKey identifies the draw-call shape a batch dispatches with. Ops
// with the same key share pipeline state, so keeping same-key batches
// adjacent reduces state changes even when ops cannot merge.
type BatchKey int

const (
	// BatchRect groups opaque filled geometry.
	BatchRect BatchKey = iota

	// BatchAlphaRect groups translucent filled geometry.
	BatchAlphaRect

	// BatchVertices groups stroked points and lines.
	BatchVertices

	// BatchBitmap groups image draws and layer composites; mergeable.
	BatchBitmap

	// BatchText groups glyph runs without shadows; mergeable.
	BatchText

	// BatchShadowedText groups glyph runs with drop shadows. Shadows
	// blend over neighbouring glyphs, so these never merge.
	BatchShadowedText

	// BatchFunctor groups external draw callbacks.
	BatchFunctor

	// BatchCopyToLayer and BatchCopyFromLayer bracket unclipped
	// save-layer copies. Excluded from clear flushing and culling.
	BatchCopyToLayer
	BatchCopyFromLayer

	batchKeyCount
)

var batchKeyNames = [batchKeyCount]string{
	BatchRect:          "Rect",
	BatchAlphaRect:     "AlphaRect",
	BatchVertices:      "Vertices",
	BatchBitmap:        "Bitmap",
	BatchText:          "Text",
	BatchShadowedText:  "ShadowedText",
	BatchFunctor:       "Functor",
	BatchCopyToLayer:   "CopyToLayer",
	BatchCopyFromLayer: "CopyFromLayer",
}

func (k BatchKey) String() string {
	if k < 0 || k >= batchKeyCount {
		return "Unknown"
	}
	return batchKeyNames[k]
}

// MergeKey distinguishes merge candidates within one batch key: the
// source image for bitmaps, the paint color for text. Values must be
// comparable.
type MergeKey any

// batch is an ordered group of baked states dispatched together. A
// non-merging batch replays op by op; a merging batch with more than one
// member replays as a single combined draw.
type batch struct {
	key     BatchKey
	merging bool
	ops     []*BakedState

	// bounds is the union of member clipped bounds.
	bounds deferred.Rect

	// mergeKey, clipSideFlags and clipRect are used by merging batches
	// only. clipRect is the union of member clip rects; clipSideFlags
	// the OR of member flags.
	mergeKey      MergeKey
	clipSideFlags SideFlags
	clipRect      deferred.Rect
}

func newBatch(key BatchKey, op *BakedState) *batch {
	return &batch{
		key:    key,
		ops:    []*BakedState{op},
		bounds: op.Resolved.ClippedBounds,
	}
}

func newMergingBatch(key BatchKey, mergeKey MergeKey, op *BakedState) *batch {
	clipRect := op.Resolved.ClippedBounds
	if op.Resolved.Clip != nil {
		clipRect = op.Resolved.Clip.Rect
	}
	return &batch{
		key:           key,
		merging:       true,
		ops:           []*BakedState{op},
		bounds:        op.Resolved.ClippedBounds,
		mergeKey:      mergeKey,
		clipSideFlags: op.Resolved.ClipSideFlags,
		clipRect:      clipRect,
	}
}

// add appends an op without merge semantics.
func (b *batch) add(op *BakedState) {
	b.ops = append(b.ops, op)
	b.bounds = b.bounds.Union(op.Resolved.ClippedBounds)
}

// mergeOp folds a merge-compatible op into the batch.
func (b *batch) mergeOp(op *BakedState) {
	b.ops = append(b.ops, op)
	b.bounds = b.bounds.Union(op.Resolved.ClippedBounds)
	b.clipSideFlags |= op.Resolved.ClipSideFlags
	if op.Resolved.Clip != nil {
		b.clipRect = b.clipRect.Union(op.Resolved.Clip.Rect)
	} else {
		b.clipRect = b.clipRect.Union(op.Resolved.ClippedBounds)
	}
}

// intersects reports whether any member's clipped bounds intersect r.
// The aggregate bounds prefilter rejects most probes without touching
// members.
func (b *batch) intersects(r deferred.Rect) bool {
	if !b.bounds.Intersects(r) {
		return false
	}
	for _, op := range b.ops {
		if op.Resolved.ClippedBounds.Intersects(r) {
			return true
		}
	}
	return false
}

// checkSide tests per-side clip compatibility for one side. boundsDelta
// is positive when the incoming op extends beyond the batch on that
// side, negative when the batch extends beyond the op. A clip-determined
// side's bound is its clip, so nothing may extend past it.
func checkSide(batchFlags, opFlags, side SideFlags, boundsDelta float64) bool {
	if boundsDelta > 0 && batchFlags&side != 0 {
		return false
	}
	if boundsDelta < 0 && opFlags&side != 0 {
		return false
	}
	return true
}

// canMergeWith tests all merge conditions for folding op into this
// merging batch.
func (b *batch) canMergeWith(op *BakedState) bool {
	// Overlap breaks painter's order for everything except text without
	// a shadow, where double coverage is visually inert.
	textWithoutShadow := b.key == BatchText && !op.Op.Base().Paint.Shadowed()
	if !textWithoutShadow && b.intersects(op.Resolved.ClippedBounds) {
		return false
	}

	if op.Alpha != b.ops[0].Alpha {
		return false
	}

	// Pointer identity: equal-looking rounded-rect clips from different
	// save points stay unmergeable rather than paying an equality test.
	if op.RoundRectClip != b.ops[0].RoundRectClip {
		return false
	}

	if op.Resolved.LocalProjectionMask != nil ||
		b.ops[0].Resolved.LocalProjectionMask != nil {
		return false
	}

	opBounds := op.Resolved.ClippedBounds
	if !checkSide(b.clipSideFlags, op.Resolved.ClipSideFlags, SideLeft, b.bounds.MinX-opBounds.MinX) ||
		!checkSide(b.clipSideFlags, op.Resolved.ClipSideFlags, SideTop, b.bounds.MinY-opBounds.MinY) ||
		!checkSide(b.clipSideFlags, op.Resolved.ClipSideFlags, SideRight, opBounds.MaxX-b.bounds.MaxX) ||
		!checkSide(b.clipSideFlags, op.Resolved.ClipSideFlags, SideBottom, opBounds.MaxY-b.bounds.MaxY) {
		return false
	}

	return record.MergeCompatible(b.ops[0].Op.Base().Paint, op.Op.Base().Paint)
}
