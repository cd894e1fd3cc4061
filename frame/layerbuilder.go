package frame

import (
	"slices"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
	"github.com/gogpu/deferred/record"
)

// layerKind distinguishes the main frame target from off-screen layers.
type layerKind int

const (
	layerMain layerKind = iota

	// layerTemporary is a save-layer: its buffer is pooled, used for
	// one frame, and recycled after composite.
	layerTemporary

	// layerRepaint is a cached layer whose buffer persists across
	// frames; only the dirty area is re-rendered.
	layerRepaint
)

// clearPaint is the shared paint for coalesced layer clears.
var clearPaint = &record.Paint{Blend: record.BlendClear}

// LayerBuilder owns the ordered batch list for one render target: the
// main frame or one off-screen layer. It inserts resolved ops into
// existing or new batches, culls occluded batches, coalesces layer
// clears, and replays its batches to a receiver in stored order.
type LayerBuilder struct {
	kind          layerKind
	width, height int
	repaintRect   deferred.Rect
	repaintClip   *clip.Descriptor
	opts          deferred.Options

	// handle connects composite ops to the buffer allocated at replay.
	handle  *record.LayerHandle
	beginOp *record.BeginLayerOp

	batches []*batch

	// batchLookup holds the most recent non-merging batch per key;
	// mergingLookup the most recent merging batch per (key, mergeKey).
	batchLookup   map[BatchKey]*batch
	mergingLookup map[BatchKey]map[MergeKey]*batch

	// pendingClears accumulates begin-layer clear rects until the first
	// real draw flushes them as one batched clear.
	pendingClears []deferred.Rect

	// activeUnclipped tracks open unclipped save-layer brackets; while
	// any is open, occlusion culling is suspended because the copy ops
	// depend on existing content.
	activeUnclipped []*record.CopyToLayerOp
}

func newLayerBuilder(kind layerKind, width, height int, repaint deferred.Rect, opts deferred.Options) *LayerBuilder {
	return &LayerBuilder{
		kind:          kind,
		width:         width,
		height:        height,
		repaintRect:   repaint,
		repaintClip:   &clip.Descriptor{Mode: clip.ModeRectangle, Rect: repaint},
		opts:          opts,
		batchLookup:   make(map[BatchKey]*batch),
		mergingLookup: make(map[BatchKey]map[MergeKey]*batch),
	}
}

// Width returns the layer width in pixels.
func (lb *LayerBuilder) Width() int { return lb.width }

// Height returns the layer height in pixels.
func (lb *LayerBuilder) Height() int { return lb.height }

// RepaintRect returns the area being redrawn this frame.
func (lb *LayerBuilder) RepaintRect() deferred.Rect { return lb.repaintRect }

// IsEmpty reports whether nothing was deferred into this layer.
func (lb *LayerBuilder) IsEmpty() bool { return len(lb.batches) == 0 }

// BatchCount returns the number of batches currently held.
func (lb *LayerBuilder) BatchCount() int { return len(lb.batches) }

// deferLayerClear queues a rectangle to clear before the layer's first
// real draw. Consecutive begin-layer ops queue several rects that flush
// as one clear.
func (lb *LayerBuilder) deferLayerClear(r deferred.Rect) {
	lb.pendingClears = append(lb.pendingClears, r)
}

// flushLayerClears emits all pending clear rects as a single synthetic
// rects op with clear blending.
func (lb *LayerBuilder) flushLayerClears(a *bakedArena) {
	if len(lb.pendingClears) == 0 {
		return
	}
	rects := lb.pendingClears
	lb.pendingClears = nil

	bounds := rects[0]
	for _, r := range rects[1:] {
		bounds = bounds.Union(r)
	}
	clipped := bounds.Intersect(lb.repaintRect)
	if clipped.IsEmpty() {
		return
	}

	op := &record.SimpleRectsOp{Rects: rects}
	op.UnmappedBounds = bounds
	op.Paint = clearPaint
	state := bakeDirect(a, lb.repaintClip, clipped, op)
	lb.DeferUnmergeableOp(a, state, BatchRect)
}

// onDeferOp runs the per-insert bookkeeping: flushing queued clears and
// testing the occlusion-culling condition. Layer-copy ops are exempt;
// they bracket content rather than contributing coverage.
func (lb *LayerBuilder) onDeferOp(a *bakedArena, state *BakedState) {
	kind := state.Op.Kind()
	if kind == record.KindCopyToLayer || kind == record.KindCopyFromLayer {
		return
	}
	lb.flushLayerClears(a)

	if lb.opts.CullingEnabled() &&
		len(lb.activeUnclipped) == 0 &&
		state.opaqueOverBounds &&
		!lb.repaintRect.IsEmpty() &&
		state.Resolved.ClippedBounds.Contains(lb.repaintRect) {
		deferred.Logger().Debug("occlusion culling discarded batches",
			"batches", len(lb.batches), "kind", kind)
		lb.discardBatches()
	}
}

// discardBatches drops all recorded batches. Used when a later opaque op
// covers everything drawn so far.
func (lb *LayerBuilder) discardBatches() {
	lb.batches = lb.batches[:0]
	clear(lb.batchLookup)
	clear(lb.mergingLookup)
}

// locateInsertIndex searches backward from the top for where a new op of
// the given key belongs. Returning a nil batch means the op cannot join
// target: either another same-key batch sits closer to the top (insert
// right after it, keeping same-key batches adjacent) or an intervening
// batch overlaps the op's bounds (insert at the very top; something
// visually in front already covers this area).
func (lb *LayerBuilder) locateInsertIndex(key BatchKey, bounds deferred.Rect, target *batch) (*batch, int) {
	insert := len(lb.batches)
	for i := len(lb.batches) - 1; i > 0; i-- {
		over := lb.batches[i]
		if over == target {
			break
		}
		if over.key == key {
			target = nil
			insert = i + 1
			break
		}
		if over.intersects(bounds) {
			target = nil
			break
		}
	}
	return target, insert
}

func (lb *LayerBuilder) insertBatch(b *batch, index int) {
	lb.batches = slices.Insert(lb.batches, index, b)
}

// DeferUnmergeableOp inserts a resolved op that draws individually,
// appending to the most recent batch of its key when painter's order
// allows.
func (lb *LayerBuilder) DeferUnmergeableOp(a *bakedArena, state *BakedState, key BatchKey) {
	lb.onDeferOp(a, state)

	target := lb.batchLookup[key]
	insert := len(lb.batches)
	if target != nil {
		target, insert = lb.locateInsertIndex(key, state.Resolved.ClippedBounds, target)
	}
	if target != nil {
		target.add(state)
		return
	}
	b := newBatch(key, state)
	lb.batchLookup[key] = b
	lb.insertBatch(b, insert)
}

// DeferMergeableOp inserts a resolved op that may fold into an existing
// merging batch under (key, mergeKey). Incompatible or overlapped ops
// fall back to a fresh merging batch placed by the same insertion rules.
func (lb *LayerBuilder) DeferMergeableOp(a *bakedArena, state *BakedState, key BatchKey, mergeKey MergeKey) {
	lb.onDeferOp(a, state)

	var target *batch
	if m := lb.mergingLookup[key]; m != nil {
		target = m[mergeKey]
	}
	insert := len(lb.batches)
	if target != nil {
		target, insert = lb.locateInsertIndex(key, state.Resolved.ClippedBounds, target)
	}
	if target != nil && target.canMergeWith(state) {
		target.mergeOp(state)
		return
	}
	b := newMergingBatch(key, mergeKey, state)
	if lb.mergingLookup[key] == nil {
		lb.mergingLookup[key] = make(map[MergeKey]*batch)
	}
	lb.mergingLookup[key][mergeKey] = b
	lb.insertBatch(b, insert)
}

// pushUnclipped opens an unclipped save-layer bracket.
func (lb *LayerBuilder) pushUnclipped(op *record.CopyToLayerOp) {
	lb.activeUnclipped = append(lb.activeUnclipped, op)
}

// popUnclipped closes the innermost unclipped save-layer bracket and
// returns its copy-to op.
func (lb *LayerBuilder) popUnclipped() *record.CopyToLayerOp {
	if len(lb.activeUnclipped) == 0 {
		return nil
	}
	op := lb.activeUnclipped[len(lb.activeUnclipped)-1]
	lb.activeUnclipped = lb.activeUnclipped[:len(lb.activeUnclipped)-1]
	return op
}

// replay dispatches batches in stored order. A merging batch with more
// than one member goes out as one combined draw; everything else
// dispatches op by op in insertion order.
func (lb *LayerBuilder) replay(r Receiver) {
	for _, b := range lb.batches {
		if b.merging && len(b.ops) > 1 {
			merged := &MergedOpList{
				States:        b.ops,
				ClipSideFlags: b.clipSideFlags,
				ClipRect:      b.clipRect,
			}
			switch b.key {
			case BatchBitmap:
				r.DrawMergedBitmaps(merged)
			case BatchText:
				r.DrawMergedText(merged)
			default:
				for _, op := range b.ops {
					dispatchBaked(r, op)
				}
			}
			continue
		}
		for _, op := range b.ops {
			dispatchBaked(r, op)
		}
	}
}
