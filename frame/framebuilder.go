// Package frame resolves recorded drawing ops against traversal state,
// batches the survivors, and replays them to a receiver in an order that
// preserves painter's-order semantics while maximizing draw-call fusion.
//
// A FrameBuilder is single-use: construct one per frame, defer display
// lists into it, then replay once. All transient state (baked op states,
// batches, layer builders) is owned by the frame and garbage after
// replay. Nothing here is safe for concurrent use; a frame is built and
// replayed on one goroutine.
package frame

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
	"github.com/gogpu/deferred/internal/arena"
	"github.com/gogpu/deferred/record"
	"github.com/gogpu/deferred/render"
)

// FrameBuilder orchestrates one frame: the main layer builder plus one
// builder per off-screen layer opened during traversal, a stack of open
// layer indices mirroring begin/end nesting, and the snapshot chain
// driving resolution.
type FrameBuilder struct {
	states arena.Arena[BakedState]
	opts   deferred.Options

	// layerBuilders[0] is the main target. Later entries are off-screen
	// layers, ordered so a layer's dependents have lower indices;
	// reverse-order replay then renders dependencies first.
	layerBuilders []*LayerBuilder

	// layerStack holds indices of open layers, innermost last. A -1
	// entry marks a begin-layer bracket whose layer was rejected.
	layerStack []int

	snapshot *Snapshot
}

// NewFrameBuilder starts a frame for a width x height target, redrawing
// only the repaint rectangle.
func NewFrameBuilder(width, height int, repaint deferred.Rect, opts deferred.Options) *FrameBuilder {
	f := &FrameBuilder{
		opts:       opts,
		layerStack: []int{0},
		snapshot:   newRootSnapshot(width, height, repaint),
	}
	f.layerBuilders = append(f.layerBuilders,
		newLayerBuilder(layerMain, width, height, repaint, opts))
	return f
}

func (f *FrameBuilder) currentLayer() *LayerBuilder {
	for i := len(f.layerStack) - 1; i >= 0; i-- {
		if idx := f.layerStack[i]; idx >= 0 {
			return f.layerBuilders[idx]
		}
	}
	return f.layerBuilders[0]
}

// DeferDisplayList resolves and batches every op of a recorded display
// list into the current layer.
func (f *FrameBuilder) DeferDisplayList(list *record.DisplayList) {
	if list == nil {
		return
	}
	f.deferOps(list.Ops())
}

func (f *FrameBuilder) deferOps(ops []record.Op) {
	for _, op := range ops {
		f.deferOp(op)
	}
}

func (f *FrameBuilder) deferOp(op record.Op) {
	switch o := op.(type) {
	case *record.RectOp:
		f.deferRectOp(o)
	case *record.SimpleRectsOp:
		f.deferSimpleRectsOp(o)
	case *record.BitmapOp:
		f.deferBitmapOp(o)
	case *record.PointsOp:
		f.deferStrokeableOp(o)
	case *record.LinesOp:
		f.deferStrokeableOp(o)
	case *record.TextOp:
		f.deferTextOp(o)
	case *record.ColorOp:
		f.deferColorOp(o)
	case *record.FunctorOp:
		f.deferFunctorOp(o)
	case *record.NodeOp:
		f.deferNodeOp(o)
	case *record.BeginLayerOp:
		f.deferBeginLayerOp(o)
	case *record.EndLayerOp:
		f.deferEndLayerOp()
	case *record.BeginUnclippedLayerOp:
		f.deferBeginUnclippedLayerOp(o)
	case *record.EndUnclippedLayerOp:
		f.deferEndUnclippedLayerOp()
	default:
		// Synthetic kinds never appear in recorded input.
		deferred.Logger().Warn("ignoring non-recordable op", "kind", op.Kind())
	}
}

// --------------------------------------------------------------------------
// Per-kind deferral
// --------------------------------------------------------------------------

func (f *FrameBuilder) deferRectOp(op *record.RectOp) {
	stroked := op.Paint != nil && op.Paint.Style != record.StyleFill
	state := bakeBounded(&f.states, f.snapshot, op, f.opts, stroked, false)
	if state == nil {
		return
	}
	state.opaqueOverBounds = !stroked && geometryOpaque(state, op.Paint)

	key := BatchAlphaRect
	if op.Paint.IsOpaque() && state.Alpha >= 1 {
		key = BatchRect
	}
	f.currentLayer().DeferUnmergeableOp(&f.states, state, key)
}

func (f *FrameBuilder) deferSimpleRectsOp(op *record.SimpleRectsOp) {
	state := bakeBounded(&f.states, f.snapshot, op, f.opts, false, false)
	if state == nil {
		return
	}
	// Multiple rects leave gaps inside the aggregate bounds, so only a
	// single rect can occlude.
	state.opaqueOverBounds = len(op.Rects) == 1 && geometryOpaque(state, op.Paint)
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchRect)
}

func (f *FrameBuilder) deferBitmapOp(op *record.BitmapOp) {
	state := bakeBounded(&f.states, f.snapshot, op, f.opts, false, false)
	if state == nil {
		return
	}
	state.opaqueOverBounds = record.ImageIsOpaque(op.Image) &&
		geometryOpaque(state, op.Paint)

	// Merged bitmap draws share one texture bind and cannot re-sample
	// under scale or rotation, so only translated source-over draws
	// with plain rectangular clips merge.
	if state.Resolved.Transform.IsPureTranslate() &&
		(op.Paint == nil || op.Paint.Blend == record.BlendSrcOver) &&
		hasMergeableClip(state) {
		f.currentLayer().DeferMergeableOp(&f.states, state, BatchBitmap, MergeKey(op.Image))
		return
	}
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchBitmap)
}

// deferStrokeableOp handles points and lines, which always render as
// strokes and need the stroke-width outset.
func (f *FrameBuilder) deferStrokeableOp(op record.Op) {
	state := bakeBounded(&f.states, f.snapshot, op, f.opts, true, false)
	if state == nil {
		return
	}
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchVertices)
}

// textMergeKey groups glyph runs that can draw from one font atlas pass.
// Color participates because merged text still issues one uniform color.
type textMergeKey struct {
	color color.RGBA
}

func (f *FrameBuilder) deferTextOp(op *record.TextOp) {
	state := bakeBounded(&f.states, f.snapshot, op, f.opts, false, false)
	if state == nil {
		return
	}
	if op.Paint.Shadowed() {
		f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchShadowedText)
		return
	}
	if hasMergeableClip(state) {
		var key textMergeKey
		if op.Paint != nil {
			key.color = op.Paint.Color
		}
		f.currentLayer().DeferMergeableOp(&f.states, state, BatchText, key)
		return
	}
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchText)
}

func (f *FrameBuilder) deferColorOp(op *record.ColorOp) {
	state := bakeUnbounded(&f.states, f.snapshot, op)
	if state == nil {
		return
	}
	// A color fill covers the whole clip, so it occludes whenever the
	// result is opaque.
	state.opaqueOverBounds = state.Alpha >= 1 &&
		simpleClip(state) &&
		(op.Blend == record.BlendSrc || op.Color.A == 255)
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchVertices)
}

func (f *FrameBuilder) deferFunctorOp(op *record.FunctorOp) {
	state := bakeUnbounded(&f.states, f.snapshot, op)
	if state == nil {
		return
	}
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchFunctor)
}

// deferNodeOp recurses into a nested display list under the node's
// transform, clip, alpha, and optional projection mask.
func (f *FrameBuilder) deferNodeOp(op *record.NodeOp) {
	if op.List == nil || op.List.IsEmpty() {
		return
	}
	f.snapshot = f.snapshot.save()
	f.snapshot.applyLocalClip(op.LocalClip)
	f.snapshot.concat(op.LocalTransform)
	f.snapshot.multiplyAlpha(op.Alpha)
	if op.ProjectionMask != nil {
		f.snapshot.setProjectionMask(op.ProjectionMask)
	}
	if !f.snapshot.Clip().IsEmpty() {
		f.deferOps(op.List.Ops())
	}
	f.snapshot = f.snapshot.restore()
}

// --------------------------------------------------------------------------
// Layers
// --------------------------------------------------------------------------

// saveForLayer pushes a snapshot whose transform maps content into layer
// space and opens the given builder as the deferral target.
func (f *FrameBuilder) saveForLayer(contentTransform deferred.Matrix, lb *LayerBuilder) {
	f.snapshot = f.snapshot.save()
	f.snapshot.transform = contentTransform
	f.snapshot.clipArea = clip.NewArea(lb.repaintRect)
	f.snapshot.ownsClip = true
	f.snapshot.alpha = 1
	f.snapshot.roundRectClip = nil
	f.snapshot.projectionMask = nil
	f.snapshot.viewport = deferred.NewRect(0, 0, float64(lb.width), float64(lb.height))

	index := len(f.layerBuilders)
	f.layerBuilders = append(f.layerBuilders, lb)
	f.layerStack = append(f.layerStack, index)
}

func (f *FrameBuilder) restoreForLayer() {
	f.snapshot = f.snapshot.restore()
	f.layerStack = f.layerStack[:len(f.layerStack)-1]
}

func (f *FrameBuilder) deferBeginLayerOp(op *record.BeginLayerOp) {
	s := f.snapshot
	transform := s.transform.Multiply(op.LocalTransform)
	mapped := transform.MapRect(op.UnmappedBounds)
	desc := s.clipArea.SerializeIntersected(op.LocalClip, s.transform)
	dst := mapped.Intersect(desc.Rect)

	width := int(math.Ceil(dst.Width()))
	height := int(math.Ceil(dst.Height()))
	if dst.IsEmpty() || width <= 0 || height <= 0 {
		// Rejected layer: open an empty-clip bracket so the content
		// defers nothing, and remember the bracket for the matching end.
		f.snapshot = f.snapshot.save()
		f.snapshot.MutableClip().SetClip(deferred.Rect{})
		f.layerStack = append(f.layerStack, -1)
		return
	}

	lb := newLayerBuilder(layerTemporary,
		width, height, deferred.NewRect(0, 0, float64(width), float64(height)), f.opts)
	lb.handle = &record.LayerHandle{}
	lb.beginOp = op

	// Content keeps drawing in its recorded space; the layer transform
	// relocates the destination rect to the layer origin.
	content := deferred.Translate(-dst.MinX, -dst.MinY).Multiply(s.transform)
	f.saveForLayer(content, lb)
	lb.deferLayerClear(lb.repaintRect)
}

func (f *FrameBuilder) deferEndLayerOp() {
	top := f.layerStack[len(f.layerStack)-1]
	if top < 0 {
		f.layerStack = f.layerStack[:len(f.layerStack)-1]
		f.snapshot = f.snapshot.restore()
		return
	}
	finished := f.layerBuilders[top]
	f.restoreForLayer()

	begin := finished.beginOp
	layerOp := &record.LayerOp{Handle: finished.handle}
	layerOp.UnmappedBounds = begin.UnmappedBounds
	layerOp.LocalTransform = begin.LocalTransform
	layerOp.LocalClip = begin.LocalClip
	layerOp.Paint = begin.Paint

	state := bakeBounded(&f.states, f.snapshot, layerOp, f.opts, false, false)
	if state == nil {
		// The composite is invisible; drop the layer's work entirely.
		finished.discardBatches()
		return
	}
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchBitmap)
}

func (f *FrameBuilder) deferBeginUnclippedLayerOp(op *record.BeginUnclippedLayerOp) {
	s := f.snapshot
	mapped := s.transform.Multiply(op.LocalTransform).MapRect(op.UnmappedBounds)
	desc := s.clipArea.Serialize()
	dst := mapped.Intersect(desc.Rect)

	lb := f.currentLayer()
	if dst.IsEmpty() {
		lb.pushUnclipped(nil)
		return
	}

	copyTo := &record.CopyToLayerOp{Paired: op, Handle: &record.LayerHandle{}}
	copyTo.UnmappedBounds = dst
	state := bakeDirect(&f.states, desc, dst, copyTo)
	lb.DeferUnmergeableOp(&f.states, state, BatchCopyToLayer)
	lb.pushUnclipped(copyTo)
}

func (f *FrameBuilder) deferEndUnclippedLayerOp() {
	lb := f.currentLayer()
	copyTo := lb.popUnclipped()
	if copyTo == nil {
		return
	}
	copyFrom := &record.CopyFromLayerOp{Paired: copyTo.Paired, Handle: copyTo.Handle}
	copyFrom.UnmappedBounds = copyTo.UnmappedBounds
	state := bakeDirect(&f.states, f.snapshot.clipArea.Serialize(),
		copyTo.UnmappedBounds, copyFrom)
	lb.DeferUnmergeableOp(&f.states, state, BatchCopyFromLayer)
}

// DeferRepaintLayer re-records the dirty portion of a cached layer. The
// handle's buffer persists across frames; only content inside dirty is
// redrawn. Composite the layer afterwards with DeferLayer.
func (f *FrameBuilder) DeferRepaintLayer(handle *record.LayerHandle, list *record.DisplayList, width, height int, dirty deferred.Rect) {
	if handle == nil || list == nil {
		return
	}
	layerBounds := deferred.NewRect(0, 0, float64(width), float64(height))
	dirty = dirty.Intersect(layerBounds)
	if dirty.IsEmpty() {
		return
	}
	lb := newLayerBuilder(layerRepaint, width, height, dirty, f.opts)
	lb.handle = handle
	f.saveForLayer(deferred.Identity(), lb)
	f.deferOps(list.Ops())
	f.restoreForLayer()
}

// DeferLayer composites a cached layer's buffer under the current
// snapshot state.
func (f *FrameBuilder) DeferLayer(handle *record.LayerHandle, bounds deferred.Rect, transform deferred.Matrix, paint *record.Paint) {
	op := &record.LayerOp{Handle: handle, Cached: true}
	op.UnmappedBounds = bounds
	op.LocalTransform = transform
	op.Paint = paint
	state := bakeBounded(&f.states, f.snapshot, op, f.opts, false, false)
	if state == nil {
		return
	}
	f.currentLayer().DeferUnmergeableOp(&f.states, state, BatchBitmap)
}

// --------------------------------------------------------------------------
// Replay
// --------------------------------------------------------------------------

// ReplayBakedOps renders every layer and the main target to the
// receiver. Off-screen layers replay in reverse creation order so each
// is complete before anything composites it; the main target replays
// last, skipped entirely when it has no content. Temporary layer buffers
// come from the target's pool and return to it after the frame.
func (f *FrameBuilder) ReplayBakedOps(target *render.Target, r Receiver) error {
	target.ResetState()

	for i := len(f.layerBuilders) - 1; i >= 1; i-- {
		lb := f.layerBuilders[i]
		if lb.IsEmpty() {
			continue
		}
		switch lb.kind {
		case layerTemporary:
			buffer, err := target.Pool().Get(lb.width, lb.height)
			if err != nil {
				return fmt.Errorf("replay layer %d: %w", i, err)
			}
			lb.handle.Buffer = buffer
			r.StartTemporaryLayer(buffer, lb.width, lb.height)
		case layerRepaint:
			if lb.handle.Buffer == nil {
				buffer, err := target.Pool().Get(lb.width, lb.height)
				if err != nil {
					return fmt.Errorf("replay layer %d: %w", i, err)
				}
				lb.handle.Buffer = buffer
			}
			r.StartRepaintLayer(lb.handle.Buffer, lb.repaintRect)
		}
		lb.replay(r)
		r.EndLayer()
	}

	main := f.layerBuilders[0]
	if !main.IsEmpty() {
		r.StartFrame(main.width, main.height, main.repaintRect)
		main.replay(r)
		r.EndFrame(main.repaintRect)
	}

	// Temporary buffers are dead once composited into their parents.
	for i := 1; i < len(f.layerBuilders); i++ {
		lb := f.layerBuilders[i]
		if lb.kind == layerTemporary && lb.handle != nil && lb.handle.Buffer != nil {
			r.RecycleTemporaryLayer(lb.handle.Buffer)
			target.Pool().Put(lb.handle.Buffer)
			lb.handle.Buffer = nil
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// simpleClip reports whether the state's clip is absent or a plain
// rectangle.
func simpleClip(state *BakedState) bool {
	return state.Resolved.Clip == nil || state.Resolved.Clip.IsSimple()
}

// hasMergeableClip restricts merging to rectangular clips; merged draws
// share one scissor and cannot reproduce stencil clips per member.
func hasMergeableClip(state *BakedState) bool {
	return simpleClip(state)
}

// geometryOpaque reports whether axis-aligned geometry drawn with this
// paint fully covers its clipped bounds with opaque pixels.
func geometryOpaque(state *BakedState, paint *record.Paint) bool {
	return state.Alpha >= 1 &&
		paint.IsOpaque() &&
		state.RoundRectClip == nil &&
		simpleClip(state) &&
		state.Resolved.Transform.RectToRect()
}
