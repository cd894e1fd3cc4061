package frame

import (
	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/record"
	"github.com/gogpu/deferred/render"
)

// MergedOpList carries all members of a merged batch for dispatch as one
// combined draw. ClipRect and ClipSideFlags describe the aggregate clip:
// on sides where ClipSideFlags is set the receiver must scissor to
// ClipRect, on the other sides the member bounds are authoritative.
type MergedOpList struct {
	States        []*BakedState
	ClipSideFlags SideFlags
	ClipRect      deferred.Rect
}

// Receiver consumes a replayed frame. ReplayBakedOps invokes the
// lifecycle methods interleaved with draw dispatch: every off-screen
// layer is bracketed by a start/EndLayer pair and fully replayed before
// anything that composites it, and the main target comes last inside
// StartFrame/EndFrame.
//
// Draw methods receive the originating recorded op plus its baked state;
// merged dispatch delivers the whole batch in one call. All methods are
// invoked synchronously on the replaying goroutine.
type Receiver interface {
	StartFrame(width, height int, repaint deferred.Rect)
	EndFrame(repaint deferred.Rect)

	// StartTemporaryLayer begins rendering into a freshly acquired
	// buffer for a save-layer. The buffer contents are undefined;
	// deferred clears establish the transparent background.
	StartTemporaryLayer(buffer *render.OffscreenBuffer, width, height int)

	// StartRepaintLayer begins re-rendering the dirty portion of a
	// cached layer whose buffer persists across frames.
	StartRepaintLayer(buffer *render.OffscreenBuffer, repaint deferred.Rect)

	EndLayer()

	// RecycleTemporaryLayer is called after the frame completes for
	// each temporary layer buffer, before the buffer returns to the
	// pool.
	RecycleTemporaryLayer(buffer *render.OffscreenBuffer)

	DrawRect(op *record.RectOp, state *BakedState)
	DrawSimpleRects(op *record.SimpleRectsOp, state *BakedState)
	DrawBitmap(op *record.BitmapOp, state *BakedState)
	DrawPoints(op *record.PointsOp, state *BakedState)
	DrawLines(op *record.LinesOp, state *BakedState)
	DrawText(op *record.TextOp, state *BakedState)
	DrawColor(op *record.ColorOp, state *BakedState)
	DrawFunctor(op *record.FunctorOp, state *BakedState)
	DrawLayer(op *record.LayerOp, state *BakedState)
	CopyToLayer(op *record.CopyToLayerOp, state *BakedState)
	CopyFromLayer(op *record.CopyFromLayerOp, state *BakedState)

	DrawMergedBitmaps(merged *MergedOpList)
	DrawMergedText(merged *MergedOpList)
}

// dispatchBaked routes a single baked op to the receiver method for its
// kind. Synthetic kinds produced during deferral (layer ops, copies,
// coalesced clears) dispatch the same way as recorded ones.
func dispatchBaked(r Receiver, s *BakedState) {
	switch op := s.Op.(type) {
	case *record.RectOp:
		r.DrawRect(op, s)
	case *record.SimpleRectsOp:
		r.DrawSimpleRects(op, s)
	case *record.BitmapOp:
		r.DrawBitmap(op, s)
	case *record.PointsOp:
		r.DrawPoints(op, s)
	case *record.LinesOp:
		r.DrawLines(op, s)
	case *record.TextOp:
		r.DrawText(op, s)
	case *record.ColorOp:
		r.DrawColor(op, s)
	case *record.FunctorOp:
		r.DrawFunctor(op, s)
	case *record.LayerOp:
		if op.Handle != nil && op.Handle.Buffer == nil && !op.Cached {
			// The layer produced no content and was never started.
			return
		}
		r.DrawLayer(op, s)
	case *record.CopyToLayerOp:
		r.CopyToLayer(op, s)
	case *record.CopyFromLayerOp:
		r.CopyFromLayer(op, s)
	default:
		deferred.Logger().Warn("unhandled op kind in dispatch", "kind", s.Op.Kind())
	}
}
