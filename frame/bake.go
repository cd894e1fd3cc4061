package frame

import (
	"strings"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
	"github.com/gogpu/deferred/internal/arena"
	"github.com/gogpu/deferred/record"
)

// SideFlags marks, per side, whether an op's clipped bound on that side
// was determined by the clip rather than its own geometry. A set flag
// means the bound on that side is exactly the clip's bound, which the
// merge logic exploits.
type SideFlags uint8

const (
	SideLeft SideFlags = 1 << iota
	SideTop
	SideRight
	SideBottom

	SideNone SideFlags = 0
	SideFull           = SideLeft | SideTop | SideRight | SideBottom
)

func (f SideFlags) String() string {
	if f == SideNone {
		return "none"
	}
	var parts []string
	if f&SideLeft != 0 {
		parts = append(parts, "left")
	}
	if f&SideTop != 0 {
		parts = append(parts, "top")
	}
	if f&SideRight != 0 {
		parts = append(parts, "right")
	}
	if f&SideBottom != 0 {
		parts = append(parts, "bottom")
	}
	return strings.Join(parts, "|")
}

// ResolvedState is an op's render state after composition with the
// snapshot chain. Computed once at resolution time, never mutated.
type ResolvedState struct {
	// Transform is the snapshot transform composed with the op's local
	// transform.
	Transform deferred.Matrix

	// Clip is the serialized intersection of the snapshot clip with the
	// op's local clip. Receivers share descriptor pointers across ops
	// resolved under the same unchanged clip within a frame.
	Clip *clip.Descriptor

	// ClippedBounds is the intersection of the op's mapped bounds with
	// the clip rectangle.
	ClippedBounds deferred.Rect

	// ClipSideFlags marks the sides of ClippedBounds determined by the
	// clip.
	ClipSideFlags SideFlags

	// LocalProjectionMask is the active projection outline transformed
	// into the op's local space, or nil.
	LocalProjectionMask []deferred.Point
}

// BakedState pairs a resolved state with its originating op and the
// inherited alpha and rounded-rect clip. Arena-allocated with frame
// lifetime; a nil BakedState means the op was rejected.
type BakedState struct {
	Resolved ResolvedState

	// Alpha is the inherited alpha at resolution time.
	Alpha float64

	// RoundRectClip is the inherited rounded-rect clip, compared by
	// pointer identity during merging.
	RoundRectClip *RoundRectClip

	// Op is the originating recorded op. Borrowed, valid for the frame.
	Op record.Op

	// opaqueOverBounds is true when the op fully covers ClippedBounds
	// with opaque pixels, enabling occlusion culling.
	opaqueOverBounds bool
}

type bakedArena = arena.Arena[BakedState]

// bakeBounded resolves an op against the snapshot, rejecting it when the
// clipped bounds come out empty. expandForStroke outsets the unmapped
// bounds by half the stroke width; expandForPathTexture outsets by the
// configured texture padding. Rejection rewinds the arena allocation, so
// no other allocation may happen between Alloc and the reject check.
func bakeBounded(a *bakedArena, s *Snapshot, op record.Op, opts deferred.Options,
	expandForStroke, expandForPathTexture bool) *BakedState {
	mark := a.Mark()
	st := a.Alloc()
	if !st.resolveBounded(s, op, opts, expandForStroke, expandForPathTexture) {
		a.Rewind(mark)
		return nil
	}
	st.Alpha = s.alpha
	st.RoundRectClip = s.roundRectClip
	st.Op = op
	return st
}

// bakeUnbounded resolves an op that intentionally fills the clip, such
// as a color fill or a functor. Rejected only when the clip is empty.
func bakeUnbounded(a *bakedArena, s *Snapshot, op record.Op) *BakedState {
	mark := a.Mark()
	st := a.Alloc()
	if !st.resolveUnbounded(s, op) {
		a.Rewind(mark)
		return nil
	}
	st.Alpha = s.alpha
	st.RoundRectClip = s.roundRectClip
	st.Op = op
	return st
}

// bakeDirect constructs state for a synthetic op from an explicit clip
// and bounds, bypassing snapshot composition. Never rejects.
func bakeDirect(a *bakedArena, clipDesc *clip.Descriptor, bounds deferred.Rect, op record.Op) *BakedState {
	st := a.Alloc()
	st.Resolved = ResolvedState{
		Transform:     deferred.Identity(),
		Clip:          clipDesc,
		ClippedBounds: bounds,
		ClipSideFlags: SideFull,
	}
	st.Alpha = 1
	st.Op = op
	return st
}

func (st *BakedState) resolveBounded(s *Snapshot, op record.Op, opts deferred.Options,
	expandForStroke, expandForPathTexture bool) bool {
	base := op.Base()
	transform := s.transform.Multiply(base.LocalTransform)

	bounds := base.UnmappedBounds
	strokeWidth := 0.0
	if base.Paint != nil {
		strokeWidth = base.Paint.StrokeWidth
	}
	if expandForStroke {
		bounds = bounds.Outset(strokeWidth * 0.5)
	} else if expandForPathTexture {
		bounds = bounds.Outset(opts.PathTexturePadding)
	}
	mapped := transform.MapRect(bounds)
	if expandForStroke &&
		(!transform.IsPureTranslate() || strokeWidth < 1.0) {
		// Hairlines and transformed strokes rasterize with partial
		// coverage beyond the geometric outline.
		mapped = mapped.Outset(opts.StrokeOutsetFudge)
	}

	desc := s.clipArea.SerializeIntersected(base.LocalClip, s.transform)
	clipRect := desc.Rect
	if clipRect.IsEmpty() || !mapped.Intersects(clipRect) {
		return false
	}

	st.Resolved = ResolvedState{
		Transform:     transform,
		Clip:          desc,
		ClippedBounds: mapped.Intersect(clipRect),
		ClipSideFlags: sideFlags(clipRect, mapped),
	}
	st.resolveProjectionMask(s)
	return true
}

func (st *BakedState) resolveUnbounded(s *Snapshot, op record.Op) bool {
	base := op.Base()
	desc := s.clipArea.SerializeIntersected(base.LocalClip, s.transform)
	if desc.Rect.IsEmpty() {
		return false
	}
	st.Resolved = ResolvedState{
		Transform:     s.transform.Multiply(base.LocalTransform),
		Clip:          desc,
		ClippedBounds: desc.Rect,
		ClipSideFlags: SideFull,
	}
	st.resolveProjectionMask(s)
	return true
}

// resolveProjectionMask maps the snapshot's projection outline into the
// op's local space. A non-invertible resolved transform drops the mask.
func (st *BakedState) resolveProjectionMask(s *Snapshot) {
	if s.projectionMask == nil {
		return
	}
	if !st.Resolved.Transform.IsInvertible() {
		return
	}
	toLocal := st.Resolved.Transform.Invert().Multiply(s.projectionMaskTransform)
	mask := make([]deferred.Point, len(s.projectionMask))
	for i, p := range s.projectionMask {
		mask[i] = toLocal.TransformPoint(p)
	}
	st.Resolved.LocalProjectionMask = mask
}

// sideFlags reports which sides of the mapped bounds the clip cut off.
func sideFlags(clipRect, mapped deferred.Rect) SideFlags {
	var flags SideFlags
	if clipRect.MinX > mapped.MinX {
		flags |= SideLeft
	}
	if clipRect.MinY > mapped.MinY {
		flags |= SideTop
	}
	if clipRect.MaxX < mapped.MaxX {
		flags |= SideRight
	}
	if clipRect.MaxY < mapped.MaxY {
		flags |= SideBottom
	}
	return flags
}

// OpaqueOverBounds reports whether the op covers its clipped bounds with
// fully opaque pixels.
func (st *BakedState) OpaqueOverBounds() bool {
	return st.opaqueOverBounds
}
