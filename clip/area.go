// Package clip provides an incremental 2D clip region tracker with three
// representational modes, escalating only when the geometry requires it.
//
// An Area starts as a plain rectangle. Intersecting with a rotated or
// sheared rectangle escalates to a small list of transformed rectangles;
// anything the list cannot represent (unions, overflow, arbitrary paths)
// escalates to a full scanline region. Escalation is one-directional
// within a frame, except that a region which resolves to exactly one
// rectangle collapses back to rectangle mode.
package clip

import (
	"github.com/gogpu/deferred"
)

// Op selects how an incoming shape combines with the current clip.
type Op uint8

const (
	// OpIntersect keeps the area covered by both the clip and the shape.
	OpIntersect Op = iota
	// OpUnion keeps the area covered by either.
	OpUnion
	// OpReplace discards the current clip in favor of the shape.
	OpReplace
)

// String returns a human-readable name for the op.
func (o Op) String() string {
	switch o {
	case OpIntersect:
		return "Intersect"
	case OpUnion:
		return "Union"
	case OpReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Mode identifies the active clip representation.
type Mode uint8

const (
	// ModeRectangle stores a single axis-aligned rectangle.
	ModeRectangle Mode = iota
	// ModeRectangleList stores up to maxRectangleListSize transformed
	// rectangles, intersected together.
	ModeRectangleList
	// ModeRegion stores a general 2D region.
	ModeRegion
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeRectangle:
		return "Rectangle"
	case ModeRectangleList:
		return "RectangleList"
	case ModeRegion:
		return "Region"
	default:
		return "Unknown"
	}
}

// maxRectangleListSize bounds rectangle-list mode. Beyond this many
// distinct transforms the list overflows into region mode.
const maxRectangleListSize = 5

// TransformedRect pairs an un-transformed rectangle with the transform
// under which it clips.
type TransformedRect struct {
	Bounds    deferred.Rect
	Transform deferred.Matrix
}

// MappedBounds returns the axis-aligned bounds of the transformed rect.
func (t TransformedRect) MappedBounds() deferred.Rect {
	return t.Transform.MapRect(t.Bounds)
}

// canSimplyIntersectWith reports whether other shares this entry's exact
// transform, so the two rectangles intersect in the same coordinate space.
func (t TransformedRect) canSimplyIntersectWith(other TransformedRect) bool {
	return t.Transform == other.Transform
}

// rectangleList is the fixed-capacity list of transformed rectangles
// backing ModeRectangleList.
type rectangleList struct {
	rects []TransformedRect
}

func (l *rectangleList) set(bounds deferred.Rect, transform deferred.Matrix) {
	l.rects = append(l.rects[:0], TransformedRect{Bounds: bounds, Transform: transform})
}

// intersectWith folds a new rectangle into the list. Returns false when
// the list cannot represent the result (capacity overflow), which is the
// designed trigger for region-mode escalation, not an error.
func (l *rectangleList) intersectWith(bounds deferred.Rect, transform deferred.Matrix) bool {
	entry := TransformedRect{Bounds: bounds, Transform: transform}
	for i := range l.rects {
		if l.rects[i].canSimplyIntersectWith(entry) {
			l.rects[i].Bounds = l.rects[i].Bounds.Intersect(bounds)
			return true
		}
	}
	if len(l.rects) >= maxRectangleListSize {
		return false
	}
	l.rects = append(l.rects, entry)
	return true
}

// calculateBounds intersects the mapped bounds of every entry.
func (l *rectangleList) calculateBounds() deferred.Rect {
	out := l.rects[0].MappedBounds()
	for _, tr := range l.rects[1:] {
		out = out.Intersect(tr.MappedBounds())
	}
	return out
}

// toRegion rasterizes each transformed rectangle and intersects the
// results.
func (l *rectangleList) toRegion() Region {
	out := regionFromTransformedRect(l.rects[0].Bounds, l.rects[0].Transform)
	for _, tr := range l.rects[1:] {
		out = out.Intersect(regionFromTransformedRect(tr.Bounds, tr.Transform))
	}
	return out
}

func (l *rectangleList) clone() rectangleList {
	out := rectangleList{rects: make([]TransformedRect, len(l.rects))}
	copy(out.rects, l.rects)
	return out
}

// Area tracks the clip for one snapshot chain. The externally visible
// ClipRect always equals the bounding rectangle of whatever representation
// is active.
type Area struct {
	mode          Mode
	rect          deferred.Rect
	rectList      rectangleList
	region        Region
	serialization *Descriptor // cached, invalidated on mutation
}

// NewArea creates a clip area covering bounds, in rectangle mode.
func NewArea(bounds deferred.Rect) *Area {
	return &Area{mode: ModeRectangle, rect: bounds}
}

// Mode returns the active representation mode.
func (a *Area) Mode() Mode {
	return a.mode
}

// ClipRect returns the bounding rectangle of the active representation.
func (a *Area) ClipRect() deferred.Rect {
	return a.rect
}

// IsEmpty returns true when the clip covers nothing. Downstream resolution
// uses this to short-circuit op construction.
func (a *Area) IsEmpty() bool {
	return a.rect.IsEmpty()
}

// RectangleList returns the transformed rectangles backing
// ModeRectangleList. Valid only in that mode.
func (a *Area) RectangleList() []TransformedRect {
	return a.rectList.rects
}

// RegionRef returns the region backing ModeRegion. Valid only in that mode.
func (a *Area) RegionRef() *Region {
	return &a.region
}

// SetClip replaces the clip with an axis-aligned rectangle.
func (a *Area) SetClip(r deferred.Rect) {
	a.mode = ModeRectangle
	a.rect = r
	a.invalidate()
}

// ClipRectWithTransform combines a rectangle, mapped by transform, into
// the clip. All inputs are accepted; an empty result simply leaves
// IsEmpty() true.
func (a *Area) ClipRectWithTransform(r deferred.Rect, transform deferred.Matrix, op Op) {
	if a.IsEmpty() && op == OpIntersect {
		// Nothing can shrink an empty clip further.
		deferred.Logger().Debug("clip: intersect against empty clip absorbed")
		return
	}
	a.invalidate()
	switch op {
	case OpReplace:
		if transform.RectToRect() {
			a.enterRectangleMode(transform.MapRect(r))
			return
		}
		a.mode = ModeRegion
		a.region = regionFromTransformedRect(r, transform)
		a.onClipRegionUpdated()
	case OpUnion:
		a.enterRegionMode()
		a.region = a.region.Union(regionFromTransformedRect(r, transform))
		a.onClipRegionUpdated()
	default: // OpIntersect
		switch a.mode {
		case ModeRectangle:
			if transform.RectToRect() {
				a.rect = a.rect.Intersect(transform.MapRect(r))
				return
			}
			if a.rect.Contains(transform.MapRect(r)) {
				// The incoming rect lies entirely inside the current
				// clip, so the current rectangle adds no constraint and
				// the list starts with the incoming entry alone.
				a.mode = ModeRectangleList
				a.rectList.set(r, transform)
				a.rect = a.rectList.calculateBounds()
				return
			}
			a.enterRectangleListMode()
			a.rectangleListIntersect(r, transform)
		case ModeRectangleList:
			a.rectangleListIntersect(r, transform)
		case ModeRegion:
			a.region = a.region.Intersect(regionFromTransformedRect(r, transform))
			a.onClipRegionUpdated()
		}
	}
}

// ClipRegion combines a pre-built region into the clip.
func (a *Area) ClipRegion(r Region, op Op) {
	a.invalidate()
	if op == OpReplace {
		a.mode = ModeRegion
		a.region = r
		a.onClipRegionUpdated()
		return
	}
	a.enterRegionMode()
	if op == OpUnion {
		a.region = a.region.Union(r)
	} else {
		a.region = a.region.Intersect(r)
	}
	a.onClipRegionUpdated()
}

// ClipPathWithTransform combines a convex polygonal outline, mapped by
// transform, into the clip. Paths always require region mode.
func (a *Area) ClipPathWithTransform(path []deferred.Point, transform deferred.Matrix, op Op) {
	mapped := make([]deferred.Point, len(path))
	for i, p := range path {
		mapped[i] = transform.TransformPoint(p)
	}
	a.ClipRegion(regionFromPolygon(mapped), op)
}

func (a *Area) rectangleListIntersect(r deferred.Rect, transform deferred.Matrix) {
	if a.rectList.intersectWith(r, transform) {
		a.rect = a.rectList.calculateBounds()
		return
	}
	// Capacity overflow: escalate.
	a.enterRegionMode()
	a.region = a.region.Intersect(regionFromTransformedRect(r, transform))
	a.onClipRegionUpdated()
}

func (a *Area) enterRectangleMode(r deferred.Rect) {
	a.mode = ModeRectangle
	a.rect = r
	a.region = Region{}
	a.rectList.rects = a.rectList.rects[:0]
}

// enterRectangleListMode seeds the list with the current rectangle.
// Reachable only from rectangle mode; entering it from region mode is a
// contract violation in the caller.
func (a *Area) enterRectangleListMode() {
	if a.mode != ModeRectangle {
		panic("clip: rectangle-list mode entered from " + a.mode.String())
	}
	a.rectList.set(a.rect, deferred.Identity())
	a.mode = ModeRectangleList
}

// enterRegionMode converts the current representation into a region.
func (a *Area) enterRegionMode() {
	switch a.mode {
	case ModeRectangle:
		a.region = NewRegionFromRect(roundRect(a.rect))
	case ModeRectangleList:
		a.region = a.rectList.toRegion()
	case ModeRegion:
		return
	}
	a.mode = ModeRegion
	a.rectList.rects = a.rectList.rects[:0]
}

// onClipRegionUpdated recomputes the visible rectangle after a region
// mutation and collapses back to rectangle mode when the region is no
// more complex than one rectangle.
func (a *Area) onClipRegionUpdated() {
	if a.region.IsEmpty() {
		a.enterRectangleMode(deferred.Rect{})
		return
	}
	bounds := rectFromImage(a.region.Bounds())
	if a.region.IsRect() {
		a.enterRectangleMode(bounds)
		return
	}
	a.mode = ModeRegion
	a.rect = bounds
}

func (a *Area) invalidate() {
	a.serialization = nil
}

// Clone returns a deep copy. Save points share clip state by reference
// and clone on first write.
func (a *Area) Clone() *Area {
	return a.clone()
}

// clone returns a deep copy suitable for speculative mutation.
func (a *Area) clone() *Area {
	return &Area{
		mode:     a.mode,
		rect:     a.rect,
		rectList: a.rectList.clone(),
		region:   a.region,
	}
}
