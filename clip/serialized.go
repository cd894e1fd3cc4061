package clip

import (
	"github.com/gogpu/deferred"
)

// Descriptor is a serialized, immutable snapshot of a clip, attached to
// resolved ops for the duration of one frame. Receivers use it to set up
// scissor or stencil state; the batching engine itself only reads Rect.
type Descriptor struct {
	// Mode identifies which payload is populated.
	Mode Mode

	// Rect is the bounding rectangle of the clip in every mode.
	Rect deferred.Rect

	// Rects holds the transformed rectangles for ModeRectangleList.
	Rects []TransformedRect

	// Region holds the scanline region for ModeRegion.
	Region *Region
}

// IsSimple returns true when the clip is a plain rectangle, so receivers
// can use scissor state instead of stencil.
func (d *Descriptor) IsSimple() bool {
	return d.Mode == ModeRectangle
}

// Serialize captures the current clip as an immutable descriptor.
// The result is cached until the next mutation.
func (a *Area) Serialize() *Descriptor {
	if a.serialization != nil {
		return a.serialization
	}
	d := &Descriptor{Mode: a.mode, Rect: a.rect}
	switch a.mode {
	case ModeRectangleList:
		d.Rects = make([]TransformedRect, len(a.rectList.rects))
		copy(d.Rects, a.rectList.rects)
	case ModeRegion:
		region := a.region
		d.Region = &region
	}
	a.serialization = d
	return d
}

// SerializeIntersected returns a descriptor for the intersection of this
// clip with a recorded clip mapped by recordedTransform. A nil recorded
// clip serializes the inherited clip unchanged. The result's Rect is empty
// when the intersection is empty.
func (a *Area) SerializeIntersected(recorded *Descriptor, recordedTransform deferred.Matrix) *Descriptor {
	if recorded == nil {
		return a.Serialize()
	}
	if recorded.Mode == ModeRectangle && a.mode != ModeRegion {
		// Apply the recorded rectangle as one more clip op against a
		// scratch copy; this reuses the escalation rules exactly.
		scratch := a.clone()
		scratch.ClipRectWithTransform(recorded.Rect, recordedTransform, OpIntersect)
		return scratch.Serialize()
	}
	inherited := a.toRegion()
	incoming := descriptorRegion(recorded, recordedTransform)
	return descriptorFromRegion(inherited.Intersect(incoming))
}

// toRegion rasterizes the active representation into a region without
// mutating the area.
func (a *Area) toRegion() Region {
	switch a.mode {
	case ModeRectangle:
		return NewRegionFromRect(roundRect(a.rect))
	case ModeRectangleList:
		return a.rectList.toRegion()
	default:
		return a.region
	}
}

// ClipDescriptor intersects a serialized clip, mapped by transform, into
// the area. Rectangle payloads go through the normal escalation rules;
// region payloads combine as regions.
func (a *Area) ClipDescriptor(d *Descriptor, transform deferred.Matrix) {
	if d == nil {
		return
	}
	switch d.Mode {
	case ModeRectangle:
		a.ClipRectWithTransform(d.Rect, transform, OpIntersect)
	case ModeRectangleList:
		for _, tr := range d.Rects {
			a.ClipRectWithTransform(tr.Bounds, transform.Multiply(tr.Transform), OpIntersect)
		}
	case ModeRegion:
		a.ClipRegion(descriptorRegion(d, transform), OpIntersect)
	}
}

// DescriptorRegion rasterizes a descriptor's payload into a region in
// its own coordinate space.
func DescriptorRegion(d *Descriptor) Region {
	return descriptorRegion(d, deferred.Identity())
}

// descriptorRegion rasterizes a descriptor's payload under an extra
// transform.
func descriptorRegion(d *Descriptor, transform deferred.Matrix) Region {
	switch d.Mode {
	case ModeRectangle:
		return regionFromTransformedRect(d.Rect, transform)
	case ModeRectangleList:
		out := regionFromTransformedRect(d.Rects[0].Bounds, transform.Multiply(d.Rects[0].Transform))
		for _, tr := range d.Rects[1:] {
			out = out.Intersect(regionFromTransformedRect(tr.Bounds, transform.Multiply(tr.Transform)))
		}
		return out
	default:
		if transform.IsIdentity() {
			return *d.Region
		}
		// Regions do not transform exactly; map the covered rows through
		// the transform rectangle by rectangle.
		var out Region
		for _, b := range d.Region.bands {
			for _, r := range b.Runs {
				cell := deferred.NewRectLTRB(
					float64(r.Left), float64(b.Top),
					float64(r.Right), float64(b.Bottom),
				)
				out = out.Union(regionFromTransformedRect(cell, transform))
			}
		}
		return out
	}
}

// descriptorFromRegion builds the simplest descriptor representing a
// computed region.
func descriptorFromRegion(r Region) *Descriptor {
	if r.IsEmpty() {
		return &Descriptor{Mode: ModeRectangle}
	}
	bounds := rectFromImage(r.Bounds())
	if r.IsRect() {
		return &Descriptor{Mode: ModeRectangle, Rect: bounds}
	}
	return &Descriptor{Mode: ModeRegion, Rect: bounds, Region: &r}
}
