// Package record provides the recorded-op model consumed by the deferral
// engine.
//
// Drawing is captured as typed op structures instead of immediate
// rasterization. Each op carries its un-transformed bounds, the transform
// and clip that were active when it was recorded (both relative to the
// owning display list's origin), and optional paint attributes. Ops are
// immutable once recorded and owned by their DisplayList for the duration
// of one deferral pass.
package record

import (
	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
)

// OpKind identifies the type of a recorded op.
type OpKind uint8

const (
	// Drawing ops
	KindRect        OpKind = iota // Fill a rectangle
	KindSimpleRects               // Fill a set of rectangles with one paint
	KindBitmap                    // Draw an image
	KindPoints                    // Draw stroked points
	KindLines                     // Draw stroked line segments
	KindText                      // Draw a shaped glyph run
	KindColor                     // Fill the clip with a color
	KindFunctor                   // Invoke an external draw callback

	// Structure ops
	KindNode                // Draw a nested display list
	KindBeginLayer          // Open a clipped off-screen layer
	KindEndLayer            // Close the matching BeginLayer
	KindBeginUnclippedLayer // Open an unclipped layer bracket
	KindEndUnclippedLayer   // Close the matching BeginUnclippedLayer
	KindCopyToLayer         // Copy a target region into a layer (synthetic)
	KindCopyFromLayer       // Copy a layer back into the target (synthetic)
	KindLayer               // Composite a rendered off-screen buffer
)

// opKindNames maps OpKind values to their string representation.
var opKindNames = [...]string{
	KindRect:                "Rect",
	KindSimpleRects:         "SimpleRects",
	KindBitmap:              "Bitmap",
	KindPoints:              "Points",
	KindLines:               "Lines",
	KindText:                "Text",
	KindColor:               "Color",
	KindFunctor:             "Functor",
	KindNode:                "Node",
	KindBeginLayer:          "BeginLayer",
	KindEndLayer:            "EndLayer",
	KindBeginUnclippedLayer: "BeginUnclippedLayer",
	KindEndUnclippedLayer:   "EndUnclippedLayer",
	KindCopyToLayer:         "CopyToLayer",
	KindCopyFromLayer:       "CopyFromLayer",
	KindLayer:               "Layer",
}

// String returns the string representation of an OpKind.
func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "Unknown"
}

// Op is the interface implemented by all recorded op types.
type Op interface {
	// Kind returns the OpKind for this op.
	Kind() OpKind

	// Base returns the common recorded fields.
	Base() *RecordedOp
}

// RecordedOp holds the fields common to every recorded op.
type RecordedOp struct {
	// UnmappedBounds is the op's bounds before any transform is applied.
	// Empty for ops whose extent comes from stroke expansion (points,
	// lines) or from the clip (color, functor).
	UnmappedBounds deferred.Rect

	// LocalTransform maps the op into its display list's coordinate space.
	LocalTransform deferred.Matrix

	// LocalClip is the clip active at record time, in the display list's
	// coordinate space. Nil when the op was not clipped beyond the list's
	// own bounds.
	LocalClip *clip.Descriptor

	// Paint carries color, style, and blend attributes. Nil means the
	// default paint (opaque black fill).
	Paint *Paint
}

// Base implements Op.
func (r *RecordedOp) Base() *RecordedOp {
	return r
}
