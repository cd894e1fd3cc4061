package record

import (
	"image"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
)

// Canvas captures drawing operations as recorded ops. It mirrors an
// immediate-mode drawing API but resolves save/restore state at record
// time: every recorded op carries the transform and clip that were active
// when it was drawn, relative to the canvas origin.
//
// Use Finish to obtain an immutable DisplayList for deferral.
//
// The Canvas is not safe for concurrent use.
type Canvas struct {
	width, height int
	ops           []Op
	state         canvasState
	stack         []canvasState
}

// layerBracket marks whether a save opened a layer, and which end op the
// matching Restore must record.
type layerBracket uint8

const (
	layerNone layerBracket = iota
	layerClipped
	layerUnclipped
)

// canvasState stores the record-time graphics state for Save/Restore.
type canvasState struct {
	transform deferred.Matrix
	area      *clip.Area
	ownsArea  bool // copy-on-write: false while sharing the parent's area
	clipped   bool // any clip op recorded in this chain
	layer     layerBracket
}

// NewCanvas creates a recording canvas for the given dimensions.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		ops:    make([]Op, 0, 64),
		state: canvasState{
			transform: deferred.Identity(),
			area:      clip.NewArea(deferred.NewRect(0, 0, float64(width), float64(height))),
			ownsArea:  true,
		},
		stack: make([]canvasState, 0, 8),
	}
}

// Finish returns an immutable DisplayList containing all recorded ops.
// After calling Finish, the Canvas should not be used again.
func (c *Canvas) Finish() *DisplayList {
	return &DisplayList{width: c.width, height: c.height, ops: c.ops}
}

// --------------------------------------------------------------------------
// State
// --------------------------------------------------------------------------

// Save pushes the current transform and clip state.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.state)
	c.state.ownsArea = false
	c.state.layer = layerNone
}

// Restore pops to the previously saved state. Restoring past a SaveLayer
// records the matching end-layer op.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	switch c.state.layer {
	case layerClipped:
		c.ops = append(c.ops, &EndLayerOp{})
	case layerUnclipped:
		c.ops = append(c.ops, &EndUnclippedLayerOp{})
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// SaveLayer opens a clipped off-screen layer covering bounds. Content up
// to the matching Restore renders into the layer, which is composited
// with paint.
func (c *Canvas) SaveLayer(bounds deferred.Rect, paint *Paint) {
	op := &BeginLayerOp{}
	c.setBase(&op.RecordedOp, bounds, paint)
	c.ops = append(c.ops, op)
	c.Save()
	c.state.layer = layerClipped
}

// SaveLayerUnclipped opens an unclipped layer bracket covering bounds.
func (c *Canvas) SaveLayerUnclipped(bounds deferred.Rect) {
	op := &BeginUnclippedLayerOp{}
	c.setBase(&op.RecordedOp, bounds, nil)
	c.ops = append(c.ops, op)
	c.Save()
	c.state.layer = layerUnclipped
}

// Translate prepends a translation to the current transform.
func (c *Canvas) Translate(dx, dy float64) {
	c.state.transform = c.state.transform.Multiply(deferred.Translate(dx, dy))
}

// Rotate prepends a rotation (radians) to the current transform.
func (c *Canvas) Rotate(angle float64) {
	c.state.transform = c.state.transform.Multiply(deferred.Rotate(angle))
}

// Scale prepends a scale to the current transform.
func (c *Canvas) Scale(sx, sy float64) {
	c.state.transform = c.state.transform.Multiply(deferred.Scale(sx, sy))
}

// Concat prepends an arbitrary transform.
func (c *Canvas) Concat(m deferred.Matrix) {
	c.state.transform = c.state.transform.Multiply(m)
}

// Transform returns the current transform.
func (c *Canvas) Transform() deferred.Matrix {
	return c.state.transform
}

// ClipRect combines a rectangle, under the current transform, into the
// record-time clip.
func (c *Canvas) ClipRect(r deferred.Rect, op clip.Op) {
	c.mutableArea().ClipRectWithTransform(r, c.state.transform, op)
	c.state.clipped = true
}

// ClipPath combines a convex polygonal outline into the record-time clip.
func (c *Canvas) ClipPath(path []deferred.Point, op clip.Op) {
	c.mutableArea().ClipPathWithTransform(path, c.state.transform, op)
	c.state.clipped = true
}

// mutableArea returns a clip area this state may mutate, cloning the
// shared parent area on first write after a Save.
func (c *Canvas) mutableArea() *clip.Area {
	if !c.state.ownsArea {
		c.state.area = c.state.area.Clone()
		c.state.ownsArea = true
	}
	return c.state.area
}

// recordedClip returns the clip descriptor for a new op, or nil when no
// clip op has restricted the canvas.
func (c *Canvas) recordedClip() *clip.Descriptor {
	if !c.state.clipped {
		return nil
	}
	return c.state.area.Serialize()
}

// setBase fills the common recorded fields of an op.
func (c *Canvas) setBase(base *RecordedOp, bounds deferred.Rect, paint *Paint) {
	base.UnmappedBounds = bounds
	base.LocalTransform = c.state.transform
	base.LocalClip = c.recordedClip()
	base.Paint = paint
}

// --------------------------------------------------------------------------
// Drawing
// --------------------------------------------------------------------------

// DrawRect records a filled or stroked rectangle.
func (c *Canvas) DrawRect(r deferred.Rect, paint *Paint) {
	op := &RectOp{}
	c.setBase(&op.RecordedOp, r, paint)
	c.ops = append(c.ops, op)
}

// DrawRects records a set of rectangles drawn with one paint.
func (c *Canvas) DrawRects(rects []deferred.Rect, paint *Paint) {
	if len(rects) == 0 {
		return
	}
	bounds := rects[0]
	for _, r := range rects[1:] {
		bounds = bounds.Union(r)
	}
	op := &SimpleRectsOp{Rects: rects}
	c.setBase(&op.RecordedOp, bounds, paint)
	c.ops = append(c.ops, op)
}

// DrawBitmap records an image drawn with its top-left corner at (x, y).
func (c *Canvas) DrawBitmap(img image.Image, x, y float64, paint *Paint) {
	b := img.Bounds()
	op := &BitmapOp{Image: img}
	c.setBase(&op.RecordedOp,
		deferred.NewRect(x, y, float64(b.Dx()), float64(b.Dy())), paint)
	c.ops = append(c.ops, op)
}

// DrawPoint records a single stroked point. The recorded bounds are
// empty; stroke expansion happens at resolve time.
func (c *Canvas) DrawPoint(x, y float64, paint *Paint) {
	c.DrawPoints([]deferred.Point{{X: x, Y: y}}, paint)
}

// DrawPoints records stroked points.
func (c *Canvas) DrawPoints(pts []deferred.Point, paint *Paint) {
	op := &PointsOp{Points: pts}
	c.setBase(&op.RecordedOp, pointExtent(pts), paint)
	c.ops = append(c.ops, op)
}

// DrawLines records stroked line segments between consecutive point pairs.
func (c *Canvas) DrawLines(pts []deferred.Point, paint *Paint) {
	op := &LinesOp{Points: pts}
	c.setBase(&op.RecordedOp, pointExtent(pts), paint)
	c.ops = append(c.ops, op)
}

// DrawText records a shaped glyph run with its baseline origin at (x, y).
func (c *Canvas) DrawText(run *GlyphRun, x, y float64, paint *Paint) {
	if run == nil || len(run.Glyphs) == 0 {
		return
	}
	op := &TextOp{Run: run, X: x, Y: y}
	c.setBase(&op.RecordedOp, run.Bounds.Offset(x, y), paint)
	c.ops = append(c.ops, op)
}

// DrawColor records a fill of the entire clip with a color.
func (c *Canvas) DrawColor(r, g, b, a uint8, blend BlendMode) {
	op := &ColorOp{Blend: blend}
	op.Color.R, op.Color.G, op.Color.B, op.Color.A = r, g, b, a
	c.setBase(&op.RecordedOp, deferred.Rect{}, nil)
	c.ops = append(c.ops, op)
}

// DrawFunctor records an external draw callback.
func (c *Canvas) DrawFunctor(f Functor) {
	op := &FunctorOp{Functor: f}
	c.setBase(&op.RecordedOp, deferred.Rect{}, nil)
	c.ops = append(c.ops, op)
}

// DrawNode records a nested display list under the current transform and
// clip, with an extra alpha multiplier.
func (c *Canvas) DrawNode(list *DisplayList, alpha float64) {
	if list == nil {
		return
	}
	op := &NodeOp{List: list, Alpha: alpha}
	bounds := deferred.NewRect(0, 0, float64(list.Width()), float64(list.Height()))
	c.setBase(&op.RecordedOp, bounds, nil)
	c.ops = append(c.ops, op)
}

// pointExtent returns the tight bounds of a point set. A single point
// yields an empty rect; the stroke gives it extent later.
func pointExtent(pts []deferred.Point) deferred.Rect {
	if len(pts) == 0 {
		return deferred.Rect{}
	}
	out := deferred.Rect{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < out.MinX {
			out.MinX = p.X
		}
		if p.Y < out.MinY {
			out.MinY = p.Y
		}
		if p.X > out.MaxX {
			out.MaxX = p.X
		}
		if p.Y > out.MaxY {
			out.MaxY = p.Y
		}
	}
	return out
}

// DisplayList is an immutable container of recorded ops.
type DisplayList struct {
	width, height int
	ops           []Op
}

// Width returns the width of the recorded canvas.
func (d *DisplayList) Width() int {
	return d.width
}

// Height returns the height of the recorded canvas.
func (d *DisplayList) Height() int {
	return d.height
}

// Ops returns the recorded ops in paint order.
func (d *DisplayList) Ops() []Op {
	return d.ops
}

// IsEmpty returns true when nothing was recorded.
func (d *DisplayList) IsEmpty() bool {
	return len(d.ops) == 0
}
