package frame

import (
	"image"
	"image/color"

	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
	"github.com/gogpu/deferred/record"
	"github.com/gogpu/deferred/render"
)

// CoverageReceiver is a software Receiver that rasterizes the clipped
// bounds of every dispatched draw into a per-pixel draw count. It renders
// nothing for real; tests use it to check which pixels a frame touches
// and how often, independent of batching and merge decisions.
//
// Layer brackets are ignored: layer content and its composite both count
// in their own coordinate spaces, so coverage comparisons should use
// frames without layers.
type CoverageReceiver struct {
	width, height int
	counts        []int
}

// NewCoverageReceiver creates a coverage counter for a width x height
// frame.
func NewCoverageReceiver(width, height int) *CoverageReceiver {
	return &CoverageReceiver{
		width:  width,
		height: height,
		counts: make([]int, width*height),
	}
}

// Count returns how many draws touched the pixel (x, y).
func (c *CoverageReceiver) Count(x, y int) int {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	return c.counts[y*c.width+x]
}

// Covered returns the number of pixels touched at least once.
func (c *CoverageReceiver) Covered() int {
	n := 0
	for _, v := range c.counts {
		if v > 0 {
			n++
		}
	}
	return n
}

// MaxOverdraw returns the highest per-pixel draw count.
func (c *CoverageReceiver) MaxOverdraw() int {
	m := 0
	for _, v := range c.counts {
		if v > m {
			m = v
		}
	}
	return m
}

// Image paints covered pixels opaque white over a transparent background.
func (c *CoverageReceiver) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if c.counts[y*c.width+x] > 0 {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return img
}

// fill counts one draw over its clipped bounds, honoring a region clip
// when the resolved clip is not a plain rectangle.
func (c *CoverageReceiver) fill(s *BakedState) {
	bounds := s.Resolved.ClippedBounds.RoundOut()
	x0, y0 := int(bounds.MinX), int(bounds.MinY)
	x1, y1 := int(bounds.MaxX), int(bounds.MaxY)
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > c.width {
		x1 = c.width
	}
	if y1 > c.height {
		y1 = c.height
	}

	d := s.Resolved.Clip
	useRegion := d != nil && d.Mode == clip.ModeRegion && d.Region != nil
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if useRegion && !d.Region.Contains(x, y) {
				continue
			}
			c.counts[y*c.width+x]++
		}
	}
}

func (c *CoverageReceiver) StartFrame(width, height int, repaint deferred.Rect) {}
func (c *CoverageReceiver) EndFrame(repaint deferred.Rect)                      {}
func (c *CoverageReceiver) StartTemporaryLayer(b *render.OffscreenBuffer, width, height int) {
}
func (c *CoverageReceiver) StartRepaintLayer(b *render.OffscreenBuffer, repaint deferred.Rect) {
}
func (c *CoverageReceiver) EndLayer()                                       {}
func (c *CoverageReceiver) RecycleTemporaryLayer(b *render.OffscreenBuffer) {}

func (c *CoverageReceiver) DrawRect(op *record.RectOp, s *BakedState)               { c.fill(s) }
func (c *CoverageReceiver) DrawSimpleRects(op *record.SimpleRectsOp, s *BakedState) { c.fill(s) }
func (c *CoverageReceiver) DrawBitmap(op *record.BitmapOp, s *BakedState)           { c.fill(s) }
func (c *CoverageReceiver) DrawPoints(op *record.PointsOp, s *BakedState)           { c.fill(s) }
func (c *CoverageReceiver) DrawLines(op *record.LinesOp, s *BakedState)             { c.fill(s) }
func (c *CoverageReceiver) DrawText(op *record.TextOp, s *BakedState)               { c.fill(s) }
func (c *CoverageReceiver) DrawColor(op *record.ColorOp, s *BakedState)             { c.fill(s) }
func (c *CoverageReceiver) DrawFunctor(op *record.FunctorOp, s *BakedState)         { c.fill(s) }
func (c *CoverageReceiver) DrawLayer(op *record.LayerOp, s *BakedState)             { c.fill(s) }
func (c *CoverageReceiver) CopyToLayer(op *record.CopyToLayerOp, s *BakedState)     {}
func (c *CoverageReceiver) CopyFromLayer(op *record.CopyFromLayerOp, s *BakedState) {}

func (c *CoverageReceiver) DrawMergedBitmaps(merged *MergedOpList) {
	for _, s := range merged.States {
		c.fill(s)
	}
}

func (c *CoverageReceiver) DrawMergedText(merged *MergedOpList) {
	for _, s := range merged.States {
		c.fill(s)
	}
}

var _ Receiver = (*CoverageReceiver)(nil)
