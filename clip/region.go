package clip

import (
	"image"
	"math"
	"slices"

	"github.com/gogpu/deferred"
)

// Run is a horizontal pixel interval [Left, Right).
type Run struct {
	Left, Right int
}

// band is a vertical interval [Top, Bottom) over which the x-runs are
// constant. Bands are y-sorted and non-overlapping; vertically adjacent
// bands with identical runs are coalesced so the representation is
// canonical.
type band struct {
	Top, Bottom int
	Runs        []Run
}

// Region is a 2D integer region stored as y-sorted bands of x-runs.
// The zero value is an empty region.
type Region struct {
	bands []band
}

// NewRegionFromRect creates a region covering one rectangle.
func NewRegionFromRect(r image.Rectangle) Region {
	r = r.Canon()
	if r.Empty() {
		return Region{}
	}
	return Region{bands: []band{{
		Top:    r.Min.Y,
		Bottom: r.Max.Y,
		Runs:   []Run{{Left: r.Min.X, Right: r.Max.X}},
	}}}
}

// IsEmpty returns true if the region covers no pixels.
func (rg *Region) IsEmpty() bool {
	return len(rg.bands) == 0
}

// IsRect returns true if the region is exactly one rectangle.
func (rg *Region) IsRect() bool {
	return len(rg.bands) == 1 && len(rg.bands[0].Runs) == 1
}

// Bounds returns the bounding rectangle of the region.
func (rg *Region) Bounds() image.Rectangle {
	if rg.IsEmpty() {
		return image.Rectangle{}
	}
	first := rg.bands[0]
	out := image.Rectangle{
		Min: image.Point{X: first.Runs[0].Left, Y: first.Top},
		Max: image.Point{X: first.Runs[len(first.Runs)-1].Right, Y: rg.bands[len(rg.bands)-1].Bottom},
	}
	for _, b := range rg.bands[1:] {
		if l := b.Runs[0].Left; l < out.Min.X {
			out.Min.X = l
		}
		if r := b.Runs[len(b.Runs)-1].Right; r > out.Max.X {
			out.Max.X = r
		}
	}
	return out
}

// Contains returns true if the pixel (x, y) is inside the region.
func (rg *Region) Contains(x, y int) bool {
	for _, b := range rg.bands {
		if y < b.Top || y >= b.Bottom {
			continue
		}
		for _, r := range b.Runs {
			if x >= r.Left && x < r.Right {
				return true
			}
		}
		return false
	}
	return false
}

// Intersect returns the intersection of rg and other.
func (rg Region) Intersect(other Region) Region {
	return combine(rg, other, false)
}

// Union returns the union of rg and other.
func (rg Region) Union(other Region) Region {
	return combine(rg, other, true)
}

// appendBand adds a band, coalescing with the previous band when the two
// touch vertically and share identical runs.
func (rg *Region) appendBand(top, bottom int, runs []Run) {
	if bottom <= top || len(runs) == 0 {
		return
	}
	if n := len(rg.bands); n > 0 {
		prev := &rg.bands[n-1]
		if prev.Bottom == top && slices.Equal(prev.Runs, runs) {
			prev.Bottom = bottom
			return
		}
	}
	rg.bands = append(rg.bands, band{Top: top, Bottom: bottom, Runs: slices.Clone(runs)})
}

// runsAt returns the runs of the band containing scanline y, or nil.
func (rg *Region) runsAt(y int) []Run {
	for _, b := range rg.bands {
		if y >= b.Top && y < b.Bottom {
			return b.Runs
		}
	}
	return nil
}

// combine merges two regions with a boundary sweep over the y breakpoints
// of both operands, combining the runs of each elementary band.
func combine(a, b Region, union bool) Region {
	edges := make([]int, 0, 2*(len(a.bands)+len(b.bands)))
	for _, bd := range a.bands {
		edges = append(edges, bd.Top, bd.Bottom)
	}
	for _, bd := range b.bands {
		edges = append(edges, bd.Top, bd.Bottom)
	}
	slices.Sort(edges)
	edges = slices.Compact(edges)

	var out Region
	for i := 0; i+1 < len(edges); i++ {
		y1, y2 := edges[i], edges[i+1]
		ra, rb := a.runsAt(y1), b.runsAt(y1)
		var runs []Run
		if union {
			runs = unionRuns(ra, rb)
		} else {
			runs = intersectRuns(ra, rb)
		}
		out.appendBand(y1, y2, runs)
	}
	return out
}

// intersectRuns intersects two sorted run lists with a two-pointer walk.
func intersectRuns(a, b []Run) []Run {
	var out []Run
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		l := max(a[i].Left, b[j].Left)
		r := min(a[i].Right, b[j].Right)
		if r > l {
			out = append(out, Run{Left: l, Right: r})
		}
		if a[i].Right < b[j].Right {
			i++
		} else {
			j++
		}
	}
	return out
}

// unionRuns merges two sorted run lists, fusing overlapping or touching
// intervals.
func unionRuns(a, b []Run) []Run {
	merged := make([]Run, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next Run
		if j >= len(b) || (i < len(a) && a[i].Left <= b[j].Left) {
			next = a[i]
			i++
		} else {
			next = b[j]
			j++
		}
		if n := len(merged); n > 0 && next.Left <= merged[n-1].Right {
			if next.Right > merged[n-1].Right {
				merged[n-1].Right = next.Right
			}
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// regionFromPolygon rasterizes a convex polygon into a region by sampling
// the polygon's horizontal extent at each scanline center. Matches the
// non-antialiased fill a stencil rasterizer would produce.
func regionFromPolygon(pts []deferred.Point) Region {
	if len(pts) < 3 {
		return Region{}
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	var out Region
	for y := int(math.Floor(minY)); y < int(math.Ceil(maxY)); y++ {
		yc := float64(y) + 0.5
		minX, maxX, ok := polygonSpanAt(pts, yc)
		if !ok {
			continue
		}
		l := int(math.Round(minX))
		r := int(math.Round(maxX))
		if r > l {
			out.appendBand(y, y+1, []Run{{Left: l, Right: r}})
		}
	}
	return out
}

// polygonSpanAt returns the horizontal extent of the polygon at scanline y.
func polygonSpanAt(pts []deferred.Point, y float64) (minX, maxX float64, ok bool) {
	minX, maxX = math.Inf(1), math.Inf(-1)
	n := len(pts)
	for i := 0; i < n; i++ {
		p0, p1 := pts[i], pts[(i+1)%n]
		if p0.Y == p1.Y {
			continue // horizontal edge contributes via its endpoints' edges
		}
		lo, hi := p0, p1
		if lo.Y > hi.Y {
			lo, hi = hi, lo
		}
		if y < lo.Y || y >= hi.Y {
			continue
		}
		t := (y - lo.Y) / (hi.Y - lo.Y)
		x := lo.X + t*(hi.X-lo.X)
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		ok = true
	}
	return minX, maxX, ok
}

// regionFromTransformedRect rasterizes a rectangle mapped by a transform.
// Axis-preserving transforms take the exact rectangle path; everything
// else goes through polygon scan conversion.
func regionFromTransformedRect(r deferred.Rect, m deferred.Matrix) Region {
	if m.RectToRect() {
		return NewRegionFromRect(roundRect(m.MapRect(r)))
	}
	quad := []deferred.Point{
		m.TransformPoint(deferred.Pt(r.MinX, r.MinY)),
		m.TransformPoint(deferred.Pt(r.MaxX, r.MinY)),
		m.TransformPoint(deferred.Pt(r.MaxX, r.MaxY)),
		m.TransformPoint(deferred.Pt(r.MinX, r.MaxY)),
	}
	return regionFromPolygon(quad)
}

// roundRect converts a float rectangle to integer pixel bounds, rounding
// each edge to the nearest pixel boundary.
func roundRect(r deferred.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.MinX)),
		int(math.Round(r.MinY)),
		int(math.Round(r.MaxX)),
		int(math.Round(r.MaxY)),
	)
}

// rectFromImage converts integer pixel bounds back to a float rectangle.
func rectFromImage(r image.Rectangle) deferred.Rect {
	return deferred.NewRectLTRB(
		float64(r.Min.X), float64(r.Min.Y),
		float64(r.Max.X), float64(r.Max.Y),
	)
}
