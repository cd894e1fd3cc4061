package frame

import (
	"github.com/gogpu/deferred"
	"github.com/gogpu/deferred/clip"
)

// RoundRectClip describes a rounded-rectangle clip applied by an
// ancestor. Baked states carry it by pointer; merge compatibility uses
// pointer identity, so distinct instances with equal values are treated
// as different clips.
type RoundRectClip struct {
	Rect   deferred.Rect
	Radius float64
}

// Snapshot is one save point in the traversal state chain: inherited
// transform, inherited clip, alpha, and optional rounded-rect clip and
// projection mask. Snapshots share clip state with their parent by
// reference until a clip mutation forces a copy.
type Snapshot struct {
	prev *Snapshot

	transform deferred.Matrix
	alpha     float64

	clipArea *clip.Area
	ownsClip bool

	roundRectClip *RoundRectClip

	// projectionMask is a convex outline in some ancestor space;
	// projectionMaskTransform maps it to render-target space.
	projectionMask          []deferred.Point
	projectionMaskTransform deferred.Matrix

	viewport deferred.Rect
}

// newRootSnapshot creates the base of a snapshot chain for a target of
// the given size, clipped to the repaint rectangle.
func newRootSnapshot(width, height int, repaint deferred.Rect) *Snapshot {
	viewport := deferred.NewRect(0, 0, float64(width), float64(height))
	area := clip.NewArea(viewport)
	if !repaint.IsEmpty() && repaint != viewport {
		area.ClipRectWithTransform(repaint, deferred.Identity(), clip.OpIntersect)
	}
	return &Snapshot{
		transform: deferred.Identity(),
		alpha:     1,
		clipArea:  area,
		ownsClip:  true,
		viewport:  viewport,
	}
}

// save pushes a child snapshot inheriting all state. The clip is shared
// by reference until the child mutates it.
func (s *Snapshot) save() *Snapshot {
	child := *s
	child.prev = s
	child.ownsClip = false
	return &child
}

// restore returns the parent snapshot.
func (s *Snapshot) restore() *Snapshot {
	return s.prev
}

// Transform returns the inherited transform.
func (s *Snapshot) Transform() deferred.Matrix {
	return s.transform
}

// Alpha returns the inherited alpha in [0, 1].
func (s *Snapshot) Alpha() float64 {
	return s.alpha
}

// Clip returns the inherited clip for reading.
func (s *Snapshot) Clip() *clip.Area {
	return s.clipArea
}

// MutableClip returns a clip this snapshot may modify, copying the
// shared ancestor clip on first write.
func (s *Snapshot) MutableClip() *clip.Area {
	if !s.ownsClip {
		s.clipArea = s.clipArea.Clone()
		s.ownsClip = true
	}
	return s.clipArea
}

// concat prepends a local transform.
func (s *Snapshot) concat(m deferred.Matrix) {
	s.transform = s.transform.Multiply(m)
}

// multiplyAlpha folds a node's alpha into the inherited alpha.
func (s *Snapshot) multiplyAlpha(alpha float64) {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	s.alpha *= alpha
}

// setProjectionMask installs a projection outline active for this
// snapshot's subtree, anchored at the current transform.
func (s *Snapshot) setProjectionMask(mask []deferred.Point) {
	s.projectionMask = mask
	s.projectionMaskTransform = s.transform
}

// applyLocalClip folds a recorded op's local clip into the snapshot clip.
// The local clip is defined in the parent coordinate space, so it maps
// through the snapshot transform, not the op's resolved transform.
func (s *Snapshot) applyLocalClip(d *clip.Descriptor) {
	if d == nil {
		return
	}
	s.MutableClip().ClipDescriptor(d, s.transform)
}
