// Package deferred provides a per-frame deferred op batching and
// clip-resolution engine for 2D rendering.
//
// # Overview
//
// deferred takes a tree of recorded drawing commands (each carrying
// un-transformed bounds, a local transform, an optional clip, and paint
// attributes), resolves each command against the current render-target
// state, rejects commands that cannot contribute to the frame, groups
// the survivors into ordered draw batches (merging compatible ones into
// a single combined draw), and replays the batches, across potentially
// nested off-screen layers, to a downstream renderer.
//
// The engine preserves painter's-order correctness: replaying the batch
// list is observationally equivalent to replaying the original command
// stream one op at a time.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/deferred"
//	    "github.com/gogpu/deferred/frame"
//	    "github.com/gogpu/deferred/record"
//	)
//
//	// Record a display list
//	canvas := record.NewCanvas(800, 600)
//	canvas.DrawRect(deferred.NewRect(0, 0, 800, 600), paint)
//	list := canvas.Finish()
//
//	// Defer it into batches and replay
//	fb := frame.NewFrameBuilder(800, 600, deferred.NewRect(0, 0, 800, 600),
//	    deferred.DefaultOptions())
//	fb.DeferDisplayList(list)
//	if err := fb.ReplayBakedOps(target, receiver); err != nil {
//	    return err
//	}
//
// # Architecture
//
// The module is organized into:
//   - Root: shared geometry (Rect, Matrix, Point), options, logging
//   - record: the recorded-op model and the recording canvas
//   - clip: the incremental, mode-escalating clip region tracker
//   - frame: resolution, batching, merging, layer orchestration, replay
//   - render: render-target context and off-screen buffer management
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// # Concurrency
//
// A frame is one synchronous unit of work. All transient state is owned
// by one in-flight frame; nothing is shared across frames or goroutines.
package deferred

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
