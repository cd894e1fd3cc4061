package deferred

// Options configures a frame's deferral pass.
//
// The zero value is not useful; start from DefaultOptions and override
// individual fields:
//
//	opts := deferred.DefaultOptions()
//	opts.AvoidOverdraw = false
type Options struct {
	// AvoidOverdraw enables occlusion culling: batches fully covered by a
	// later opaque op are discarded before replay.
	AvoidOverdraw bool

	// VisualizeOverdraw disables occlusion culling so a downstream renderer
	// can display coverage heatmaps. The toggle lives here because the
	// batching engine must keep every op alive for the visualization, but
	// its semantics belong to the renderer.
	VisualizeOverdraw bool

	// StrokeOutsetFudge is the extra half-pixel outset applied to stroked
	// geometry under non-translate transforms, guaranteeing raster coverage.
	// The value is tuned for the downstream rasterizer's anti-aliasing
	// behavior; change it only to match a different rasterizer.
	StrokeOutsetFudge float64

	// PathTexturePadding is the one-pixel outset applied to ops drawn
	// through a cached path texture.
	PathTexturePadding float64
}

// DefaultOptions returns the standard frame configuration.
func DefaultOptions() Options {
	return Options{
		AvoidOverdraw:      true,
		VisualizeOverdraw:  false,
		StrokeOutsetFudge:  0.5,
		PathTexturePadding: 1.0,
	}
}

// CullingEnabled reports whether occlusion culling should run for this
// frame. Overdraw visualization wins over AvoidOverdraw.
func (o Options) CullingEnabled() bool {
	return o.AvoidOverdraw && !o.VisualizeOverdraw
}
