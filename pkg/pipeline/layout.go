package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/layout"
	"github.com/matzehuels/leymap/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout places the atlas around opts.Focus in a fresh session and
// exports the result. Warnings from the session are carried in the layout;
// a focus on no leyline is a STARVATION error.
func GenerateLayout(a *atlas.Atlas, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	s, err := layout.NewSession(a, opts.LayoutOptions(a))
	if err != nil {
		return graph.Layout{}, err
	}
	if err := s.Run(opts.Focus); err != nil {
		return graph.Layout{}, err
	}

	l := s.Export()
	l.Timeframe = opts.Timeframe
	for _, w := range l.Warnings {
		opts.Logger.Warn("layout", "focus", opts.Focus, "warning", w)
	}
	return l, nil
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, a *atlas.Atlas, atlasHash string, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(atlasHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Focus, len(a.Leylines))
	start := time.Now()

	l, err := GenerateLayout(a, opts)
	hooks.OnLayoutComplete(ctx, opts.Focus, len(l.Circles), time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}
	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, a *atlas.Atlas, atlasHash string, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, a, atlasHash, opts)
	return l, err
}
