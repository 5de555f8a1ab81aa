package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/observability"
	"github.com/matzehuels/leymap/pkg/pathfind"
)

// =============================================================================
// Route
// =============================================================================

// ComputeRoute answers the path query opts.From → opts.To over a. An empty
// To yields the single-planet route.
func ComputeRoute(a *atlas.Atlas, opts Options) (graph.Route, error) {
	if err := opts.ValidateForRoute(); err != nil {
		return graph.Route{}, err
	}
	table := pathfind.Compute(pathfind.EdgesFromAtlas(a))
	return table.Query(opts.From, opts.To, a.Planets)
}

// RouteWithCacheInfo computes a route with caching and returns cache hit info.
func (r *Runner) RouteWithCacheInfo(ctx context.Context, a *atlas.Atlas, atlasHash string, opts Options) (graph.Route, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRoute(); err != nil {
		return graph.Route{}, false, err
	}

	cacheKey := r.Keyer.RouteKey(atlasHash, opts.RouteKeyOpts())
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := graph.UnmarshalRoute(data); err == nil {
			return cached, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRouteStart(ctx, opts.From, opts.To)
	start := time.Now()

	rt, err := ComputeRoute(a, opts)
	hooks.OnRouteComplete(ctx, opts.From, opts.To, rt.Reachable, time.Since(start), err)
	if err != nil {
		return graph.Route{}, false, err
	}

	if data, err := graph.MarshalRoute(rt); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRoute)
	}
	return rt, false, nil
}

// Route is a convenience wrapper that calls RouteWithCacheInfo and discards the cache hit info.
func (r *Runner) Route(ctx context.Context, a *atlas.Atlas, atlasHash string, opts Options) (graph.Route, error) {
	rt, _, err := r.RouteWithCacheInfo(ctx, a, atlasHash, opts)
	return rt, err
}
