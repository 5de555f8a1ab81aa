package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leymap/pkg/archive"
	"github.com/matzehuels/leymap/pkg/buildinfo"
	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/httputil"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its cache, client, archive and
// logger - it doesn't store pipeline results. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Client fetches remote datasets through Cache.
	Client *httputil.Client

	// Archive stores layouts for Options.Archive. Optional.
	Archive archive.Store
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Client: httputil.NewClient(c, keyer, cache.TTLDataset, map[string]string{
			"User-Agent": buildinfo.UserAgent(),
		}),
	}
}

// WithArchive attaches a layout archive and returns the runner.
func (r *Runner) WithArchive(s archive.Store) *Runner {
	r.Archive = s
	return r
}

// Execute runs the complete load → layout → route → render pipeline with
// caching. The layout stage runs when opts.Focus is set and the route
// stage when opts.From is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	a, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Atlas = a
	result.AtlasHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.PlanetCount = len(a.Planets)
	result.Stats.LeylineCount = len(a.Leylines)

	r.Logger.Info("loaded atlas",
		"planets", len(a.Planets),
		"leylines", len(a.Leylines),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	if opts.Focus != "" {
		layoutStart := time.Now()
		l, hit, err := r.GenerateLayoutWithCacheInfo(ctx, a, hash, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Stats.LayoutTime = time.Since(layoutStart)
		result.Stats.PlacedCount = len(l.Circles)
		result.CacheInfo.LayoutHit = hit

		r.Logger.Info("computed layout",
			"focus", opts.Focus,
			"circles", len(l.Circles),
			"unplaced", len(l.Unplaced),
			"duration", result.Stats.LayoutTime)

		if opts.Archive && r.Archive != nil {
			rec := archive.NewRecord(l, opts.Data)
			if err := r.Archive.Save(ctx, rec); err != nil {
				return nil, fmt.Errorf("archive: %w", err)
			}
			l.ID = rec.ID
			result.ArchiveID = rec.ID
			r.Logger.Debug("archived layout", "id", rec.ID)
		}
		result.Layout = &l
	}

	// Stage 3: Route
	if opts.From != "" {
		routeStart := time.Now()
		rt, hit, err := r.RouteWithCacheInfo(ctx, a, hash, opts)
		if err != nil {
			return nil, fmt.Errorf("route: %w", err)
		}
		result.Route = &rt
		result.Stats.RouteTime = time.Since(routeStart)
		result.CacheInfo.RouteHit = hit

		r.Logger.Info("computed route",
			"from", rt.From,
			"to", rt.To,
			"reachable", rt.Reachable,
			"hops", len(rt.Legs))
	}

	// Stage 4: Render
	renderStart := time.Now()
	renderHit := true
	if result.Layout != nil {
		artifacts, hit, err := r.RenderLayoutWithCacheInfo(ctx, *result.Layout, a, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		renderHit = renderHit && hit
	}
	if result.Route != nil {
		artifacts, hit, err := r.RenderRouteWithCacheInfo(ctx, *result.Route, a, opts)
		if err != nil {
			return nil, fmt.Errorf("render route: %w", err)
		}
		result.RouteArtifacts = artifacts
		renderHit = renderHit && hit
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Archive != nil {
		errs = append(errs, r.Archive.Close())
	}
	return errors.Join(errs...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
