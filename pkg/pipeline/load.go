package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/cache"
	leyio "github.com/matzehuels/leymap/pkg/io"
	"github.com/matzehuels/leymap/pkg/observability"
)

// =============================================================================
// Load
// =============================================================================

// Load reads the dataset named by opts and applies the visibility filters.
// It returns the filtered atlas and its content hash, which keys every
// downstream cache entry.
func (r *Runner) Load(ctx context.Context, opts Options) (*atlas.Atlas, string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}

	src, err := leyio.NewSource(opts.Data, r.Client)
	if err != nil {
		return nil, "", err
	}
	if hs, ok := src.(*leyio.HTTPSource); ok {
		hs.Refresh = opts.Refresh
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.String(), opts.Timeframe)
	start := time.Now()

	a, err := leyio.LoadAtlas(ctx, src, opts.Timeframe)
	if err != nil {
		hooks.OnLoadComplete(ctx, src.String(), opts.Timeframe, 0, 0, time.Since(start), err)
		return nil, "", err
	}
	if f := opts.FilterOptions(); !f.IsZero() {
		a = a.Filter(f)
	}
	hooks.OnLoadComplete(ctx, src.String(), opts.Timeframe, len(a.Planets), len(a.Leylines), time.Since(start), nil)

	hash, err := cache.HashJSON(a)
	if err != nil {
		return nil, "", err
	}
	return a, hash, nil
}
