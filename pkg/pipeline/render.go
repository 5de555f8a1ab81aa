package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/observability"
	"github.com/matzehuels/leymap/pkg/render"
	"github.com/matzehuels/leymap/pkg/render/nodelink"
	"github.com/matzehuels/leymap/pkg/render/svg"
)

// Artifact kinds used in cache keys.
const (
	KindLayout = "layout"
	KindRoute  = "route"
)

// RenderLayout generates layout outputs in the requested formats. The atlas
// is only needed for DOT output and may be nil otherwise.
func RenderLayout(l graph.Layout, a *atlas.Atlas, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	draw := func() []byte { return svg.RenderLayout(l, svgOpts...) }
	dot := func() (string, error) {
		if a == nil {
			return "", errors.New(errors.ErrCodeUnsupported, "dot output needs the dataset, not just a layout")
		}
		return nodelink.ToDOT(graph.FromAtlas(a), nodelink.Options{
			Distances: opts.DistanceLabels,
			Highlight: []string{l.Focus},
			Engine:    opts.Engine,
		}), nil
	}
	return renderFormats(opts.Formats, draw, dot, func() ([]byte, error) { return graph.MarshalLayout(l) })
}

// RenderRoute generates route outputs in the requested formats. SVG draws
// the route as a strip; DOT highlights it on the adjacency graph.
func RenderRoute(rt graph.Route, a *atlas.Atlas, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	draw := func() []byte { return svg.RenderRoute(rt, svgOpts...) }
	dot := func() (string, error) {
		if a == nil {
			return "", errors.New(errors.ErrCodeUnsupported, "dot output needs the dataset")
		}
		var highlight []string
		if rt.Reachable {
			highlight = rt.Planets
		}
		return nodelink.ToDOT(graph.FromAtlas(a), nodelink.Options{
			Distances: opts.DistanceLabels,
			Highlight: highlight,
			Engine:    opts.Engine,
		}), nil
	}
	return renderFormats(opts.Formats, draw, dot, func() ([]byte, error) { return graph.MarshalRoute(rt) })
}

func renderFormats(formats []string, draw func() []byte, dot func() (string, error), marshal func() ([]byte, error)) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var drawn []byte
	svgData := func() []byte {
		if drawn == nil {
			drawn = draw()
		}
		return drawn
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgData()
		case FormatJSON:
			data, err = marshal()
		case FormatDOT:
			var s string
			s, err = dot()
			data = []byte(s)
		case FormatPNG:
			data, err = render.ToPNG(svgData(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(svgData())
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) ([]svg.Option, error) {
	theme, err := svg.ThemeByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []svg.Option{svg.WithTheme(theme)}
	if opts.DistanceLabels {
		svgOpts = append(svgOpts, svg.WithDistanceLabels())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
	}
	return svgOpts, nil
}

// =============================================================================
// Cached Rendering
// =============================================================================

// RenderLayoutWithCacheInfo renders a layout with caching and returns cache hit info.
func (r *Runner) RenderLayoutWithCacheInfo(ctx context.Context, l graph.Layout, a *atlas.Atlas, opts Options) (map[string][]byte, bool, error) {
	data, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	return r.renderCached(ctx, KindLayout, cache.Hash(data), opts, func(o Options) (map[string][]byte, error) {
		return RenderLayout(l, a, o)
	})
}

// RenderLayout is a convenience wrapper that calls RenderLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderLayout(ctx context.Context, l graph.Layout, a *atlas.Atlas, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderLayoutWithCacheInfo(ctx, l, a, opts)
	return artifacts, err
}

// RenderRouteWithCacheInfo renders a route with caching and returns cache hit info.
func (r *Runner) RenderRouteWithCacheInfo(ctx context.Context, rt graph.Route, a *atlas.Atlas, opts Options) (map[string][]byte, bool, error) {
	data, err := graph.MarshalRoute(rt)
	if err != nil {
		return nil, false, fmt.Errorf("serialize route for cache key: %w", err)
	}
	return r.renderCached(ctx, KindRoute, cache.Hash(data), opts, func(o Options) (map[string][]byte, error) {
		return RenderRoute(rt, a, o)
	})
}

// RenderRoute is a convenience wrapper that calls RenderRouteWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderRoute(ctx context.Context, rt graph.Route, a *atlas.Atlas, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderRouteWithCacheInfo(ctx, rt, a, opts)
	return artifacts, err
}

func (r *Runner) renderCached(ctx context.Context, kind, sourceHash string, opts Options, renderFn func(Options) (map[string][]byte, error)) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(kind, format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := renderFn(opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(kind, format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}
