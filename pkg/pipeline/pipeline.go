// Package pipeline provides the load → layout → route → render pipeline
// shared by the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read planets, leylines and powers from a directory or URL and
//     apply the visibility filters
//  2. Layout: Place the leylines around a focus planet
//  3. Route: Answer a shortest-path query between two planets
//  4. Render: Generate output in various formats (SVG, JSON, DOT, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Data:    "./data",
//	    Focus:   "aeldrum",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	a, hash, err := runner.Load(ctx, opts)
//	layout, err := runner.GenerateLayout(ctx, a, hash, opts)
//	route, err := runner.Route(ctx, a, hash, opts)
//	artifacts, err := runner.RenderLayout(ctx, layout, a, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/layout"
	"github.com/matzehuels/leymap/pkg/render/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultData is the dataset location used when none is configured.
	DefaultData = "data"

	// DefaultStyle is the default colour scheme.
	DefaultStyle = "light"

	// DefaultEngine is the Graphviz engine for DOT renders.
	DefaultEngine = "neato"

	// DefaultPNGScale is the rasterisation scale for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidStyles is the set of supported colour schemes.
var ValidStyles = map[string]bool{
	svg.Light.Name: true,
	svg.Dark.Name:  true,
}

// ValidEngines is the set of Graphviz layout engines accepted for DOT output.
var ValidEngines = map[string]bool{
	"neato": true,
	"fdp":   true,
	"sfdp":  true,
	"circo": true,
	"dot":   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Data      string `json:"data,omitempty"` // directory or http(s) base URL
	Timeframe string `json:"timeframe,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Filter options
	TheaterOnly   bool     `json:"theater,omitempty"`
	MultigateOnly bool     `json:"multigate,omitempty"`
	Hidden        []string `json:"hidden,omitempty"`

	// Layout options
	Focus          string  `json:"focus,omitempty"`
	Padding        float64 `json:"padding,omitempty"`
	NoDuplicates   bool    `json:"dedupe,omitempty"`
	SamePlanetArcs bool    `json:"same_planet,omitempty"`
	SkipInscribed  bool    `json:"no_inscribed,omitempty"`

	// Route options
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// Render options
	Formats        []string `json:"formats,omitempty"`
	Style          string   `json:"style,omitempty"`
	DistanceLabels bool     `json:"labels,omitempty"`
	Engine         string   `json:"engine,omitempty"`
	Title          string   `json:"title,omitempty"`

	// Archive stores the computed layout when the runner has an archive.
	Archive bool `json:"archive,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Atlas is the filtered dataset the layout and route were computed on.
	Atlas *atlas.Atlas

	// AtlasHash is the content hash of the filtered atlas.
	AtlasHash string

	// Layout is set when a focus was given.
	Layout *graph.Layout

	// Route is set when a route source was given.
	Route *graph.Route

	// Artifacts contains rendered layout outputs keyed by format.
	Artifacts map[string][]byte

	// RouteArtifacts contains rendered route outputs keyed by format.
	RouteArtifacts map[string][]byte

	// ArchiveID is the id of the archived layout, if any.
	ArchiveID string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PlanetCount  int
	LeylineCount int
	PlacedCount  int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RouteTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RouteHit  bool // Whether the route came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: svg, json, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid style: %q (must be one of: light, dark)", style)
	}
	return nil
}

// ValidateEngine checks that a Graphviz engine is supported.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		names := make([]string, 0, len(ValidEngines))
		for n := range ValidEngines {
			names = append(names, n)
		}
		slices.Sort(names)
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid engine: %q (must be one of: %s)", engine, strings.Join(names, ", "))
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if o.Focus == "" && o.From == "" {
		return errors.New(errors.ErrCodeInvalidInput, "focus or route source is required")
	}
	if o.Focus != "" {
		if err := o.ValidateForLayout(); err != nil {
			return err
		}
	}
	if o.From != "" {
		if err := o.ValidateForRoute(); err != nil {
			return err
		}
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the dataset fields and applies load defaults.
func (o *Options) ValidateForLoad() error {
	if o.Data == "" {
		o.Data = DefaultData
	}
	if errors.IsURL(o.Data) {
		if err := errors.ValidateURL(o.Data); err != nil {
			return err
		}
	}
	if err := errors.ValidateTimeframe(o.Timeframe); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Padding == 0 {
		o.Padding = layout.DefaultPadding
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative")
	}
	return errors.ValidatePlanetName(o.Focus)
}

// ValidateForRoute checks the route endpoints.
func (o *Options) ValidateForRoute() error {
	o.setLogger()
	if err := errors.ValidatePlanetName(o.From); err != nil {
		return err
	}
	if o.To == "" {
		return nil
	}
	return errors.ValidatePlanetName(o.To)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	return ValidateEngine(o.Engine)
}

// FilterOptions returns the atlas filters selected by o.
func (o *Options) FilterOptions() atlas.FilterOptions {
	return atlas.FilterOptions{
		TheaterOnly:   o.TheaterOnly,
		MultigateOnly: o.MultigateOnly,
		Hidden:        o.Hidden,
	}
}

// LayoutOptions returns session options for the given atlas.
func (o *Options) LayoutOptions(a *atlas.Atlas) layout.Options {
	return layout.Options{
		Padding:        o.Padding,
		NoDuplicates:   o.NoDuplicates,
		SamePlanetArcs: o.SamePlanetArcs,
		SkipInscribed:  o.SkipInscribed,
		Powers:         a.Powers,
		Logger:         o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Focus:          o.Focus,
		Timeframe:      o.Timeframe,
		TheaterOnly:    o.TheaterOnly,
		MultigateOnly:  o.MultigateOnly,
		SkipInscribed:  o.SkipInscribed,
		NoDuplicates:   o.NoDuplicates,
		SamePlanetArcs: o.SamePlanetArcs,
		Padding:        o.Padding,
	}
}

// RouteKeyOpts returns cache key options for a path query.
func (o *Options) RouteKeyOpts() cache.RouteKeyOpts {
	return cache.RouteKeyOpts{
		From:        o.From,
		To:          o.To,
		Timeframe:   o.Timeframe,
		TheaterOnly: o.TheaterOnly,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(kind, format string) cache.ArtifactKeyOpts {
	style := o.Style
	if format == FormatDOT {
		style = o.Engine
	}
	return cache.ArtifactKeyOpts{
		Kind:   kind,
		Format: format,
		Style:  style + "|" + o.Title,
		Labels: o.DistanceLabels,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
