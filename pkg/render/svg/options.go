package svg

import "github.com/matzehuels/leymap/pkg/errors"

// Theme is a colour scheme.
type Theme struct {
	Name       string
	Background string
	Text       string
	Planet     string
	Capital    string
	Arc        string
	Unknown    string
}

// Themes.
var (
	Light = Theme{
		Name:       "light",
		Background: "#ffffff",
		Text:       "#222222",
		Planet:     "#333333",
		Capital:    "#b8860b",
		Arc:        "#777777",
		Unknown:    "#dddddd",
	}
	Dark = Theme{
		Name:       "dark",
		Background: "#14161c",
		Text:       "#e6e6e6",
		Planet:     "#e6e6e6",
		Capital:    "#f0c040",
		Arc:        "#9a9a9a",
		Unknown:    "#3a3d46",
	}
)

// ThemeByName returns the named theme. Empty means light.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", Light.Name:
		return Light, nil
	case Dark.Name:
		return Dark, nil
	}
	return Theme{}, errors.New(errors.ErrCodeInvalidInput, "unknown style %q (must be one of: light, dark)", name)
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	theme          Theme
	margin         float64
	distanceLabels bool
	planetLabels   bool
	title          string
	highlight      map[string]bool
}

// WithTheme selects a colour scheme.
func WithTheme(t Theme) Option { return func(r *renderer) { r.theme = t } }

// WithMargin sets the blank border around the drawing.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// WithDistanceLabels prints each leg's distance next to its arc.
func WithDistanceLabels() Option { return func(r *renderer) { r.distanceLabels = true } }

// WithoutPlanetLabels hides planet names.
func WithoutPlanetLabels() Option { return func(r *renderer) { r.planetLabels = false } }

// WithTitle adds a heading.
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// WithHighlight marks the given planets, typically a route.
func WithHighlight(planets []string) Option {
	return func(r *renderer) {
		r.highlight = make(map[string]bool, len(planets))
		for _, p := range planets {
			r.highlight[p] = true
		}
	}
}

const defaultMargin = 40.0

func newRenderer(opts ...Option) *renderer {
	r := &renderer{theme: Light, margin: defaultMargin, planetLabels: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
