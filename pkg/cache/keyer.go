package cache

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// LayoutKey keys a computed layout for an atlas snapshot.
	LayoutKey(atlasHash string, opts LayoutKeyOpts) string

	// RouteKey keys a path query for an atlas snapshot.
	RouteKey(atlasHash string, opts RouteKeyOpts) string

	// ArtifactKey keys a rendered output for a layout or route.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a layout besides the atlas.
type LayoutKeyOpts struct {
	Focus          string  `json:"focus"`
	Timeframe      string  `json:"timeframe,omitempty"`
	TheaterOnly    bool    `json:"theater,omitempty"`
	MultigateOnly  bool    `json:"multigate,omitempty"`
	SkipInscribed  bool    `json:"no_inscribed,omitempty"`
	NoDuplicates   bool    `json:"dedupe,omitempty"`
	SamePlanetArcs bool    `json:"same_planet,omitempty"`
	Padding        float64 `json:"padding,omitempty"`
}

// RouteKeyOpts are the inputs of a path query.
type RouteKeyOpts struct {
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Timeframe   string `json:"timeframe,omitempty"`
	TheaterOnly bool   `json:"theater,omitempty"`
}

// ArtifactKeyOpts are the inputs of a render.
type ArtifactKeyOpts struct {
	Kind   string `json:"kind"`
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
	Labels bool   `json:"labels,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>" unhashed, so entries stay
// recognisable.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(atlasHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", atlasHash, opts)
}

// RouteKey returns "route:<hash>".
func (DefaultKeyer) RouteKey(atlasHash string, opts RouteKeyOpts) string {
	return hashKey("route", atlasHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}

var _ Keyer = DefaultKeyer{}
