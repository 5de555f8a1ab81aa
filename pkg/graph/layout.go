package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout - Placed Leyline Map
// =============================================================================

// Layout is the serialization format for a computed leyline map.
//
// Circles are listed in placement order. Points and Arcs are grouped by
// circle in the same order. Planets carry each placed planet's canonical
// position, i.e. the position of its first placement.
type Layout struct {
	ID        string `json:"id,omitempty" bson:"id,omitempty"`
	Focus     string `json:"focus" bson:"focus"`
	Timeframe string `json:"timeframe,omitempty" bson:"timeframe,omitempty"`

	Bounds Bounds `json:"bounds" bson:"bounds"`

	Circles []Circle `json:"circles" bson:"circles"`
	Planets []Planet `json:"planets" bson:"planets"`
	Points  []Point  `json:"points" bson:"points"`
	Arcs    []Arc    `json:"arcs" bson:"arcs"`
	Notes   []Note   `json:"notes,omitempty" bson:"notes,omitempty"`

	// Unplaced lists leylines the driver could not reach from the focus.
	Unplaced []string `json:"unplaced,omitempty" bson:"unplaced,omitempty"`
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// Bounds is the axis-aligned box enclosing every circle.
type Bounds struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Width returns MaxX-MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY-MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Circle is a placed leyline.
type Circle struct {
	Leyline     string  `json:"leyline" bson:"leyline"`
	Label       string  `json:"label,omitempty" bson:"label,omitempty"`
	Color       string  `json:"color,omitempty" bson:"color,omitempty"`
	CX          float64 `json:"cx" bson:"cx"`
	CY          float64 `json:"cy" bson:"cy"`
	R           float64 `json:"r" bson:"r"`
	Order       int     `json:"order" bson:"order"`
	Rotation    float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
	InscribedIn string  `json:"inscribed_in,omitempty" bson:"inscribed_in,omitempty"`
	Region      string  `json:"region,omitempty" bson:"region,omitempty"`
	RegionColor string  `json:"region_color,omitempty" bson:"region_color,omitempty"`
}

// Planet is a placed planet at its canonical position.
type Planet struct {
	Name    string  `json:"name" bson:"name"`
	Label   string  `json:"label" bson:"label"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Capital bool    `json:"capital,omitempty" bson:"capital,omitempty"`
	Type    string  `json:"type,omitempty" bson:"type,omitempty"`
	Group   string  `json:"group,omitempty" bson:"group,omitempty"`
	Theater bool    `json:"theater,omitempty" bson:"theater,omitempty"`
}

// Point is one member occurrence placed on a circle.
type Point struct {
	Planet  string  `json:"planet" bson:"planet"`
	Leyline string  `json:"leyline" bson:"leyline"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Index   int     `json:"index" bson:"index"`
	Reused  bool    `json:"reused,omitempty" bson:"reused,omitempty"`
}

// Arc is a circular arc between two points.
//
// Leyline arcs run from a member to the next member along the leyline's
// circle and carry the leg distance. Same-planet arcs link occurrences of
// one planet on different circles.
type Arc struct {
	Leyline     string   `json:"leyline" bson:"leyline"`
	From        string   `json:"from" bson:"from"`
	To          string   `json:"to" bson:"to"`
	X1          float64  `json:"x1" bson:"x1"`
	Y1          float64  `json:"y1" bson:"y1"`
	X2          float64  `json:"x2" bson:"x2"`
	Y2          float64  `json:"y2" bson:"y2"`
	R           float64  `json:"r" bson:"r"`
	Distance    *float64 `json:"distance,omitempty" bson:"distance,omitempty"`
	Unknown     bool     `json:"unknown,omitempty" bson:"unknown,omitempty"`
	SamePlanet  bool     `json:"same_planet,omitempty" bson:"same_planet,omitempty"`
	Color       string   `json:"color,omitempty" bson:"color,omitempty"`
	RegionColor string   `json:"region_color,omitempty" bson:"region_color,omitempty"`
}

// Note is a planet note drawn beside one of the planet's points. The text
// is centred on X,Y. The connector runs from X1,Y1 to X2,Y2: a straight line
// when R is zero, otherwise a short arc of radius R.
type Note struct {
	Leyline string  `json:"leyline" bson:"leyline"`
	Planet  string  `json:"planet" bson:"planet"`
	Text    string  `json:"text" bson:"text"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	X1      float64 `json:"x1" bson:"x1"`
	Y1      float64 `json:"y1" bson:"y1"`
	X2      float64 `json:"x2" bson:"x2"`
	Y2      float64 `json:"y2" bson:"y2"`
	R       float64 `json:"r,omitempty" bson:"r,omitempty"`
}

// Closed reports whether the arc starts and ends at the same point, which
// happens for one-member loops. Renderers draw these as full circles.
func (a Arc) Closed() bool { return a.X1 == a.X2 && a.Y1 == a.Y2 }

// Circle returns the circle with the given leyline id.
func (l *Layout) Circle(leyline string) (Circle, bool) {
	for _, c := range l.Circles {
		if c.Leyline == leyline {
			return c, true
		}
	}
	return Circle{}, false
}

// Planet returns the placed planet with the given name.
func (l *Layout) Planet(name string) (Planet, bool) {
	for _, p := range l.Planets {
		if p.Name == name {
			return p, true
		}
	}
	return Planet{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayout writes a Layout as indented JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayout decodes a Layout from r.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

func (l *Layout) validate() error {
	if len(l.Circles) == 0 {
		return fmt.Errorf("layout must contain circles")
	}
	known := make(map[string]bool, len(l.Circles))
	for _, c := range l.Circles {
		if c.R <= 0 {
			return fmt.Errorf("circle %s has non-positive radius", c.Leyline)
		}
		known[c.Leyline] = true
	}
	for _, p := range l.Points {
		if !known[p.Leyline] {
			return fmt.Errorf("point %s references unknown circle %s", p.Planet, p.Leyline)
		}
	}
	for _, n := range l.Notes {
		if !known[n.Leyline] {
			return fmt.Errorf("note on %s references unknown circle %s", n.Planet, n.Leyline)
		}
	}
	return nil
}
