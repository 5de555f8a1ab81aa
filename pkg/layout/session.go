// Package layout places leylines as circles.
//
// A [Session] owns the placement state for one layout run: which leylines
// have a circle, where every planet sits, and which points each planet has
// on each circle. The driver ([Session.Run]) repeatedly asks the selector
// ([Session.Select]) for the next leyline, computes a [Placement] for it and
// applies that placement to the session. Nothing is shared between
// sessions; a re-layout builds a new one.
//
// # Placement Order
//
//  1. The largest leyline containing the focus planet, drawn with the focus
//     at the top of the circle.
//  2. Nested leylines inside every placed circle ([Session.Inscribe]).
//  3. The leyline through the focus that shares the fewest planets with the
//     first one, hung off the focus point.
//  4. Nested leylines again.
//  5. Leylines touching exactly one placed planet, hung off that planet,
//     with no nesting in between.
//  6. Everything else, pushed clear of the placed circles, each followed by
//     another nesting pass.
//
// # Geometry
//
// Coordinates use the SVG convention (y grows downward). A leyline with n
// distinct members gets radius max(2, n)^0.825 * 20.
package layout

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/geom"
)

// Options configures a layout session. The zero value is usable; unset
// numeric fields take the Default* constants.
type Options struct {
	// Origin is where the focus planet lands.
	Origin geom.Point

	// Padding is the minimum gap between free-standing circles.
	Padding float64

	// NoDuplicates collapses repeated members of a leyline to their first
	// occurrence before placement.
	NoDuplicates bool

	// SamePlanetArcs emits arcs linking a planet's occurrences across
	// circles.
	SamePlanetArcs bool

	// SkipInscribed disables nested leylines.
	SkipInscribed bool

	// MinInscribedRadius is the smallest radius a nested leyline may have.
	MinInscribedRadius float64

	// MaxResolveIterations bounds the overlap resolver.
	MaxResolveIterations int

	// Powers supplies region colours for arcs. Optional.
	Powers map[string]*atlas.Power

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.MinInscribedRadius == 0 {
		o.MinInscribedRadius = DefaultMinInscribedRadius
	}
	if o.MaxResolveIterations <= 0 {
		o.MaxResolveIterations = DefaultMaxResolveIterations
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Node is a planet's placement state.
type Node struct {
	Planet *atlas.Planet

	// Position is the canonical position, set by the first placement that
	// reaches this planet and never moved afterwards.
	Position *geom.Point

	// Points lists this planet's points per leyline, in walk order. A
	// planet visited twice by one leyline has two entries there.
	Points map[string][]geom.Point
}

// Name returns the planet key.
func (n *Node) Name() string { return n.Planet.Name }

// Placed reports whether the node has a canonical position.
func (n *Node) Placed() bool { return n.Position != nil }

// Line is a leyline's placement state.
type Line struct {
	Leyline *atlas.Leyline

	// Circle is assigned once, when the leyline is placed.
	Circle *geom.Circle

	// InscribedIn is the id of the leyline this one is nested inside.
	InscribedIn string

	// Order is the placement index, or -1 while unplaced.
	Order int

	Rotation    float64
	Assignments []Assignment
	Arcs        []Arc
	Notes       []Note
}

// ID returns the leyline key.
func (l *Line) ID() string { return l.Leyline.ID }

// Placed reports whether the leyline has a circle.
func (l *Line) Placed() bool { return l.Circle != nil }

// Session is the context object for a single layout run.
type Session struct {
	opts Options
	log  *log.Logger

	nodes map[string]*Node
	lines map[string]*Line
	order []string // leyline ids in key order

	placed   []string // leyline ids in placement order
	warnings []string
	focus    string
	running  bool
}

// NewSession builds a session over a. Every leyline member must reference a
// known planet; otherwise a MISSING_DATA error is returned.
func NewSession(a *atlas.Atlas, opts Options) (*Session, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()
	if opts.Powers == nil {
		opts.Powers = a.Powers
	}

	s := &Session{
		opts:  opts,
		log:   opts.Logger,
		nodes: make(map[string]*Node, len(a.Planets)),
		lines: make(map[string]*Line, len(a.Leylines)),
		order: a.LeylineIDs(),
	}
	for name, p := range a.Planets {
		s.nodes[name] = &Node{Planet: p, Points: make(map[string][]geom.Point)}
	}
	for _, id := range s.order {
		s.lines[id] = &Line{Leyline: a.Leylines[id], Order: -1}
	}
	return s, nil
}

// Node returns the named node.
func (s *Session) Node(name string) (*Node, bool) {
	n, ok := s.nodes[name]
	return n, ok
}

// Line returns the leyline with the given id.
func (s *Session) Line(id string) (*Line, bool) {
	l, ok := s.lines[id]
	return l, ok
}

// Placed returns leyline ids in placement order.
func (s *Session) Placed() []string { return slices.Clone(s.placed) }

// Unplaced returns ids of leylines without a circle, in key order.
func (s *Session) Unplaced() []string {
	var ids []string
	for _, id := range s.order {
		if !s.lines[id].Placed() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Warnings returns the non-fatal problems recorded so far.
func (s *Session) Warnings() []string { return slices.Clone(s.warnings) }

// Circles returns the circles of placed leylines in placement order.
func (s *Session) Circles() []geom.Circle {
	out := make([]geom.Circle, 0, len(s.placed))
	for _, id := range s.placed {
		out = append(out, *s.lines[id].Circle)
	}
	return out
}

// CenterOfMass returns the mean canonical position of every placed planet.
// The second result is false when nothing is placed.
func (s *Session) CenterOfMass() (geom.Point, bool) {
	pts := make([]geom.Point, 0, len(s.nodes))
	for _, n := range s.nodes {
		if n.Position != nil {
			pts = append(pts, *n.Position)
		}
	}
	return geom.Centroid(pts)
}

// connections counts the member occurrences of l whose planet is placed.
func (s *Session) connections(l *Line) int {
	count := 0
	for _, m := range l.Leyline.Members {
		if s.nodes[m.Name].Placed() {
			count++
		}
	}
	return count
}

// anchorPoint returns the point used to anchor a placement at name: its
// first point on via when via is given, otherwise its canonical position.
func (s *Session) anchorPoint(name, via string) (geom.Point, bool) {
	n, ok := s.nodes[name]
	if !ok {
		return geom.Point{}, false
	}
	if via != "" {
		if pts := n.Points[via]; len(pts) > 0 {
			return pts[0], true
		}
		return geom.Point{}, false
	}
	if n.Position == nil {
		return geom.Point{}, false
	}
	return *n.Position, true
}

// hasNestedChild reports whether some leyline is nested inside id.
func (s *Session) hasNestedChild(id string) bool {
	for _, l := range s.lines {
		if l.InscribedIn == id {
			return true
		}
	}
	return false
}

func (s *Session) warn(err error) {
	s.warnings = append(s.warnings, errors.UserMessage(err))
	s.log.Warn("layout", "warning", errors.UserMessage(err))
}

// apply commits a placement. It is the only code path that mutates
// placement state.
func (s *Session) apply(p *Placement) {
	line := s.lines[p.Leyline]
	c := p.Circle
	line.Circle = &c
	line.Order = len(s.placed)
	line.Rotation = p.Rotation
	line.InscribedIn = p.InscribedIn
	line.Assignments = p.Assignments
	line.Arcs = p.Arcs
	line.Notes = p.Notes
	s.placed = append(s.placed, p.Leyline)

	for _, m := range line.Leyline.Members {
		if len(m.Notes) > MaxNotes {
			s.warn(errors.New(errors.ErrCodeInvalidInput,
				"%s has %d notes on leyline %s; only the first %d are drawn", m.Name, len(m.Notes), p.Leyline, MaxNotes))
		}
	}

	for _, a := range p.Assignments {
		n := s.nodes[a.Node]
		if n.Position == nil {
			pos := a.Position
			n.Position = &pos
		}
		n.Points[p.Leyline] = append(n.Points[p.Leyline], a.Position)
	}

	s.log.Debug("placed leyline",
		"leyline", p.Leyline,
		"order", line.Order,
		"r", c.R,
		"cx", c.Center.X,
		"cy", c.Center.Y,
		"points", len(p.Assignments))
}
