package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/geom"
)

// Geometry constants.
const (
	// RadiusScale and RadiusExponent define CalcRadius.
	RadiusScale    = 20.0
	RadiusExponent = 0.825

	// SamePlanetArcExponent sets the radius of same-planet arcs to
	// r^SamePlanetArcExponent, where r is the radius of the circle being placed.
	SamePlanetArcExponent = 1.3

	// topOfCircle is the fraction of the circumference, measured from
	// 3 o'clock, at which an unanchored walk starts.
	topOfCircle = 0.75

	minRadiusMembers = 2

	// MaxNotes is the number of notes drawn per planet and leyline.
	MaxNotes = 2
)

// CalcRadius returns the circle radius for a leyline with the given number
// of distinct members.
func CalcRadius(distinctMembers int) float64 {
	return math.Pow(float64(max(minRadiusMembers, distinctMembers)), RadiusExponent) * RadiusScale
}

// PlaceOptions steers a single placement.
type PlaceOptions struct {
	// Anchor is the planet the walk starts from. When it is already placed
	// the circle is hung so its circumference passes through the anchor's
	// point and the anchor keeps that point.
	Anchor string

	// AnchorLeyline selects which of the anchor's points to use: its first
	// point on this leyline. Empty means the canonical position.
	AnchorLeyline string

	// Guide is the leyline whose center the new circle is pushed away
	// from. Empty means the center of mass of all placed planets.
	Guide string

	// Center fixes the circle's center, overriding anchor-derived centers.
	Center *geom.Point

	// RotatePercent rotates every point by this fraction of a turn.
	RotatePercent float64

	// MakeNewControlPoints places every member, including planets that
	// already have a position elsewhere.
	MakeNewControlPoints bool

	// InscribedIn nests the circle inside this placed leyline. Notes of a
	// nested leyline face inward.
	InscribedIn string
}

// Assignment gives one member occurrence its point on the circle.
type Assignment struct {
	Node     string
	Position geom.Point
	Index    int

	// Reused marks an anchor occurrence that keeps the anchor's existing
	// point instead of receiving a new one.
	Reused bool
}

// Arc connects two points along a circle of radius Radius.
type Arc struct {
	Leyline     string
	From, To    string
	Start, End  geom.Point
	Radius      float64
	Distance    atlas.Distance
	SamePlanet  bool
	Color       string
	RegionColor string
}

// Note is one planet note. Its text is centred on Position and a connector
// runs From-To: a straight line when Radius is zero, otherwise a quarter arc
// of that radius.
type Note struct {
	Leyline  string
	Planet   string
	Text     string
	Position geom.Point
	From, To geom.Point
	Radius   float64
}

// Placement is the computed result for one leyline. Computing a placement
// has no side effects; the session applies it afterwards.
type Placement struct {
	Leyline     string
	Circle      geom.Circle
	Rotation    float64
	InscribedIn string
	Assignments []Assignment
	Arcs        []Arc
	Notes       []Note
}

// Place computes and applies the placement of leyline id. Placing a
// leyline that already has a circle is a no-op and returns nil.
func (s *Session) Place(id string, o PlaceOptions) (*Placement, error) {
	line, ok := s.lines[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingData, "unknown leyline %q", id)
	}
	if line.Placed() {
		return nil, nil
	}
	p, err := s.Plan(line, o)
	if err != nil {
		return nil, err
	}
	s.apply(p)
	return p, nil
}

// Plan computes where line would go without modifying the session.
func (s *Session) Plan(line *Line, o PlaceOptions) (*Placement, error) {
	if o.Anchor != "" {
		if _, ok := s.nodes[o.Anchor]; !ok {
			return nil, errors.New(errors.ErrCodeMissingData, "unknown anchor planet %q", o.Anchor)
		}
	}

	r := CalcRadius(len(line.Leyline.DistinctNames()))
	circle := geom.Circle{Center: s.opts.Origin.Add(geom.Pt(0, r)), R: r}

	anchorPos, anchored := geom.Point{}, false
	if o.Anchor != "" {
		anchorPos, anchored = s.anchorPoint(o.Anchor, o.AnchorLeyline)
	}
	if anchored {
		circle.Center = s.hang(anchorPos, r, o.Guide)
	}
	if o.Center != nil {
		circle.Center = *o.Center
	}

	walk := s.walk(line, o)
	circ := circle.Circumference()
	start := topOfCircle * circ
	if anchored {
		start = circle.LengthOf(anchorPos)
	}
	rotate := circ * o.RotatePercent

	p := &Placement{
		Leyline:     line.ID(),
		Circle:      circle,
		Rotation:    o.RotatePercent,
		InscribedIn: o.InscribedIn,
		Assignments: make([]Assignment, len(walk)),
	}
	n := float64(len(walk))
	for i, m := range walk {
		a := Assignment{Node: m.Name, Index: i}
		if anchored && m.Name == o.Anchor {
			a.Position = anchorPos
			a.Reused = true
		} else {
			length := math.Mod(float64(i)*circ/n+start+rotate, circ)
			a.Position = circle.PointAtLength(length)
		}
		p.Assignments[i] = a
	}

	p.Arcs = s.leylineArcs(line, walk, p)
	if s.opts.SamePlanetArcs {
		p.Arcs = append(p.Arcs, s.samePlanetArcs(line, p)...)
	}
	p.Notes = planetNotes(line.ID(), walk, p)
	return p, nil
}

// hang returns the center of a circle of radius r whose circumference
// passes through anchor, displaced away from the guide.
func (s *Session) hang(anchor geom.Point, r float64, guide string) geom.Point {
	from, ok := geom.Point{}, false
	if guide != "" {
		if g, found := s.lines[guide]; found && g.Placed() {
			from, ok = g.Circle.Center, true
		}
	}
	if !ok {
		from, ok = s.CenterOfMass()
	}

	dir, hasDir := anchor.Sub(from).Unit()
	if !ok || !hasDir {
		dir = geom.Pt(0, 1)
	}
	return anchor.Add(dir.Scale(r))
}

// walk returns the members to place, in placement order. The anchor always
// stays in the walk so its reused point keeps slot 0.
func (s *Session) walk(line *Line, o PlaceOptions) []atlas.Member {
	members := slices.Clone(line.Leyline.Members)
	if s.opts.NoDuplicates {
		seen := make(map[string]bool, len(members))
		members = slices.DeleteFunc(members, func(m atlas.Member) bool {
			dup := seen[m.Name]
			seen[m.Name] = true
			return dup
		})
	}
	if !o.MakeNewControlPoints {
		members = slices.DeleteFunc(members, func(m atlas.Member) bool {
			return m.Name != o.Anchor && s.nodes[m.Name].Placed()
		})
	}
	if o.Anchor != "" {
		if i := slices.IndexFunc(members, func(m atlas.Member) bool { return m.Name == o.Anchor }); i > 0 {
			members = slices.Concat(members[i:], members[:i])
		}
	}
	return members
}

func (s *Session) regionColor(line *Line) string {
	if line.Leyline.Region == "" {
		return ""
	}
	if pw, ok := s.opts.Powers[line.Leyline.Region]; ok && pw != nil {
		return pw.Color
	}
	return ""
}

// leylineArcs links each walked member to the one before it. The arc
// carries the previous member's distance, which is the length of that leg.
func (s *Session) leylineArcs(line *Line, walk []atlas.Member, p *Placement) []Arc {
	n := len(walk)
	if n == 0 {
		return nil
	}
	region := s.regionColor(line)
	arcs := make([]Arc, 0, n)
	for i := range walk {
		prev := (i - 1 + n) % n
		arcs = append(arcs, Arc{
			Leyline:     line.ID(),
			From:        walk[prev].Name,
			To:          walk[i].Name,
			Start:       p.Assignments[prev].Position,
			End:         p.Assignments[i].Position,
			Radius:      p.Circle.R,
			Distance:    walk[prev].Distance,
			Color:       line.Leyline.Color,
			RegionColor: region,
		})
	}
	return arcs
}

// samePlanetArcs links each planet's first point on this circle to its
// first point on every other placed circle, and links repeated points of
// one planet on this circle to each other.
func (s *Session) samePlanetArcs(line *Line, p *Placement) []Arc {
	buckets := make(map[string][]geom.Point)
	var names []string
	for _, a := range p.Assignments {
		if _, ok := buckets[a.Node]; !ok {
			names = append(names, a.Node)
		}
		buckets[a.Node] = append(buckets[a.Node], a.Position)
	}

	r := math.Pow(p.Circle.R, SamePlanetArcExponent)
	mk := func(name string, from, to geom.Point) Arc {
		return Arc{
			Leyline:    line.ID(),
			From:       name,
			To:         name,
			Start:      from,
			End:        to,
			Radius:     r,
			Distance:   atlas.Miles(0),
			SamePlanet: true,
			Color:      line.Leyline.Color,
		}
	}

	var arcs []Arc
	for _, name := range names {
		pts := buckets[name]
		first := pts[0]
		for _, other := range s.placed {
			if other == line.ID() {
				continue
			}
			if theirs := s.nodes[name].Points[other]; len(theirs) > 0 && theirs[0] != first {
				arcs = append(arcs, mk(name, first, theirs[0]))
			}
		}
		for i := range pts {
			for j := i + 1; j < len(pts); j++ {
				if pts[i] != pts[j] {
					arcs = append(arcs, mk(name, pts[i], pts[j]))
				}
			}
		}
	}
	return arcs
}

// planetNotes lays out the notes of walked members. Each planet's notes sit
// on a small circle touching its first point here, pushed away from the
// leyline's center, or toward it for a nested leyline. A single note hangs
// at the end of a straight connector through the small circle's center. Two
// notes sit a quarter turn either side of the point, each joined to it by
// an arc. Notes past MaxNotes are not drawn.
func planetNotes(leyline string, walk []atlas.Member, p *Placement) []Note {
	first := make(map[string]geom.Point, len(p.Assignments))
	for _, a := range p.Assignments {
		if _, ok := first[a.Node]; !ok {
			first[a.Node] = a.Position
		}
	}

	var notes []Note
	for _, m := range walk {
		texts := m.Notes
		if len(texts) == 0 {
			continue
		}
		texts = texts[:min(len(texts), MaxNotes)]

		pt := first[m.Name]
		r := CalcRadius(1 + len(texts))
		dir, ok := pt.Sub(p.Circle.Center).Unit()
		if !ok {
			dir = geom.Pt(0, -1)
		}
		if p.InscribedIn != "" {
			dir = dir.Scale(-1)
		}
		holder := geom.Circle{Center: pt.Add(dir.Scale(r)), R: r}

		mk := func(text string, pos, from, to geom.Point, radius float64) Note {
			return Note{Leyline: leyline, Planet: m.Name, Text: text, Position: pos, From: from, To: to, Radius: radius}
		}
		if len(texts) == 1 {
			notes = append(notes, mk(texts[0], holder.Center, pt, holder.Center, 0))
			continue
		}
		start, quarter := holder.LengthOf(pt), holder.Circumference()/4
		before := holder.PointAtLength(start + quarter)
		after := holder.PointAtLength(start + 3*quarter)
		notes = append(notes,
			mk(texts[0], before, before, pt, r),
			mk(texts[1], after, pt, after, r))
	}
	return notes
}
