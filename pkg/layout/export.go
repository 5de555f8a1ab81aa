package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/leymap/pkg/graph"
)

// Export converts the session's placement state to its serialized form.
// Circles, points, arcs and notes follow placement order; planets are sorted by
// name.
func (s *Session) Export() graph.Layout {
	out := graph.Layout{
		Focus:    s.focus,
		Circles:  []graph.Circle{},
		Planets:  []graph.Planet{},
		Points:   []graph.Point{},
		Arcs:     []graph.Arc{},
		Unplaced: s.Unplaced(),
		Warnings: s.Warnings(),
	}

	bounds := graph.Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, id := range s.placed {
		l := s.lines[id]
		c := *l.Circle
		bounds.MinX = min(bounds.MinX, c.Center.X-c.R)
		bounds.MinY = min(bounds.MinY, c.Center.Y-c.R)
		bounds.MaxX = max(bounds.MaxX, c.Center.X+c.R)
		bounds.MaxY = max(bounds.MaxY, c.Center.Y+c.R)

		out.Circles = append(out.Circles, graph.Circle{
			Leyline:     id,
			Label:       l.Leyline.Label(),
			Color:       l.Leyline.Color,
			CX:          c.Center.X,
			CY:          c.Center.Y,
			R:           c.R,
			Order:       l.Order,
			Rotation:    l.Rotation,
			InscribedIn: l.InscribedIn,
			Region:      l.Leyline.Region,
			RegionColor: s.regionColor(l),
		})
		for _, a := range l.Assignments {
			out.Points = append(out.Points, graph.Point{
				Planet:  a.Node,
				Leyline: id,
				X:       a.Position.X,
				Y:       a.Position.Y,
				Index:   a.Index,
				Reused:  a.Reused,
			})
		}
		for _, a := range l.Arcs {
			out.Arcs = append(out.Arcs, exportArc(a))
		}
		for _, n := range l.Notes {
			out.Notes = append(out.Notes, graph.Note{
				Leyline: n.Leyline,
				Planet:  n.Planet,
				Text:    n.Text,
				X:       n.Position.X,
				Y:       n.Position.Y,
				X1:      n.From.X,
				Y1:      n.From.Y,
				X2:      n.To.X,
				Y2:      n.To.Y,
				R:       n.Radius,
			})
			bounds.MinX = min(bounds.MinX, n.Position.X)
			bounds.MinY = min(bounds.MinY, n.Position.Y)
			bounds.MaxX = max(bounds.MaxX, n.Position.X)
			bounds.MaxY = max(bounds.MaxY, n.Position.Y)
		}
	}
	if len(s.placed) > 0 {
		out.Bounds = bounds
	}

	names := make([]string, 0, len(s.nodes))
	for name, n := range s.nodes {
		if n.Placed() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		n := s.nodes[name]
		out.Planets = append(out.Planets, graph.Planet{
			Name:    name,
			Label:   n.Planet.Label(),
			X:       n.Position.X,
			Y:       n.Position.Y,
			Capital: n.Planet.Capital,
			Type:    n.Planet.Type,
			Group:   n.Planet.Group,
			Theater: n.Planet.Theater,
		})
	}
	return out
}

func exportArc(a Arc) graph.Arc {
	dist, unknown := graph.DistancePtr(a.Distance)
	return graph.Arc{
		Leyline:     a.Leyline,
		From:        a.From,
		To:          a.To,
		X1:          a.Start.X,
		Y1:          a.Start.Y,
		X2:          a.End.X,
		Y2:          a.End.Y,
		R:           a.Radius,
		Distance:    dist,
		Unknown:     unknown,
		SamePlanet:  a.SamePlanet,
		Color:       a.Color,
		RegionColor: a.RegionColor,
	}
}
