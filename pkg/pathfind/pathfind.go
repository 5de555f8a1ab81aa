// Package pathfind computes shortest leyline routes between planets.
//
// [Compute] builds an all-pairs distance table with Floyd–Warshall over the
// planet graph. A table is immutable once built; filters that change the
// visible planets or leylines call for a fresh table.
//
// Conventions:
//   - +Inf means no known route.
//   - Paths exclude the start and include the end. [Table.Path] prepends
//     the start for display.
//   - Loop order is fixed (k, i, j) and only strict improvements replace an
//     entry, so ties keep the earlier path.
package pathfind

import (
	"math"
	"slices"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/graph"
)

// Edge is an undirected link between two planets.
type Edge struct {
	From, To string
	Weight   float64
}

// EdgesFromAtlas returns the planets that take part in routing and the
// edges between them.
//
// Every leyline member links to the member before and after it around the
// loop. The link to the next member weighs the member's own distance; the
// link to the previous member weighs the previous member's distance. Legs
// with unknown distance produce no edge. Planets flagged Skip are left out
// along with their edges.
func EdgesFromAtlas(a *atlas.Atlas) ([]string, []Edge) {
	var nodes []string
	for _, name := range a.PlanetNames() {
		if !a.Planets[name].Skip {
			nodes = append(nodes, name)
		}
	}
	routable := func(name string) bool {
		p, ok := a.Planets[name]
		return ok && !p.Skip
	}

	var edges []Edge
	for _, id := range a.LeylineIDs() {
		members := a.Leylines[id].Members
		n := len(members)
		for i, m := range members {
			next := members[(i+1)%n]
			if m.Name == next.Name || !routable(m.Name) || !routable(next.Name) {
				continue
			}
			if w, ok := m.Distance.Value(); ok {
				edges = append(edges, Edge{From: m.Name, To: next.Name, Weight: w})
			}
		}
	}
	return nodes, edges
}

// Table is an all-pairs shortest path table.
type Table struct {
	names []string
	index map[string]int
	hop   [][]float64 // direct edge weights
	dist  [][]float64
	path  [][][]string
}

// Compute builds the distance table for nodes. Edges naming a planet that
// is not in nodes are ignored; parallel edges keep the smallest weight.
func Compute(nodes []string, edges []Edge) *Table {
	n := len(nodes)
	t := &Table{
		names: slices.Clone(nodes),
		index: make(map[string]int, n),
		hop:   make([][]float64, n),
		dist:  make([][]float64, n),
		path:  make([][][]string, n),
	}
	for i, name := range nodes {
		t.index[name] = i
	}

	inf := math.Inf(1)
	for i := range n {
		t.hop[i] = make([]float64, n)
		for j := range n {
			if i != j {
				t.hop[i][j] = inf
			}
		}
	}
	for _, e := range edges {
		i, okI := t.index[e.From]
		j, okJ := t.index[e.To]
		if !okI || !okJ || i == j {
			continue
		}
		if e.Weight < t.hop[i][j] {
			t.hop[i][j] = e.Weight
			t.hop[j][i] = e.Weight
		}
	}

	for i := range n {
		t.dist[i] = slices.Clone(t.hop[i])
		t.path[i] = make([][]string, n)
		for j := range n {
			if i != j {
				t.path[i][j] = []string{nodes[j]}
			}
		}
	}

	for k := range n {
		for i := range n {
			ik := t.dist[i][k]
			if i == k || math.IsInf(ik, 1) {
				continue
			}
			for j := range n {
				if j == i || j == k {
					continue
				}
				if cand := ik + t.dist[k][j]; cand < t.dist[i][j] {
					t.dist[i][j] = cand
					t.path[i][j] = slices.Concat(t.path[i][k], t.path[k][j])
				}
			}
		}
	}
	return t
}

// Nodes returns the planets in the table, in table order.
func (t *Table) Nodes() []string { return slices.Clone(t.names) }

// Has reports whether name is in the table.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Distance returns the shortest distance from a to b, or +Inf when there
// is no route or either planet is unknown.
func (t *Table) Distance(a, b string) float64 {
	i, okA := t.index[a]
	j, okB := t.index[b]
	if !okA || !okB {
		return math.Inf(1)
	}
	return t.dist[i][j]
}

// Reachable reports whether a finite route connects a and b.
func (t *Table) Reachable(a, b string) bool {
	return !math.IsInf(t.Distance(a, b), 1)
}

// Path returns the route from a to b with both ends included. With b empty
// it returns just [a]. An unreachable b yields [a, b]; check Reachable
// before treating it as a route.
func (t *Table) Path(a, b string) []string {
	if b == "" || a == b {
		return []string{a}
	}
	i, okA := t.index[a]
	j, okB := t.index[b]
	if !okA || !okB {
		return []string{a, b}
	}
	return slices.Concat([]string{a}, t.path[i][j])
}

// Query answers a route request. Planet names are validated against the
// table; an unknown planet is a MISSING_DATA error. Unreachable pairs are
// not an error: the route has Reachable=false.
func (t *Table) Query(a, b string, planets map[string]*atlas.Planet) (graph.Route, error) {
	if !t.Has(a) {
		return graph.Route{}, errors.New(errors.ErrCodeMissingData, "unknown planet %q", a)
	}
	if b != "" && !t.Has(b) {
		return graph.Route{}, errors.New(errors.ErrCodeMissingData, "unknown planet %q", b)
	}

	r := graph.Route{
		From:      a,
		To:        b,
		Planets:   t.Path(a, b),
		Legs:      []graph.Leg{},
		Reachable: b == "" || t.Reachable(a, b),
	}
	for _, name := range r.Planets {
		label := name
		if p, ok := planets[name]; ok && p != nil {
			label = p.Label()
		}
		r.Labels = append(r.Labels, label)
	}
	if !r.Reachable {
		return r, nil
	}

	if b != "" {
		r.Distance = t.Distance(a, b)
	}
	for i := 1; i < len(r.Planets); i++ {
		from, to := r.Planets[i-1], r.Planets[i]
		w := t.hop[t.index[from]][t.index[to]]
		r.Legs = append(r.Legs, graph.Leg{
			From:     from,
			To:       to,
			Distance: w,
			Label:    atlas.Miles(w).Label(),
		})
	}
	return r, nil
}
