package atlas

import "slices"

// FilterOptions selects the visible subset of an Atlas.
type FilterOptions struct {
	// TheaterOnly keeps only planets flagged as theater and folds member
	// distances across the skipped stops.
	TheaterOnly bool `json:"theater_only,omitempty"`

	// MultigateOnly keeps only members whose planet occurs more than once
	// across all leyline member lists.
	MultigateOnly bool `json:"multigate_only,omitempty"`

	// Hidden lists leyline ids to drop entirely.
	Hidden []string `json:"hidden,omitempty"`
}

// IsZero reports whether the options leave the atlas unchanged.
func (o FilterOptions) IsZero() bool {
	return !o.TheaterOnly && !o.MultigateOnly && len(o.Hidden) == 0
}

// Filter returns a filtered copy of a. The receiver is not modified.
// Leylines left with no members are dropped.
func (a *Atlas) Filter(opts FilterOptions) *Atlas {
	out := a.Clone()
	for _, id := range opts.Hidden {
		delete(out.Leylines, id)
	}

	if opts.TheaterOnly {
		for name, p := range out.Planets {
			if !p.Theater {
				delete(out.Planets, name)
			}
		}
		for _, l := range out.Leylines {
			l.Members = Fold(l.Members, func(m Member) bool {
				_, ok := out.Planets[m.Name]
				return ok
			}, true)
		}
	}

	if opts.MultigateOnly {
		counts := out.occurrences()
		for _, l := range out.Leylines {
			l.Members = Fold(l.Members, func(m Member) bool {
				return counts[m.Name] > 1
			}, false)
		}
	}

	for id, l := range out.Leylines {
		if len(l.Members) == 0 {
			delete(out.Leylines, id)
		}
	}
	return out
}

// occurrences counts member occurrences per planet over every leyline.
func (a *Atlas) occurrences() map[string]int {
	counts := make(map[string]int)
	for _, l := range a.Leylines {
		for _, m := range l.Members {
			counts[m.Name]++
		}
	}
	return counts
}

// Fold keeps the members selected by keep and rewrites each kept member's
// distance to the sum of the distances walked until the next kept member
// around the loop. A single unknown leg makes the folded distance unknown.
//
// When useTheaterDist is set, a kept member carrying an explicit
// TheaterDist uses that value instead of the computed sum.
func Fold(members []Member, keep func(Member) bool, useTheaterDist bool) []Member {
	var idx []int
	for i, m := range members {
		if keep(m) {
			idx = append(idx, i)
		}
	}
	if len(idx) == len(members) {
		return slices.Clone(members)
	}

	n := len(members)
	out := make([]Member, 0, len(idx))
	for k, start := range idx {
		next := idx[(k+1)%len(idx)]
		span := (next - start + n) % n
		if span == 0 {
			span = n
		}

		total := Miles(0)
		for step := 0; step < span; step++ {
			total = total.Plus(members[(start+step)%n].Distance)
		}

		m := members[start]
		if useTheaterDist && m.TheaterDist != nil {
			total = *m.TheaterDist
		}
		m.Distance = total
		m.TheaterDist = nil
		out = append(out, m)
	}
	return out
}
