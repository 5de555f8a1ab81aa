package layout

import (
	"slices"

	"github.com/matzehuels/leymap/pkg/errors"
)

// SizeRank picks a candidate by member count.
type SizeRank int

const (
	// RankDefault applies no explicit size rank. Select then returns the
	// largest candidate unless MinimizeOverlap is set.
	RankDefault SizeRank = iota
	RankSmallest
	RankMedian
	RankLargest
)

// Bounds is an inclusive range on the number of placed members.
type Bounds struct {
	Min, Max int
}

// AtMost returns bounds [0, n].
func AtMost(n int) *Bounds { return &Bounds{Min: 0, Max: n} }

// Criteria constrains Select. Every field is optional.
type Criteria struct {
	// MustContain restricts to leylines with this planet as a member.
	MustContain string

	// MustIntersect restricts to leylines sharing a planet with this
	// leyline.
	MustIntersect string

	// Connections bounds the count of member occurrences already placed.
	Connections *Bounds

	// ExcludeInscribed drops leylines already nested under another.
	ExcludeInscribed bool

	// Size ranks candidates by member count. Mutually exclusive with
	// MinimizeOverlap.
	Size SizeRank

	// MinimizeOverlap prefers the candidate with the fewest members on the
	// given leyline.
	MinimizeOverlap string
}

// Select returns the next unplaced leyline satisfying c, or nil when no
// candidate remains. Asking for both a size rank and minimal overlap is an
// INVALID_CRITERIA error.
func (s *Session) Select(c Criteria) (*Line, error) {
	if c.Size != RankDefault && c.MinimizeOverlap != "" {
		return nil, errors.New(errors.ErrCodeInvalidCriteria,
			"cannot rank leylines by both size and overlap")
	}

	var intersect, reference *Line
	if c.MustIntersect != "" {
		l, ok := s.lines[c.MustIntersect]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidCriteria, "unknown leyline %q", c.MustIntersect)
		}
		intersect = l
	}
	if c.MinimizeOverlap != "" {
		l, ok := s.lines[c.MinimizeOverlap]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidCriteria, "unknown leyline %q", c.MinimizeOverlap)
		}
		reference = l
	}

	var candidates []*Line
	for _, id := range s.order {
		l := s.lines[id]
		if l.Placed() {
			continue
		}
		if c.Connections != nil {
			n := s.connections(l)
			if n < c.Connections.Min || n > c.Connections.Max {
				continue
			}
		}
		if c.MustContain != "" && !l.Leyline.Contains(c.MustContain) {
			continue
		}
		if intersect != nil && !sharesPlanet(l, intersect) {
			continue
		}
		if c.ExcludeInscribed && l.InscribedIn != "" {
			continue
		}
		candidates = append(candidates, l)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(candidates, func(a, b *Line) int {
		return len(a.Leyline.Members) - len(b.Leyline.Members)
	})

	if reference != nil {
		slices.SortStableFunc(candidates, func(a, b *Line) int {
			return overlap(a, reference) - overlap(b, reference)
		})
		return candidates[0], nil
	}

	switch c.Size {
	case RankSmallest:
		return candidates[0], nil
	case RankMedian:
		return candidates[len(candidates)/2], nil
	default:
		return candidates[len(candidates)-1], nil
	}
}

func sharesPlanet(a, b *Line) bool {
	for _, m := range a.Leyline.Members {
		if b.Leyline.Contains(m.Name) {
			return true
		}
	}
	return false
}

// overlap counts the member occurrences of l whose planet is on ref.
func overlap(l, ref *Line) int {
	count := 0
	for _, m := range l.Leyline.Members {
		if ref.Leyline.Contains(m.Name) {
			count++
		}
	}
	return count
}
