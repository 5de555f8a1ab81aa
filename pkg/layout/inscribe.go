package layout

import (
	"math"

	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/geom"
)

const (
	// DefaultMinInscribedRadius is the smallest radius a nested leyline may
	// have.
	DefaultMinInscribedRadius = 80.0

	// MaxInscribedRatio caps a nested radius relative to its outer circle.
	MaxInscribedRatio = 0.8

	// MaxInscribedConnections bounds both the planets a nested leyline
	// shares with its outer circle and its placed members overall.
	MaxInscribedConnections = 2

	// InscribeSearchSteps is the number of halvings used to find the
	// rotation that aligns a nested circle with its outer circle. Ten steps
	// resolve the rotation to about 1/2048 of a turn.
	InscribeSearchSteps = 10

	// innerZeroOffset shifts walk fractions so fraction 0 is the top of
	// the circle.
	innerZeroOffset = 0.25
)

// Inscribe nests leylines inside placed circles until a pass places
// nothing. It returns the number of leylines nested. Each outer circle
// receives at most one nested child.
//
// The loop is bounded by twice the leyline count. Hitting the bound records
// an ITERATION_LIMIT warning and is returned as the error; the leylines
// nested so far stay placed.
func (s *Session) Inscribe() (int, error) {
	if s.opts.SkipInscribed {
		return 0, nil
	}
	total := 0
	limit := 2 * len(s.lines)
	for pass := 0; pass < limit; pass++ {
		n, err := s.inscribePass()
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
	err := errors.New(errors.ErrCodeIterationLimit,
		"nesting did not settle after %d passes", limit)
	s.warn(err)
	return total, err
}

func (s *Session) inscribePass() (int, error) {
	placed := 0
	for _, outerID := range s.Placed() {
		if s.hasNestedChild(outerID) {
			continue
		}
		outer := s.lines[outerID]
		inner := s.inscribeCandidate(outer)
		if inner == nil {
			continue
		}

		rot := s.inscribeRotation(outer, inner)
		center := outer.Circle.Center
		p, err := s.Plan(inner, PlaceOptions{
			Center:               &center,
			RotatePercent:        rot,
			MakeNewControlPoints: true,
			InscribedIn:          outerID,
		})
		if err != nil {
			return placed, err
		}
		s.apply(p)
		placed++
	}
	return placed, nil
}

// inscribeCandidate returns the unplaced leyline best suited to nest inside
// outer: the one with the most members among those that touch outer at no
// more than MaxInscribedConnections occurrences, have no more than that many
// placed members, and whose radius fits the nesting band.
func (s *Session) inscribeCandidate(outer *Line) *Line {
	maxR := MaxInscribedRatio * outer.Circle.R
	var best *Line
	for _, id := range s.order {
		l := s.lines[id]
		if l.Placed() || l.InscribedIn != "" {
			continue
		}
		if overlap(l, outer) > MaxInscribedConnections {
			continue
		}
		if s.connections(l) > MaxInscribedConnections {
			continue
		}
		r := CalcRadius(len(l.Leyline.DistinctNames()))
		if r < s.opts.MinInscribedRadius || r > maxR {
			continue
		}
		if best == nil || len(l.Leyline.Members) > len(best.Leyline.Members) {
			best = l
		}
	}
	return best
}

// inscribeRotation returns the rotation, as a fraction of a turn, that puts
// the first planet inner shares with outer at that planet's position.
// Without a shared placed planet the rotation is zero.
func (s *Session) inscribeRotation(outer, inner *Line) float64 {
	walk := s.walk(inner, PlaceOptions{MakeNewControlPoints: true})
	shared := -1
	for i, m := range walk {
		if outer.Leyline.Contains(m.Name) && s.nodes[m.Name].Placed() {
			shared = i
			break
		}
	}
	if shared < 0 {
		return 0
	}
	target := *s.nodes[walk[shared].Name].Position
	innerFrac := float64(shared)/float64(len(walk)) - innerZeroOffset

	return searchFraction(*outer.Circle, target) - innerFrac
}

// searchFraction finds the fraction of c's circumference whose point is
// closest to target by repeated halving around the half turn.
func searchFraction(c geom.Circle, target geom.Point) float64 {
	frac := 0.5
	for i := range InscribeSearchSteps {
		step := math.Pow(0.5, float64(i+2))
		next, best := frac, c.PointAtFraction(frac).Dist(target)
		for _, f := range []float64{frac + step, frac - step} {
			if d := c.PointAtFraction(f).Dist(target); d < best {
				next, best = f, d
			}
		}
		frac = next
	}
	return frac
}
