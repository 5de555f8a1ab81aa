package layout

import (
	"math"

	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/geom"
)

const (
	// DefaultPadding is the minimum gap between free-standing circles.
	DefaultPadding = 30.0

	// DefaultMaxResolveIterations bounds Resolve. The step grows by one
	// unit per iteration, so the ceiling allows a total displacement of
	// roughly fifty million units before giving up.
	DefaultMaxResolveIterations = 10000
)

// Resolve moves proposed until no circle in placed lies within padding of
// it and returns the final center.
//
// Each iteration finds the closest crowding circle and pushes the proposed
// center directly away from it by the iteration count, so the escape
// accelerates. Coincident centers are pushed along +x. When maxIter
// iterations pass without a clear position, the last position is returned
// together with an ITERATION_LIMIT error; callers may keep it as a best
// effort.
func Resolve(proposed geom.Circle, placed []geom.Circle, padding float64, maxIter int) (geom.Point, error) {
	if maxIter <= 0 {
		maxIter = DefaultMaxResolveIterations
	}
	c := proposed
	for tick := 0; tick < maxIter; tick++ {
		offender, ok := closestCrowding(c, placed, padding)
		if !ok {
			return c.Center, nil
		}
		dir, hasDir := c.Center.Sub(offender.Center).Unit()
		if !hasDir {
			dir = geom.Pt(1, 0)
		}
		c.Center = c.Center.Add(dir.Scale(float64(tick)))
	}
	if _, ok := closestCrowding(c, placed, padding); !ok {
		return c.Center, nil
	}
	return c.Center, errors.New(errors.ErrCodeIterationLimit,
		"overlap resolver gave up after %d iterations", maxIter)
}

func closestCrowding(c geom.Circle, placed []geom.Circle, padding float64) (geom.Circle, bool) {
	best, found := math.Inf(1), false
	var out geom.Circle
	for _, p := range placed {
		if !c.Crowds(p, padding) {
			continue
		}
		if d := c.Center.Dist(p.Center); d < best {
			best, out, found = d, p, true
		}
	}
	return out, found
}
