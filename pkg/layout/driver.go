package layout

import (
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/geom"
)

// Run lays out every leyline reachable through the placement order,
// starting from focus. A session runs once; a re-layout needs a new
// session.
//
// Errors:
//   - STARVATION when focus is on no leyline; nothing is placed.
//   - MISSING_DATA when focus is not a known planet.
//   - BUSY when called while a run is in progress or after one finished.
//
// Iteration limits in the nesting and resolver steps are recorded as
// warnings and do not fail the run.
func (s *Session) Run(focus string) error {
	if s.running || len(s.placed) > 0 {
		return errors.New(errors.ErrCodeBusy, "layout session already used")
	}
	s.running = true
	defer func() { s.running = false }()

	if _, ok := s.nodes[focus]; !ok {
		return errors.New(errors.ErrCodeMissingData, "unknown focus planet %q", focus)
	}
	s.focus = focus

	first, err := s.Select(Criteria{MustContain: focus, Size: RankLargest})
	if err != nil {
		return err
	}
	if first == nil {
		return errors.New(errors.ErrCodeStarvation, "%s does not exist on any available leylines", focus)
	}
	if _, err := s.Place(first.ID(), PlaceOptions{Anchor: focus}); err != nil {
		return err
	}
	if err := s.nest(); err != nil {
		return err
	}

	second, err := s.Select(Criteria{
		MustContain:      focus,
		MinimizeOverlap:  first.ID(),
		ExcludeInscribed: true,
	})
	if err != nil {
		return err
	}
	if second != nil {
		if _, err := s.Place(second.ID(), PlaceOptions{
			Anchor:               focus,
			AnchorLeyline:        first.ID(),
			MakeNewControlPoints: true,
		}); err != nil {
			return err
		}
		if err := s.nest(); err != nil {
			return err
		}
	}

	if err := s.placeOnePoint(); err != nil {
		return err
	}
	if err := s.placeRemaining(); err != nil {
		return err
	}

	s.log.Debug("layout complete",
		"focus", focus,
		"placed", len(s.placed),
		"unplaced", len(s.lines)-len(s.placed),
		"warnings", len(s.warnings))
	return nil
}

// Focus returns the planet the last run started from.
func (s *Session) Focus() string { return s.focus }

// nest runs Inscribe and downgrades its iteration limit to a warning,
// which Inscribe has already recorded.
func (s *Session) nest() error {
	if _, err := s.Inscribe(); err != nil && !errors.Is(err, errors.ErrCodeIterationLimit) {
		return err
	}
	return nil
}

// placeOnePoint hangs every leyline that touches exactly one placed planet
// of an already placed leyline off that planet. Passes repeat while they
// place something, up to twice the leyline count. Nothing is nested here; a
// leyline that would fit inside a satellite stands free instead.
func (s *Session) placeOnePoint() error {
	limit := 2 * len(s.lines)
	changed := true
	for pass := 0; changed; pass++ {
		if pass >= limit {
			s.warn(errors.New(errors.ErrCodeIterationLimit,
				"single-intersection placement did not settle after %d passes", limit))
			return nil
		}
		changed = false
		for _, id := range s.Placed() {
			for {
				next, err := s.Select(Criteria{MustIntersect: id, Connections: AtMost(1)})
				if err != nil {
					return err
				}
				if next == nil {
					break
				}
				anchor := s.firstPlacedMember(next)
				if anchor == "" {
					break
				}
				if _, err := s.Place(next.ID(), PlaceOptions{
					Anchor:               anchor,
					Guide:                id,
					MakeNewControlPoints: true,
				}); err != nil {
					return err
				}
				changed = true
			}
		}
	}
	return nil
}

// placeRemaining places every leyline still without a circle, largest
// first. Each circle starts opposite the center of mass and is pushed clear
// of the placed circles.
func (s *Session) placeRemaining() error {
	for {
		next, err := s.Select(Criteria{})
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}

		r := CalcRadius(len(next.Leyline.DistinctNames()))
		start := s.opts.Origin
		if com, ok := s.CenterOfMass(); ok {
			start = com.Mirror(s.opts.Origin)
		}
		center, err := Resolve(geom.Circle{Center: start, R: r}, s.Circles(),
			s.opts.Padding, s.opts.MaxResolveIterations)
		if err != nil {
			if !errors.Is(err, errors.ErrCodeIterationLimit) {
				return err
			}
			s.warn(errors.Wrap(errors.ErrCodeIterationLimit, err,
				"leyline %s placed at best-effort position", next.ID()))
		}

		if _, err := s.Place(next.ID(), PlaceOptions{
			Center:               &center,
			MakeNewControlPoints: true,
		}); err != nil {
			return err
		}
		if err := s.nest(); err != nil {
			return err
		}
	}
}

func (s *Session) firstPlacedMember(l *Line) string {
	for _, m := range l.Leyline.Members {
		if s.nodes[m.Name].Placed() {
			return m.Name
		}
	}
	return ""
}
