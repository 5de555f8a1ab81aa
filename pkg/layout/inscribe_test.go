package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/leymap/pkg/geom"
)

func TestInscribeAlignsSharedPlanet(t *testing.T) {
	s := newSession(t, roundTrip(), Options{MinInscribedRadius: 1, SamePlanetArcs: true})
	_, err := s.Place("1", PlaceOptions{Anchor: "A"})
	require.NoError(t, err)

	c := mustNode(t, s, "C")
	canonical := *c.Position

	n, err := s.Inscribe()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	outer, _ := s.Line("1")
	inner, _ := s.Line("2")
	require.True(t, inner.Placed())
	assert.Equal(t, "1", inner.InscribedIn)
	assert.Equal(t, outer.Circle.Center, inner.Circle.Center)
	assert.Less(t, inner.Circle.R, outer.Circle.R)

	assert.Equal(t, canonical, *c.Position, "nesting never moves a placed planet")
	require.Len(t, c.Points["2"], 1)
	assert.InDelta(t,
		fraction(*outer.Circle, canonical),
		fraction(*inner.Circle, c.Points["2"][0]),
		1e-6, "shared planet sits at the same angle on both circles")

	var links int
	for _, a := range inner.Arcs {
		if a.SamePlanet {
			links++
			assert.Equal(t, "C", a.From)
			assert.Equal(t, canonical, a.End)
		}
	}
	assert.Equal(t, 1, links)
}

func TestInscribeRespectsRadiusBand(t *testing.T) {
	// With the default minimum radius neither leyline is large enough.
	s := newSession(t, roundTrip(), Options{})
	_, err := s.Place("1", PlaceOptions{Anchor: "A"})
	require.NoError(t, err)

	n, err := s.Inscribe()
	require.NoError(t, err)
	assert.Zero(t, n)

	l2, _ := s.Line("2")
	assert.False(t, l2.Placed())
}

func TestInscribeSkipsConnectedCandidates(t *testing.T) {
	// L2 shares three planets with L1 and may not nest.
	a := newAtlas([]string{"A", "B", "C", "D", "E", "F", "G", "H"},
		loop("1", "A", "B", "C", "D", "E", "F", "G", "H"),
		loop("2", "A", "B", "C"))
	s := newSession(t, a, Options{MinInscribedRadius: 1})
	_, err := s.Place("1", PlaceOptions{Anchor: "A"})
	require.NoError(t, err)

	n, err := s.Inscribe()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInscribeDisabled(t *testing.T) {
	s := newSession(t, roundTrip(), Options{MinInscribedRadius: 1, SkipInscribed: true})
	_, err := s.Place("1", PlaceOptions{Anchor: "A"})
	require.NoError(t, err)

	n, err := s.Inscribe()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInscribeWithoutSharedPlanet(t *testing.T) {
	a := newAtlas([]string{"A", "B", "C", "D", "X", "Y", "Z"},
		loop("1", "A", "B", "C", "D"),
		loop("2", "X", "Y", "Z"))
	s := newSession(t, a, Options{MinInscribedRadius: 1})
	_, err := s.Place("1", PlaceOptions{Anchor: "A"})
	require.NoError(t, err)

	n, err := s.Inscribe()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	l2, _ := s.Line("2")
	assert.Zero(t, l2.Rotation)
}

func TestSearchFraction(t *testing.T) {
	c := geom.Circle{Center: geom.Pt(3, -4), R: 120}
	for _, want := range []float64{0, 0.1, 0.25, 0.3333, 0.5, 0.61, 0.9} {
		got := searchFraction(c, c.PointAtFraction(want))
		diff := geom.NormalizeFraction(got - want)
		diff = min(diff, 1-diff)
		assert.Less(t, diff, 1.0/1024, "fraction %v", want)
	}
}

func TestInscribeRotationCountsRepeatedMembers(t *testing.T) {
	// X is visited twice, so C is the second of four stops on the nested
	// circle rather than the second of three distinct planets.
	a := newAtlas([]string{"A", "B", "C", "D", "E", "X", "Y"},
		loop("1", "A", "B", "C", "D", "E"),
		loop("2", "X", "C", "X", "Y"))
	s := newSession(t, a, Options{MinInscribedRadius: 1})
	_, err := s.Place("1", PlaceOptions{Anchor: "A"})
	require.NoError(t, err)
	canonical := *mustNode(t, s, "C").Position

	n, err := s.Inscribe()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	outer, _ := s.Line("1")
	inner, _ := s.Line("2")
	assert.InDelta(t, searchFraction(*outer.Circle, canonical)-(1.0/4-innerZeroOffset), inner.Rotation, 1e-12)
	assert.Len(t, mustNode(t, s, "X").Points["2"], 2)

	c := mustNode(t, s, "C")
	require.Len(t, c.Points["2"], 1)
	assert.InDelta(t,
		fraction(*outer.Circle, canonical),
		fraction(*inner.Circle, c.Points["2"][0]),
		1e-3, "shared planet lines up despite the repeat")
}

func TestNestedNotesFaceInward(t *testing.T) {
	a := roundTrip()
	a.Leylines["2"].Members[1].Notes = []string{"ferry"}
	s := newSession(t, a, Options{MinInscribedRadius: 1})
	_, err := s.Place("1", PlaceOptions{Anchor: "A"})
	require.NoError(t, err)
	_, err = s.Inscribe()
	require.NoError(t, err)

	inner, _ := s.Line("2")
	require.Equal(t, "1", inner.InscribedIn)
	require.Len(t, inner.Notes, 1)
	note := inner.Notes[0]
	assert.Equal(t, "E", note.Planet)
	assert.InDelta(t, inner.Circle.R-CalcRadius(2), note.Position.Dist(inner.Circle.Center), 1e-9)
}
