package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/leymap/pkg/errors"
)

// selectAtlas has three leylines through F of sizes 2, 3 and 5, plus a
// leyline that does not touch F.
func selectAtlas(t *testing.T) *Session {
	t.Helper()
	a := newAtlas([]string{"F", "A", "B", "C", "D", "E", "X", "Y"},
		loop("small", "F", "A"),
		loop("mid", "F", "B", "C"),
		loop("big", "F", "A", "B", "D", "E"),
		loop("far", "X", "Y"))
	return newSession(t, a, Options{})
}

func TestSelectSizeRank(t *testing.T) {
	s := selectAtlas(t)
	tests := []struct {
		name string
		c    Criteria
		want string
	}{
		{"default is largest", Criteria{MustContain: "F"}, "big"},
		{"largest", Criteria{MustContain: "F", Size: RankLargest}, "big"},
		{"smallest", Criteria{MustContain: "F", Size: RankSmallest}, "small"},
		{"median", Criteria{MustContain: "F", Size: RankMedian}, "mid"},
		{"without focus", Criteria{Size: RankSmallest}, "far"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Select(tt.c)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID())
		})
	}
}

func TestSelectConflictingRanks(t *testing.T) {
	s := selectAtlas(t)
	got, err := s.Select(Criteria{Size: RankSmallest, MinimizeOverlap: "big"})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidCriteria))
	assert.True(t, errors.Recoverable(err))
}

func TestSelectUnknownReference(t *testing.T) {
	s := selectAtlas(t)
	_, err := s.Select(Criteria{MustIntersect: "nope"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidCriteria))
	_, err = s.Select(Criteria{MinimizeOverlap: "nope"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidCriteria))
}

func TestSelectStarvation(t *testing.T) {
	s := selectAtlas(t)
	got, err := s.Select(Criteria{MustContain: "nobody"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSelectAfterPlacement(t *testing.T) {
	s := selectAtlas(t)
	_, err := s.Place("big", PlaceOptions{Anchor: "F"})
	require.NoError(t, err)

	t.Run("placed leylines are never returned", func(t *testing.T) {
		got, err := s.Select(Criteria{MustContain: "F", Size: RankLargest})
		require.NoError(t, err)
		assert.Equal(t, "mid", got.ID())
	})

	t.Run("minimize overlap", func(t *testing.T) {
		// small shares F and A with big, mid shares F and B; the stable
		// size sort keeps small ahead.
		got, err := s.Select(Criteria{MustContain: "F", MinimizeOverlap: "big"})
		require.NoError(t, err)
		assert.Equal(t, "small", got.ID())
	})

	t.Run("intersect", func(t *testing.T) {
		got, err := s.Select(Criteria{MustIntersect: "big", Size: RankSmallest})
		require.NoError(t, err)
		assert.Equal(t, "small", got.ID())
	})

	t.Run("connection bounds", func(t *testing.T) {
		got, err := s.Select(Criteria{Connections: &Bounds{Min: 2, Max: 2}})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "mid", got.ID())

		got, err = s.Select(Criteria{Connections: AtMost(0)})
		require.NoError(t, err)
		assert.Equal(t, "far", got.ID())
	})

	t.Run("exclude inscribed", func(t *testing.T) {
		l, _ := s.Line("mid")
		l.InscribedIn = "big"
		defer func() { l.InscribedIn = "" }()

		got, err := s.Select(Criteria{MustContain: "F", ExcludeInscribed: true})
		require.NoError(t, err)
		assert.Equal(t, "small", got.ID())
	})
}
