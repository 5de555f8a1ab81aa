package atlas

import (
	"slices"
	"testing"
)

func TestFoldSumsSkippedLegs(t *testing.T) {
	members := []Member{
		{Name: "a", Distance: Miles(1)},
		{Name: "x", Distance: Miles(2)},
		{Name: "b", Distance: Miles(3)},
		{Name: "y", Distance: Miles(4)},
	}
	got := Fold(members, func(m Member) bool { return m.Name == "a" || m.Name == "b" }, false)
	if len(got) != 2 {
		t.Fatalf("Fold() kept %d members, want 2", len(got))
	}
	if got[0].Name != "a" || got[0].Distance != Miles(3) {
		t.Errorf("got[0] = %+v, want a with 3", got[0])
	}
	if got[1].Name != "b" || got[1].Distance != Miles(7) {
		t.Errorf("got[1] = %+v, want b with 7", got[1])
	}
}

func TestFoldUnknownPropagates(t *testing.T) {
	members := []Member{
		{Name: "a", Distance: Miles(1)},
		{Name: "x", Distance: Unknown},
		{Name: "b", Distance: Miles(3)},
	}
	got := Fold(members, func(m Member) bool { return m.Name != "x" }, false)
	if got[0].Distance.Known() {
		t.Errorf("a folded across an unknown leg = %v, want unknown", got[0].Distance)
	}
	if got[1].Distance != Miles(3) {
		t.Errorf("b = %v, want 3", got[1].Distance)
	}
}

func TestFoldSingleSurvivorWalksWholeLoop(t *testing.T) {
	members := []Member{
		{Name: "a", Distance: Miles(1)},
		{Name: "x", Distance: Miles(2)},
	}
	got := Fold(members, func(m Member) bool { return m.Name == "a" }, false)
	if len(got) != 1 || got[0].Distance != Miles(3) {
		t.Errorf("Fold() = %+v, want a with 3", got)
	}
}

func TestFoldTheaterDist(t *testing.T) {
	td := Miles(9)
	members := []Member{
		{Name: "a", Distance: Miles(1), TheaterDist: &td},
		{Name: "x", Distance: Miles(2)},
		{Name: "b", Distance: Miles(3)},
	}
	got := Fold(members, func(m Member) bool { return m.Name != "x" }, true)
	if got[0].Distance != Miles(9) {
		t.Errorf("theater_dist override = %v, want 9", got[0].Distance)
	}
	if got[0].TheaterDist != nil {
		t.Error("folded member should drop theater_dist")
	}
}

func TestFilterTheaterOnly(t *testing.T) {
	a := sample()
	for _, n := range []string{"a", "c", "e"} {
		a.Planets[n].Theater = true
	}
	f := a.Filter(FilterOptions{TheaterOnly: true})

	if _, ok := f.Planets["b"]; ok {
		t.Error("non-theater planet b should be dropped")
	}
	if got := f.Leylines["1"].Names(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("leyline 1 = %v", got)
	}
	if f.Leylines["1"].Members[0].Distance != Miles(2) {
		t.Errorf("a→c folded = %v, want 2", f.Leylines["1"].Members[0].Distance)
	}
	if len(a.Leylines["1"].Members) != 4 {
		t.Error("Filter must not modify the receiver")
	}
	if err := f.Validate(); err != nil {
		t.Errorf("filtered atlas invalid: %v", err)
	}
}

func TestFilterMultigateAndHidden(t *testing.T) {
	a := sample()
	f := a.Filter(FilterOptions{MultigateOnly: true})
	if got := f.Leylines["1"].Names(); !slices.Equal(got, []string{"c"}) {
		t.Errorf("leyline 1 = %v, want [c]", got)
	}
	if f.Leylines["1"].Members[0].Distance != Miles(4) {
		t.Errorf("c folded = %v, want 4", f.Leylines["1"].Members[0].Distance)
	}

	h := a.Filter(FilterOptions{Hidden: []string{"2"}})
	if _, ok := h.Leylines["2"]; ok {
		t.Error("hidden leyline should be removed")
	}
	if !(FilterOptions{}).IsZero() || (FilterOptions{TheaterOnly: true}).IsZero() {
		t.Error("IsZero() mismatch")
	}
}

func TestFilterDropsEmptyLeylines(t *testing.T) {
	a := sample()
	a.Leylines["3"] = loop("3", "a", "b")
	for _, n := range []string{"c", "d"} {
		a.Planets[n].Theater = true
	}
	f := a.Filter(FilterOptions{TheaterOnly: true})
	if _, ok := f.Leylines["3"]; ok {
		t.Error("leyline with no theater members should be dropped")
	}
}
