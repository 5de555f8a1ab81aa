package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/leymap/pkg/archive"
	"github.com/matzehuels/leymap/pkg/graph"
)

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 circles"},
		{1, "1 circle"},
		{12, "12 circles"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "circle"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(false, "3 circles", "", "5 planets")
	if !strings.Contains(line, "3 circles") || !strings.Contains(line, "5 planets") {
		t.Errorf("stats line missing counts: %q", line)
	}
	if !strings.Contains(line, iconFresh) {
		t.Errorf("fresh result should show %q: %q", iconFresh, line)
	}
	if !strings.Contains(statsLine(true, "1 circle"), iconCached) {
		t.Error("cached result should show the cached icon")
	}
}

func TestPlanetTable(t *testing.T) {
	out := planetTable(pickerAtlas())
	for _, want := range []string{"Planet", "aeld", "Aeldrum", "solo", "1, 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("planet table missing %q:\n%s", want, out)
		}
	}
}

func TestRouteTable(t *testing.T) {
	rt := graph.Route{
		From:    "aeld",
		To:      "dorn",
		Planets: []string{"aeld", "cael", "dorn"},
		Labels:  []string{"Aeldrum", "Caelum", "dorn"},
		Legs: []graph.Leg{
			{From: "aeld", To: "cael", Distance: 0.3, Label: "3,000 em."},
			{From: "cael", To: "dorn", Distance: 0.2, Label: "2,000 em."},
		},
		Distance:  0.5,
		Reachable: true,
	}
	out := routeTable(rt)
	for _, want := range []string{"Aeldrum", "Caelum", "3,000 em.", "total", "5,000 em."} {
		if !strings.Contains(out, want) {
			t.Errorf("route table missing %q:\n%s", want, out)
		}
	}

	rt = graph.Route{From: "aeld", To: "solo", Planets: []string{"aeld", "solo"}}
	if out := routeTable(rt); !strings.Contains(out, "aeld") || !strings.Contains(out, "unreachable") {
		t.Errorf("unreachable route = %q", out)
	}
}

func TestArchiveTable(t *testing.T) {
	out := archiveTable([]archive.Summary{
		{ID: "b1c2", Focus: "aeld", Timeframe: "", Circles: 4, CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	})
	for _, want := range []string{"b1c2", "aeld", "—", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("archive table missing %q:\n%s", want, out)
		}
	}
}
