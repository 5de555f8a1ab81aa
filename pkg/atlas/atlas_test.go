package atlas

import (
	"encoding/json"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/leymap/pkg/errors"
)

func loop(id string, names ...string) *Leyline {
	l := &Leyline{ID: id}
	for _, n := range names {
		l.Members = append(l.Members, Member{Name: n, Distance: Miles(1)})
	}
	return l
}

func sample() *Atlas {
	a := New()
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		a.Planets[n] = &Planet{Name: n}
	}
	a.Leylines["1"] = loop("1", "a", "b", "c", "d")
	a.Leylines["2"] = loop("2", "c", "e", "f")
	return a
}

func TestDistanceJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		known bool
		value float64
	}{
		{"number", `0.25`, true, 0.25},
		{"numeric string", `"3"`, true, 3},
		{"unknown", `"?"`, false, 0},
		{"null", `null`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Distance
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			v, ok := d.Value()
			if ok != tt.known || v != tt.value {
				t.Errorf("Value() = %v, %v, want %v, %v", v, ok, tt.value, tt.known)
			}
		})
	}

	var d Distance
	if err := json.Unmarshal([]byte(`-1`), &d); err == nil {
		t.Error("negative distance should be rejected")
	}

	out, _ := json.Marshal([]Distance{Miles(1.5), Unknown})
	if string(out) != `[1.5,"?"]` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestDistanceYAML(t *testing.T) {
	var m []Member
	src := "- name: a\n  distance: 0.5\n- name: b\n  distance: \"?\"\n- name: c\n  distance: ~\n"
	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("yaml.Unmarshal error = %v", err)
	}
	if len(m) != 3 {
		t.Fatalf("got %d members, want 3", len(m))
	}
	if v, ok := m[0].Distance.Value(); !ok || v != 0.5 {
		t.Errorf("m[0].Distance = %v", m[0].Distance)
	}
	if m[1].Distance.Known() || m[2].Distance.Known() {
		t.Error("'?' and null should decode as unknown")
	}
}

func TestDistancePlus(t *testing.T) {
	if got := Miles(1).Plus(Miles(2)); got != Miles(3) {
		t.Errorf("1+2 = %v", got)
	}
	if got := Miles(1).Plus(Unknown); got.Known() {
		t.Errorf("1+? = %v, want unknown", got)
	}
}

func TestFormatMiles(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.15, "1,500"},
		{12.5, "125,000"},
		{0.00012, "1.2"},
		{0, "0"},
		{0.31415, "3,141.5"},
		{1234.5678, "12,345,678"},
	}
	for _, tt := range tests {
		if got := FormatMiles(tt.in); got != tt.want {
			t.Errorf("FormatMiles(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Miles(0.2).Label(); got != "2,000 em." {
		t.Errorf("Label() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	a := sample()
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	a.Leylines["3"] = loop("3", "a", "zz")
	err := a.Validate()
	if !errors.Is(err, errors.ErrCodeMissingData) {
		t.Errorf("Validate() = %v, want MISSING_DATA", err)
	}
}

func TestCompareKeys(t *testing.T) {
	keys := []string{"b", "10", "2", "a", "01", "1"}
	slices.SortFunc(keys, CompareKeys)
	want := []string{"1", "2", "10", "01", "a", "b"}
	if !slices.Equal(keys, want) {
		t.Errorf("sorted = %v, want %v", keys, want)
	}
}

func TestNormalize(t *testing.T) {
	var a Atlas
	if err := json.Unmarshal([]byte(`{"planets":{"x":{"full_name":"Xen"}},"leylines":{"7":{"planets":[{"name":"x","distance":1}]}}}`), &a); err != nil {
		t.Fatal(err)
	}
	a.Normalize()
	if a.Planets["x"].Name != "x" || a.Planets["x"].Label() != "Xen" {
		t.Errorf("planet = %+v", a.Planets["x"])
	}
	if a.Leylines["7"].ID != "7" || a.Leylines["7"].Label() != "7" {
		t.Errorf("leyline = %+v", a.Leylines["7"])
	}
	if a.Powers == nil {
		t.Error("Powers map should be allocated")
	}
}

func TestLeylineNames(t *testing.T) {
	l := loop("1", "a", "b", "a", "c")
	if got := l.DistinctNames(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("DistinctNames() = %v", got)
	}
	if !l.Contains("c") || l.Contains("z") {
		t.Error("Contains() mismatch")
	}
	if got := sample().LeylinesOf("c"); !slices.Equal(got, []string{"1", "2"}) {
		t.Errorf("LeylinesOf(c) = %v", got)
	}
}
