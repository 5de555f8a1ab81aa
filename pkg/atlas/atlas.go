// Package atlas is the in-memory model of the leyline map: planets (nodes),
// leylines (cyclic member sequences with per-member distances) and powers
// (named regions with colours).
//
// An Atlas is pure data with no geometry. Layout state lives in
// pkg/layout, which reads an Atlas but never mutates it.
//
// # Wire Shape
//
// Planets, leylines and powers are keyed objects:
//
//	planets.json:  {"aeldrum": {"full_name": "Aeldrum", "capital": true}}
//	leylines.json: {"1": {"aeldman_name": "I", "color": "#c33",
//	                      "planets": [{"name": "aeldrum", "distance": 0.4}]}}
//	powers.json:   {"concord": {"color": "#36c"}}
//
// Member distances are numbers or "?" for unknown. A member's distance is
// the distance from that member to the next one around the loop.
package atlas

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/leymap/pkg/errors"
)

// Planet is a node on the map.
type Planet struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	FullName string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Capital  bool   `json:"capital,omitempty" yaml:"capital,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Theater  bool   `json:"theater,omitempty" yaml:"theater,omitempty"`
	Group    string `json:"group,omitempty" yaml:"group,omitempty"`
	Skip     bool   `json:"skip,omitempty" yaml:"skip,omitempty"`
}

// Label returns the display name, falling back to the key.
func (p *Planet) Label() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}

// Member is one stop on a leyline.
type Member struct {
	Name        string    `json:"name" yaml:"name"`
	Distance    Distance  `json:"distance" yaml:"distance"`
	TheaterDist *Distance `json:"theater_dist,omitempty" yaml:"theater_dist,omitempty"`
	Notes       []string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Controller is a power's stretch along a leyline's region overlay.
type Controller struct {
	Name   string   `json:"name" yaml:"name"`
	Length Distance `json:"length" yaml:"length"`
}

// Leyline is a cyclic path through an ordered member list.
type Leyline struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	AeldmanName string       `json:"aeldman_name,omitempty" yaml:"aeldman_name,omitempty"`
	Color       string       `json:"color,omitempty" yaml:"color,omitempty"`
	Members     []Member     `json:"planets" yaml:"planets"`
	Region      string       `json:"region,omitempty" yaml:"region,omitempty"`
	Controllers []Controller `json:"controllers,omitempty" yaml:"controllers,omitempty"`
}

// Label returns the display id, falling back to the key.
func (l *Leyline) Label() string {
	if l.AeldmanName != "" {
		return l.AeldmanName
	}
	return l.ID
}

// Contains reports whether name is a member.
func (l *Leyline) Contains(name string) bool {
	return slices.ContainsFunc(l.Members, func(m Member) bool { return m.Name == name })
}

// Names returns member names in order, including repeats.
func (l *Leyline) Names() []string {
	names := make([]string, len(l.Members))
	for i, m := range l.Members {
		names[i] = m.Name
	}
	return names
}

// DistinctNames returns member names in order of first occurrence.
func (l *Leyline) DistinctNames() []string {
	seen := make(map[string]bool, len(l.Members))
	var names []string
	for _, m := range l.Members {
		if !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return names
}

// Power is a named territory shown as an overlay colour.
type Power struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
	Parent    string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Secondary string `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Minor     bool   `json:"minor,omitempty" yaml:"minor,omitempty"`
}

// Atlas holds the three datasets.
type Atlas struct {
	Planets  map[string]*Planet  `json:"planets" yaml:"planets"`
	Leylines map[string]*Leyline `json:"leylines" yaml:"leylines"`
	Powers   map[string]*Power   `json:"powers,omitempty" yaml:"powers,omitempty"`
}

// New returns an empty Atlas.
func New() *Atlas {
	return &Atlas{
		Planets:  make(map[string]*Planet),
		Leylines: make(map[string]*Leyline),
		Powers:   make(map[string]*Power),
	}
}

// Normalize fills in the Name/ID fields from map keys and allocates missing
// maps. Loaders call it after decoding.
func (a *Atlas) Normalize() {
	if a.Planets == nil {
		a.Planets = make(map[string]*Planet)
	}
	if a.Leylines == nil {
		a.Leylines = make(map[string]*Leyline)
	}
	if a.Powers == nil {
		a.Powers = make(map[string]*Power)
	}
	for k, p := range a.Planets {
		if p == nil {
			p = &Planet{}
			a.Planets[k] = p
		}
		p.Name = k
	}
	for k, l := range a.Leylines {
		if l == nil {
			l = &Leyline{}
			a.Leylines[k] = l
		}
		l.ID = k
	}
	for k, p := range a.Powers {
		if p == nil {
			p = &Power{}
			a.Powers[k] = p
		}
		p.Name = k
	}
}

// Validate checks referential integrity: every leyline member must name a
// known planet.
func (a *Atlas) Validate() error {
	for _, id := range a.LeylineIDs() {
		for i, m := range a.Leylines[id].Members {
			if _, ok := a.Planets[m.Name]; !ok {
				return errors.New(errors.ErrCodeMissingData,
					"leyline %s member %d references unknown planet %q", id, i, m.Name)
			}
		}
	}
	return nil
}

// Planet returns the named planet or a missing-data error.
func (a *Atlas) Planet(name string) (*Planet, error) {
	p, ok := a.Planets[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingData, "unknown planet %q", name)
	}
	return p, nil
}

// LeylineIDs returns leyline keys in map order: integer-like keys ascending
// first, then the remaining keys lexically.
func (a *Atlas) LeylineIDs() []string {
	ids := make([]string, 0, len(a.Leylines))
	for id := range a.Leylines {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareKeys)
	return ids
}

// PlanetNames returns planet keys sorted with CompareKeys.
func (a *Atlas) PlanetNames() []string {
	names := make([]string, 0, len(a.Planets))
	for n := range a.Planets {
		names = append(names, n)
	}
	slices.SortFunc(names, CompareKeys)
	return names
}

// LeylinesOf returns the ids of leylines that contain name, in key order.
func (a *Atlas) LeylinesOf(name string) []string {
	var ids []string
	for _, id := range a.LeylineIDs() {
		if a.Leylines[id].Contains(name) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Clone returns a deep copy.
func (a *Atlas) Clone() *Atlas {
	c := New()
	for k, p := range a.Planets {
		cp := *p
		c.Planets[k] = &cp
	}
	for k, l := range a.Leylines {
		cl := *l
		cl.Members = slices.Clone(l.Members)
		cl.Controllers = slices.Clone(l.Controllers)
		c.Leylines[k] = &cl
	}
	for k, p := range a.Powers {
		cp := *p
		c.Powers[k] = &cp
	}
	return c
}

// CompareKeys orders keys the way object keys iterate in the datasets'
// original tooling: non-negative integer keys numerically first, then all
// other keys lexically.
func CompareKeys(a, b string) int {
	ai, aNum := arrayIndex(a)
	bi, bNum := arrayIndex(b)
	switch {
	case aNum && bNum:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}

func arrayIndex(s string) (uint64, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 32)
	return v, err == nil
}
