package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/leymap/pkg/atlas"
)

// =============================================================================
// Graph - Atlas Adjacency Serialization
// =============================================================================

// Graph is the node-link view of an atlas: every planet is a node and every
// consecutive pair of leyline members is an edge.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a planet in the adjacency view.
type Node struct {
	ID      string `json:"id" bson:"id"`
	Label   string `json:"label,omitempty" bson:"label,omitempty"`
	Capital bool   `json:"capital,omitempty" bson:"capital,omitempty"`
	Theater bool   `json:"theater,omitempty" bson:"theater,omitempty"`
	Group   string `json:"group,omitempty" bson:"group,omitempty"`
	Skip    bool   `json:"skip,omitempty" bson:"skip,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is one leg of a leyline, from a member to the next member.
type Edge struct {
	From     string   `json:"from" bson:"from"`
	To       string   `json:"to" bson:"to"`
	Leyline  string   `json:"leyline" bson:"leyline"`
	Color    string   `json:"color,omitempty" bson:"color,omitempty"`
	Distance *float64 `json:"distance,omitempty" bson:"distance,omitempty"`
	Unknown  bool     `json:"unknown,omitempty" bson:"unknown,omitempty"`
}

// FromAtlas converts an atlas to its adjacency view. Nodes are sorted by
// key. Edges follow leyline key order and member order; a one-member loop
// yields no edge.
func FromAtlas(a *atlas.Atlas) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	for _, name := range a.PlanetNames() {
		p := a.Planets[name]
		g.Nodes = append(g.Nodes, Node{
			ID:      name,
			Label:   labelIfDistinct(p.FullName, name),
			Capital: p.Capital,
			Theater: p.Theater,
			Group:   p.Group,
			Skip:    p.Skip,
		})
	}
	for _, id := range a.LeylineIDs() {
		l := a.Leylines[id]
		n := len(l.Members)
		if n < 2 {
			continue
		}
		for i, m := range l.Members {
			next := l.Members[(i+1)%n]
			e := Edge{From: m.Name, To: next.Name, Leyline: id, Color: l.Color}
			e.Distance, e.Unknown = DistancePtr(m.Distance)
			g.Edges = append(g.Edges, e)
		}
	}
	return g
}

// DistancePtr converts an atlas distance to its wire pair.
func DistancePtr(d atlas.Distance) (*float64, bool) {
	v, ok := d.Value()
	if !ok {
		return nil, true
	}
	return &v, false
}

func labelIfDistinct(label, id string) string {
	if label == id {
		return ""
	}
	return label
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts an atlas to JSON bytes in node-link form.
func MarshalGraph(a *atlas.Atlas) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(a, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes the node-link form of an atlas to w.
func WriteGraph(a *atlas.Atlas, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromAtlas(a)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes the node-link form of an atlas to a file.
func WriteGraphFile(a *atlas.Atlas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(a, f)
}

// UnmarshalGraph decodes node-link JSON.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	return g, nil
}

// Neighbors returns the distinct neighbours of id in either direction,
// sorted.
func (g Graph) Neighbors(id string) []string {
	seen := map[string]bool{}
	for _, e := range g.Edges {
		switch {
		case e.From == id && e.To != id:
			seen[e.To] = true
		case e.To == id && e.From != id:
			seen[e.From] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.SortFunc(out, strings.Compare)
	return out
}
