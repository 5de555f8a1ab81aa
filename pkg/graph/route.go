package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Route - Shortest Path Query Result
// =============================================================================

// Route is the answer to a path query from one planet to another.
//
// Planets lists the path from source to destination inclusive, and Labels
// holds the matching display names. When no destination was given the
// route contains only the source. An unreachable destination yields
// Reachable=false and a two-element path made of the source and the
// unreachable placeholder.
type Route struct {
	From      string   `json:"from" bson:"from"`
	To        string   `json:"to,omitempty" bson:"to,omitempty"`
	Planets   []string `json:"planets" bson:"planets"`
	Labels    []string `json:"labels" bson:"labels"`
	Legs      []Leg    `json:"legs" bson:"legs"`
	Distance  float64  `json:"distance" bson:"distance"`
	Reachable bool     `json:"reachable" bson:"reachable"`
}

// Leg is one hop of a route.
type Leg struct {
	From     string  `json:"from" bson:"from"`
	To       string  `json:"to" bson:"to"`
	Distance float64 `json:"distance" bson:"distance"`
	Label    string  `json:"label" bson:"label"`
}

// MarshalRoute serializes a Route to pretty-printed JSON bytes.
func MarshalRoute(r Route) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// UnmarshalRoute deserializes JSON bytes into a Route.
func UnmarshalRoute(data []byte) (Route, error) {
	var r Route
	if err := json.Unmarshal(data, &r); err != nil {
		return Route{}, fmt.Errorf("unmarshal route: %w", err)
	}
	if r.From == "" || len(r.Planets) == 0 {
		return Route{}, fmt.Errorf("route must name a source planet")
	}
	return r, nil
}
