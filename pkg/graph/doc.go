// Package graph provides the serialization types for leyline maps, layouts
// and path queries.
//
// This package defines the canonical wire format used for JSON files, API
// responses, cache entries and archived layouts. It sits at the boundary
// between the internal representations and every external consumer:
//
//   - [Graph]: node-link adjacency view of an atlas (planets and leyline legs)
//   - [Layout]: placed circles, points and arcs produced by pkg/layout
//   - [Route]: result of a shortest-path query produced by pkg/pathfind
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "aeldrum", "label": "Aeldrum"}],
//	  "edges": [{"from": "aeldrum", "to": "korrin", "leyline": "1", "distance": 0.2}]
//	}
//
// # Layout Serialization
//
// Layouts list one [Circle] per placed leyline, one [Point] per placed
// member occurrence and one [Arc] per drawn connection:
//
//	layout, _ := graph.ReadLayoutFile("layout.json")
//	for _, c := range layout.Circles {
//	    fmt.Println(c.Leyline, c.CX, c.CY, c.R)
//	}
//
// Unknown distances are encoded by omitting the distance and setting
// "unknown": true, since JSON has no representation for the sentinel.
// Unreachable routes set "reachable": false for the same reason.
package graph
