// Package nodelink renders the planet adjacency graph as a node-link
// diagram.
//
// Every planet is a node and every leyline leg is an undirected edge
// coloured like its leyline. The layout is left to Graphviz, so this view
// complements the circle map when the question is "what touches what"
// rather than "where is it".
//
// # Usage
//
//	dot := nodelink.ToDOT(graph.FromAtlas(a), nodelink.Options{Distances: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// A route can be highlighted by passing its planets:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: route.Planets})
//
// # Dependencies
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
// PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
