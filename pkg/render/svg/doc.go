// Package svg draws leyline maps and routes as standalone SVG documents.
//
// [RenderLayout] draws a [graph.Layout]: each leyline circle as a chain of
// arcs in its colour, region overlays under the arcs, unknown legs with a
// fading gradient, same-planet links dashed, and every placed planet at its
// canonical position.
//
// [RenderRoute] draws a [graph.Route] as a horizontal strip of stops with
// the leg distance above each hop.
//
// Both accept functional [Option]s:
//
//	svg.RenderLayout(l, svg.WithTheme(svg.Dark), svg.WithDistanceLabels())
package svg
