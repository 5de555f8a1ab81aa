// Package render turns layouts and routes into pictures.
//
// # Overview
//
//   - [svg]: the leyline map (circles, arcs, planets) and the route strip
//   - [nodelink]: the planet adjacency graph as Graphviz DOT, rendered
//     in-process with go-graphviz
//   - [ToPDF] and [ToPNG]: convert any SVG via rsvg-convert
//
// # Format Conversion
//
//	svg := svg.RenderLayout(layout)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/leymap/pkg/render/svg
// [nodelink]: github.com/matzehuels/leymap/pkg/render/nodelink
package render
