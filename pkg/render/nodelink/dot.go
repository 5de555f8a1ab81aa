package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Distances labels each edge with its leg distance.
	Distances bool

	// Highlight is a path of planets whose consecutive legs are drawn
	// bold and whose nodes are filled.
	Highlight []string

	// Engine is the Graphviz layout engine name used in the DOT header.
	// Empty means "neato".
	Engine string
}

const defaultEdgeColor = "#888888"

// ToDOT converts an adjacency graph to undirected Graphviz DOT.
//
// Parallel legs of different leylines stay separate edges so each keeps
// its leyline colour.
func ToDOT(g graph.Graph, opts Options) string {
	engine := opts.Engine
	if engine == "" {
		engine = "neato"
	}
	onPath := pathSet(opts.Highlight)
	legs := legSet(opts.Highlight)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, onPath[n.ID]), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.From == e.To {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e, opts.Distances, legs[legKey(e.From, e.To)]), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, highlighted bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayLabel())}
	switch {
	case highlighted:
		attrs = append(attrs, "fillcolor=\"#ffe08a\"", "penwidth=2")
	case n.Skip:
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
	}
	if n.Capital {
		attrs = append(attrs, "shape=doublecircle")
	}
	return attrs
}

func edgeAttrs(e graph.Edge, distances, highlighted bool) []string {
	color := e.Color
	if color == "" {
		color = defaultEdgeColor
	}
	attrs := []string{fmt.Sprintf("color=%q", color)}
	if e.Unknown {
		attrs = append(attrs, "style=dashed")
	}
	if distances {
		label := atlas.Unknown.Label()
		if e.Distance != nil {
			label = atlas.Miles(*e.Distance).Label()
		}
		attrs = append(attrs, fmt.Sprintf("label=%q", label), "fontsize=10")
	}
	if highlighted {
		attrs = append(attrs, "penwidth=4")
	}
	return attrs
}

func pathSet(path []string) map[string]bool {
	set := make(map[string]bool, len(path))
	for _, p := range path {
		set[p] = true
	}
	return set
}

func legSet(path []string) map[string]bool {
	set := make(map[string]bool, len(path))
	for i := 1; i < len(path); i++ {
		set[legKey(path[i-1], path[i])] = true
	}
	return set
}

func legKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// RenderSVG renders a DOT graph to SVG using Graphviz. A layout=<engine>
// line in the graph header selects the engine; the default is dot.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if m := layoutRe.FindStringSubmatch(dot); m != nil {
		gv.SetLayout(graphviz.Layout(m[1]))
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	layoutRe  = regexp.MustCompile(`(?m)^\s*layout=(\w+);`)
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
