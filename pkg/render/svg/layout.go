package svg

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/geom"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/render"
)

const (
	arcWidth         = 3.0
	regionWidth      = 12.0
	regionOpacity    = 0.35
	planetRadius     = 4.0
	capitalRadius    = 6.5
	pointRadius      = 2.5
	labelOffset      = 8.0
	titleHeight      = 32.0
	fontSize         = 11
	distanceFont     = 9
	noteWidth        = 1.0
	noteOpacity      = 0.7
	closedArcEpsilon = 1e-9
)

// RenderLayout draws a layout. A layout without circles yields an empty
// canvas of margin size.
func RenderLayout(l graph.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)

	b := l.Bounds
	if len(l.Circles) == 0 {
		b = graph.Bounds{}
	}
	top := 0.0
	if r.title != "" {
		top = titleHeight
	}
	minX, minY := b.MinX-r.margin, b.MinY-r.margin-top
	w, h := b.Width()+2*r.margin, b.Height()+2*r.margin+top

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		minX, minY, w, h, r.theme.Background)

	centers := make(map[string]geom.Circle, len(l.Circles))
	colors := make(map[string]string, len(l.Circles))
	for _, c := range l.Circles {
		centers[c.Leyline] = geom.Circle{Center: geom.Pt(c.CX, c.CY), R: c.R}
		colors[c.Leyline] = c.Color
	}

	r.renderDefs(&buf, l.Arcs)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="18" fill="%s">%s</text>`+"\n",
			minX+r.margin, minY+titleHeight-8, r.theme.Text, render.EscapeXML(r.title))
	}

	buf.WriteString(`  <g class="regions">` + "\n")
	for _, a := range l.Arcs {
		if a.RegionColor == "" || a.SamePlanet {
			continue
		}
		fmt.Fprintf(&buf, `    <path d="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f"/>`+"\n",
			arcPath(a, centers), a.RegionColor, regionWidth, regionOpacity)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="arcs">` + "\n")
	for i, a := range l.Arcs {
		r.renderArc(&buf, i, a, centers)
	}
	buf.WriteString("  </g>\n")

	if len(l.Notes) > 0 {
		buf.WriteString(`  <g class="notes">` + "\n")
		for _, n := range l.Notes {
			r.renderNote(&buf, n, colors[n.Leyline])
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g class="points">` + "\n")
	canonical := make(map[string]graph.Planet, len(l.Planets))
	for _, p := range l.Planets {
		canonical[p.Name] = p
	}
	for _, p := range l.Points {
		if c, ok := canonical[p.Planet]; ok && c.X == p.X && c.Y == p.Y {
			continue
		}
		fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s" stroke="%s"/>`+"\n",
			p.X, p.Y, pointRadius, r.theme.Background, r.theme.Planet)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="planets">` + "\n")
	for _, p := range l.Planets {
		r.renderPlanet(&buf, p)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderDefs(buf *bytes.Buffer, arcs []graph.Arc) {
	buf.WriteString("  <defs>\n")
	for i, a := range arcs {
		if !a.Unknown || a.SamePlanet {
			continue
		}
		fmt.Fprintf(buf, `    <linearGradient id="unknown-%d" gradientUnits="userSpaceOnUse" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f">`+"\n",
			i, a.X1, a.Y1, a.X2, a.Y2)
		fmt.Fprintf(buf, `      <stop offset="0" stop-color="%s"/>`+"\n", r.arcColor(a))
		fmt.Fprintf(buf, `      <stop offset="1" stop-color="%s"/>`+"\n", r.theme.Unknown)
		buf.WriteString("    </linearGradient>\n")
	}
	buf.WriteString("  </defs>\n")
}

func (r *renderer) renderArc(buf *bytes.Buffer, i int, a graph.Arc, centers map[string]geom.Circle) {
	stroke := r.arcColor(a)
	extra := ""
	switch {
	case a.SamePlanet:
		extra = ` stroke-dasharray="4 4" stroke-opacity="0.6"`
	case a.Unknown:
		stroke = fmt.Sprintf("url(#unknown-%d)", i)
	}
	width := arcWidth
	if a.SamePlanet {
		width = 1.5
	}
	fmt.Fprintf(buf, `    <path class="arc" data-leyline="%s" d="%s" fill="none" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		render.EscapeXML(a.Leyline), arcPath(a, centers), stroke, width, extra)

	if r.distanceLabels && !a.SamePlanet {
		label := atlas.Unknown.Label()
		if a.Distance != nil {
			label = atlas.Miles(*a.Distance).Label()
		}
		mx, my := arcMidpoint(a, centers)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%d" text-anchor="middle" fill="%s">%s</text>`+"\n",
			mx, my, distanceFont, r.theme.Text, render.EscapeXML(label))
	}
}

func (r *renderer) renderNote(buf *bytes.Buffer, n graph.Note, color string) {
	if color == "" {
		color = r.theme.Arc
	}
	fmt.Fprintf(buf, `    <path class="note-path" d="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f"/>`+"\n",
		notePath(n), color, noteWidth, noteOpacity)
	fmt.Fprintf(buf, `    <text class="note" data-planet="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%d" text-anchor="middle" fill="%s">%s</text>`+"\n",
		render.EscapeXML(n.Planet), n.X, n.Y, distanceFont, r.theme.Text, render.EscapeXML(n.Text))
}

// notePath is a straight connector, or the short counter-clockwise arc
// along the note's circle.
func notePath(n graph.Note) string {
	if n.R == 0 {
		return fmt.Sprintf("M %.2f %.2f L %.2f %.2f", n.X1, n.Y1, n.X2, n.Y2)
	}
	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 0 0 %.2f %.2f", n.X1, n.Y1, n.R, n.R, n.X2, n.Y2)
}

func (r *renderer) renderPlanet(buf *bytes.Buffer, p graph.Planet) {
	radius, fill := planetRadius, r.theme.Planet
	if p.Capital {
		radius, fill = capitalRadius, r.theme.Capital
	}
	stroke := ""
	if r.highlight[p.Name] {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="3"`, r.theme.Capital)
	}
	fmt.Fprintf(buf, `    <circle id="planet-%s" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"%s/>`+"\n",
		render.EscapeXML(p.Name), p.X, p.Y, radius, fill, stroke)
	if r.planetLabels {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%d" fill="%s">%s</text>`+"\n",
			p.X+labelOffset, p.Y-labelOffset/2, fontSize, r.theme.Text, render.EscapeXML(p.Label))
	}
}

func (r *renderer) arcColor(a graph.Arc) string {
	if a.Color != "" {
		return a.Color
	}
	return r.theme.Arc
}

// arcPath builds the SVG path for an arc. Leyline arcs follow their own
// circle clockwise from start to end; a closed arc is the whole circle.
// Same-planet arcs take the short way on a circle of radius a.R.
func arcPath(a graph.Arc, centers map[string]geom.Circle) string {
	if a.SamePlanet {
		return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 0 1 %.2f %.2f", a.X1, a.Y1, a.R, a.R, a.X2, a.Y2)
	}
	if a.Closed() {
		c, ok := centers[a.Leyline]
		if !ok {
			c = geom.Circle{Center: geom.Pt(a.X1, a.Y1+a.R), R: a.R}
		}
		ox, oy := 2*c.Center.X-a.X1, 2*c.Center.Y-a.Y1
		return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f",
			a.X1, a.Y1, a.R, a.R, ox, oy, a.R, a.R, a.X1, a.Y1)
	}
	large := 0
	if sweep(a, centers) > math.Pi+closedArcEpsilon {
		large = 1
	}
	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f", a.X1, a.Y1, a.R, a.R, large, a.X2, a.Y2)
}

// sweep is the clockwise angle from the arc's start to its end around its
// leyline's circle, or 0 when the circle is unknown.
func sweep(a graph.Arc, centers map[string]geom.Circle) float64 {
	c, ok := centers[a.Leyline]
	if !ok {
		return 0
	}
	return geom.NormalizeAngle(c.AngleOf(geom.Pt(a.X2, a.Y2)) - c.AngleOf(geom.Pt(a.X1, a.Y1)))
}

func arcMidpoint(a graph.Arc, centers map[string]geom.Circle) (float64, float64) {
	c, ok := centers[a.Leyline]
	if !ok || a.Closed() {
		return (a.X1 + a.X2) / 2, (a.Y1 + a.Y2) / 2
	}
	mid := c.AngleOf(geom.Pt(a.X1, a.Y1)) + sweep(a, centers)/2
	p := c.Center.Add(geom.Pt(math.Cos(mid), math.Sin(mid)).Scale(c.R + labelOffset))
	return p.X, p.Y
}
