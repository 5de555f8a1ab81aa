package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/render"
)

const (
	stopSpacing = 160.0
	stopRadius  = 7.0
	stripHeight = 90.0
)

// RenderRoute draws a route as a left-to-right strip of stops. Unreachable
// routes are drawn with a dashed connector and an "unreachable" note.
func RenderRoute(rt graph.Route, opts ...Option) []byte {
	r := newRenderer(opts...)

	stops := rt.Planets
	labels := rt.Labels
	if len(labels) != len(stops) {
		labels = stops
	}

	top := 0.0
	if r.title != "" {
		top = titleHeight
	}
	w := 2*r.margin + stopSpacing*float64(max(len(stops)-1, 0))
	h := 2*r.margin + stripHeight + top
	y := r.margin + top + stripHeight/2

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="%.2f" height="%.2f" fill="%s"/>`+"\n", w, h, r.theme.Background)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="18" fill="%s">%s</text>`+"\n",
			r.margin, titleHeight-8, r.theme.Text, render.EscapeXML(r.title))
	}

	x := func(i int) float64 { return r.margin + stopSpacing*float64(i) }

	for i := 1; i < len(stops); i++ {
		dash := ""
		if !rt.Reachable {
			dash = ` stroke-dasharray="6 6"`
		}
		fmt.Fprintf(&buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			x(i-1), y, x(i), y, r.theme.Arc, arcWidth, dash)
		label := "unreachable"
		if rt.Reachable && i-1 < len(rt.Legs) {
			label = rt.Legs[i-1].Label
		}
		fmt.Fprintf(&buf, `  <text class="leg" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%d" text-anchor="middle" fill="%s">%s</text>`+"\n",
			(x(i-1)+x(i))/2, y-12, distanceFont+1, r.theme.Text, render.EscapeXML(label))
	}

	for i, name := range stops {
		fill := r.theme.Planet
		if i == 0 || i == len(stops)-1 {
			fill = r.theme.Capital
		}
		fmt.Fprintf(&buf, `  <circle id="stop-%s" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
			render.EscapeXML(name), x(i), y, stopRadius, fill)
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%d" text-anchor="middle" fill="%s">%s</text>`+"\n",
			x(i), y+stopRadius+16, fontSize, r.theme.Text, render.EscapeXML(labels[i]))
	}

	if rt.Reachable && rt.To != "" && rt.To != rt.From {
		fmt.Fprintf(&buf, `  <text class="total" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%d" text-anchor="end" fill="%s">total %s</text>`+"\n",
			w-r.margin/2, h-8, fontSize, r.theme.Text, render.EscapeXML(totalLabel(rt)))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func totalLabel(rt graph.Route) string {
	return atlas.Miles(rt.Distance).Label()
}
