package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}
	dw, dh := canvas.Dots()
	width, height := float64(dw)*scale, float64(dh)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, color)

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, scale*0.4)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Track is the recorded path of one body.
type Track struct {
	Name   string
	Hint   celestial.Hint
	Points []quantity.Point
}

type bounds struct{ minX, maxX, minY, maxY float64 }

func trackBounds(tracks []Track) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	found := false
	for _, t := range tracks {
		for _, p := range t.Points {
			x, y := p.X.Float(), p.Y.Float()
			b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
			b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
			found = true
		}
	}
	if !found {
		return b, false
	}

	// square the view so orbits keep their shape, then pad by 10%
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	half := span * 0.6
	return bounds{cx - half, cx + half, cy - half, cy + half}, true
}

// TrajectoriesToSVG draws every track as a polyline in the XY plane, in the
// colour of the body's display hint, with a dot at its final position.
// Tracks share one coordinate frame.
func TrajectoriesToSVG(tracks []Track, width, height int) string {
	b, ok := trackBounds(tracks)
	if !ok {
		return ""
	}
	px := func(p quantity.Point) (float64, float64) {
		x := (p.X.Float() - b.minX) / (b.maxX - b.minX) * float64(width)
		y := float64(height) - (p.Y.Float()-b.minY)/(b.maxY-b.minY)*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for _, t := range tracks {
		if len(t.Points) == 0 {
			continue
		}
		color := viz.HintColor(t.Hint).Hex()
		fmt.Fprintf(&sb, "<g id=\"%s\">\n", escape(t.Name))
		if len(t.Points) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
			for i, p := range t.Points {
				x, y := px(p)
				if i == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		x, y := px(t.Points[len(t.Points)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", x, y, color)
		fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-size=\"10\">%s</text>\n</g>\n", x+6, y-6, color, escape(t.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
