package export

import (
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#fff") != "" {
		t.Error("nil canvas should give empty output")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2, "#00ff00")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("unexpected size: %s", svg[:120])
	}
}

func TestTrajectoriesToSVG(t *testing.T) {
	if TrajectoriesToSVG(nil, 100, 100) != "" {
		t.Error("no tracks should give empty output")
	}

	tracks := []Track{
		{Name: "Sun", Hint: celestial.Hint{Color: [4]float64{1, 1, 1, 1}}, Points: []quantity.Point{quantity.Origin}},
		{Name: "Earth & co", Hint: celestial.Hint{Color: [4]float64{0, 1, 0, 1}}, Points: []quantity.Point{
			quantity.NewPoint(1, 0, 0), quantity.NewPoint(0, 1, 0), quantity.NewPoint(-1, 0, 0), quantity.NewPoint(0, -1, 0),
		}},
	}
	svg := TrajectoriesToSVG(tracks, 200, 200)

	if n := strings.Count(svg, "<path"); n != 1 {
		t.Errorf("paths = %d, want 1 (single-point tracks get only a dot)", n)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("track not drawn in its hint colour")
	}
	if !strings.Contains(svg, "Earth &amp; co") {
		t.Error("name not escaped")
	}
	// the sun sits at the centre of the square frame
	if !strings.Contains(svg, `cx="100.0" cy="100.0"`) {
		t.Error("origin not centred")
	}
}
