package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/quantity"
)

// Relative returns the positions of track measured from center, sample by
// sample. The shorter length wins.
func Relative(track, center []quantity.Point) []quantity.Point {
	n := min(len(track), len(center))
	out := make([]quantity.Point, n)
	for i := 0; i < n; i++ {
		out[i] = track[i].Sub(center[i]).Point()
	}
	return out
}

func Xs(points []quantity.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.X.Float()
	}
	return out
}

// Distances returns the distance of every point from the origin.
func Distances(points []quantity.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Distance(quantity.Origin).Float()
	}
	return out
}

// Apsides returns the closest and farthest approach in a relative track and
// the eccentricity they imply.
func Apsides(rel []quantity.Point) (periapsis, apoapsis, eccentricity float64) {
	if len(rel) == 0 {
		return 0, 0, 0
	}
	periapsis = math.Inf(1)
	for _, d := range Distances(rel) {
		periapsis = math.Min(periapsis, d)
		apoapsis = math.Max(apoapsis, d)
	}
	if apoapsis+periapsis > 0 {
		eccentricity = (apoapsis - periapsis) / (apoapsis + periapsis)
	}
	return periapsis, apoapsis, eccentricity
}

// Crossings counts positive-going crossings of the +x half axis, one per
// counter-clockwise revolution in the XY plane.
func Crossings(rel []quantity.Point) int {
	n := 0
	for i := 1; i < len(rel); i++ {
		prev, cur := rel[i-1], rel[i]
		if prev.Y < 0 && cur.Y >= 0 && cur.X > 0 {
			n++
		}
	}
	return n
}

// PortraitToASCII plots points in the XY plane on a width x height grid,
// with axes drawn where they cross the visible area.
func PortraitToASCII(points []quantity.Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X.Float(), points[0].X.Float()
	minY, maxY := points[0].Y.Float(), points[0].Y.Float()
	for _, p := range points {
		minX = math.Min(minX, p.X.Float())
		maxX = math.Max(maxX, p.X.Float())
		minY = math.Min(minY, p.Y.Float())
		maxY = math.Max(maxY, p.Y.Float())
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X.Float() - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y.Float()-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
