package viz

import (
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// RadiusMultiplier inflates body radii so planets are visible at
// solar-system scale.
const RadiusMultiplier = 100

// Camera projects scene coordinates onto the canvas. Scene coordinates are
// world positions divided by the scene scale, so the whole system fits in
// the unit sphere at zoom 1.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	Distance         float64
	Near             float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1, Distance: 4, Near: 0.05}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(50, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.02, c.Zoom/1.2) }

// Reset returns the camera to the top-down view of the XY plane.
func (c *Camera) Reset() { *c = *NewCamera() }

func (c *Camera) rotate(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a scene point to dot coordinates on a sw x sh canvas. It
// returns the perspective factor at that depth and whether the point is
// on screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (x, y int, persp float64, ok bool) {
	rot := r3.Scale(c.Zoom, c.rotate(p))
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	persp = c.Distance / (c.Distance - rot.Z)
	half := pixels(sw, sh)
	x = int(math.Round(rot.X*persp*half)) + sw/2
	y = int(math.Round(-rot.Y*persp*half)) + sh/2
	return x, y, persp, x >= 0 && x < sw && y >= 0 && y < sh
}

// pixels returns how many dots one scene unit spans at unit zoom.
func pixels(sw, sh int) float64 { return float64(min(sw, sh)) / 2.2 }

// Marker is a body drawn on the canvas, in cell coordinates.
type Marker struct {
	Name     string
	Col, Row int
	Depth    float64
	Body     sim.BodyState
}

// Scene converts world positions into scene coordinates.
type Scene struct {
	Scale float64
}

// NewScene fits the snapshot into the unit sphere with a little margin.
func NewScene(s sim.Snapshot) Scene {
	extent := s.Extent()
	if extent == 0 {
		extent = 1
	}
	return Scene{Scale: extent * 1.2}
}

func (sc Scene) Point(p quantity.Point) r3.Vec {
	return r3.Scale(1/sc.Scale, p.R3())
}

// Render draws trails and bodies onto the canvas, nearest bodies last, and
// returns the markers of the bodies that landed on screen.
func Render(c *Canvas, cam *Camera, sc Scene, snap sim.Snapshot, trails map[string][]quantity.Point) []Marker {
	sw, sh := c.Dots()
	for _, trail := range trails {
		for _, p := range trail {
			if x, y, _, ok := cam.Project(sc.Point(p), sw, sh); ok {
				c.Set(x, y)
			}
		}
	}

	markers := make([]Marker, 0, len(snap.Bodies))
	for _, b := range snap.Bodies {
		scene := sc.Point(b.Position)
		x, y, persp, ok := cam.Project(scene, sw, sh)
		if !ok {
			continue
		}
		r := b.Radius.Float() * RadiusMultiplier / sc.Scale * cam.Zoom * persp * pixels(sw, sh)
		c.Disc(x, y, int(math.Min(3, r)))
		markers = append(markers, Marker{Name: b.Name, Col: x / 2, Row: y / 4, Depth: cam.rotate(scene).Z, Body: b})
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].Depth < markers[j].Depth })
	return markers
}
