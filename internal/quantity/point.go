package quantity

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a position in space.
type Point struct {
	X Scalar `json:"x"`
	Y Scalar `json:"y"`
	Z Scalar `json:"z"`
}

// Origin is the zero point of the simulation.
var Origin = Point{}

func NewPoint(x, y, z float64) Point {
	return Point{Scalar(x), Scalar(y), Scalar(z)}
}

// R3 converts p to a gonum vector.
func (p Point) R3() r3.Vec {
	return r3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) Scalar {
	return Scalar(r3.Norm(r3.Sub(p.R3(), o.R3())))
}

// Sub returns the displacement from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

// Translate moves p by v.
func (p Point) Translate(v Vector) Point {
	return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Midpoint returns the point halfway between p and o.
func (p Point) Midpoint(o Point) Point {
	return Point{(p.X + o.X) / 2, (p.Y + o.Y) / 2, (p.Z + o.Z) / 2}
}

// Vector returns the position vector of p.
func (p Point) Vector() Vector {
	return Vector{p.X, p.Y, p.Z}
}

func (p Point) ApproxEqual(o Point, tol float64) bool {
	return p.X.ApproxEqual(o.X, tol) && p.Y.ApproxEqual(o.Y, tol) && p.Z.ApproxEqual(o.Z, tol)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", float64(p.X), float64(p.Y), float64(p.Z))
}
