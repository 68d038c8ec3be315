package quantity

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector is a three component directed quantity.
type Vector struct {
	X Scalar `json:"x"`
	Y Scalar `json:"y"`
	Z Scalar `json:"z"`
}

// Zero is the null vector.
var Zero = Vector{}

func NewVector(x, y, z float64) Vector {
	return Vector{Scalar(x), Scalar(y), Scalar(z)}
}

func fromR3(v r3.Vec) Vector { return NewVector(v.X, v.Y, v.Z) }

// R3 converts v to a gonum vector.
func (v Vector) R3() r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func (v Vector) Add(o Vector) Vector   { return fromR3(r3.Add(v.R3(), o.R3())) }
func (v Vector) Sub(o Vector) Vector   { return fromR3(r3.Sub(v.R3(), o.R3())) }
func (v Vector) Scale(s Scalar) Vector { return fromR3(r3.Scale(float64(s), v.R3())) }
func (v Vector) Neg() Vector           { return v.Scale(-1) }
func (v Vector) Dot(o Vector) Scalar   { return Scalar(r3.Dot(v.R3(), o.R3())) }
func (v Vector) IsZero() bool          { return v == Zero }

// Div divides every component by s.
func (v Vector) Div(s Scalar) Vector {
	return Vector{v.X / s, v.Y / s, v.Z / s}
}

// Magnitude returns the Euclidean norm.
func (v Vector) Magnitude() Scalar {
	return Scalar(r3.Norm(v.R3()))
}

// Point returns the end point of v when anchored at the origin.
func (v Vector) Point() Point {
	return Point{v.X, v.Y, v.Z}
}

// ApproxEqual compares component-wise within tol.
func (v Vector) ApproxEqual(o Vector, tol float64) bool {
	return v.X.ApproxEqual(o.X, tol) && v.Y.ApproxEqual(o.Y, tol) && v.Z.ApproxEqual(o.Z, tol)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g, %g)", float64(v.X), float64(v.Y), float64(v.Z))
}

// FromMagnitude returns the vector of length magnitude pointing from origin
// toward target. Coincident points have no direction and yield
// ErrZeroSeparation.
func FromMagnitude(magnitude Scalar, target, origin Point) (Vector, error) {
	d := target.Sub(origin)
	dist := d.Magnitude()
	if dist == 0 {
		return Zero, ErrZeroSeparation
	}
	return d.Scale(magnitude / dist), nil
}
