// Package body implements the point-body model: a mass with velocity and
// position but no extent.
package body

import (
	"errors"
	"fmt"

	"github.com/san-kum/orbitsim/internal/quantity"
)

// ErrDegenerateMass indicates a force/acceleration conversion on a body whose
// mass is not positive.
var ErrDegenerateMass = errors.New("body: mass must be positive")

// PointBody is a body with no volume or surface.
type PointBody struct {
	Mass        quantity.Scalar
	Velocity    quantity.Vector
	Coordinates quantity.Point
	Charge      quantity.Scalar
}

func New(mass quantity.Scalar, velocity quantity.Vector, coordinates quantity.Point) PointBody {
	return PointBody{Mass: mass, Velocity: velocity, Coordinates: coordinates}
}

// Momentum returns m·v.
func (b *PointBody) Momentum() quantity.Vector {
	return b.Velocity.Scale(b.Mass)
}

// KineticEnergy returns ½·m·|v|².
func (b *PointBody) KineticEnergy() quantity.Scalar {
	v := b.Velocity.Magnitude()
	return 0.5 * b.Mass * v * v
}

// PotentialEnergy returns m·h·|g| for a uniform gravity field.
func (b *PointBody) PotentialEnergy(height quantity.Scalar, gravity quantity.Vector) quantity.Scalar {
	return b.Mass * height * gravity.Magnitude()
}

// Acceleration returns the acceleration a force would produce on b.
func (b *PointBody) Acceleration(force quantity.Vector) (quantity.Vector, error) {
	if b.Mass <= 0 {
		return quantity.Zero, fmt.Errorf("%w (mass %g)", ErrDegenerateMass, b.Mass.Float())
	}
	return force.Div(b.Mass), nil
}

// Force returns the force needed to give b the acceleration a.
func (b *PointBody) Force(a quantity.Vector) (quantity.Vector, error) {
	if b.Mass <= 0 {
		return quantity.Zero, fmt.Errorf("%w (mass %g)", ErrDegenerateMass, b.Mass.Float())
	}
	return a.Scale(b.Mass), nil
}

// Distance returns the distance from b to p.
func (b *PointBody) Distance(p quantity.Point) quantity.Scalar {
	return b.Coordinates.Distance(p)
}

// GravitationalForce returns the Newtonian attraction other exerts on b,
// pointing from b toward other. G is the gravitational constant to use.
func (b *PointBody) GravitationalForce(other *PointBody, G quantity.Scalar) (quantity.Vector, error) {
	r := b.Distance(other.Coordinates)
	if r == 0 {
		return quantity.Zero, quantity.ErrZeroSeparation
	}
	magnitude := G * b.Mass * other.Mass / (r * r)
	return quantity.FromMagnitude(magnitude, other.Coordinates, b.Coordinates)
}

// Advance moves b along its current velocity for dt seconds. Velocity is not
// touched.
func (b *PointBody) Advance(dt quantity.Scalar) {
	b.Coordinates = b.Coordinates.Translate(b.Velocity.Scale(dt))
}

func (b PointBody) String() string {
	return fmt.Sprintf("PointBody{mass: %g, velocity: %v, coordinates: %v}", b.Mass.Float(), b.Velocity, b.Coordinates)
}
