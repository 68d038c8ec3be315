// Package celestial builds named bodies with a physical extent on top of
// [body.PointBody] and resolves their mass, radius and density from partial
// input.
package celestial

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/units"
)

// ErrInsufficientParameters indicates a body was described with too few of
// mass, radius and density to resolve the rest.
var ErrInsufficientParameters = errors.New("celestial: need two of mass, radius, density (or mass or radius for a black hole)")

// Params carries the optional physical parameters of a body. Nil means not
// given.
type Params struct {
	Mass    *quantity.Scalar
	Radius  *quantity.Scalar
	Density *quantity.Scalar
}

// Value returns a pointer to v, for filling Params.
func Value(v float64) *quantity.Scalar {
	s := quantity.Scalar(v)
	return &s
}

// Celestial is a point body with a name, a kind and a size.
type Celestial struct {
	body.PointBody

	Name    string
	Kind    Kind
	Radius  quantity.Scalar
	Density quantity.Scalar
}

// New resolves the missing parameters and returns the body. Rules are tried
// in order, first match wins:
//
//  1. black hole with mass: Schwarzschild radius, infinite density
//  2. black hole with radius: Schwarzschild mass, infinite density
//  3. mass and radius: density = mass / radius
//  4. mass and density: radius = mass / density
//  5. radius and density: mass = radius * density
//
// Density here is mass per unit radius, not per unit volume.
func New(name string, kind Kind, velocity quantity.Vector, coordinates quantity.Point, p Params, c *units.Constants) (*Celestial, error) {
	var mass, radius, density quantity.Scalar

	switch {
	case kind == BlackHole && p.Mass != nil:
		mass = *p.Mass
		radius = quantity.Scalar(c.SchwarzschildRadius(mass.Float()))
		density = quantity.Scalar(math.Inf(1))
	case kind == BlackHole && p.Radius != nil:
		radius = *p.Radius
		mass = quantity.Scalar(c.SchwarzschildMass(radius.Float()))
		density = quantity.Scalar(math.Inf(1))
	case p.Mass != nil && p.Radius != nil:
		mass, radius = *p.Mass, *p.Radius
		density = mass / radius
	case p.Mass != nil && p.Density != nil:
		mass, density = *p.Mass, *p.Density
		radius = mass / density
	case p.Radius != nil && p.Density != nil:
		radius, density = *p.Radius, *p.Density
		mass = radius * density
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrInsufficientParameters, name, kind)
	}

	return &Celestial{
		PointBody: body.New(mass, velocity, coordinates),
		Name:      name,
		Kind:      kind,
		Radius:    radius,
		Density:   density,
	}, nil
}

// SurfaceAcceleration returns the gravitational acceleration at the surface,
// pointing down the Y axis.
func (c *Celestial) SurfaceAcceleration(consts *units.Constants) quantity.Vector {
	g := quantity.Scalar(consts.G) * c.Mass / (c.Radius * c.Radius)
	return quantity.NewVector(0, -g.Float(), 0)
}

// SchwarzschildRadius returns the radius at which the body's mass would form
// an event horizon.
func (c *Celestial) SchwarzschildRadius(consts *units.Constants) quantity.Scalar {
	return quantity.Scalar(consts.SchwarzschildRadius(c.Mass.Float()))
}

func (c *Celestial) String() string {
	return fmt.Sprintf("%s{kind: %s, mass: %g, radius: %g, density: %g, velocity: %v, coordinates: %v}",
		c.Name, c.Kind, c.Mass.Float(), c.Radius.Float(), c.Density.Float(), c.Velocity, c.Coordinates)
}
