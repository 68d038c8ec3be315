package scenario

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/units"
)

// block accumulates the properties of one body until the next header or the
// end of input.
type block struct {
	name        string
	line        int
	kind        celestial.Kind
	velocity    quantity.Vector
	coordinates quantity.Point

	mass, radius, density          quantity.Scalar
	hasMass, hasRadius, hasDensity bool
}

func newBlock(name string, line int) *block {
	return &block{
		name:        name,
		line:        line,
		kind:        celestial.RockPlanet,
		velocity:    quantity.Zero,
		coordinates: quantity.Origin,
		mass:        1,
		radius:      1,
	}
}

// set applies one property. An unknown key is reported as not applied; a
// malformed value is returned as an error and leaves the block unchanged.
func (b *block) set(key, value string, c *units.Constants) (bool, error) {
	switch key {
	case "type":
		b.kind = celestial.ParseKind(value)
	case "radius":
		r, err := length(value, c)
		if err != nil {
			return true, err
		}
		b.radius, b.hasRadius = r, true
	case "mass":
		m, err := mass(value, c)
		if err != nil {
			return true, err
		}
		b.mass, b.hasMass = m, true
	case "density":
		d, err := density(value)
		if err != nil {
			return true, err
		}
		b.density, b.hasDensity = d, true
	case "velocity":
		v, err := velocity(value, c)
		if err != nil {
			return true, err
		}
		b.velocity = v
	case "coordinates":
		p, err := coordinates(value, c)
		if err != nil {
			return true, err
		}
		b.coordinates = p
	default:
		return false, nil
	}
	return true, nil
}

// params picks the values handed to the construction policy. Explicit values
// always pass; the default mass and then the default radius fill in until
// two are known. A black hole takes its explicit mass, else its explicit
// radius, else the default mass.
func (b *block) params() celestial.Params {
	var p celestial.Params
	if b.kind == celestial.BlackHole {
		if b.hasRadius && !b.hasMass {
			p.Radius = &b.radius
		} else {
			p.Mass = &b.mass
		}
		return p
	}

	known := 0
	if b.hasMass {
		p.Mass = &b.mass
		known++
	}
	if b.hasRadius {
		p.Radius = &b.radius
		known++
	}
	if b.hasDensity {
		p.Density = &b.density
		known++
	}
	if known < 2 && p.Mass == nil {
		p.Mass = &b.mass
		known++
	}
	if known < 2 && p.Radius == nil {
		p.Radius = &b.radius
	}
	return p
}

func (b *block) build(c *units.Constants) (*celestial.Celestial, error) {
	body, err := celestial.New(b.name, b.kind, b.velocity, b.coordinates, b.params(), c)
	if err != nil {
		return nil, fmt.Errorf("scenario: body %q at line %d: %w", b.name, b.line, err)
	}
	return body, nil
}
