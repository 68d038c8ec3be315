// Package sim advances a set of celestial bodies under mutual Newtonian
// gravity with a fixed time step.
package sim

import (
	"context"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/units"
)

const (
	DefaultName = "Astronomical Simulation"
	DefaultDt   = units.Hour
)

// Simulation owns an ordered set of bodies. It is not safe for concurrent
// use; readers take a Snapshot between ticks.
type Simulation struct {
	Name    string
	Dt      quantity.Scalar
	Elapsed quantity.Scalar
	Bodies  []*celestial.Celestial

	consts *units.Constants
	steps  int
	accel  []quantity.Vector
}

func New(name string, dt quantity.Scalar, bodies []*celestial.Celestial, c *units.Constants) *Simulation {
	return &Simulation{
		Name:   name,
		Dt:     dt,
		Bodies: bodies,
		consts: c,
	}
}

func (s *Simulation) Add(c *celestial.Celestial)  { s.Bodies = append(s.Bodies, c) }
func (s *Simulation) Constants() *units.Constants { return s.consts }
func (s *Simulation) Steps() int                  { return s.steps }

// Tick advances every body by one time step. Forces are summed over every
// ordered pair, positions move with the velocities from before the tick, and
// velocities are updated afterwards. If any force or acceleration cannot be
// computed the tick is abandoned before any body is touched.
func (s *Simulation) Tick() error {
	G := quantity.Scalar(s.consts.G)
	if cap(s.accel) < len(s.Bodies) {
		s.accel = make([]quantity.Vector, len(s.Bodies))
	}
	s.accel = s.accel[:len(s.Bodies)]

	for i, a := range s.Bodies {
		force := quantity.Zero
		for j, b := range s.Bodies {
			if i == j {
				continue
			}
			f, err := a.GravitationalForce(&b.PointBody, G)
			if err != nil {
				return s.fail(a, b, err)
			}
			force = force.Add(f)
		}
		acc, err := a.Acceleration(force)
		if err != nil {
			return s.fail(a, nil, err)
		}
		s.accel[i] = acc
	}

	for _, b := range s.Bodies {
		b.Advance(s.Dt)
	}
	for i, b := range s.Bodies {
		b.Velocity = b.Velocity.Add(s.accel[i].Scale(s.Dt))
	}

	s.Elapsed += s.Dt
	s.steps++
	return nil
}

func (s *Simulation) fail(a, b *celestial.Celestial, err error) error {
	te := &TickError{Step: s.steps, Time: s.Elapsed.Float(), Body: a.Name, Wrapped: err}
	if b != nil {
		te.Other = b.Name
	}
	return te
}

// Run ticks steps times, checking ctx between ticks and notifying observers
// after each one. It stops at the first failed tick.
func (s *Simulation) Run(ctx context.Context, steps int, observers ...Observer) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.Tick(); err != nil {
			return err
		}

		if len(observers) == 0 {
			continue
		}
		snap := s.Snapshot()
		for _, o := range observers {
			o.OnTick(snap)
		}
	}
	return nil
}

// Snapshot copies the current state of every body.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Name:   s.Name,
		Time:   s.Elapsed.Float(),
		Step:   s.steps,
		Bodies: make([]BodyState, len(s.Bodies)),
	}
	for i, b := range s.Bodies {
		snap.Bodies[i] = BodyState{
			Name:     b.Name,
			Kind:     b.Kind,
			Position: b.Coordinates,
			Velocity: b.Velocity,
			Mass:     b.Mass,
			Radius:   b.Radius,
			Hint:     b.Hint(s.consts),
		}
	}
	return snap
}
