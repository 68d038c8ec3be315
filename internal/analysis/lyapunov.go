package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Builder returns a fresh copy of the same starting state on every call.
type Builder func() (*sim.Simulation, error)

// LyapunovExponent estimates the largest Lyapunov exponent of a scenario by
// running it beside a copy whose named body starts perturbation meters
// further along x. After each tick the copy is pulled back to the initial
// separation and the log of the growth is accumulated. A positive value
// means nearby starts diverge exponentially.
func LyapunovExponent(build Builder, body string, perturbation float64, steps int) (float64, error) {
	if perturbation <= 0 || steps <= 0 {
		return 0, fmt.Errorf("analysis: perturbation and steps must be positive")
	}
	ref, err := build()
	if err != nil {
		return 0, err
	}
	pert, err := build()
	if err != nil {
		return 0, err
	}

	idx := -1
	for i, b := range pert.Bodies {
		if b.Name == body {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("analysis: no body named %q", body)
	}
	pert.Bodies[idx].Coordinates.X += quantity.Scalar(perturbation)

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		if err := ref.Tick(); err != nil {
			return 0, err
		}
		if err := pert.Tick(); err != nil {
			return 0, err
		}

		sep := separation(ref, pert)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++
		renormalize(ref, pert, d0/sep)
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * ref.Dt.Float()), nil
}

func separation(a, b *sim.Simulation) float64 {
	var sum float64
	for i := range a.Bodies {
		d := a.Bodies[i].Distance(b.Bodies[i].Coordinates).Float()
		sum += d * d
	}
	return math.Sqrt(sum)
}

// renormalize scales the difference between b and a by scale.
func renormalize(a, b *sim.Simulation, scale float64) {
	s := quantity.Scalar(scale)
	for i := range a.Bodies {
		ra, rb := a.Bodies[i], b.Bodies[i]
		rb.Coordinates = ra.Coordinates.Translate(rb.Coordinates.Sub(ra.Coordinates).Scale(s))
		rb.Velocity = ra.Velocity.Add(rb.Velocity.Sub(ra.Velocity).Scale(s))
	}
}
