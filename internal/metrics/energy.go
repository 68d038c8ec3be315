package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/sim"
)

// Kinetic returns the total kinetic energy of all bodies.
func Kinetic(s sim.Snapshot) float64 {
	var e float64
	for _, b := range s.Bodies {
		v := b.Velocity.Magnitude().Float()
		e += 0.5 * b.Mass.Float() * v * v
	}
	return e
}

// Potential returns the gravitational potential energy summed over each
// unordered pair. Coincident pairs are skipped.
func Potential(s sim.Snapshot, G float64) float64 {
	var e float64
	for i := range s.Bodies {
		for j := i + 1; j < len(s.Bodies); j++ {
			a, b := s.Bodies[i], s.Bodies[j]
			r := a.Position.Distance(b.Position).Float()
			if r == 0 {
				continue
			}
			e -= G * a.Mass.Float() * b.Mass.Float() / r
		}
	}
	return e
}

func Total(s sim.Snapshot, G float64) float64 {
	return Kinetic(s) + Potential(s, G)
}

// Energy tracks the mean total energy over the observed ticks.
type Energy struct {
	name        string
	g           float64
	samples     int
	totalEnergy float64
	last        float64
}

func NewEnergy(G float64) *Energy {
	return &Energy{
		name: "energy",
		g:    G,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnTick(s sim.Snapshot) {
	e.last = Total(s, e.g)
	e.totalEnergy += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last returns the total energy at the most recent tick.
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.last = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure from the energy at the
// first observed tick.
type EnergyDrift struct {
	name          string
	g             float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(G float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    G,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnTick(s sim.Snapshot) {
	energy := Total(s, e.g)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
