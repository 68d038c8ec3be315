package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
)

// TotalMomentum sums m·v over all bodies.
func TotalMomentum(s sim.Snapshot) quantity.Vector {
	p := quantity.Zero
	for _, b := range s.Bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

// Momentum reports the largest magnitude of total momentum seen. With no
// external forces it stays at its initial value.
type Momentum struct {
	name string
	max  float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) OnTick(s sim.Snapshot) {
	m.max = math.Max(m.max, TotalMomentum(s).Magnitude().Float())
}

func (m *Momentum) Value() float64 { return m.max }
func (m *Momentum) Reset()         { m.max = 0 }
