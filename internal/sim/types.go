package sim

import (
	"math"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
)

// Observer is notified after every successful tick.
type Observer interface {
	OnTick(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }

// BodyState is the read-only view of one body between ticks.
type BodyState struct {
	Name     string          `json:"name"`
	Kind     celestial.Kind  `json:"kind"`
	Position quantity.Point  `json:"position"`
	Velocity quantity.Vector `json:"velocity"`
	Mass     quantity.Scalar `json:"mass"`
	Radius   quantity.Scalar `json:"radius"`
	Hint     celestial.Hint  `json:"hint"`
}

// Snapshot is a copy of the simulation state. It shares no memory with the
// simulation and may be handed to another goroutine.
type Snapshot struct {
	Name   string      `json:"name"`
	Time   float64     `json:"time"`
	Step   int         `json:"step"`
	Bodies []BodyState `json:"bodies"`
}

// Extent returns the largest distance of any body from the origin.
func (s Snapshot) Extent() float64 {
	var extent float64
	for _, b := range s.Bodies {
		extent = math.Max(extent, b.Position.Distance(quantity.Origin).Float())
	}
	return extent
}

// Find returns the state of the named body.
func (s Snapshot) Find(name string) (BodyState, bool) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyState{}, false
}
