// Package metrics observes a running simulation: conserved quantities,
// boundedness, and prometheus instrumentation.
package metrics

import "github.com/san-kum/orbitsim/internal/sim"

// Metric is an observer that reduces the run to a single number.
type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	Reset()
}
