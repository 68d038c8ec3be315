// Package automation runs scenarios without a user in the loop: single
// recorded runs, yaml batch plans and time-step sweeps.
package automation

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
)

// EscapeFactor marks a run unstable once any body is this many times
// farther from the origin than the farthest body started.
const EscapeFactor = 100

// Recording is a finished (or interrupted) run ready to be saved.
type Recording struct {
	Meta       storage.RunMetadata
	Trajectory *storage.Trajectory
	Elapsed    time.Duration
}

// Record runs s for steps ticks, sampling every Nth tick plus the initial
// state, and evaluates the standard metrics. When ctx is cancelled the
// partial recording is returned together with the context error. A tick
// error returns no recording.
func Record(ctx context.Context, s *sim.Simulation, steps, every int) (*Recording, error) {
	initial := s.Snapshot()
	G := s.Constants().G

	rec := storage.NewRecorder(every)
	ms := []metrics.Metric{
		metrics.NewEnergy(G),
		metrics.NewEnergyDrift(G),
		metrics.NewMomentum(),
		metrics.NewStability(math.Max(initial.Extent(), 1) * EscapeFactor),
	}
	observers := []sim.Observer{rec}
	rec.Record(initial)
	for _, m := range ms {
		m.OnTick(initial)
		observers = append(observers, m)
	}

	start := time.Now()
	runErr := s.Run(ctx, steps, observers...)
	if runErr != nil && ctx.Err() == nil {
		return nil, runErr
	}

	final := s.Snapshot()
	hints := make([]celestial.Hint, len(final.Bodies))
	for i, b := range final.Bodies {
		hints[i] = b.Hint
	}
	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}

	return &Recording{
		Meta: storage.RunMetadata{
			Scenario:    s.Name,
			Dt:          s.Dt.Float(),
			Steps:       s.Steps(),
			SampleEvery: every,
			Hints:       hints,
			Metrics:     values,
		},
		Trajectory: rec.Trajectory(),
		Elapsed:    time.Since(start),
	}, runErr
}
