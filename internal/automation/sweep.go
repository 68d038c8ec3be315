package automation

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
)

// SweepResult is one time step of a sweep.
type SweepResult struct {
	Dt          float64
	Steps       int
	EnergyDrift float64
	// Offset is how far the tracked body ended from where the finest time
	// step put it, in meters.
	Offset float64
	Err    error
}

// DtSweep runs the same scenario over the same simulated duration with each
// time step, to show how the result converges as dt shrinks.
func DtSweep(ctx context.Context, build func() (*sim.Simulation, error), body string, duration float64, dts []float64) ([]SweepResult, error) {
	if duration <= 0 || len(dts) == 0 {
		return nil, fmt.Errorf("automation: sweep needs a positive duration and at least one dt")
	}
	for _, dt := range dts {
		if dt <= 0 {
			return nil, fmt.Errorf("automation: dt must be positive, got %g", dt)
		}
	}

	results := make([]SweepResult, len(dts))
	finals := make([]quantity.Point, len(dts))
	g, ctx := errgroup.WithContext(ctx)
	for i, dt := range dts {
		g.Go(func() error {
			s, err := build()
			if err != nil {
				return err
			}
			s.Dt = quantity.Scalar(dt)
			steps := int(math.Round(duration / dt))
			drift := metrics.NewEnergyDrift(s.Constants().G)
			drift.OnTick(s.Snapshot())

			results[i] = SweepResult{Dt: dt, Steps: steps}
			if err := s.Run(ctx, steps, drift); err != nil {
				if ctx.Err() != nil {
					return err
				}
				results[i].Err = err
				return nil
			}
			results[i].EnergyDrift = drift.Value()
			final, ok := s.Snapshot().Find(body)
			if !ok {
				return fmt.Errorf("automation: no body %q", body)
			}
			finals[i] = final.Position
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ref := -1
	for i := range results {
		if results[i].Err == nil && (ref < 0 || results[i].Dt < results[ref].Dt) {
			ref = i
		}
	}
	for i := range results {
		if ref >= 0 && results[i].Err == nil {
			results[i].Offset = finals[i].Distance(finals[ref]).Float()
		}
	}
	return results, nil
}
