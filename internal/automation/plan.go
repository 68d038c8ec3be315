package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
)

// Plan is a list of runs to record.
type Plan struct {
	Name string    `yaml:"name"`
	Runs []RunSpec `yaml:"runs"`
}

// RunSpec names a scenario by preset or file. Zero Steps or SampleEvery
// fall back to the runner's defaults; a positive Dt replaces the scenario's
// time step (seconds).
type RunSpec struct {
	Preset      string  `yaml:"preset"`
	File        string  `yaml:"file"`
	Steps       int     `yaml:"steps"`
	SampleEvery int     `yaml:"sample_every"`
	Dt          float64 `yaml:"dt"`
}

func (r RunSpec) String() string {
	if r.File != "" {
		return r.File
	}
	return "preset:" + r.Preset
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("plan: %s: %w", path, err)
	}
	for i, r := range plan.Runs {
		if (r.Preset == "") == (r.File == "") {
			return nil, fmt.Errorf("plan: %s: run %d: exactly one of preset and file is required", path, i+1)
		}
		if r.Steps < 0 || r.SampleEvery < 0 || r.Dt < 0 {
			return nil, fmt.Errorf("plan: %s: run %d: negative value", path, i+1)
		}
	}
	return &plan, nil
}

// Resolver returns the scenario text of a run and the label recorded as
// its source.
type Resolver func(RunSpec) (text []byte, source string, err error)

// Parser builds a simulation from scenario text.
type Parser func(text []byte) (*sim.Simulation, error)

// Runner records runs concurrently. Every run owns its own simulation.
type Runner struct {
	Resolve     Resolver
	Parse       Parser
	Store       *storage.Store
	Workers     int
	Steps       int
	SampleEvery int
	Log         *zap.Logger
}

// Result is the outcome of one run of a plan.
type Result struct {
	Spec  RunSpec
	RunID string
	Meta  storage.RunMetadata
	Err   error
}

// Run records every run of the plan. A failing run does not stop the
// others; its error is reported in its Result. Only cancellation of ctx
// aborts the plan.
func (r *Runner) Run(ctx context.Context, plan *Plan) ([]Result, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(plan.Runs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rs := range plan.Runs {
		g.Go(func() error {
			res := r.runOne(ctx, rs)
			results[i] = res
			if errors.Is(res.Err, context.Canceled) {
				return res.Err
			}
			if res.Err != nil {
				log.Warn("run failed", zap.Stringer("run", rs), zap.Error(res.Err))
			} else {
				log.Info("run recorded", zap.Stringer("run", rs), zap.String("id", res.RunID))
			}
			return nil
		})
	}
	return results, g.Wait()
}

func (r *Runner) runOne(ctx context.Context, rs RunSpec) Result {
	res := Result{Spec: rs}
	text, source, err := r.Resolve(rs)
	if err != nil {
		res.Err = err
		return res
	}
	s, err := r.Parse(text)
	if err != nil {
		res.Err = err
		return res
	}
	if rs.Dt > 0 {
		s.Dt = quantity.Scalar(rs.Dt)
	}

	steps, every := r.Steps, r.SampleEvery
	if rs.Steps > 0 {
		steps = rs.Steps
	}
	if rs.SampleEvery > 0 {
		every = rs.SampleEvery
	}

	rec, err := Record(ctx, s, steps, every)
	if err != nil {
		res.Err = err
		return res
	}
	rec.Meta.Source = source
	rec.Meta.Checksum = storage.Checksum(text)
	res.Meta = rec.Meta
	res.RunID, res.Err = r.Store.Save(rec.Meta, rec.Trajectory)
	res.Meta.ID = res.RunID
	return res
}
