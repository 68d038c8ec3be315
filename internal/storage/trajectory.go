package storage

import (
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Sample is the state of every body at one recorded tick. Positions and
// Velocities are indexed like Trajectory.Bodies.
type Sample struct {
	Step       int               `json:"step"`
	Time       float64           `json:"time"`
	Positions  []quantity.Point  `json:"positions"`
	Velocities []quantity.Vector `json:"velocities"`
}

// Trajectory is a recorded run.
type Trajectory struct {
	Bodies  []string `json:"bodies"`
	Samples []Sample `json:"samples"`
}

func (t *Trajectory) index(name string) int {
	for i, b := range t.Bodies {
		if b == name {
			return i
		}
	}
	return -1
}

// Track returns the recorded positions of the first body called name.
func (t *Trajectory) Track(name string) []quantity.Point {
	return t.TrackAt(t.index(name))
}

// TrackAt returns the recorded positions of the i-th body.
func (t *Trajectory) TrackAt(i int) []quantity.Point {
	if i < 0 || i >= len(t.Bodies) {
		return nil
	}
	out := make([]quantity.Point, len(t.Samples))
	for j, s := range t.Samples {
		out[j] = s.Positions[i]
	}
	return out
}

// Times returns the simulated time of every sample.
func (t *Trajectory) Times() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Time
	}
	return out
}

// Recorder is an observer that samples the simulation every N ticks.
type Recorder struct {
	every int
	tr    Trajectory
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

// Record stores snap unconditionally. Use it for the initial state.
func (r *Recorder) Record(snap sim.Snapshot) {
	if r.tr.Bodies == nil {
		r.tr.Bodies = make([]string, len(snap.Bodies))
		for i, b := range snap.Bodies {
			r.tr.Bodies[i] = b.Name
		}
	}
	s := Sample{
		Step:       snap.Step,
		Time:       snap.Time,
		Positions:  make([]quantity.Point, len(snap.Bodies)),
		Velocities: make([]quantity.Vector, len(snap.Bodies)),
	}
	for i, b := range snap.Bodies {
		s.Positions[i] = b.Position
		s.Velocities[i] = b.Velocity
	}
	r.tr.Samples = append(r.tr.Samples, s)
}

func (r *Recorder) OnTick(snap sim.Snapshot) {
	if snap.Step%r.every == 0 {
		r.Record(snap)
	}
}

func (r *Recorder) Trajectory() *Trajectory { return &r.tr }
