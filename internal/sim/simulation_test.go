package sim

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var consts = units.Default()

func planet(t testing.TB, name string, mass float64, pos quantity.Point, vel quantity.Vector) *celestial.Celestial {
	t.Helper()
	c, err := celestial.New(name, celestial.RockPlanet, vel, pos,
		celestial.Params{Mass: celestial.Value(mass), Radius: celestial.Value(1e6)}, consts)
	require.NoError(t, err)
	return c
}

func symmetricPair(t testing.TB, m, d, v float64) *Simulation {
	a := planet(t, "a", m, quantity.NewPoint(d, 0, 0), quantity.NewVector(0, v, 0))
	b := planet(t, "b", m, quantity.NewPoint(-d, 0, 0), quantity.NewVector(0, -v, 0))
	return New("pair", 60, []*celestial.Celestial{a, b}, consts)
}

func TestTwoBodyMidpointStaysAtOrigin(t *testing.T) {
	s := symmetricPair(t, 6e24, 4e7, 2500)

	for i := 0; i < 2000; i++ {
		require.NoError(t, s.Tick())
		if i%100 == 0 {
			mid := s.Bodies[0].Coordinates.Midpoint(s.Bodies[1].Coordinates)
			assert.True(t, mid.ApproxEqual(quantity.Origin, 1e-6), "tick %d midpoint %v", i, mid)
		}
	}
	assert.NotEqual(t, quantity.NewPoint(4e7, 0, 0), s.Bodies[0].Coordinates)
}

func TestTickUsesVelocityFromBeforeTheTick(t *testing.T) {
	s := symmetricPair(t, 6e24, 4e7, 2500)
	a := s.Bodies[0]
	p0, v0 := a.Coordinates, a.Velocity

	f, err := a.GravitationalForce(&s.Bodies[1].PointBody, quantity.Scalar(consts.G))
	require.NoError(t, err)
	acc, err := a.Acceleration(f)
	require.NoError(t, err)

	require.NoError(t, s.Tick())

	assert.Equal(t, p0.Translate(v0.Scale(60)), a.Coordinates)
	assert.Equal(t, v0.Add(acc.Scale(60)), a.Velocity)
}

func TestElapsedTimeAdvancesByDt(t *testing.T) {
	s := symmetricPair(t, 1e20, 1e9, 0)
	s.Dt = units.Hour

	for i := 1; i <= 24; i++ {
		require.NoError(t, s.Tick())
		assert.Equal(t, float64(i)*units.Hour, s.Elapsed.Float())
		assert.Equal(t, i, s.Steps())
	}
}

func TestTickZeroSeparationLeavesStateUnchanged(t *testing.T) {
	s := New("clash", 10, []*celestial.Celestial{
		planet(t, "free", 1e20, quantity.NewPoint(5e8, 0, 0), quantity.NewVector(0, 100, 0)),
		planet(t, "left", 1e20, quantity.NewPoint(1, 2, 3), quantity.NewVector(1, 0, 0)),
		planet(t, "right", 1e20, quantity.NewPoint(1, 2, 3), quantity.NewVector(-1, 0, 0)),
	}, consts)
	before := s.Snapshot()

	err := s.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, quantity.ErrZeroSeparation)

	var te *TickError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "left", te.Body)
	assert.Equal(t, "right", te.Other)
	assert.Equal(t, 0, te.Step)

	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, s.Elapsed.Float())
}

func TestTickDegenerateMass(t *testing.T) {
	ghost := planet(t, "ghost", 1, quantity.NewPoint(1e6, 0, 0), quantity.Zero)
	ghost.Mass = 0
	s := New("ghost", 1, []*celestial.Celestial{
		planet(t, "host", 1e24, quantity.Origin, quantity.Zero),
		ghost,
	}, consts)
	before := s.Snapshot()

	err := s.Tick()
	assert.ErrorIs(t, err, body.ErrDegenerateMass)
	assert.Equal(t, before, s.Snapshot())
}

func TestTickSingleBodyDrifts(t *testing.T) {
	s := New("alone", 2, []*celestial.Celestial{
		planet(t, "probe", 1, quantity.Origin, quantity.NewVector(3, 0, 0)),
	}, consts)

	require.NoError(t, s.Tick())
	assert.Equal(t, quantity.NewPoint(6, 0, 0), s.Bodies[0].Coordinates)
	assert.Equal(t, quantity.NewVector(3, 0, 0), s.Bodies[0].Velocity)
}

func TestRunNotifiesObservers(t *testing.T) {
	s := symmetricPair(t, 6e24, 4e7, 2500)
	var seen []int
	obs := ObserverFunc(func(snap Snapshot) { seen = append(seen, snap.Step) })

	require.NoError(t, s.Run(context.Background(), 5, obs))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
	assert.Equal(t, 300.0, s.Elapsed.Float())
}

func TestRunCanceled(t *testing.T) {
	s := symmetricPair(t, 6e24, 4e7, 2500)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Steps())
}

func TestRunStopsOnTickError(t *testing.T) {
	s := New("clash", 1, []*celestial.Celestial{
		planet(t, "a", 1, quantity.Origin, quantity.Zero),
		planet(t, "b", 1, quantity.Origin, quantity.Zero),
	}, consts)
	calls := 0

	err := s.Run(context.Background(), 3, ObserverFunc(func(Snapshot) { calls++ }))
	assert.ErrorIs(t, err, quantity.ErrZeroSeparation)
	assert.Zero(t, calls)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := symmetricPair(t, 6e24, 4e7, 2500)
	snap := s.Snapshot()
	snap.Bodies[0].Position = quantity.NewPoint(9, 9, 9)

	assert.Equal(t, quantity.NewPoint(4e7, 0, 0), s.Bodies[0].Coordinates)
	assert.Equal(t, "pair", snap.Name)
	assert.InDelta(t, 4e7, snap.Extent(), 1e-6)

	b, ok := snap.Find("b")
	require.True(t, ok)
	assert.Equal(t, celestial.RockPlanet, b.Kind)
	_, ok = snap.Find("c")
	assert.False(t, ok)
}

func BenchmarkTick(b *testing.B) {
	for _, n := range []int{2, 10, 50} {
		b.Run(fmt.Sprintf("bodies=%d", n), func(b *testing.B) {
			bodies := make([]*celestial.Celestial, n)
			for i := range bodies {
				bodies[i] = planet(b, fmt.Sprintf("p%d", i), 1e22,
					quantity.NewPoint(float64(i+1)*1e8, float64(i%3)*1e7, 0),
					quantity.NewVector(0, 1e3, 0))
			}
			s := New("bench", 60, bodies, consts)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := s.Tick(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
