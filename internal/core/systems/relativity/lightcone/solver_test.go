package lightcone

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lorentz"
)

func TestEmissionAtRest(t *testing.T) {
	e, err := Emission(physics.Vec3(3, 4, 0), physics.Event{T: 10})
	require.NoError(t, err)
	assert.Equal(t, physics.Event{T: 5, X: 3, Y: 4}, e)
}

func TestEmissionOnBackwardLightcone(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := physics.Vec3(r.Float64()*20-10, r.Float64()*20-10, r.Float64()*20-10)
		obs := physics.Event{T: r.Float64()*100 - 50, X: r.Float64() - 0.5, Y: r.Float64() - 0.5, Z: r.Float64() - 0.5}

		e, err := Emission(p, obs)
		require.NoError(t, err)
		assert.Equal(t, p, e.Spatial(), "vertex stays on its worldline")
		assert.LessOrEqual(t, e.T, obs.T)
		assert.InDelta(t, p.Distance(obs.Spatial()), obs.T-e.T, 1e-9)
	}
}

func TestSolveMovingObject(t *testing.T) {
	sol, err := Solve(physics.Zero, physics.Vec3(0.6, 0, 0), physics.Event{T: 10})
	require.NoError(t, err)

	assert.InDelta(t, 12.5, sol.ObserverInObject.T, 1e-12)
	assert.InDelta(t, -7.5, sol.ObserverInObject.X, 1e-12)
	assert.InDelta(t, 7.5, sol.Distance, 1e-12)
	assert.InDelta(t, 5, sol.Emission.T, 1e-12)
	assert.Equal(t, physics.Zero, sol.Emission.Spatial())
}

func TestSolverReusesObserverEvent(t *testing.T) {
	rel := physics.Vec3(0.2, -0.5, 0.3)
	s, err := NewSolver(rel, physics.Event{T: 4})
	require.NoError(t, err)

	want, err := lorentz.Boost(physics.Event{T: 4}, rel)
	require.NoError(t, err)
	assert.True(t, s.Observer().ApproxEqual(want, 1e-12))
	assert.Equal(t, rel, s.Lorentz().Velocity())

	for _, p := range []physics.Vector3{physics.Vec3(1, 0, 0), physics.Vec3(-3, 2, 8)} {
		a, err := s.Solve(p)
		require.NoError(t, err)
		assert.Equal(t, s.Observer(), a.ObserverInObject)
		b, err := Solve(p, rel, physics.Event{T: 4})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDegenerateGeometry(t *testing.T) {
	p := physics.Vec3(1, 2, 3)
	obs := physics.NewEvent(7, p)

	e, err := Emission(p, obs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateGeometry))
	assert.False(t, errors.Is(err, lorentz.ErrDomain))

	var de *DegenerateGeometryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, obs, de.Limit)
	assert.Equal(t, p, de.Vertex)
	assert.Equal(t, obs, e)

	sol, err := Solve(physics.Zero, physics.Zero, physics.Event{})
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
	assert.Equal(t, physics.Event{}, sol.Emission)
	assert.Zero(t, sol.Distance)
}

func TestNonFinite(t *testing.T) {
	_, err := Emission(physics.Vec3(math.NaN(), 0, 0), physics.Event{T: 1})
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.NotErrorIs(t, err, ErrDegenerateGeometry)

	_, err = Emission(physics.Vec3(1, 0, 0), physics.Event{T: math.Inf(1)})
	assert.ErrorIs(t, err, ErrNonFinite)

	// Finite inputs whose separation overflows.
	_, err = Emission(physics.Vec3(1.7e308, 0, 0), physics.Event{X: -1.7e308})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestSolveRejectsSuperluminal(t *testing.T) {
	_, err := Solve(physics.Vec3(1, 0, 0), physics.Vec3(0, 1, 0), physics.Event{T: 1})
	assert.ErrorIs(t, err, lorentz.ErrDomain)

	s, err := NewSolver(physics.Vec3(0.7, 0.7, 0.2), physics.Event{})
	assert.ErrorIs(t, err, lorentz.ErrDomain)
	assert.Nil(t, s)
}

func TestEmissionTimeTracksObservationTime(t *testing.T) {
	p := physics.Vec3(2, -1, 5)

	// Without relative motion t_emit shifts one-for-one with t_obs.
	prev, err := Solve(p, physics.Zero, physics.Event{T: 0})
	require.NoError(t, err)
	for tObs := 0.5; tObs <= 20; tObs += 0.5 {
		sol, err := Solve(p, physics.Zero, physics.Event{T: tObs})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, sol.Emission.T-prev.Emission.T, 1e-12)
		prev = sol
	}

	// With relative motion it still strictly increases.
	rel := physics.Vec3(-0.8, 0.1, 0)
	prev, err = Solve(p, rel, physics.Event{T: -10})
	require.NoError(t, err)
	for tObs := -9.0; tObs <= 20; tObs++ {
		sol, err := Solve(p, rel, physics.Event{T: tObs})
		require.NoError(t, err)
		assert.Greater(t, sol.Emission.T, prev.Emission.T)
		prev = sol
	}
}
