// Package lightcone intersects the backward lightcone of an observation
// event with the worldline of a vertex at rest in its object's frame.
//
// In the object's rest frame the worldline is the vertical line {(t, p)}, so
// the intersection reduces to t_emit = t_o - |p - x_o|; no root finding is
// needed.
package lightcone

import (
	"fmt"
	"math"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lorentz"
)

// Solution describes one lightcone intersection. All events are expressed in
// the object's rest frame.
type Solution struct {
	ObserverInObject physics.Event
	Emission         physics.Event
	Distance         float64
}

// Emission returns the event on the worldline of p that lies on the backward
// lightcone of observer. Both arguments are object rest-frame coordinates.
func Emission(p physics.Vector3, observer physics.Event) (physics.Event, error) {
	if !p.IsFinite() {
		return physics.Event{}, fmt.Errorf("%w: vertex %+v", ErrNonFinite, p)
	}
	if !observer.IsFinite() {
		return physics.Event{}, fmt.Errorf("%w: observer event %+v", ErrNonFinite, observer)
	}

	d := p.Distance(observer.Spatial())
	if d == 0 {
		limit := physics.NewEvent(observer.T, p)
		return limit, &DegenerateGeometryError{Vertex: p, Limit: limit}
	}

	t := observer.T - d
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return physics.Event{}, fmt.Errorf("%w: emission time for vertex %+v", ErrNonFinite, p)
	}
	return physics.NewEvent(t, p), nil
}

// Solver holds an observer event already moved into one object's rest frame,
// so a whole mesh can be solved against it.
type Solver struct {
	boost    lorentz.Lorentz
	observer physics.Event
}

// NewSolver boosts observer, given in the observer's own frame, into the rest
// frame of an object moving with relVelocity relative to the observer.
func NewSolver(relVelocity physics.Vector3, observer physics.Event) (*Solver, error) {
	l, err := lorentz.New(relVelocity)
	if err != nil {
		return nil, err
	}
	return &Solver{boost: l, observer: l.Boost(observer)}, nil
}

// Observer returns the observation event in object rest-frame coordinates.
func (s *Solver) Observer() physics.Event { return s.observer }

func (s *Solver) Lorentz() lorentz.Lorentz { return s.boost }

// Solve intersects the lightcone with the worldline of rest position p. On a
// *DegenerateGeometryError the returned Solution carries the limit event.
func (s *Solver) Solve(p physics.Vector3) (Solution, error) {
	e, err := Emission(p, s.observer)
	return Solution{ObserverInObject: s.observer, Emission: e, Distance: p.Distance(s.observer.Spatial())}, err
}

// Solve is the one-shot form of NewSolver(...).Solve(p).
func Solve(p, relVelocity physics.Vector3, observer physics.Event) (Solution, error) {
	s, err := NewSolver(relVelocity, observer)
	if err != nil {
		return Solution{}, err
	}
	return s.Solve(p)
}
