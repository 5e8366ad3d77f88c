// Package transform computes where vertices of a moving rigid object appear
// to a moving observer at a chosen observation time.
//
// Per vertex: the observer's reference event (t_obs, 0, 0, 0) is boosted into
// the object's rest frame, the backward lightcone is intersected with the
// vertex worldline there, and the emission event is boosted back into the
// observer's frame. Rest-frame input is never modified.
package transform

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lightcone"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lorentz"
	"github.com/zeusync/srtransform/pkg/concurrent"
)

// ObservationState is the observer-side input of one pass. It is frozen for
// the duration of the pass.
type ObservationState struct {
	ObserverVelocity physics.Vector3 `json:"velocity" yaml:"velocity"`
	ObservationTime  float64         `json:"tobs" yaml:"tobs"`
}

func (s ObservationState) Observer() lorentz.Frame {
	return lorentz.Frame{Velocity: s.ObserverVelocity}
}

func (s ObservationState) Validate() error {
	if math.IsNaN(s.ObservationTime) || math.IsInf(s.ObservationTime, 0) {
		return fmt.Errorf("%w: observation time %g", lightcone.ErrNonFinite, s.ObservationTime)
	}
	return s.Observer().Validate()
}

// Apparent is the image of one vertex.
type Apparent struct {
	// Position in the observer's frame.
	Position physics.Vector3 `json:"position" yaml:"position"`
	// EmissionTime is the observer-frame time at which the light left the vertex.
	EmissionTime float64 `json:"emission_time" yaml:"emission_time"`
	// ProperEmissionTime is the same instant in the object's rest frame.
	ProperEmissionTime float64 `json:"proper_emission_time" yaml:"proper_emission_time"`
	// Distance travelled by the light, measured in the object's rest frame.
	Distance float64 `json:"distance" yaml:"distance"`
}

type Option func(*Pipeline)

// WithOrigin places the object frame's spatial origin at o, in observer
// coordinates at observer time zero. The default is the observer's origin.
func WithOrigin(o physics.Vector3) Option {
	return func(p *Pipeline) { p.origin = o }
}

// WithConcurrency sets the fan-out used by Mesh.
func WithConcurrency(opts concurrent.Options) Option {
	return func(p *Pipeline) { p.concurrency = opts }
}

// Pipeline holds everything that is shared by the vertices of one object
// during one pass. It is immutable after New and safe for concurrent use.
type Pipeline struct {
	object      lorentz.Frame
	state       ObservationState
	origin      physics.Vector3
	relative    physics.Vector3
	solver      *lightcone.Solver
	concurrency concurrent.Options
	// unboost maps object rest-frame events back to the observer frame in
	// bulk; Mesh uses it, Apparent uses the vector form.
	unboost     *mat.Dense
}

// New prepares a pass for an object moving with object.Velocity relative to
// the world frame, seen by the observer described by state.
func New(object lorentz.Frame, state ObservationState, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{object: object, state: state}
	for _, opt := range opts {
		opt(p)
	}

	if err := object.Validate(); err != nil {
		return nil, err
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if !p.origin.IsFinite() {
		return nil, fmt.Errorf("%w: object origin %+v", lightcone.ErrNonFinite, p.origin)
	}

	rel, err := object.RelativeTo(state.Observer())
	if err != nil {
		return nil, err
	}
	p.relative = rel

	// The observer sits at its own spatial origin; shift so the object origin
	// becomes the coordinate origin before boosting.
	ref := physics.Event{T: state.ObservationTime}.Translate(p.origin.Neg())
	if p.solver, err = lightcone.NewSolver(rel, ref); err != nil {
		return nil, err
	}
	p.unboost = p.solver.Lorentz().Inverse().Matrix()
	return p, nil
}

// RelativeVelocity is the object's velocity as measured by the observer.
func (p *Pipeline) RelativeVelocity() physics.Vector3 { return p.relative }

// ObserverInObjectFrame returns the reference event in object rest-frame
// coordinates.
func (p *Pipeline) ObserverInObjectFrame() physics.Event { return p.solver.Observer() }

func (p *Pipeline) State() ObservationState { return p.state }

// Apparent transforms a single rest-frame vertex. Errors from the kernel and
// the solver are returned unchanged. For a *lightcone.DegenerateGeometryError
// the returned Apparent holds the zero-distance limit, so callers may use it
// after deciding the error is acceptable.
func (p *Pipeline) Apparent(rest physics.Vector3) (Apparent, error) {
	sol, err := p.solver.Solve(rest)
	if err != nil && !errors.Is(err, lightcone.ErrDegenerateGeometry) {
		return Apparent{}, err
	}

	seen := p.solver.Lorentz().Unboost(sol.Emission).Translate(p.origin)
	if !seen.IsFinite() {
		return Apparent{}, fmt.Errorf("%w: apparent event for vertex %+v", lightcone.ErrNonFinite, rest)
	}
	return Apparent{
		Position:           seen.Spatial(),
		EmissionTime:       seen.T,
		ProperEmissionTime: sol.Emission.T,
		Distance:           sol.Distance,
	}, err
}

// ApparentPosition is the single-vertex entry point for hosts: velocities are
// relative to the world frame and observationTime is in the observer's frame.
//
// A lightcone.ErrDegenerateGeometry error is returned together with the
// zero-distance limit position; every other error returns the zero vector.
func ApparentPosition(rest, objectVelocity, observerVelocity physics.Vector3, observationTime float64) (physics.Vector3, error) {
	p, err := New(lorentz.Frame{Velocity: objectVelocity}, ObservationState{
		ObserverVelocity: observerVelocity,
		ObservationTime:  observationTime,
	})
	if err != nil {
		return physics.Vector3{}, err
	}
	a, err := p.Apparent(rest)
	return a.Position, err
}
