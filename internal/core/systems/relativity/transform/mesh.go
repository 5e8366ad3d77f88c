package transform

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lightcone"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lorentz"
	"github.com/zeusync/srtransform/pkg/concurrent"
)

var ErrStaleBake = errors.New("pass was computed from different rest geometry")

// Pass is the result of transforming every vertex of one object.
type Pass struct {
	State    ObservationState `json:"state" yaml:"state"`
	Vertices []Apparent       `json:"vertices" yaml:"vertices"`

	// Fingerprint of the rest-frame vertices the pass was computed from.
	Fingerprint uint64 `json:"fingerprint" yaml:"fingerprint"`

	// Degenerate lists vertices that coincided with the observer and were
	// replaced by their zero-distance limit.
	Degenerate []int `json:"degenerate,omitempty" yaml:"degenerate,omitempty"`
}

func (p Pass) Positions() []physics.Vector3 {
	out := make([]physics.Vector3, len(p.Vertices))
	for i, a := range p.Vertices {
		out[i] = a.Position
	}
	return out
}

// Mesh transforms all vertices. Lightcone intersections are solved in
// parallel; the emission events are then mapped back to the observer frame
// with a single matrix product. Degenerate vertices are recovered with their
// limit value and reported in Pass.Degenerate; any other error aborts the pass
// and is returned with the failing vertex index.
func (p *Pipeline) Mesh(ctx context.Context, vertices []physics.Vector3) (Pass, error) {
	var (
		mu         sync.Mutex
		degenerate []int
	)
	sols, err := concurrent.Map(ctx, vertices, p.concurrency, func(i int, v physics.Vector3) (lightcone.Solution, error) {
		sol, err := p.solver.Solve(v)
		if errors.Is(err, lightcone.ErrDegenerateGeometry) {
			mu.Lock()
			degenerate = append(degenerate, i)
			mu.Unlock()
			return sol, nil
		}
		if err != nil {
			return lightcone.Solution{}, fmt.Errorf("vertex %d: %w", i, err)
		}
		return sol, nil
	})
	if err != nil {
		return Pass{}, err
	}

	emissions := make([]physics.Event, len(sols))
	for i, sol := range sols {
		emissions[i] = sol.Emission
	}
	seen, err := lorentz.ApplyAll(p.unboost, emissions)
	if err != nil {
		return Pass{}, err
	}

	out := make([]Apparent, len(sols))
	for i, e := range seen {
		e = e.Translate(p.origin)
		if !e.IsFinite() {
			return Pass{}, fmt.Errorf("vertex %d: %w: apparent event %+v", i, lightcone.ErrNonFinite, e)
		}
		out[i] = Apparent{
			Position:           e.Spatial(),
			EmissionTime:       e.T,
			ProperEmissionTime: sols[i].Emission.T,
			Distance:           sols[i].Distance,
		}
	}

	slices.Sort(degenerate)
	return Pass{
		State:       p.state,
		Fingerprint: Fingerprint(vertices),
		Vertices:    out,
		Degenerate:  degenerate,
	}, nil
}

// Bake returns a new slice holding the apparent positions of pass. It is the
// explicit commit step for hosts that want transformed geometry; rest is only
// used to check that pass belongs to it and is never modified.
func Bake(rest []physics.Vector3, pass Pass) ([]physics.Vector3, error) {
	if len(rest) != len(pass.Vertices) || Fingerprint(rest) != pass.Fingerprint {
		return nil, ErrStaleBake
	}
	return pass.Positions(), nil
}
