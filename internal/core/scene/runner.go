package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/zeusync/srtransform/internal/core/observability/log"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/transform"
	"github.com/zeusync/srtransform/pkg/concurrent"
)

// ObjectPass is the apparent geometry of one object.
type ObjectPass struct {
	Name string         `json:"name" yaml:"name"`
	Pass transform.Pass `json:"pass" yaml:"pass"`
}

// Result is one full pass over every object of a scene.
type Result struct {
	State   transform.ObservationState `json:"state" yaml:"state"`
	Objects []ObjectPass               `json:"objects" yaml:"objects"`
}

// Runner recomputes the whole scene from rest-frame geometry for every
// observation state it is given. It keeps no apparent state between runs.
type Runner struct {
	scene       *Scene
	logger      log.Log
	concurrency concurrent.Options
}

func NewRunner(s *Scene, logger log.Log) *Runner {
	return &Runner{
		scene:       s,
		logger:      logger.Named("runner"),
		concurrency: concurrent.Options{Workers: s.Server.Workers},
	}
}

func (r *Runner) Scene() *Scene { return r.scene }

// Run transforms every object for state. The first object that cannot be
// transformed aborts the run.
func (r *Runner) Run(ctx context.Context, state transform.ObservationState) (Result, error) {
	started := time.Now()
	res := Result{State: state, Objects: make([]ObjectPass, 0, len(r.scene.Objects))}

	for _, obj := range r.scene.Objects {
		pl, err := transform.New(obj.Frame(), state,
			transform.WithOrigin(obj.Origin),
			transform.WithConcurrency(r.concurrency))
		if err != nil {
			r.logger.Error("object rejected", log.String("object", obj.Name), log.Error(err))
			return Result{}, fmt.Errorf("object %q: %w", obj.Name, err)
		}

		pass, err := pl.Mesh(ctx, obj.Rest())
		if err != nil {
			r.logger.Error("pass aborted", log.String("object", obj.Name), log.Error(err))
			return Result{}, fmt.Errorf("object %q: %w", obj.Name, err)
		}
		if n := len(pass.Degenerate); n > 0 {
			r.logger.Warn("vertices coincide with observer",
				log.String("object", obj.Name),
				log.Int("count", n),
			)
		}
		res.Objects = append(res.Objects, ObjectPass{Name: obj.Name, Pass: pass})
	}

	r.logger.Debug("pass finished",
		log.Float64("tobs", state.ObservationTime),
		log.Int("objects", len(res.Objects)),
		log.Duration("took", time.Since(started)),
	)
	return res, nil
}
