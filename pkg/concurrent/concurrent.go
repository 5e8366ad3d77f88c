package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Options controls how a slice is fanned out over goroutines.
type Options struct {
	// Workers caps the number of goroutines. Zero means GOMAXPROCS.
	Workers int
	// BatchSize is the number of elements handled per goroutine. Zero picks a
	// size that gives each worker a few batches.
	BatchSize int
}

func (o Options) normalize(n int) Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = max(n/(o.Workers*4), 1)
	}
	return o
}

// Map applies mapFn to every element of in, in parallel, preserving order.
// It stops scheduling new batches after the first error or when ctx is done,
// and returns that error.
func Map[T any, R any](ctx context.Context, in []T, opts Options, mapFn func(int, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	err := ForEach(ctx, in, opts, func(i int, v T) error {
		r, err := mapFn(i, v)
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ForEach runs action for every element of in using batched goroutines. It
// waits for all started batches and returns the first error encountered.
func ForEach[T any](ctx context.Context, in []T, opts Options, action func(int, T) error) error {
	if len(in) == 0 {
		return ctx.Err()
	}
	opts = opts.normalize(len(in))

	errGroup, groupCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(opts.Workers)

	for start := 0; start < len(in); start += opts.BatchSize {
		if groupCtx.Err() != nil {
			break
		}
		end := min(start+opts.BatchSize, len(in))
		errGroup.Go(func() error {
			for i := start; i < end; i++ {
				if err := groupCtx.Err(); err != nil {
					return err
				}
				if err := action(i, in[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
