package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	in := make([]int, 1000)
	for i := range in {
		in[i] = i
	}

	for _, opts := range []Options{{}, {Workers: 1}, {Workers: 3, BatchSize: 7}, {Workers: 64, BatchSize: 1}} {
		out, err := Map(context.Background(), in, opts, func(i int, v int) (int, error) {
			return v * v, nil
		})
		require.NoError(t, err)
		require.Len(t, out, len(in))
		for i, v := range out {
			assert.Equal(t, i*i, v)
		}
	}
}

func TestMapReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	in := make([]int, 500)

	var calls atomic.Int64
	out, err := Map(context.Background(), in, Options{Workers: 2, BatchSize: 10}, func(i int, _ int) (int, error) {
		calls.Add(1)
		if i == 15 {
			return 0, boom
		}
		return i, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, out)
	assert.Less(t, calls.Load(), int64(len(in)))
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ForEach(ctx, []int{1, 2, 3}, Options{}, func(int, int) error {
		t.Error("action must not run on a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForEachEmpty(t *testing.T) {
	err := ForEach(context.Background(), []string(nil), Options{}, func(int, string) error {
		t.Error("unexpected call")
		return nil
	})
	assert.NoError(t, err)

	out, err := Map(context.Background(), []string{}, Options{}, func(int, string) (int, error) { return 0, nil })
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestNormalize(t *testing.T) {
	o := Options{Workers: 4}.normalize(100)
	assert.Equal(t, 4, o.Workers)
	assert.Equal(t, 6, o.BatchSize)

	o = Options{Workers: 8}.normalize(3)
	assert.Equal(t, 1, o.BatchSize)

	o = Options{}.normalize(10)
	assert.Positive(t, o.Workers)
}
