package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorOps(t *testing.T) {
	a, b := Vec3(1, 2, 3), Vec3(-4, 0.5, 2)

	assert.Equal(t, Vec3(-3, 2.5, 5), a.Add(b))
	assert.Equal(t, Vec3(5, 1.5, 1), a.Sub(b))
	assert.Equal(t, Vec3(2, 4, 6), a.Scale(2))
	assert.Equal(t, Vec3(-1, -2, -3), a.Neg())
	assert.Equal(t, 3.0, a.Dot(b))
	assert.Equal(t, 14.0, a.Len2())
	assert.InDelta(t, math.Sqrt(14), a.Len(), 1e-12)
	assert.Equal(t, a, FromArray(a.Array()))
	assert.InDelta(t, 5, Vec3(0, 0, 0).Distance(Vec3(3, 4, 0)), 1e-12)
	assert.True(t, Zero.IsZero())
	assert.False(t, a.IsZero())
}

func TestLenDoesNotOverflow(t *testing.T) {
	v := Vec3(1e200, 1e200, 0)
	assert.InDelta(t, 1, v.Len()/(math.Sqrt2*1e200), 1e-12)
	assert.True(t, math.IsInf(Vec3(math.Inf(-1), 0, 0).Len(), 1))
	assert.True(t, math.IsNaN(Vec3(0, math.NaN(), 1).Len()))
}

func TestFiniteAndApprox(t *testing.T) {
	assert.True(t, Vec3(1, 2, 3).IsFinite())
	assert.False(t, Vec3(1, math.NaN(), 3).IsFinite())
	assert.False(t, Vec3(1, 2, math.Inf(1)).IsFinite())

	assert.True(t, Vec3(1, 1, 1).ApproxEqual(Vec3(1+1e-13, 1, 1), 1e-12))
	assert.True(t, Vec3(1e9, 0, 0).ApproxEqual(Vec3(1e9+1e-4, 0, 0), 1e-12))
	assert.False(t, Vec3(1, 0, 0).ApproxEqual(Vec3(1.1, 0, 0), 1e-12))
}

func TestEvent(t *testing.T) {
	e := NewEvent(2, Vec3(1, 2, 3))
	assert.Equal(t, Event{T: 2, X: 1, Y: 2, Z: 3}, e)
	assert.Equal(t, Vec3(1, 2, 3), e.Spatial())
	assert.Equal(t, e, EventFromArray(e.Array()))
	assert.Equal(t, Event{T: 2, X: 2, Y: 2, Z: 3}, e.Translate(Vec3(1, 0, 0)))
	assert.True(t, e.IsFinite())
	assert.False(t, Event{T: math.NaN()}.IsFinite())
	assert.True(t, e.ApproxEqual(Event{T: 2 + 1e-14, X: 1, Y: 2, Z: 3}, 1e-12))
}
