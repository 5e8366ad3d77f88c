// Package lorentz converts events between inertial frames related by a pure
// boost of arbitrary direction. Units have c = 1, so velocities are
// dimensionless and must stay strictly below 1 in magnitude.
//
// Every function is pure and safe for concurrent use.
package lorentz

import (
	"math"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
)

// MaxSpeed is the largest accepted |v|. The margin keeps γ below ~2.3e4.
const MaxSpeed = 1 - 1e-9

// Lorentz is a boost with its Lorentz factor precomputed. The zero value is
// not usable; construct it with New.
type Lorentz struct {
	velocity physics.Vector3
	gamma    float64
	// γ²/(γ+1), equal to (γ-1)/|v|² but without the cancellation at small |v|.
	parallel float64
}

// New validates v and precomputes the factors needed to boost by it.
func New(v physics.Vector3) (Lorentz, error) {
	g, err := Gamma(v)
	if err != nil {
		return Lorentz{}, err
	}
	return Lorentz{velocity: v, gamma: g, parallel: g * g / (g + 1)}, nil
}

func (l Lorentz) Velocity() physics.Vector3 { return l.velocity }
func (l Lorentz) Gamma() float64 { return l.gamma }

// Inverse returns the boost by -v. It shares γ, so no validation is needed.
func (l Lorentz) Inverse() Lorentz {
	return Lorentz{velocity: l.velocity.Neg(), gamma: l.gamma, parallel: l.parallel}
}

// Boost maps e from a frame S into the frame S' moving with velocity v
// relative to S:
//
//	t' = γ(t - v·x)
//	x' = x + (γ²/(γ+1)(v·x) - γt) v
//
// Components of x perpendicular to v are left unchanged.
func (l Lorentz) Boost(e physics.Event) physics.Event {
	if l.velocity.IsZero() {
		return e
	}
	x := e.Spatial()
	vx := l.velocity.Dot(x)
	t := l.gamma * (e.T - vx)
	k := l.parallel*vx - l.gamma*e.T
	return physics.NewEvent(t, x.Add(l.velocity.Scale(k)))
}

// Unboost is the inverse of Boost: it maps an event expressed in S' back to S.
func (l Lorentz) Unboost(e physics.Event) physics.Event {
	return l.Inverse().Boost(e)
}

// Boost maps e into the frame moving with velocity v relative to e's frame.
func Boost(e physics.Event, v physics.Vector3) (physics.Event, error) {
	l, err := New(v)
	if err != nil {
		return physics.Event{}, err
	}
	return l.Boost(e), nil
}

// Unboost is Boost(e, -v).
func Unboost(e physics.Event, v physics.Vector3) (physics.Event, error) {
	return Boost(e, v.Neg())
}

// Gamma returns 1/√(1-|v|²), evaluated as 1/√((1-|v|)(1+|v|)) to keep
// precision as |v| approaches 1.
func Gamma(v physics.Vector3) (float64, error) {
	s, err := speed(v)
	if err != nil {
		return 0, err
	}
	return 1 / math.Sqrt((1-s)*(1+s)), nil
}

// CheckVelocity returns a *DomainError unless v is finite and |v| < MaxSpeed.
func CheckVelocity(v physics.Vector3) error {
	_, err := speed(v)
	return err
}

func speed(v physics.Vector3) (float64, error) {
	s := v.Len()
	// Written as a negation so NaN is rejected too.
	if !(s < MaxSpeed) {
		return s, &DomainError{Velocity: v, Speed: s}
	}
	return s, nil
}
