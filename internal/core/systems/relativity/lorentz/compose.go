package lorentz

import (
	"fmt"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
)

// Compose returns the relativistic sum v ⊕ u: the velocity, measured in S, of
// a body moving with u relative to a frame that itself moves with v relative
// to S.
//
//	v ⊕ u = (v + u/γv + γv/(1+γv) (v·u) v) / (1 + v·u)
//
// The operation is not commutative for non-collinear inputs.
func Compose(v, u physics.Vector3) (physics.Vector3, error) {
	gv, err := Gamma(v)
	if err != nil {
		return physics.Vector3{}, err
	}
	if err = CheckVelocity(u); err != nil {
		return physics.Vector3{}, err
	}
	vu := v.Dot(u)
	num := v.Add(u.Scale(1 / gv)).Add(v.Scale(gv / (1 + gv) * vu))
	w := num.Scale(1 / (1 + vu))
	if err = CheckVelocity(w); err != nil {
		return physics.Vector3{}, fmt.Errorf("composed velocity: %w", err)
	}
	return w, nil
}

// RelativeVelocity returns the velocity of object as measured in the rest
// frame of observer, both given relative to the same world frame.
func RelativeVelocity(observer, object physics.Vector3) (physics.Vector3, error) {
	return Compose(observer.Neg(), object)
}
