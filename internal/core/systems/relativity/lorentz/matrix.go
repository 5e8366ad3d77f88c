package lorentz

import (
	"gonum.org/v1/gonum/mat"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
)

// Matrix returns the 4x4 matrix Λ with Λ·(t, x, y, z) equal to Boost:
//
//	Λ00 = γ,  Λ0i = Λi0 = -γvi,  Λij = δij + γ²/(γ+1) vi vj
func Matrix(v physics.Vector3) (*mat.Dense, error) {
	l, err := New(v)
	if err != nil {
		return nil, err
	}
	return l.Matrix(), nil
}

func (l Lorentz) Matrix() *mat.Dense {
	beta := l.velocity.Array()
	m := mat.NewDense(4, 4, nil)
	m.Set(0, 0, l.gamma)
	for i := 1; i < 4; i++ {
		m.Set(0, i, -l.gamma*beta[i-1])
		m.Set(i, 0, -l.gamma*beta[i-1])
		for j := 1; j < 4; j++ {
			d := 0.0
			if i == j {
				d = 1
			}
			m.Set(i, j, d+l.parallel*beta[i-1]*beta[j-1])
		}
	}
	return m
}

// Apply multiplies the event by a 4x4 transformation matrix.
func Apply(m mat.Matrix, e physics.Event) (physics.Event, error) {
	if r, c := m.Dims(); r != 4 || c != 4 {
		return physics.Event{}, ErrDimension
	}
	a := e.Array()
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(4, a[:]))
	return physics.Event{T: out.AtVec(0), X: out.AtVec(1), Y: out.AtVec(2), Z: out.AtVec(3)}, nil
}

// ApplyAll maps a batch of events through m in a single matrix product.
func ApplyAll(m mat.Matrix, events []physics.Event) ([]physics.Event, error) {
	if r, c := m.Dims(); r != 4 || c != 4 {
		return nil, ErrDimension
	}
	if len(events) == 0 {
		return nil, nil
	}
	in := mat.NewDense(4, len(events), nil)
	for j, e := range events {
		for i, x := range e.Array() {
			in.Set(i, j, x)
		}
	}
	var out mat.Dense
	out.Mul(m, in)
	res := make([]physics.Event, len(events))
	for j := range res {
		res[j] = physics.Event{T: out.At(0, j), X: out.At(1, j), Y: out.At(2, j), Z: out.At(3, j)}
	}
	return res, nil
}
