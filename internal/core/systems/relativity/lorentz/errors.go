package lorentz

import (
	"errors"
	"fmt"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
)

var (
	// ErrDomain matches every DomainError.
	ErrDomain = errors.New("velocity outside the subluminal domain")

	ErrDimension = errors.New("boost matrix must be 4x4")
)

// DomainError reports a velocity whose magnitude reaches the speed limit
// (or is not a finite number). No physically meaningful result exists.
type DomainError struct {
	Velocity physics.Vector3
	Speed    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("velocity (%g, %g, %g) has speed %g, must be below %g",
		e.Velocity.X, e.Velocity.Y, e.Velocity.Z, e.Speed, MaxSpeed)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }
