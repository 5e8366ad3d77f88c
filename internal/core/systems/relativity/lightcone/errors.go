package lightcone

import (
	"errors"
	"fmt"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
)

var (
	ErrDegenerateGeometry = errors.New("degenerate lightcone geometry")
	ErrNonFinite          = errors.New("non-finite coordinate")
)

// DegenerateGeometryError is returned when a vertex coincides with the
// observer event's spatial position, so the light path has zero length.
// Limit holds the zero-distance limit of the emission event: the vertex
// position at the observation time itself.
type DegenerateGeometryError struct {
	Vertex physics.Vector3
	Limit  physics.Event
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("%s: vertex (%g, %g, %g) coincides with the observer",
		ErrDegenerateGeometry, e.Vertex.X, e.Vertex.Y, e.Vertex.Z)
}

func (e *DegenerateGeometryError) Is(target error) bool { return target == ErrDegenerateGeometry }
