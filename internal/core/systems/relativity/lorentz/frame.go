package lorentz

import "github.com/zeusync/srtransform/internal/core/systems/physics"

// Frame is an inertial reference frame identified only by its constant
// velocity relative to the world frame. Frames are values: two frames with
// the same velocity are the same frame.
type Frame struct {
	Velocity physics.Vector3 `json:"velocity" yaml:"velocity"`
}

// World is the shared reference frame every velocity is measured against.
var World = Frame{}

func NewFrame(vx, vy, vz float64) Frame {
	return Frame{Velocity: physics.Vec3(vx, vy, vz)}
}

func (f Frame) Validate() error { return CheckVelocity(f.Velocity) }

func (f Frame) Gamma() (float64, error) { return Gamma(f.Velocity) }

// RelativeTo returns the velocity of f as seen from observer.
func (f Frame) RelativeTo(observer Frame) (physics.Vector3, error) {
	return RelativeVelocity(observer.Velocity, f.Velocity)
}
