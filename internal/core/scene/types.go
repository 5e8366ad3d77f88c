package scene

import (
	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lorentz"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/transform"
)

// Scene is the configuration surface: one observer, any number of rigid
// objects, and the settings of the preview server.
type Scene struct {
	Observer Observer     `yaml:"observer" json:"observer"`
	Objects  []*Object    `yaml:"objects" json:"objects" validate:"required,min=1,dive,required"`
	Server   ServerConfig `yaml:"server" json:"server"`
	Log      LogConfig    `yaml:"log" json:"log"`
}

type Observer struct {
	Velocity physics.Vector3 `yaml:"velocity" json:"velocity"`
	TObs     float64         `yaml:"tobs" json:"tobs"`
}

// Object is a rigid mesh at rest in its own inertial frame.
type Object struct {
	Name     string          `yaml:"name" json:"name" validate:"required"`
	Velocity physics.Vector3 `yaml:"velocity" json:"velocity"`
	// Origin of the object frame in observer coordinates at observer time 0.
	Origin   physics.Vector3 `yaml:"origin" json:"origin"`
	Vertices [][3]float64    `yaml:"vertices" json:"vertices" validate:"required,min=1"`

	rest        []physics.Vector3
	fingerprint uint64
}

type ServerConfig struct {
	Host    string `yaml:"host" json:"host" validate:"omitempty,hostname|ip"`
	Port    int    `yaml:"port" json:"port" validate:"gte=0,lte=65535"`
	Workers int    `yaml:"workers" json:"workers" validate:"gte=0"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

func (o Observer) State() transform.ObservationState {
	return transform.ObservationState{ObserverVelocity: o.Velocity, ObservationTime: o.TObs}
}

func (o *Object) Frame() lorentz.Frame { return lorentz.Frame{Velocity: o.Velocity} }

// Rest returns the rest-frame vertices. The slice is shared and must be
// treated as read-only.
func (o *Object) Rest() []physics.Vector3 {
	if o.rest != nil {
		return o.rest
	}
	return toVectors(o.Vertices)
}

// Fingerprint identifies the rest geometry; passes computed from it carry the
// same value.
func (o *Object) Fingerprint() uint64 {
	if o.rest != nil {
		return o.fingerprint
	}
	return transform.Fingerprint(o.Rest())
}

// index caches the converted vertices. Load calls it before the scene is
// shared between goroutines.
func (o *Object) index() {
	o.rest = toVectors(o.Vertices)
	o.fingerprint = transform.Fingerprint(o.rest)
}

func toVectors(in [][3]float64) []physics.Vector3 {
	out := make([]physics.Vector3, len(in))
	for i, v := range in {
		out[i] = physics.FromArray(v)
	}
	return out
}

// Find returns the object with the given name.
func (s *Scene) Find(name string) (*Object, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}
