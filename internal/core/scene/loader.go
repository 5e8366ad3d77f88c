package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/srtransform/internal/core/systems/physics"
	"github.com/zeusync/srtransform/internal/core/systems/relativity/lorentz"
)

var ErrInvalidScene = errors.New("invalid scene")

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8787
)

// LoadFile reads and validates a YAML scene file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data))
}

// Load decodes a YAML scene, validates it and fills defaults. Unknown keys are
// rejected so a misspelt velocity component is not silently zero.
func Load(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.applyDefaults()
	for _, o := range s.Objects {
		o.index()
	}
	return &s, nil
}

// Validate checks struct tags plus the physical constraints: every velocity
// strictly subluminal and every coordinate finite. Velocities are refused,
// never clamped.
func (s *Scene) Validate() error {
	if err := newValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return nil
}

func (s *Scene) applyDefaults() {
	if s.Server.Host == "" {
		s.Server.Host = DefaultHost
	}
	if s.Server.Port == 0 {
		s.Server.Port = DefaultPort
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateScene, Scene{})
	v.RegisterStructValidation(validateObserver, Observer{})
	v.RegisterStructValidation(validateObject, Object{})
	return v
}

func validateScene(sl validator.StructLevel) {
	s := sl.Current().Interface().(Scene)
	seen := make(map[string]struct{}, len(s.Objects))
	for _, o := range s.Objects {
		if o == nil {
			continue
		}
		if _, dup := seen[o.Name]; dup {
			sl.ReportError(s.Objects, "Objects", "objects", "unique", o.Name)
			return
		}
		seen[o.Name] = struct{}{}
	}
}

func validateObserver(sl validator.StructLevel) {
	o := sl.Current().Interface().(Observer)
	if lorentz.CheckVelocity(o.Velocity) != nil {
		sl.ReportError(o.Velocity, "Velocity", "velocity", "subluminal", "")
	}
	if math.IsNaN(o.TObs) || math.IsInf(o.TObs, 0) {
		sl.ReportError(o.TObs, "TObs", "tobs", "finite", "")
	}
}

func validateObject(sl validator.StructLevel) {
	o := sl.Current().Interface().(Object)
	if lorentz.CheckVelocity(o.Velocity) != nil {
		sl.ReportError(o.Velocity, "Velocity", "velocity", "subluminal", "")
	}
	if !o.Origin.IsFinite() {
		sl.ReportError(o.Origin, "Origin", "origin", "finite", "")
	}
	for i, v := range o.Vertices {
		if !physics.FromArray(v).IsFinite() {
			sl.ReportError(v, fmt.Sprintf("Vertices[%d]", i), "vertices", "finite", "")
			return
		}
	}
}
