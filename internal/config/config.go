package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/trajectory"
)

const (
	DefaultSimTime   = 70.0
	DefaultDt        = 1e-5
	DefaultFPS       = 50.0
	DefaultWindow    = 50
	DefaultTolerance = 1e-13
)

// Body is one point mass as written in a config file.
type Body struct {
	Mass float64   `yaml:"mass" json:"mass"`
	Pos  []float64 `yaml:"pos,flow" json:"pos"`
	Vel  []float64 `yaml:"vel,flow" json:"vel"`
}

type Config struct {
	Name       string           `yaml:"name" json:"name"`
	G          float64          `yaml:"g" json:"g"`
	Integrator string           `yaml:"integrator" json:"integrator"`
	SimTime    float64          `yaml:"sim_time" json:"sim_time"`
	Dt         float64          `yaml:"dt" json:"dt"`
	FPS        float64          `yaml:"fps" json:"fps"`
	Window     int              `yaml:"window" json:"window"`
	Vectors    bool             `yaml:"vectors" json:"vectors"`
	Tolerance  dynamo.Tolerance `yaml:"tolerance" json:"tolerance"`
	MaxSteps   int              `yaml:"max_steps" json:"max_steps"`
	Bodies     []Body           `yaml:"bodies" json:"bodies"`
}

// DefaultConfig is the Pythagorean problem.
func DefaultConfig() *Config {
	return GetPreset("pythagorean")
}

// Load reads a YAML config on top of the defaults. Unknown keys are an
// error so that typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]Body, len(c.Bodies))
	for i, b := range c.Bodies {
		out.Bodies[i] = Body{
			Mass: b.Mass,
			Pos:  append([]float64(nil), b.Pos...),
			Vel:  append([]float64(nil), b.Vel...),
		}
	}
	return &out
}

// Validate checks every parameter before any integration work is done.
func (c *Config) Validate() error {
	if len(c.Bodies) < 2 {
		return dynamo.Configf("bodies", "need at least 2 bodies, got %d", len(c.Bodies))
	}
	for i, b := range c.Bodies {
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return dynamo.Configf("bodies", "body %d: mass must be positive and finite, got %g", i, b.Mass)
		}
		if err := checkVec(i, "pos", b.Pos); err != nil {
			return err
		}
		if err := checkVec(i, "vel", b.Vel); err != nil {
			return err
		}
	}
	if !(c.G > 0) || math.IsInf(c.G, 0) {
		return dynamo.Configf("g", "must be positive and finite, got %g", c.G)
	}
	if _, err := trajectory.NewPlan(c.Dt, c.SimTime, c.FPS); err != nil {
		return err
	}
	if !(c.Tolerance.Abs > 0) || !(c.Tolerance.Rel > 0) {
		return dynamo.Configf("tolerance", "abs and rel must be positive, got %g/%g", c.Tolerance.Abs, c.Tolerance.Rel)
	}
	if c.Window < 0 {
		return dynamo.Configf("window", "must not be negative, got %d", c.Window)
	}
	if c.Integrator != "" && !integrators.Known(c.Integrator) {
		return dynamo.Configf("integrator", "unknown integrator %q (have %v)", c.Integrator, integrators.Names())
	}
	if c.MaxSteps < 0 {
		return dynamo.Configf("max_steps", "must not be negative, got %d", c.MaxSteps)
	}
	return nil
}

func checkVec(body int, field string, v []float64) error {
	if len(v) != 2 {
		return dynamo.Configf("bodies", "body %d: %s needs 2 components, got %d", body, field, len(v))
	}
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return dynamo.Configf("bodies", "body %d: %s must be finite, got %v", body, field, v)
		}
	}
	return nil
}

// Initial converts the bodies to their physical form. The config must have
// passed Validate.
func (c *Config) Initial() []physics.Body {
	out := make([]physics.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		out[i] = physics.Body{
			Mass: b.Mass,
			Pos:  r2.Vec{X: b.Pos[0], Y: b.Pos[1]},
			Vel:  r2.Vec{X: b.Vel[0], Y: b.Vel[1]},
		}
	}
	return out
}

func (c *Config) Masses() []float64 {
	m := make([]float64, len(c.Bodies))
	for i, b := range c.Bodies {
		m[i] = b.Mass
	}
	return m
}
