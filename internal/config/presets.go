package config

import (
	"math"
	"sort"

	"github.com/san-kum/threebody/internal/dynamo"
)

var Presets = map[string]*Config{
	// Szebehely & Peters (1967): three bodies at rest on a 3-4-5 triangle.
	"pythagorean": {
		Name: "pythagorean", G: 1.0, Integrator: "dopri5",
		SimTime: DefaultSimTime, Dt: DefaultDt, FPS: DefaultFPS, Window: DefaultWindow,
		Tolerance: dynamo.Tolerance{Abs: DefaultTolerance, Rel: DefaultTolerance},
		Bodies: []Body{
			{Mass: 3, Pos: []float64{1, 3}, Vel: []float64{0, 0}},
			{Mass: 4, Pos: []float64{-2, -1}, Vel: []float64{0, 0}},
			{Mass: 5, Pos: []float64{1, -1}, Vel: []float64{0, 0}},
		},
	},
	// Chenciner & Montgomery (2000) figure-eight choreography.
	"figure8": {
		Name: "figure8", G: 1.0, Integrator: "dopri5",
		SimTime: 20, Dt: 1e-4, FPS: DefaultFPS, Window: 80,
		Tolerance: dynamo.Tolerance{Abs: 1e-12, Rel: 1e-12},
		Bodies: []Body{
			{Mass: 1, Pos: []float64{-0.97000436, 0.24308753}, Vel: []float64{0.466203685, 0.43236573}},
			{Mass: 1, Pos: []float64{0.97000436, -0.24308753}, Vel: []float64{0.466203685, 0.43236573}},
			{Mass: 1, Pos: []float64{0, 0}, Vel: []float64{-0.93240737, -0.86473146}},
		},
	},
	// Equal masses on an equilateral triangle of circumradius 1, rotating
	// rigidly at omega = 3^(-1/4).
	"lagrange": {
		Name: "lagrange", G: 1.0, Integrator: "dopri5",
		SimTime: 20, Dt: 1e-4, FPS: DefaultFPS, Window: DefaultWindow,
		Tolerance: dynamo.Tolerance{Abs: 1e-12, Rel: 1e-12},
		Bodies:    lagrangeBodies(),
	},
	"binary": {
		Name: "binary", G: 1.0, Integrator: "dopri5",
		SimTime: 30, Dt: 1e-4, FPS: DefaultFPS, Window: DefaultWindow,
		Tolerance: dynamo.Tolerance{Abs: 1e-12, Rel: 1e-12},
		Bodies: []Body{
			{Mass: 1, Pos: []float64{-1, 0}, Vel: []float64{0, -0.5}},
			{Mass: 1, Pos: []float64{1, 0}, Vel: []float64{0, 0.5}},
		},
	},
}

func lagrangeBodies() []Body {
	speed := math.Pow(3, -0.25)
	bodies := make([]Body, 3)
	for i := range bodies {
		theta := math.Pi/2 + float64(i)*2*math.Pi/3
		sin, cos := math.Sincos(theta)
		bodies[i] = Body{
			Mass: 1,
			Pos:  []float64{cos, sin},
			Vel:  []float64{-speed * sin, speed * cos},
		}
	}
	return bodies
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
