package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/threebody/internal/dynamo"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x0 := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestSymplecticEnergyBounded(t *testing.T) {
	tests := []struct {
		name  string
		integ dynamo.Integrator
	}{
		{"verlet", NewVerlet()},
		{"leapfrog", NewLeapfrog()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dyn := &harmonicOscillator{}
			x := dynamo.State{1.0, 0.0}
			dt := 0.05

			for i := 0; i < 20000; i++ {
				x = tt.integ.Step(dyn, x, float64(i)*dt, dt)
			}

			drift := math.Abs(dyn.Energy(x)-0.5) / 0.5
			if drift > 1e-2 {
				t.Errorf("energy drift %e exceeds symplectic bound", drift)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if integ == nil {
			t.Fatalf("New(%q) returned nil", name)
		}
	}

	integ, err := New("")
	if err != nil {
		t.Fatalf("default integrator: %v", err)
	}
	if _, ok := integ.(dynamo.AdaptiveIntegrator); !ok {
		t.Error("default integrator should be adaptive")
	}

	if _, err := New("midpoint"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if Known("midpoint") {
		t.Error("midpoint should not be known")
	}
}

// inPlaceOscillator counts both derivative paths so tests can tell which one
// an integrator takes.
type inPlaceOscillator struct {
	allocating, inPlace int
}

func (o *inPlaceOscillator) StateDim() int { return 2 }

func (o *inPlaceOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	o.allocating++
	return dynamo.State{x[1], -x[0]}
}

func (o *inPlaceOscillator) DeriveInto(dst, x dynamo.State, t float64) {
	o.inPlace++
	dst[0], dst[1] = x[1], -x[0]
}

func TestRK4EvaluationsPerStep(t *testing.T) {
	dyn := &inPlaceOscillator{}
	integ := NewRK4()

	x := dynamo.State{1, 0}
	for i := 0; i < 10; i++ {
		x = integ.Step(dyn, x, float64(i)*0.1, 0.1)
	}

	if dyn.inPlace != 40 {
		t.Errorf("expected 40 in-place evaluations, got %d", dyn.inPlace)
	}
	if dyn.allocating != 0 {
		t.Errorf("expected no allocating evaluations, got %d", dyn.allocating)
	}
}

func TestRK4MatchesAcrossDerivePaths(t *testing.T) {
	x := dynamo.State{0.3, -1.2}
	a := NewRK4().Step(&simpleDynamics{}, x, 0, 0.05)
	b := NewRK4().Step(&inPlaceOscillator{}, x, 0, 0.05)

	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("allocating %v and in-place %v steps differ", a, b)
	}
	if x[0] != 0.3 || x[1] != -1.2 {
		t.Errorf("input state modified: %v", x)
	}
}
