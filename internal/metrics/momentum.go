package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Mechanical is a system that exposes the conserved quantities of an
// isolated set of point masses.
type Mechanical interface {
	dynamo.Hamiltonian
	Momentum(x dynamo.State) r2.Vec
	AngularMomentum(x dynamo.State) float64
	MinSeparation(x dynamo.State) float64
	CenterOfMass(x dynamo.State) r2.Vec
}

// MomentumDrift is the largest |P - P0| seen, in absolute units.
type MomentumDrift struct {
	dyn      Mechanical
	initial  r2.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift(dyn Mechanical) *MomentumDrift {
	return &MomentumDrift{dyn: dyn}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(x dynamo.State, t float64) {
	p := m.dyn.Momentum(x)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, r2.Norm(r2.Sub(p, m.initial)))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift is the largest |L - L0| about the origin.
type AngularMomentumDrift struct {
	dyn      Mechanical
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift(dyn Mechanical) *AngularMomentumDrift {
	return &AngularMomentumDrift{dyn: dyn}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(x dynamo.State, t float64) {
	l := a.dyn.AngularMomentum(x)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++
	a.maxDrift = math.Max(a.maxDrift, math.Abs(l-a.initial))
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}

// MinSeparation is the closest approach between any two bodies.
type MinSeparation struct {
	dyn Mechanical
	min float64
}

func NewMinSeparation(dyn Mechanical) *MinSeparation {
	return &MinSeparation{dyn: dyn, min: math.Inf(1)}
}

func (s *MinSeparation) Name() string { return "min_separation" }

func (s *MinSeparation) Observe(x dynamo.State, t float64) {
	s.min = math.Min(s.min, s.dyn.MinSeparation(x))
}

func (s *MinSeparation) Value() float64 {
	if math.IsInf(s.min, 1) {
		return 0
	}
	return s.min
}

func (s *MinSeparation) Reset() { s.min = math.Inf(1) }
