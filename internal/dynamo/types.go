package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is the flat working vector handed to integrators.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// InPlaceSystem is implemented by systems that can write their derivative
// into a caller-owned buffer. dst and x never alias.
type InPlaceSystem interface {
	System
	DeriveInto(dst, x State, t float64)
}

// Hamiltonian systems expose a conserved energy.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator attempts a step of size dt and reports the step size it
// would use next. A step whose local error exceeds tol returns
// ErrStepRejected together with the smaller step to retry with.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt float64, tol Tolerance) (State, float64, error)
}

// Tolerance bounds the local error per component as Abs + Rel*|x|.
type Tolerance struct {
	Abs float64 `yaml:"abs" json:"abs"`
	Rel float64 `yaml:"rel" json:"rel"`
}

// Observer receives evaluation-grid samples in ascending order. Returning an
// error aborts the solve.
type Observer interface {
	OnSample(i int, t float64, x State) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(i int, t float64, x State) error

func (f ObserverFunc) OnSample(i int, t float64, x State) error { return f(i, t, x) }

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}
