package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/threebody/internal/dynamo"
)

// RK4 is the classic fixed-step fourth-order Runge-Kutta method. It makes
// exactly four derivative evaluations per step and keeps its stage buffers
// between steps.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step advances x by dt. x is not modified.
func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	for i := range r.k {
		r.k[i] = grow(r.k[i], n)
	}
	r.scratch = grow(r.scratch, n)

	k1, k2, k3, k4 := r.k[0], r.k[1], r.k[2], r.k[3]
	half := 0.5 * dt

	derive(dyn, k1, x, t)
	floats.AddScaledTo(r.scratch, x, half, k1)
	derive(dyn, k2, r.scratch, t+half)
	floats.AddScaledTo(r.scratch, x, half, k2)
	derive(dyn, k3, r.scratch, t+half)
	floats.AddScaledTo(r.scratch, x, dt, k3)
	derive(dyn, k4, r.scratch, t+dt)

	next := make(dynamo.State, n)
	dt6 := dt / 6
	for i := range next {
		next[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}
