package integrators

import "github.com/san-kum/threebody/internal/dynamo"

type Euler struct {
	dx dynamo.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	e.dx = grow(e.dx, len(x))
	derive(dyn, e.dx, x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*e.dx[i]
	}
	return result
}
