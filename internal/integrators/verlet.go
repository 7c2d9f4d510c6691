package integrators

import "github.com/san-kum/threebody/internal/dynamo"

// Verlet is velocity Verlet. It assumes the state is laid out as all
// position components followed by all velocity components, and that the
// acceleration depends on positions only.
type Verlet struct {
	dx, dxNew dynamo.State
	scratch   dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
		v.dx = make(dynamo.State, n)
		v.dxNew = make(dynamo.State, n)
	}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	v.ensureScratch(n)

	result := make(dynamo.State, n)
	derive(dyn, v.dx, x, t)
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*v.dx[half+i]*dt2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	derive(dyn, v.dxNew, v.scratch, t+dt)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (v.dx[half+i]+v.dxNew[half+i])*halfDt
	}

	return result
}

// Leapfrog is the kick-drift-kick form with the same layout assumption as
// Verlet.
type Leapfrog struct {
	dx      dynamo.State
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	l.scratch = grow(l.scratch, n)
	l.dx = grow(l.dx, n)

	result := make(dynamo.State, n)
	derive(dyn, l.dx, x, t)
	halfDt := dt * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + l.dx[half+i]*halfDt
	}

	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	derive(dyn, l.dx, l.scratch, t+dt)

	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + l.dx[half+i]*halfDt
	}

	return result
}
