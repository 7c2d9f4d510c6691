package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Body is a point mass in the plane.
type Body struct {
	Mass float64
	Pos  r2.Vec
	Vel  r2.Vec
}

// Pack encodes bodies into the integrator's state layout:
//
//	[x0, y0, x1, y1, ..., vx0, vy0, vx1, vy1, ...]
//
// All positions come first, then all velocities, in body order. The
// equations of motion read the same layout.
func Pack(bodies []Body) dynamo.State {
	n := len(bodies)
	x := make(dynamo.State, 4*n)
	for i, b := range bodies {
		x[2*i] = b.Pos.X
		x[2*i+1] = b.Pos.Y
		x[2*n+2*i] = b.Vel.X
		x[2*n+2*i+1] = b.Vel.Y
	}
	return x
}

// Unpack is the inverse of Pack. Masses are not part of the state and are
// supplied by the caller.
func Unpack(x dynamo.State, masses []float64) ([]Body, error) {
	n := len(masses)
	if len(x) != 4*n {
		return nil, fmt.Errorf("%w: state has %d components, %d bodies need %d",
			dynamo.ErrDimensionMismatch, len(x), n, 4*n)
	}
	bodies := make([]Body, n)
	for i := range bodies {
		bodies[i] = Body{
			Mass: masses[i],
			Pos:  Position(x, i),
			Vel:  Velocity(x, n, i),
		}
	}
	return bodies, nil
}

// Position reads body i's position from a packed state.
func Position(x dynamo.State, i int) r2.Vec {
	return r2.Vec{X: x[2*i], Y: x[2*i+1]}
}

// Velocity reads body i's velocity from a packed state of n bodies.
func Velocity(x dynamo.State, n, i int) r2.Vec {
	return r2.Vec{X: x[2*n+2*i], Y: x[2*n+2*i+1]}
}

// Positions returns every body's position from a packed state of n bodies.
func Positions(x dynamo.State, n int) []r2.Vec {
	out := make([]r2.Vec, n)
	for i := range out {
		out[i] = Position(x, i)
	}
	return out
}

// Velocities returns every body's velocity from a packed state of n bodies.
func Velocities(x dynamo.State, n int) []r2.Vec {
	out := make([]r2.Vec, n)
	for i := range out {
		out[i] = Velocity(x, n, i)
	}
	return out
}

// Masses lists the bodies' masses in order.
func Masses(bodies []Body) []float64 {
	m := make([]float64, len(bodies))
	for i, b := range bodies {
		m[i] = b.Mass
	}
	return m
}
