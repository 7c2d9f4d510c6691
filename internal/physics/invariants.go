package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Energy is kinetic plus pairwise gravitational potential energy.
func (s *Gravity) Energy(x dynamo.State) float64 {
	n := len(s.masses)
	ke := 0.0
	pe := 0.0

	for i := 0; i < n; i++ {
		v := Velocity(x, n, i)
		ke += 0.5 * s.masses[i] * r2.Norm2(v)

		for j := i + 1; j < n; j++ {
			r := r2.Norm(r2.Sub(Position(x, j), Position(x, i)))
			pe -= s.g * s.masses[i] * s.masses[j] / r
		}
	}

	return ke + pe
}

// Momentum is the mass-weighted sum of velocities.
func (s *Gravity) Momentum(x dynamo.State) r2.Vec {
	n := len(s.masses)
	var p r2.Vec
	for i, m := range s.masses {
		p = r2.Add(p, r2.Scale(m, Velocity(x, n, i)))
	}
	return p
}

// AngularMomentum is the z component of sum m (r x v) about the origin.
func (s *Gravity) AngularMomentum(x dynamo.State) float64 {
	n := len(s.masses)
	L := 0.0
	for i, m := range s.masses {
		L += m * r2.Cross(Position(x, i), Velocity(x, n, i))
	}
	return L
}

func (s *Gravity) CenterOfMass(x dynamo.State) r2.Vec {
	var c r2.Vec
	total := 0.0
	for i, m := range s.masses {
		c = r2.Add(c, r2.Scale(m, Position(x, i)))
		total += m
	}
	return r2.Scale(1/total, c)
}

// MinSeparation is the smallest pairwise distance in x.
func (s *Gravity) MinSeparation(x dynamo.State) float64 {
	n := len(s.masses)
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			best = math.Min(best, r2.Norm(r2.Sub(Position(x, j), Position(x, i))))
		}
	}
	return best
}
