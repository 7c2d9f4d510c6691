package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
)

// DefaultG is the gravitational constant in simulation units.
const DefaultG = 1.0

// Acceleration returns the acceleration on a body at target due to masses
// mA at rA and mB at rB under inverse-square attraction. Coincident points
// are not guarded against and yield non-finite components.
func Acceleration(g, mA, mB float64, target, rA, rB r2.Vec) r2.Vec {
	return r2.Add(pull(g, mA, target, rA), pull(g, mB, target, rB))
}

// AccelerationOn sums the pull of every other body on body i.
func AccelerationOn(i int, g float64, masses []float64, positions []r2.Vec) r2.Vec {
	var a r2.Vec
	for j, m := range masses {
		if j == i {
			continue
		}
		a = r2.Add(a, pull(g, m, positions[i], positions[j]))
	}
	return a
}

// pull is -G*m*d/|d|^3 with d = target - other.
func pull(g, m float64, target, other r2.Vec) r2.Vec {
	d := r2.Sub(target, other)
	mag := r2.Norm(d)
	return r2.Scale(-g*m/(mag*mag*mag), d)
}

// Gravity is the first-order system for N point masses under mutual
// Newtonian attraction. It holds no mutable state and is safe for
// concurrent use.
type Gravity struct {
	g      float64
	masses []float64
}

// NewGravity copies masses; later changes to the caller's slice have no
// effect.
func NewGravity(g float64, masses []float64) (*Gravity, error) {
	if len(masses) < 2 {
		return nil, dynamo.Configf("bodies", "need at least 2 bodies, got %d", len(masses))
	}
	if !(g > 0) || math.IsInf(g, 0) {
		return nil, dynamo.Configf("g", "must be positive and finite, got %g", g)
	}
	for i, m := range masses {
		if !(m > 0) || math.IsInf(m, 0) {
			return nil, dynamo.Configf("bodies", "body %d: mass must be positive and finite, got %g", i, m)
		}
	}
	return &Gravity{
		g:      g,
		masses: append([]float64(nil), masses...),
	}, nil
}

func (s *Gravity) G() float64 { return s.g }

func (s *Gravity) NumBodies() int { return len(s.masses) }

// Masses returns a copy of the body masses.
func (s *Gravity) Masses() []float64 { return append([]float64(nil), s.masses...) }

func (s *Gravity) StateDim() int { return 4 * len(s.masses) }

// Derive returns dX/dt: the position half is the velocity half of x, the
// velocity half is each body's gravitational acceleration. t is unused.
func (s *Gravity) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	s.DeriveInto(dx, x, t)
	return dx
}

func (s *Gravity) DeriveInto(dst, x dynamo.State, _ float64) {
	n := len(s.masses)
	copy(dst[:2*n], x[2*n:4*n])

	for i := 0; i < n; i++ {
		a := s.accelerationAt(i, x)
		dst[2*n+2*i] = a.X
		dst[2*n+2*i+1] = a.Y
	}
}

// accelerationAt is AccelerationOn reading positions straight from x.
func (s *Gravity) accelerationAt(i int, x dynamo.State) r2.Vec {
	target := Position(x, i)
	var a r2.Vec
	for j, m := range s.masses {
		if j == i {
			continue
		}
		a = r2.Add(a, pull(s.g, m, target, Position(x, j)))
	}
	return a
}
