package physics

import (
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

type particle struct {
	pos  r2.Vec
	mass float64
}

func (p particle) Coord2() r2.Vec { return p.pos }
func (p particle) Mass() float64  { return p.mass }

// Forces returns the net gravitational force on each body. The plane is
// never built, so ForceOn sums every pair exactly; for three bodies a tree
// would cost more than it saves. Coincident bodies contribute zero here,
// unlike Acceleration.
func Forces(g float64, masses []float64, positions []r2.Vec) []r2.Vec {
	ps := make([]barneshut.Particle2, len(masses))
	for i, m := range masses {
		ps[i] = particle{pos: positions[i], mass: m}
	}
	plane := barneshut.Plane{Particles: ps}

	out := make([]r2.Vec, len(ps))
	for i, p := range ps {
		out[i] = r2.Scale(g, plane.ForceOn(p, 0, barneshut.Gravity2))
	}
	return out
}
