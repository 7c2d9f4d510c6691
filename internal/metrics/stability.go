package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Boundedness is the fraction of samples in which every body lies within
// radius of the center of mass. It drops below one once a body is ejected.
type Boundedness struct {
	name       string
	dyn        Mechanical
	bodies     int
	radius     float64
	violations int
	samples    int
}

func NewBoundedness(dyn Mechanical, bodies int, radius float64) *Boundedness {
	return &Boundedness{
		name:   "bounded",
		dyn:    dyn,
		bodies: bodies,
		radius: radius,
	}
}

func (b *Boundedness) Name() string {
	return b.name
}

func (b *Boundedness) Observe(x dynamo.State, t float64) {
	b.samples++
	com := b.dyn.CenterOfMass(x)
	for i := 0; i < b.bodies; i++ {
		p := r2.Vec{X: x[2*i], Y: x[2*i+1]}
		if r2.Norm(r2.Sub(p, com)) > b.radius {
			b.violations++
			break
		}
	}
}

func (b *Boundedness) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Boundedness) Reset() {
	b.violations = 0
	b.samples = 0
}
