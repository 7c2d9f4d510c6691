package analysis

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two trajectories a distance d0 apart
// 2. After every step, record ln(d/d0) and pull the companion back to d0
// 3. λ ≈ Σ ln(d/d0) / t
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || !(perturbation > 0) || !(dt > 0) {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	steps := int(math.Round(duration / dt))
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		if !x.IsValid() || !xp.IsValid() {
			break
		}

		sep := xp.Sub(x).Norm()
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
