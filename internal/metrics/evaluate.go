package metrics

import (
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/trajectory"
)

// DefaultEscapeRadius is the distance from the center of mass beyond which a
// body counts as ejected.
const DefaultEscapeRadius = 10.0

// Conservation returns the standard diagnostics for a gravitating system.
func Conservation(dyn *physics.Gravity) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(dyn),
		NewEnergyDrift(dyn),
		NewMomentumDrift(dyn),
		NewAngularMomentumDrift(dyn),
		NewMinSeparation(dyn),
		NewBoundedness(dyn, dyn.NumBodies(), DefaultEscapeRadius),
	}
}

// Names lists the keys Evaluate produces for Conservation, sorted.
func Names() []string {
	return []string{
		"angular_momentum_drift",
		"bounded",
		"energy",
		"energy_drift",
		"energy_stddev",
		"min_separation",
		"momentum_drift",
	}
}

// Evaluate resets each metric, feeds it every frame of traj in order and
// collects the results by name.
func Evaluate(traj *trajectory.Trajectory, ms ...dynamo.Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for f := 0; f < traj.Frames(); f++ {
		x := traj.State(f)
		t := traj.Time(f)
		for _, m := range ms {
			m.Observe(x, t)
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
		if e, ok := m.(*Energy); ok {
			out["energy_stddev"] = e.StdDev()
		}
	}
	return out
}
