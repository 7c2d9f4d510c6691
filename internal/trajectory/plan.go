package trajectory

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/sim"
)

// Plan is the downsampling schedule for one simulation.
type Plan struct {
	Dt      float64 // fine grid spacing
	SimTime float64
	FPS     float64
	Stride  int // fine samples per frame
	Frames  int
	Samples int // fine grid points the solver must produce
}

// NewPlan derives the stride and frame count. It fails before any
// integration work when the frame rate asks for frames closer together than
// the fine grid.
func NewPlan(dt, simTime, fps float64) (Plan, error) {
	switch {
	case !finitePositive(dt):
		return Plan{}, dynamo.Configf("dt", "must be positive and finite, got %g", dt)
	case !finitePositive(simTime):
		return Plan{}, dynamo.Configf("sim_time", "must be positive and finite, got %g", simTime)
	case !finitePositive(fps):
		return Plan{}, dynamo.Configf("fps", "must be positive and finite, got %g", fps)
	case dt > simTime:
		return Plan{}, dynamo.Configf("dt", "%g exceeds sim_time %g", dt, simTime)
	case fps*dt > 1:
		return Plan{}, dynamo.Configf("fps", "fps*dt = %g > 1: frames would be finer than the simulation grid", fps*dt)
	}

	stride := int(math.Round(1 / (fps * dt)))
	frames := int(math.Round(fps * simTime))
	if frames < 1 {
		return Plan{}, dynamo.Configf("fps", "fps*sim_time = %g rounds to zero frames", fps*simTime)
	}

	return Plan{
		Dt:      dt,
		SimTime: simTime,
		FPS:     fps,
		Stride:  stride,
		Frames:  frames,
		Samples: (frames-1)*stride + 1,
	}, nil
}

// Grid is the fine evaluation grid handed to the solver.
func (p Plan) Grid() sim.Grid { return sim.Grid{Dt: p.Dt, N: p.Samples} }

// FrameDt is the simulated time between consecutive frames. It equals 1/FPS
// only when 1/(FPS*Dt) is a whole number.
func (p Plan) FrameDt() float64 { return float64(p.Stride) * p.Dt }

func finitePositive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
