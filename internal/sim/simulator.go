package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// ctxCheckEvery is how many grid samples pass between context checks.
const ctxCheckEvery = 1024

// Simulator advances a system across an evaluation grid and hands every grid
// sample to its observers. With an adaptive integrator the step size is
// chosen to meet the tolerance, and steps are shortened so that one lands
// exactly on each grid time. A fixed-step integrator takes one step per grid
// interval.
//
// A Simulator is not safe for concurrent use; integrators carry scratch
// buffers.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	opts       Options
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator, opts Options) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		opts:       opts,
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run solves and keeps every sample. Memory grows with grid.N; long runs
// should use Solve with an observer that keeps only what it needs.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, grid Grid) (*Result, error) {
	if err := s.validate(x0, grid); err != nil {
		return nil, err
	}

	result := &Result{
		Times:  make([]float64, 0, grid.N),
		States: make([]dynamo.State, 0, grid.N),
	}
	collect := dynamo.ObserverFunc(func(_ int, t float64, x dynamo.State) error {
		result.Times = append(result.Times, t)
		result.States = append(result.States, x.Clone())
		return nil
	})

	stats, err := s.solve(ctx, x0, grid, append([]dynamo.Observer{collect}, s.observers...))
	result.Stats = stats
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Solve streams samples to the registered observers without retaining them.
func (s *Simulator) Solve(ctx context.Context, x0 dynamo.State, grid Grid) (Stats, error) {
	if err := s.validate(x0, grid); err != nil {
		return Stats{}, err
	}
	return s.solve(ctx, x0, grid, s.observers)
}

func (s *Simulator) validate(x0 dynamo.State, grid Grid) error {
	if !(grid.Dt > 0) || math.IsInf(grid.Dt, 0) {
		return dynamo.Configf("dt", "must be positive and finite, got %g", grid.Dt)
	}
	if grid.N < 1 {
		return dynamo.Configf("samples", "grid needs at least one sample, got %d", grid.N)
	}
	if len(x0) != s.dyn.StateDim() {
		return dynamo.Configf("state", "%v: got %d components, system has %d",
			dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return dynamo.Configf("state", "initial state is not finite")
	}
	if _, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		tol := s.opts.Tolerance
		if !(tol.Abs > 0) || !(tol.Rel > 0) {
			return dynamo.Configf("tolerance", "abs and rel must be positive, got %g/%g", tol.Abs, tol.Rel)
		}
	}
	if s.opts.MaxSteps < 0 {
		return dynamo.Configf("max_steps", "must not be negative, got %d", s.opts.MaxSteps)
	}
	return nil
}

func (s *Simulator) solve(ctx context.Context, x0 dynamo.State, grid Grid, observers []dynamo.Observer) (Stats, error) {
	dyn := &counter{dyn: s.dyn}
	st := &stepper{
		sim:   s,
		dyn:   dyn,
		x:     x0.Clone(),
		h:     s.opts.InitialStep,
		stats: Stats{SmallestDt: math.Inf(1)},
	}
	if st.h <= 0 {
		st.h = grid.Dt
	}
	st.adaptive, st.isAdaptive = s.integrator.(dynamo.AdaptiveIntegrator)

	finish := func(err error) (Stats, error) {
		st.stats.Evaluations = dyn.calls
		if math.IsInf(st.stats.SmallestDt, 1) {
			st.stats.SmallestDt = 0
		}
		return st.stats, err
	}

	if err := emit(observers, 0, 0, st.x); err != nil {
		return finish(err)
	}

	for i := 1; i < grid.N; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
		}

		if err := st.advance(i, grid.Time(i)); err != nil {
			return finish(err)
		}
		if err := emit(observers, i, grid.Time(i), st.x); err != nil {
			return finish(err)
		}
	}

	return finish(nil)
}

func emit(observers []dynamo.Observer, i int, t float64, x dynamo.State) error {
	for _, o := range observers {
		if err := o.OnSample(i, t, x); err != nil {
			return fmt.Errorf("observer at sample %d: %w", i, err)
		}
	}
	return nil
}

// stepper carries the integration state between grid samples.
type stepper struct {
	sim        *Simulator
	dyn        dynamo.System
	adaptive   dynamo.AdaptiveIntegrator
	isAdaptive bool

	x     dynamo.State
	t     float64
	h     float64
	steps int
	stats Stats
}

// advance integrates from the current time to target.
func (st *stepper) advance(sample int, target float64) error {
	if !st.isAdaptive {
		dt := target - st.t
		xNew := st.sim.integrator.Step(st.dyn, st.x, st.t, dt)
		st.steps++
		st.stats.Accepted++
		st.stats.SmallestDt = math.Min(st.stats.SmallestDt, dt)
		if !xNew.IsValid() {
			return st.fail(sample, dynamo.ErrNonFinite)
		}
		st.x, st.t = xNew, target
		return nil
	}

	opts := st.sim.opts
	for st.t < target {
		if opts.MaxSteps > 0 && st.steps >= opts.MaxSteps {
			return st.fail(sample, dynamo.ErrMaxSteps)
		}

		remaining := target - st.t
		hTry := st.h
		clamped := false
		if hTry*1.01 >= remaining {
			hTry = remaining
			clamped = true
		}
		if hTry < st.minStep() {
			return st.fail(sample, dynamo.ErrStepTooSmall)
		}

		xNew, hNext, err := st.adaptive.StepAdaptive(st.dyn, st.x, st.t, hTry, opts.Tolerance)
		st.steps++
		if errors.Is(err, dynamo.ErrStepRejected) {
			st.stats.Rejected++
			st.h = hNext
			continue
		}
		if err != nil {
			return st.fail(sample, err)
		}
		if !xNew.IsValid() {
			return st.fail(sample, dynamo.ErrNonFinite)
		}

		st.stats.Accepted++
		st.stats.SmallestDt = math.Min(st.stats.SmallestDt, hTry)
		st.x = xNew
		if clamped {
			// A step shortened to hit the grid says little about the
			// step the solution can actually take.
			st.t = target
			st.h = math.Max(st.h, hNext)
		} else {
			st.t += hTry
			st.h = hNext
		}
	}
	return nil
}

func (st *stepper) minStep() float64 {
	floor := 16 * epsilon * math.Max(1, math.Abs(st.t))
	return math.Max(floor, st.sim.opts.MinStep)
}

func (st *stepper) fail(sample int, cause error) error {
	return &dynamo.IntegrationError{
		Step:    sample,
		Time:    st.t,
		State:   st.x.Clone(),
		Wrapped: cause,
	}
}

// epsilon is the spacing of float64 values at 1.
var epsilon = math.Nextafter(1, 2) - 1
