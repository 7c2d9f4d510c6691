package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/trajectory"
)

// Output is everything a simulation produces.
type Output struct {
	Config     *config.Config
	Plan       trajectory.Plan
	Trajectory *trajectory.Trajectory
	Stats      sim.Stats
	Metrics    map[string]float64
	Elapsed    time.Duration
}

type runOptions struct {
	logger    *slog.Logger
	observers []dynamo.Observer
}

type Option func(*runOptions)

// WithLogger sets the logger for phase timings. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *runOptions) { o.logger = l }
}

// WithObserver receives every fine-grid sample alongside the frame
// collector, for progress reporting.
func WithObserver(obs dynamo.Observer) Option {
	return func(o *runOptions) { o.observers = append(o.observers, obs) }
}

// Run validates cfg, integrates it and downsamples the solution to frames.
// Nothing is integrated when cfg is invalid, and a failed integration
// returns no trajectory at all.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (*Output, error) {
	o := runOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With("run", cfg.Name)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	dyn, err := physics.NewGravity(cfg.G, cfg.Masses())
	if err != nil {
		return nil, err
	}
	plan, err := trajectory.NewPlan(cfg.Dt, cfg.SimTime, cfg.FPS)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, dynamo.Configf("integrator", "%v", err)
	}

	s := sim.New(dyn, integ, sim.Options{
		Tolerance: cfg.Tolerance,
		MaxSteps:  cfg.MaxSteps,
	})
	collector := trajectory.NewCollector(plan)
	s.AddObserver(collector)
	for _, obs := range o.observers {
		s.AddObserver(obs)
	}

	log.Debug("integrating",
		"bodies", dyn.NumBodies(),
		"integrator", cfg.Integrator,
		"samples", plan.Samples,
		"stride", plan.Stride,
		"frames", plan.Frames)

	start := time.Now()
	stats, err := s.Solve(ctx, physics.Pack(cfg.Initial()), plan.Grid())
	solved := time.Since(start)
	if err != nil {
		log.Debug("integration failed", "err", err, "elapsed", solved)
		return nil, fmt.Errorf("simulate %s: %w", cfg.Name, err)
	}
	log.Debug("integrated",
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"evaluations", stats.Evaluations,
		"elapsed", solved)

	traj, err := trajectory.Extract(collector.States(), collector.Times(), dyn.Masses(), plan.FrameDt())
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", cfg.Name, err)
	}
	if err := traj.Validate(); err != nil {
		return nil, fmt.Errorf("simulate %s: %w", cfg.Name, err)
	}

	values := metrics.Evaluate(traj, metrics.Conservation(dyn)...)
	elapsed := time.Since(start)
	log.Debug("done", "frames", traj.Frames(), "energy_drift", values["energy_drift"], "elapsed", elapsed)

	return &Output{
		Config:     cfg,
		Plan:       plan,
		Trajectory: traj,
		Stats:      stats,
		Metrics:    values,
		Elapsed:    elapsed,
	}, nil
}
