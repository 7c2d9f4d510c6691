package experiment_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/physics"
)

// shortBinary is a circular two-body orbit over a few time units.
func shortBinary() *config.Config {
	cfg := config.GetPreset("binary")
	cfg.SimTime = 5
	cfg.Dt = 1e-3
	return cfg
}

// randomTriple places three bodies near the vertices of a triangle of
// circumradius 2 so that no close encounter happens within a time unit.
func randomTriple(rng *rand.Rand) *config.Config {
	cfg := config.GetPreset("pythagorean")
	cfg.Name = "random"
	cfg.SimTime = 1
	cfg.Dt = 1e-3
	cfg.Tolerance = dynamo.Tolerance{Abs: 1e-10, Rel: 1e-10}
	for i := range cfg.Bodies {
		theta := float64(i)*2*math.Pi/3 + 0.2*(rng.Float64()-0.5)
		cfg.Bodies[i] = config.Body{
			Mass: 1 + 2*rng.Float64(),
			Pos:  []float64{2*math.Cos(theta) + 0.3*(rng.Float64()-0.5), 2*math.Sin(theta) + 0.3*(rng.Float64()-0.5)},
			Vel:  []float64{0.6 * (rng.Float64() - 0.5), 0.6 * (rng.Float64() - 0.5)},
		}
	}
	return cfg
}

type countingObserver struct{ samples int }

func (c *countingObserver) OnSample(int, float64, dynamo.State) error {
	c.samples++
	return nil
}

var _ = Describe("Run", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with an invalid configuration", func() {
		It("rejects a frame rate finer than the grid before integrating", func() {
			cfg := shortBinary()
			cfg.FPS = 2000
			obs := &countingObserver{}

			out, err := experiment.Run(ctx, cfg, experiment.WithObserver(obs))

			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
			Expect(out).To(BeNil())
			Expect(obs.samples).To(BeZero())
		})

		It("rejects a non-positive mass", func() {
			cfg := shortBinary()
			cfg.Bodies[0].Mass = -1

			_, err := experiment.Run(ctx, cfg)

			var ce *dynamo.ConfigError
			Expect(err).To(BeAssignableToTypeOf(ce))
			Expect(err.(*dynamo.ConfigError).Field).To(Equal("bodies"))
		})
	})

	Context("with a circular binary", func() {
		var out *experiment.Output

		BeforeEach(func() {
			var err error
			out, err = experiment.Run(ctx, shortBinary())
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces round(fps*sim_time) frames for every body", func() {
			Expect(out.Trajectory.Frames()).To(Equal(250))
			for b := 0; b < out.Trajectory.Bodies(); b++ {
				Expect(out.Trajectory.Positions(b)).To(HaveLen(250))
			}
		})

		It("starts exactly at the initial positions", func() {
			Expect(out.Trajectory.Position(0, 0)).To(Equal(r2.Vec{X: -1, Y: 0}))
			Expect(out.Trajectory.Position(1, 0)).To(Equal(r2.Vec{X: 1, Y: 0}))
		})

		It("keeps the orbit circular", func() {
			for f := 0; f < out.Trajectory.Frames(); f++ {
				Expect(r2.Norm(out.Trajectory.Position(0, f))).To(BeNumerically("~", 1, 1e-8))
			}
		})

		It("spaces frames by the stride", func() {
			Expect(out.Plan.Stride).To(Equal(20))
			Expect(out.Trajectory.Time(1)).To(BeNumerically("~", 0.02, 1e-15))
			Expect(out.Trajectory.FrameDt()).To(BeNumerically("~", 0.02, 1e-15))
		})

		It("reports solver statistics and conservation metrics", func() {
			Expect(out.Stats.Accepted).To(BeNumerically(">=", out.Plan.Samples-1))
			Expect(out.Stats.Evaluations).To(BeNumerically(">", out.Stats.Accepted))
			Expect(out.Metrics).To(HaveKey("energy_drift"))
			Expect(out.Metrics["energy_drift"]).To(BeNumerically("<", 1e-9))
			Expect(out.Metrics["min_separation"]).To(BeNumerically("~", 2, 1e-8))
		})
	})

	DescribeTable("frame count equals round(fps*sim_time)",
		func(simTime, dt, fps float64, frames int) {
			cfg := shortBinary()
			cfg.SimTime, cfg.Dt, cfg.FPS = simTime, dt, fps

			out, err := experiment.Run(ctx, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Trajectory.Frames()).To(Equal(frames))
			Expect(out.Trajectory.Frames()).To(Equal(int(math.Round(fps * simTime))))
		},
		Entry("whole stride", 2.0, 1e-3, 25.0, 50),
		Entry("rounded stride", 1.0, 3e-3, 30.0, 30),
		Entry("stride of one", 1.0, 0.02, 50.0, 50),
		Entry("fractional frame count", 1.01, 1e-3, 10.0, 10),
	)

	It("conserves linear momentum across random configurations", func() {
		rng := rand.New(rand.NewSource(1967))
		for trial := 0; trial < 5; trial++ {
			cfg := randomTriple(rng)
			out, err := experiment.Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			dyn, err := physics.NewGravity(cfg.G, cfg.Masses())
			Expect(err).NotTo(HaveOccurred())
			p0 := dyn.Momentum(out.Trajectory.State(0))
			for f := 1; f < out.Trajectory.Frames(); f++ {
				p := dyn.Momentum(out.Trajectory.State(f))
				Expect(r2.Norm(r2.Sub(p, p0))).To(BeNumerically("<", 1e-9), "trial %d frame %d", trial, f)
			}
		}
	})

	DescribeTable("energy error scales with tolerance",
		func(tol float64) {
			cfg := config.GetPreset("figure8")
			cfg.SimTime = 2
			cfg.Dt = 5e-3
			cfg.Tolerance = dynamo.Tolerance{Abs: tol, Rel: tol}

			out, err := experiment.Run(ctx, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Metrics["energy_drift"]).To(BeNumerically("<", 1e3*tol))
		},
		Entry("loose", 1e-6),
		Entry("tight", 1e-10),
	)

	It("runs with a fixed-step integrator", func() {
		cfg := shortBinary()
		cfg.Integrator = "rk4"

		out, err := experiment.Run(ctx, cfg)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.Trajectory.Frames()).To(Equal(250))
		Expect(out.Stats.Accepted).To(Equal(out.Plan.Samples - 1))
	})

	It("fails without a trajectory when two bodies collide", func() {
		cfg := shortBinary()
		cfg.Tolerance = dynamo.Tolerance{Abs: 1e-10, Rel: 1e-10}
		cfg.MaxSteps = 1000000
		for i := range cfg.Bodies {
			cfg.Bodies[i].Vel = []float64{0, 0}
		}

		out, err := experiment.Run(ctx, cfg)

		Expect(err).To(MatchError(dynamo.ErrIntegration))
		Expect(out).To(BeNil())
	})

	It("stops when the context is canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := experiment.Run(canceled, config.DefaultConfig())

		Expect(err).To(MatchError(context.Canceled))
	})

	It("logs phases through the given logger", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := experiment.Run(ctx, shortBinary(), experiment.WithLogger(logger))

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("msg=integrating"))
		Expect(buf.String()).To(ContainSubstring("run=binary"))
	})

	It("reproduces the Pythagorean problem", func() {
		if testing.Short() {
			Skip("integrates seven million grid samples")
		}

		cfg := config.GetPreset("pythagorean")
		out, err := experiment.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())

		traj := out.Trajectory
		Expect(traj.Frames()).To(Equal(3500))
		Expect(traj.Bodies()).To(Equal(3))
		Expect(traj.Position(0, 0)).To(Equal(r2.Vec{X: 1, Y: 3}))
		Expect(traj.Position(1, 0)).To(Equal(r2.Vec{X: -2, Y: -1}))
		Expect(traj.Position(2, 0)).To(Equal(r2.Vec{X: 1, Y: -1}))
		for b := 0; b < traj.Bodies(); b++ {
			path := traj.Positions(b)
			Expect(path).To(HaveLen(3500))
			for _, p := range path {
				Expect(math.IsNaN(p.X) || math.IsInf(p.X, 0)).To(BeFalse())
				Expect(math.IsNaN(p.Y) || math.IsInf(p.Y, 0)).To(BeFalse())
			}
		}
		Expect(traj.Validate()).To(Succeed())
	})
})
