package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/analysis"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/san-kum/threebody/internal/trajectory"
	"github.com/san-kum/threebody/internal/viz"
)

var (
	plotBody int
	plotAxis int

	playFPS float64
	theme   string

	exportFormat string
	exportOut    string
	svgFrame     int

	lyapunovTime float64
)

func loadRun(runID string) (*trajectory.Trajectory, *storage.RunMetadata, error) {
	return storage.New(dataDir).LoadTrajectory(runID)
}

func checkBody(traj *trajectory.Trajectory, body int) error {
	if body < 0 || body >= traj.Bodies() {
		return fmt.Errorf("body %d out of range, run has %d bodies", body, traj.Bodies())
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	traj, meta, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if err := checkBody(traj, plotBody); err != nil {
		return err
	}
	if plotAxis != 0 && plotAxis != 1 {
		return fmt.Errorf("axis must be 0 or 1, got %d", plotAxis)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", traj.Frames())

	positions := traj.Positions(plotBody)
	xs := make([]float64, len(positions))
	ys := make([]float64, len(positions))
	for i, p := range positions {
		xs[i], ys[i] = p.X, p.Y
	}

	graph := asciigraph.PlotMany([][]float64{xs, ys},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption(fmt.Sprintf("body %d: x (red), y (blue) vs frame", plotBody)),
	)
	fmt.Println(graph)
	fmt.Println()

	axisName := "xy"[plotAxis : plotAxis+1]
	portrait := analysis.NewPhasePortrait(traj, plotBody, plotAxis)
	fmt.Printf("phase portrait: %s vs v%s\n", axisName, axisName)
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	traj, meta, err := loadRun(args[0])
	if err != nil {
		return err
	}
	win := meta.Config.Window
	if cmd.Flags().Changed("window") {
		win = window
	}
	vec := meta.Config.Vectors
	if cmd.Flags().Changed("vectors") {
		vec = vectors
	}
	return play(traj, meta.Config, win, vec, playFPS, theme)
}

func play(traj *trajectory.Trajectory, cfg *config.Config, win int, vec bool, rate float64, themeName string) error {
	p, err := viz.NewPlayer(traj, viz.PlayerOptions{
		Title:   cfg.Name,
		G:       cfg.G,
		Window:  win,
		Vectors: vec,
		FPS:     rate,
		Theme:   themeName,
	})
	if err != nil {
		return err
	}
	return viz.Play(p)
}

func exportRun(cmd *cobra.Command, args []string) error {
	traj, meta, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch exportFormat {
	case "json":
		err = export.JSON(w, meta, traj)
	case "csv":
		err = export.CSV(w, traj)
	case "svg":
		opts := export.DefaultSVGOptions()
		opts.Frame = svgFrame
		opts.Window = meta.Config.Window
		if cmd.Flags().Changed("window") {
			opts.Window = window
		}
		_, err = io.WriteString(w, export.TrajectorySVG(traj, opts))
	default:
		return fmt.Errorf("unknown format %q (json, csv, svg)", exportFormat)
	}
	if err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", exportOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	traj, meta, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if err := checkBody(traj, plotBody); err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("body: %d\n\n", plotBody)

	positions := traj.Positions(plotBody)
	data := make([]float64, len(positions))
	for i, p := range positions {
		data[i] = p.X
	}

	ps := analysis.PowerSpectrum(data)
	if len(ps) < 2 {
		return fmt.Errorf("run has too few frames for a spectrum")
	}
	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (x%d)", plotBody)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, 1/traj.FrameDt())
	fmt.Printf("dominant frequency: %.4f per unit time\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4f\n", 1.0/freq)
	}

	if lyapunovTime > 0 {
		return printLyapunov(meta.Config)
	}
	return nil
}

// printLyapunov integrates the initial condition with fixed rk4 steps at the
// run's sample spacing.
func printLyapunov(cfg *config.Config) error {
	dyn, err := physics.NewGravity(cfg.G, cfg.Masses())
	if err != nil {
		return err
	}
	integ, err := integrators.New("rk4")
	if err != nil {
		return err
	}
	lambda := analysis.LyapunovExponent(dyn, integ, physics.Pack(cfg.Initial()), cfg.Dt, lyapunovTime, 1e-8)
	fmt.Printf("\nlargest lyapunov exponent (t=%g): %.4f\n", lyapunovTime, lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.4f\n", 1/lambda)
	}
	return nil
}

// progress draws a bar on w as fine-grid samples arrive.
type progress struct {
	w       io.Writer
	samples int
	shown   int
}

func newProgress(w io.Writer, cfg *config.Config) *progress {
	plan, err := trajectory.NewPlan(cfg.Dt, cfg.SimTime, cfg.FPS)
	if err != nil {
		return &progress{w: io.Discard, shown: -1}
	}
	return &progress{w: w, samples: plan.Samples, shown: -1}
}

func (p *progress) OnSample(i int, t float64, x dynamo.State) error {
	if p.samples <= 1 {
		return nil
	}
	pct := int(math.Floor(100 * float64(i) / float64(p.samples-1)))
	if pct != p.shown {
		p.shown = pct
		fmt.Fprintf(p.w, "\r%s %3d%%  t=%.2f", viz.ProgressBar(float64(pct)/100, 30), pct, t)
	}
	return nil
}

func (p *progress) done() {
	if p.shown >= 0 {
		fmt.Fprintln(p.w)
	}
}
