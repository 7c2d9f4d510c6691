package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/storage"
	"github.com/san-kum/threebody/internal/viz"
)

var (
	dataDir string
	verbose bool

	configFile string
	simTime    float64
	dt         float64
	fps        float64
	tol        float64
	window     int
	integrator string
	vectors    bool
	maxSteps   int
	playAfter  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "threebody",
		Short:         "planar n-body simulator and trajectory viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".threebody", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log integration phases to stderr")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "simulate a preset or config file and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&simTime, "time", config.DefaultSimTime, "simulated time")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sample spacing of the fine grid")
	runCmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "frames per unit of simulated time")
	runCmd.Flags().Float64Var(&tol, "tol", config.DefaultTolerance, "absolute and relative tolerance")
	runCmd.Flags().IntVar(&window, "window", config.DefaultWindow, "trail length in frames")
	runCmd.Flags().StringVar(&integrator, "integrator", integrators.Default, fmt.Sprintf("integrator %v", integrators.Names()))
	runCmd.Flags().BoolVar(&vectors, "vectors", false, "draw momentum vectors when playing")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget, 0 for none")
	runCmd.Flags().BoolVar(&playAfter, "play", false, "open the player when the run finishes")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in initial conditions",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [preset] <file>",
		Short: "write a preset as an editable config file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  initConfig,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "show run configuration and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run_id>",
		Short: "plot a body's coordinates and phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", 0, "body index")
	plotCmd.Flags().IntVar(&plotAxis, "axis", 0, "phase portrait axis (0=x, 1=y)")

	playCmd := &cobra.Command{
		Use:   "play <run_id>",
		Short: "replay a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}
	playCmd.Flags().Float64Var(&playFPS, "fps", 0, "playback frame rate, 0 for real time")
	playCmd.Flags().IntVar(&window, "window", config.DefaultWindow, "trail length in frames")
	playCmd.Flags().BoolVar(&vectors, "vectors", false, "draw momentum vectors")
	playCmd.Flags().StringVar(&theme, "theme", "classic", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	exportCmd := &cobra.Command{
		Use:   "export <run_id>",
		Short: "export a run as json, csv or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "json, csv or svg")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file, stdout when empty")
	exportCmd.Flags().IntVar(&svgFrame, "frame", -1, "svg: frame to draw, -1 for the last")
	exportCmd.Flags().IntVar(&window, "window", config.DefaultWindow, "svg: trail length in frames")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <run_id>",
		Short: "power spectrum and Lyapunov estimate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&plotBody, "body", 0, "body index")
	analyzeCmd.Flags().Float64Var(&lyapunovTime, "lyapunov-time", 0, "integrate the Lyapunov estimate this long, 0 to skip")

	rootCmd.AddCommand(runCmd, presetsCmd, initCmd, listCmd, showCmd, plotCmd, playCmd, exportCmd, analyzeCmd, newSweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusError.Render("error:"), err)
		os.Exit(1)
	}
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadConfig resolves the run configuration: a config file or a preset,
// then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a preset or --config, not both")
	case configFile != "":
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case len(args) > 0:
		if cfg = config.GetPreset(args[0]); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.SimTime = simTime
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("tol") {
		cfg.Tolerance = dynamo.Tolerance{Abs: tol, Rel: tol}
	}
	if flags.Changed("window") {
		cfg.Window = window
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("vectors") {
		cfg.Vectors = vectors
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%d bodies, t=%g, dt=%g, %s)\n", cfg.Name, len(cfg.Bodies), cfg.SimTime, cfg.Dt, cfg.Integrator)
	bar := newProgress(os.Stderr, cfg)
	out, err := experiment.Run(ctx, cfg,
		experiment.WithLogger(logger()),
		experiment.WithObserver(bar))
	bar.done()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	runID, err := st.Save(out)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", out.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", out.Trajectory.Frames())
	printStats(out.Stats)
	printMetrics(out.Metrics)

	if playAfter {
		return play(out.Trajectory, cfg, cfg.Window, cfg.Vectors, 0, "")
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tTIME\tDT\tINTEG")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%s\n", name, len(p.Bodies), p.SimTime, p.Dt, p.Integrator)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	name, path := "pythagorean", args[0]
	if len(args) == 2 {
		name, path = args[0], args[1]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s preset to %s\n", name, path)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSIM TIME\tFRAMES\tINTEG\tENERGY DRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%s\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.SimTime,
			run.Frames,
			run.Config.Integrator,
			run.Metrics["energy_drift"],
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	cfg := meta.Config

	fmt.Println(viz.Title.Render(meta.ID))
	fmt.Println(viz.Metric("Name", meta.Name))
	fmt.Println(viz.Metric("Saved", meta.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Println(viz.Metric("Integrator", cfg.Integrator))
	fmt.Println(viz.Metric("Sim time", fmt.Sprintf("%g", cfg.SimTime)))
	fmt.Println(viz.Metric("dt", fmt.Sprintf("%g", cfg.Dt)))
	fmt.Println(viz.Metric("Tolerance", fmt.Sprintf("%g/%g", cfg.Tolerance.Abs, cfg.Tolerance.Rel)))
	fmt.Println(viz.Metric("Frames", fmt.Sprintf("%d @ %g", meta.Frames, meta.FrameDt)))
	fmt.Println(viz.Metric("Elapsed", meta.Elapsed.String()))

	fmt.Println()
	for i, b := range cfg.Bodies {
		fmt.Println(viz.Swatch(viz.ThemeClassic.BodyColor(i),
			fmt.Sprintf("body %d  m=%g  pos=%v  vel=%v", i, b.Mass, b.Pos, b.Vel)))
	}
	fmt.Println()
	printStats(meta.Stats)
	printMetrics(meta.Metrics)
	return nil
}

func printStats(s sim.Stats) {
	fmt.Println(viz.Subtle.Render("integration:"))
	fmt.Printf("  accepted: %d  rejected: %d  evaluations: %d  smallest dt: %.3g\n",
		s.Accepted, s.Rejected, s.Evaluations, s.SmallestDt)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Println(viz.Subtle.Render("metrics:"))
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}
