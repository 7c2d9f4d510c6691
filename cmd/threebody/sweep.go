package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/optim"
)

var (
	sweepParams  []string
	sweepMetric  string
	sweepWorkers int
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a preset over a parameter grid and rank by a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringArrayVarP(&sweepParams, "param", "p", nil,
		fmt.Sprintf("name=v1,v2,... with name in %v; repeat for more axes", optim.Params()))
	cmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift",
		fmt.Sprintf("metric to minimize, one of %v", metrics.Names()))
	cmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "grid points run at once")
	return cmd
}

// parseGrid reads name=v1,v2 flags into grid axes.
func parseGrid(flags []string) ([]string, [][]float64, error) {
	if len(flags) == 0 {
		return nil, nil, fmt.Errorf("at least one --param is required")
	}
	names := make([]string, 0, len(flags))
	ranges := make([][]float64, 0, len(flags))
	for _, f := range flags {
		name, list, ok := strings.Cut(f, "=")
		if !ok {
			return nil, nil, fmt.Errorf("param %q: want name=v1,v2", f)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("param %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(sweepParams)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	grid.SetWorkers(sweepWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trials, best, err := grid.Search(ctx, cfg, sweepMetric, experiment.WithLogger(logger()))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tSTEPS\tELAPSED\t\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for i, tr := range trials {
		cols := make([]string, len(names))
		for j, name := range names {
			cols[j] = strconv.FormatFloat(tr.Params[name], 'g', -1, 64)
		}
		if tr.Err != nil {
			fmt.Fprintf(w, "%s\tfailed\t\t\t%v\n", strings.Join(cols, "\t"), tr.Err)
			continue
		}
		mark := ""
		if i == best {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%.3e\t%d\t%v\t%s\n", strings.Join(cols, "\t"), tr.Value,
			tr.Output.Stats.Accepted+tr.Output.Stats.Rejected, tr.Output.Elapsed.Round(time.Millisecond), mark)
	}
	return w.Flush()
}
