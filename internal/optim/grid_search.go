package optim

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/metrics"
)

// setters are the config parameters a grid may vary.
var setters = map[string]func(*config.Config, float64){
	"tol":  func(c *config.Config, v float64) { c.Tolerance = dynamo.Tolerance{Abs: v, Rel: v} },
	"dt":   func(c *config.Config, v float64) { c.Dt = v },
	"fps":  func(c *config.Config, v float64) { c.FPS = v },
	"time": func(c *config.Config, v float64) { c.SimTime = v },
	"g":    func(c *config.Config, v float64) { c.G = v },
}

// Params lists the parameter names a grid accepts.
func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, dynamo.Configf("grid", "%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, dynamo.Configf("grid", "unknown parameter %q (known: %v)", name, Params())
		}
		if len(ranges[i]) == 0 {
			return nil, dynamo.Configf("grid", "parameter %q has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, workers: 1}, nil
}

// SetWorkers sets how many grid points run at once. Options passed to
// Search are shared by concurrent runs, so observers must be safe for
// concurrent use when n > 1.
func (g *GridSearch) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	g.workers = n
}

// Trial is one point of the grid. Err is set when the run failed; Value is
// then NaN.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
	Output *experiment.Output
}

// Search runs base once per grid point and returns every trial, in
// row-major order of the parameters, with the index of the one that
// minimizes metric. The index is -1 when no trial succeeded. Failed trials
// do not stop the search; cancellation does, and discards all trials. An
// unknown metric is rejected before anything runs.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string, opts ...experiment.Option) ([]Trial, int, error) {
	if !slices.Contains(metrics.Names(), metric) {
		return nil, -1, dynamo.Configf("metric", "unknown metric %q (known: %v)", metric, metrics.Names())
	}
	if err := ctx.Err(); err != nil {
		return nil, -1, err
	}

	var points []map[string]float64
	g.searchRecursive(0, make(map[string]float64), func(params map[string]float64) {
		points = append(points, params)
	})

	trials := make([]Trial, len(points))
	sem := make(chan struct{}, g.workers)
	var wg sync.WaitGroup
	for i, params := range points {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, params map[string]float64) {
			defer wg.Done()
			defer func() { <-sem }()

			cfg := base.Clone()
			for name, v := range params {
				setters[name](cfg, v)
			}

			trial := Trial{Params: params, Value: math.NaN()}
			out, err := experiment.Run(ctx, cfg, opts...)
			if err != nil {
				trial.Err = err
			} else {
				trial.Output = out
				trial.Value = out.Metrics[metric]
			}
			trials[idx] = trial
		}(i, params)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, -1, err
	}

	best := -1
	for i, tr := range trials {
		if tr.Err == nil && (best < 0 || tr.Value < trials[best].Value) {
			best = i
		}
	}
	return trials, best, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, visit func(map[string]float64)) {
	if depth == len(g.paramNames) {
		visit(current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(depth+1, newParams, visit)
	}
}
