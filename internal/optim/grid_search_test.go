package optim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

func shortBinary() *config.Config {
	cfg := config.GetPreset("binary")
	cfg.SimTime = 1
	cfg.Dt = 1e-3
	return cfg
}

func TestSearchFindsTightestTolerance(t *testing.T) {
	g, err := NewGridSearch([]string{"tol"}, [][]float64{{1e-4, 1e-11}})
	require.NoError(t, err)

	// A coarse grid leaves the step size to the tolerance.
	cfg := shortBinary()
	cfg.SimTime, cfg.Dt, cfg.FPS = 10, 0.5, 2

	trials, best, err := g.Search(context.Background(), cfg, "energy_drift")
	require.NoError(t, err)
	require.Len(t, trials, 2)

	assert.Equal(t, 1, best)
	assert.Equal(t, 1e-11, trials[best].Params["tol"])
	assert.Equal(t, 1e-11, trials[best].Output.Config.Tolerance.Abs)
	assert.Less(t, trials[1].Value, trials[0].Value)
}

func TestSearchGridOrder(t *testing.T) {
	g, err := NewGridSearch([]string{"fps", "tol"}, [][]float64{{25, 50}, {1e-8, 1e-9, 1e-10}})
	require.NoError(t, err)

	trials, _, err := g.Search(context.Background(), shortBinary(), "energy_drift")
	require.NoError(t, err)
	require.Len(t, trials, 6)

	assert.Equal(t, map[string]float64{"fps": 25, "tol": 1e-8}, trials[0].Params)
	assert.Equal(t, map[string]float64{"fps": 50, "tol": 1e-10}, trials[5].Params)
	assert.Equal(t, 25, trials[0].Output.Trajectory.Frames())
}

func TestSearchRecordsFailedTrials(t *testing.T) {
	g, err := NewGridSearch([]string{"dt"}, [][]float64{{2, 1e-3}})
	require.NoError(t, err)

	trials, best, err := g.Search(context.Background(), shortBinary(), "energy_drift")
	require.NoError(t, err)
	require.Len(t, trials, 2)

	assert.ErrorIs(t, trials[0].Err, dynamo.ErrInvalidConfig)
	assert.True(t, math.IsNaN(trials[0].Value))
	assert.Nil(t, trials[0].Output)
	assert.Equal(t, 1, best)
}

func TestSearchCanceled(t *testing.T) {
	g, err := NewGridSearch([]string{"tol"}, [][]float64{{1e-8, 1e-9}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trials, best, err := g.Search(ctx, shortBinary(), "energy_drift")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, trials)
	assert.Equal(t, -1, best)
}

func TestSearchRejectsUnknownMetric(t *testing.T) {
	g, err := NewGridSearch([]string{"tol"}, [][]float64{{1e-4, 1e-8}})
	require.NoError(t, err)

	trials, best, err := g.Search(context.Background(), shortBinary(), "energy_drfit")
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
	assert.ErrorContains(t, err, "energy_drfit")
	assert.Empty(t, trials)
	assert.Equal(t, -1, best)
}

func TestSearchAcceptsStdDev(t *testing.T) {
	g, err := NewGridSearch([]string{"tol"}, [][]float64{{1e-8}})
	require.NoError(t, err)

	trials, best, err := g.Search(context.Background(), shortBinary(), "energy_stddev")
	require.NoError(t, err)
	assert.Equal(t, 0, best)
	assert.False(t, math.IsNaN(trials[0].Value))
}

func TestNewGridSearchRejects(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		ranges [][]float64
	}{
		{"unknown", []string{"mass"}, [][]float64{{1}}},
		{"length mismatch", []string{"tol"}, nil},
		{"empty range", []string{"tol"}, [][]float64{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGridSearch(tt.params, tt.ranges)
			assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
		})
	}
}

func TestParams(t *testing.T) {
	assert.Equal(t, []string{"dt", "fps", "g", "time", "tol"}, Params())
}

func TestSearchWorkersKeepOrder(t *testing.T) {
	tols := []float64{1e-6, 1e-8, 1e-10, 1e-12}
	serial, err := NewGridSearch([]string{"tol"}, [][]float64{tols})
	require.NoError(t, err)
	parallel, err := NewGridSearch([]string{"tol"}, [][]float64{tols})
	require.NoError(t, err)
	parallel.SetWorkers(3)

	want, wantBest, err := serial.Search(context.Background(), shortBinary(), "energy_drift")
	require.NoError(t, err)
	got, gotBest, err := parallel.Search(context.Background(), shortBinary(), "energy_drift")
	require.NoError(t, err)

	require.Len(t, got, len(tols))
	assert.Equal(t, wantBest, gotBest)
	for i := range tols {
		assert.Equal(t, tols[i], got[i].Params["tol"])
		assert.Equal(t, want[i].Value, got[i].Value, "runs are deterministic")
	}
}
