package sim

import "github.com/san-kum/threebody/internal/dynamo"

// Grid is a uniform evaluation grid: sample i sits at i*Dt.
type Grid struct {
	Dt float64
	N  int
}

// Time is computed by multiplication so that late samples carry no
// accumulated rounding.
func (g Grid) Time(i int) float64 { return float64(i) * g.Dt }

// Span is the time of the last sample.
func (g Grid) Span() float64 { return g.Time(g.N - 1) }

type Options struct {
	Tolerance dynamo.Tolerance
	// MaxSteps caps attempted steps, rejected ones included. Zero means no cap.
	MaxSteps int
	// MinStep is the smallest adaptive step allowed. Zero derives it from
	// machine precision at the current time.
	MinStep float64
	// InitialStep seeds the adaptive controller. Zero uses the grid spacing.
	InitialStep float64
}

func DefaultOptions() Options {
	return Options{
		Tolerance: dynamo.Tolerance{Abs: 1e-10, Rel: 1e-10},
	}
}

type Stats struct {
	Accepted    int     `json:"accepted"`
	Rejected    int     `json:"rejected"`
	Evaluations int     `json:"evaluations"`
	SmallestDt  float64 `json:"smallest_dt"`
}

// Result is a solution held entirely in memory, one state per grid sample.
type Result struct {
	Times  []float64
	States []dynamo.State
	Stats  Stats
}
