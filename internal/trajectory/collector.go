package trajectory

import "github.com/san-kum/threebody/internal/dynamo"

// Downsample selects every stride-th state, starting with the first. A
// stride below one selects every state.
func Downsample(states []dynamo.State, stride int) []dynamo.State {
	if stride < 1 {
		stride = 1
	}
	out := make([]dynamo.State, 0, (len(states)+stride-1)/stride)
	for i := 0; i < len(states); i += stride {
		out = append(out, states[i])
	}
	return out
}

// Collector is an observer that keeps only the samples that become frames,
// so the fine grid is never held in memory.
type Collector struct {
	stride int
	states []dynamo.State
	times  []float64
}

func NewCollector(p Plan) *Collector {
	stride := p.Stride
	if stride < 1 {
		stride = 1
	}
	return &Collector{
		stride: stride,
		states: make([]dynamo.State, 0, p.Frames),
		times:  make([]float64, 0, p.Frames),
	}
}

func (c *Collector) OnSample(i int, t float64, x dynamo.State) error {
	if i%c.stride != 0 {
		return nil
	}
	c.states = append(c.states, x.Clone())
	c.times = append(c.times, t)
	return nil
}

func (c *Collector) States() []dynamo.State { return c.states }

func (c *Collector) Times() []float64 { return c.times }

func (c *Collector) Len() int { return len(c.states) }
