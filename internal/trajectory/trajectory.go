package trajectory

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

// Trajectory is the frame-indexed history of every body. It is not modified
// after Extract returns and may be read from several goroutines.
type Trajectory struct {
	masses  []float64
	times   []float64
	frameDt float64
	pos     [][]r2.Vec // [body][frame]
	vel     [][]r2.Vec
}

// Extract reshapes packed frame states into per-body series. times[i] is the
// simulated time of frames[i].
func Extract(frames []dynamo.State, times []float64, masses []float64, frameDt float64) (*Trajectory, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames to extract", dynamo.ErrDimensionMismatch)
	}
	if len(times) != len(frames) {
		return nil, fmt.Errorf("%w: %d frames but %d times", dynamo.ErrDimensionMismatch, len(frames), len(times))
	}

	n := len(masses)
	tr := &Trajectory{
		masses:  append([]float64(nil), masses...),
		times:   append([]float64(nil), times...),
		frameDt: frameDt,
		pos:     make([][]r2.Vec, n),
		vel:     make([][]r2.Vec, n),
	}
	for b := 0; b < n; b++ {
		tr.pos[b] = make([]r2.Vec, len(frames))
		tr.vel[b] = make([]r2.Vec, len(frames))
	}

	for f, x := range frames {
		if len(x) != 4*n {
			return nil, fmt.Errorf("%w: frame %d has %d components, %d bodies need %d",
				dynamo.ErrDimensionMismatch, f, len(x), n, 4*n)
		}
		for b := 0; b < n; b++ {
			tr.pos[b][f] = physics.Position(x, b)
			tr.vel[b][f] = physics.Velocity(x, n, b)
		}
	}
	return tr, nil
}

func (t *Trajectory) Frames() int { return len(t.times) }

func (t *Trajectory) Bodies() int { return len(t.masses) }

func (t *Trajectory) Masses() []float64 { return append([]float64(nil), t.masses...) }

func (t *Trajectory) Times() []float64 { return append([]float64(nil), t.times...) }

func (t *Trajectory) Time(frame int) float64 { return t.times[frame] }

func (t *Trajectory) FrameDt() float64 { return t.frameDt }

// Positions returns a copy of one body's path.
func (t *Trajectory) Positions(body int) []r2.Vec {
	return append([]r2.Vec(nil), t.pos[body]...)
}

// Velocities returns a copy of one body's velocity series.
func (t *Trajectory) Velocities(body int) []r2.Vec {
	return append([]r2.Vec(nil), t.vel[body]...)
}

func (t *Trajectory) Position(body, frame int) r2.Vec { return t.pos[body][frame] }

func (t *Trajectory) Velocity(body, frame int) r2.Vec { return t.vel[body][frame] }

// Frame returns every body's position at one frame.
func (t *Trajectory) Frame(frame int) []r2.Vec {
	out := make([]r2.Vec, len(t.pos))
	for b := range t.pos {
		out[b] = t.pos[b][frame]
	}
	return out
}

// Momenta returns the arrow components drawn by the vector view:
// U = m*vx and V = m*vy for each body.
func (t *Trajectory) Momenta(frame int) (u, v []float64) {
	u = make([]float64, len(t.masses))
	v = make([]float64, len(t.masses))
	for b, m := range t.masses {
		u[b] = m * t.vel[b][frame].X
		v[b] = m * t.vel[b][frame].Y
	}
	return u, v
}

// Forces returns the net gravitational force on each body at one frame.
func (t *Trajectory) Forces(frame int, g float64) []r2.Vec {
	return physics.Forces(g, t.masses, t.Frame(frame))
}

// State repacks one frame into the solver's state layout.
func (t *Trajectory) State(frame int) dynamo.State {
	bodies := make([]physics.Body, len(t.masses))
	for b, m := range t.masses {
		bodies[b] = physics.Body{Mass: m, Pos: t.pos[b][frame], Vel: t.vel[b][frame]}
	}
	return physics.Pack(bodies)
}

// Validate reports the first frame holding a non-finite value.
func (t *Trajectory) Validate() error {
	for f := range t.times {
		x := t.State(f)
		if !x.IsValid() {
			return &dynamo.IntegrationError{
				Step:    f,
				Time:    t.times[f],
				State:   x,
				Wrapped: dynamo.ErrNonFinite,
			}
		}
	}
	return nil
}
