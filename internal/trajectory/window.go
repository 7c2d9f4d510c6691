package trajectory

import "gonum.org/v1/gonum/spatial/r2"

// Window returns the trail drawn behind a body at frame: the positions from
// frame-size up to but excluding frame, cut to the part that lies within
// track. The result shares memory with track but has its capacity capped, so
// appending to it never writes into the track.
func Window(track []r2.Vec, frame, size int) []r2.Vec {
	if frame <= 0 || size <= 0 {
		return track[:0:0]
	}
	lo := max(frame-size, 0)
	hi := min(frame, len(track))
	if lo >= hi {
		return track[:0:0]
	}
	return track[lo:hi:hi]
}

// Tracker computes trailing windows for every body of a trajectory. It holds
// no per-frame state.
type Tracker struct {
	traj *Trajectory
	size int
}

func NewTracker(traj *Trajectory, size int) Tracker {
	if size < 0 {
		size = 0
	}
	return Tracker{traj: traj, size: size}
}

func (tk Tracker) Size() int { return tk.size }

// Windows returns one trail per body, in body order. The trails alias the
// trajectory and must be treated as read-only.
func (tk Tracker) Windows(frame int) [][]r2.Vec {
	out := make([][]r2.Vec, len(tk.traj.pos))
	for b, track := range tk.traj.pos {
		out[b] = Window(track, frame, tk.size)
	}
	return out
}
