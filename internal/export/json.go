package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/threebody/internal/trajectory"
)

// BodyTrack is one body's series in the JSON document.
type BodyTrack struct {
	Mass float64   `json:"mass"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	VX   []float64 `json:"vx"`
	VY   []float64 `json:"vy"`
}

// Document is the JSON export of a trajectory.
type Document struct {
	Meta    any         `json:"meta,omitempty"`
	FrameDt float64     `json:"frame_dt"`
	Times   []float64   `json:"times"`
	Bodies  []BodyTrack `json:"bodies"`
}

// NewDocument splits the trajectory into per-body coordinate series.
func NewDocument(meta any, traj *trajectory.Trajectory) Document {
	masses := traj.Masses()
	doc := Document{
		Meta:    meta,
		FrameDt: traj.FrameDt(),
		Times:   traj.Times(),
		Bodies:  make([]BodyTrack, len(masses)),
	}
	for b, m := range masses {
		n := traj.Frames()
		track := BodyTrack{
			Mass: m,
			X:    make([]float64, n),
			Y:    make([]float64, n),
			VX:   make([]float64, n),
			VY:   make([]float64, n),
		}
		for f := 0; f < n; f++ {
			p, v := traj.Position(b, f), traj.Velocity(b, f)
			track.X[f], track.Y[f] = p.X, p.Y
			track.VX[f], track.VY[f] = v.X, v.Y
		}
		doc.Bodies[b] = track
	}
	return doc
}

// JSON writes meta and the trajectory as one indented document. meta may be
// nil.
func JSON(w io.Writer, meta any, traj *trajectory.Trajectory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(meta, traj))
}
