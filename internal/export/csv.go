package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/trajectory"
)

// Header is the CSV column list for n bodies:
//
//	frame,time,x0,y0,vx0,vy0,x1,y1,vx1,vy1,...
func Header(n int) []string {
	h := make([]string, 0, 2+4*n)
	h = append(h, "frame", "time")
	for b := 0; b < n; b++ {
		h = append(h,
			fmt.Sprintf("x%d", b),
			fmt.Sprintf("y%d", b),
			fmt.Sprintf("vx%d", b),
			fmt.Sprintf("vy%d", b))
	}
	return h
}

// CSV writes one row per frame. Values use the shortest representation that
// parses back to the same float64.
func CSV(w io.Writer, traj *trajectory.Trajectory) error {
	cw := csv.NewWriter(w)
	n := traj.Bodies()
	if err := cw.Write(Header(n)); err != nil {
		return err
	}

	row := make([]string, 2+4*n)
	for f := 0; f < traj.Frames(); f++ {
		row[0] = strconv.Itoa(f)
		row[1] = formatFloat(traj.Time(f))
		for b := 0; b < n; b++ {
			p, v := traj.Position(b, f), traj.Velocity(b, f)
			row[2+4*b] = formatFloat(p.X)
			row[3+4*b] = formatFloat(p.Y)
			row[4+4*b] = formatFloat(v.X)
			row[5+4*b] = formatFloat(v.Y)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what CSV wrote. Masses and the frame spacing are not part
// of the file and come from the caller.
func ReadCSV(r io.Reader, masses []float64, frameDt float64) (*trajectory.Trajectory, error) {
	n := len(masses)
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2 + 4*n

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty frames file", dynamo.ErrDimensionMismatch)
	}
	if err != nil {
		return nil, readError(err)
	}
	for i, want := range Header(n) {
		if header[i] != want {
			return nil, fmt.Errorf("column %d: got %q, want %q", i, header[i], want)
		}
	}

	var (
		states []dynamo.State
		times  []float64
		bodies = make([]physics.Body, n)
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}

		frame, err := strconv.Atoi(rec[0])
		if err != nil || frame != len(states) {
			return nil, fmt.Errorf("line %d: frame %q out of sequence", line, rec[0])
		}
		vals := make([]float64, len(rec)-1)
		for i, s := range rec[1:] {
			if vals[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", line, i+1, err)
			}
		}

		for b := range bodies {
			v := vals[1+4*b:]
			bodies[b] = physics.Body{
				Mass: masses[b],
				Pos:  r2.Vec{X: v[0], Y: v[1]},
				Vel:  r2.Vec{X: v[2], Y: v[3]},
			}
		}
		states = append(states, physics.Pack(bodies))
		times = append(times, vals[0])
	}

	return trajectory.Extract(states, times, masses, frameDt)
}

// readError marks a row of the wrong width as a dimension mismatch: the
// file holds a different number of bodies than the caller expects.
func readError(err error) error {
	if errors.Is(err, csv.ErrFieldCount) {
		return fmt.Errorf("%w: %v", dynamo.ErrDimensionMismatch, err)
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
