package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/trajectory"
)

// PhasePortrait2D holds data for a 2D phase space plot. Each point is a
// body's coordinate along Axis (X) against its velocity along Axis (Y).
type PhasePortrait2D struct {
	Body, Axis int
	Points     []r2.Vec
}

// NewPhasePortrait reads one body's phase trajectory along axis 0 (x) or
// 1 (y) from a computed trajectory.
func NewPhasePortrait(traj *trajectory.Trajectory, body, axis int) *PhasePortrait2D {
	if body < 0 || body >= traj.Bodies() || axis < 0 || axis > 1 {
		return nil
	}

	portrait := &PhasePortrait2D{
		Body:   body,
		Axis:   axis,
		Points: make([]r2.Vec, traj.Frames()),
	}
	for f := range portrait.Points {
		p, v := traj.Position(body, f), traj.Velocity(body, f)
		if axis == 0 {
			portrait.Points[f] = r2.Vec{X: p.X, Y: v.X}
		} else {
			portrait.Points[f] = r2.Vec{X: p.Y, Y: v.Y}
		}
	}
	return portrait
}

// PhasePortraitToASCII plots the portrait on a width x height character
// grid, with the axes drawn where they cross the plotted range.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := bounds(portrait.Points)
	col := func(x float64) int { return int((x - lo.X) / (hi.X - lo.X) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-lo.Y)/(hi.Y-lo.Y)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if lo.X <= 0 && hi.X >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if lo.Y <= 0 && hi.Y >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}
	for _, p := range portrait.Points {
		grid[row(p.Y)][col(p.X)] = '•'
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// bounds is the bounding box of points padded by a tenth of its size on
// every side. Degenerate extents are widened to one.
func bounds(points []r2.Vec) (lo, hi r2.Vec) {
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo = r2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = r2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	span := r2.Sub(hi, lo)
	if span.X == 0 {
		span.X = 1
	}
	if span.Y == 0 {
		span.Y = 1
	}
	pad := r2.Scale(0.1, span)
	return r2.Sub(lo, pad), r2.Add(hi, pad)
}
