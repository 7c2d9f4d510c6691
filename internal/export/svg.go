package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/threebody/internal/trajectory"
)

// Palette is the body color cycle.
var Palette = []string{"#D81B60", "#1E88E5", "#FFC107"}

type SVGOptions struct {
	Width, Height int
	// Frame is the frame whose bodies and trails are drawn. Out-of-range
	// values select the last frame.
	Frame int
	// Window is the trail length in frames.
	Window int
	Colors []string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 800, Frame: -1, Window: 50, Colors: Palette}
}

// TrajectorySVG draws every body's full path faintly, its trailing window up
// to Frame, and a disk at its position in Frame with radius mass/30.
func TrajectorySVG(traj *trajectory.Trajectory, opts SVGOptions) string {
	def := DefaultSVGOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if len(opts.Colors) == 0 {
		opts.Colors = def.Colors
	}
	frame := opts.Frame
	if frame < 0 || frame >= traj.Frames() {
		frame = traj.Frames() - 1
	}

	n := traj.Bodies()
	tracks := make([][]r2.Vec, n)
	for b := range tracks {
		tracks[b] = traj.Positions(b)
	}
	proj := fitProjection(tracks, opts.Width, opts.Height)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height))

	for b, track := range tracks {
		color := opts.Colors[b%len(opts.Colors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="0.3" stroke-width="1" d="%s"/>
`, color, proj.path(track)))

		trail := append(trajectory.Window(track, frame, opts.Window), track[frame])
		if len(trail) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="2" d="%s"/>
`, color, proj.path(trail)))
		}
	}

	masses := traj.Masses()
	for b, track := range tracks {
		x, y := proj.point(track[frame])
		r := math.Max(masses[b]/30*proj.scale, 2)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, opts.Colors[b%len(opts.Colors)]))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// projection maps world coordinates to SVG pixels with equal scale on both
// axes and y pointing up.
type projection struct {
	lo     r2.Vec
	scale  float64
	offset r2.Vec
	height int
}

func fitProjection(tracks [][]r2.Vec, width, height int) projection {
	lo := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, track := range tracks {
		for _, p := range track {
			lo = r2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
			hi = r2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
		}
	}

	span := r2.Sub(hi, lo)
	if span.X == 0 {
		span.X = 1
	}
	if span.Y == 0 {
		span.Y = 1
	}
	lo = r2.Sub(lo, r2.Scale(0.1, span))
	span = r2.Scale(1.2, span)

	scale := math.Min(float64(width)/span.X, float64(height)/span.Y)
	return projection{
		lo:    lo,
		scale: scale,
		offset: r2.Vec{
			X: (float64(width) - span.X*scale) / 2,
			Y: (float64(height) - span.Y*scale) / 2,
		},
		height: height,
	}
}

func (p projection) point(v r2.Vec) (float64, float64) {
	d := r2.Scale(p.scale, r2.Sub(v, p.lo))
	return p.offset.X + d.X, float64(p.height) - p.offset.Y - d.Y
}

func (p projection) path(points []r2.Vec) string {
	var sb strings.Builder
	for i, v := range points {
		x, y := p.point(v)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	return sb.String()
}
