package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport maps world coordinates onto a canvas's sub-pixel grid, keeping
// one world unit the same length on both axes. Braille sub-pixels are
// roughly square, so no aspect correction is applied.
type Viewport struct {
	Center r2.Vec
	// Scale is sub-pixels per world unit.
	Scale float64
	W, H  int
}

// NewViewport fits the world box [lo, hi] into a w x h sub-pixel area.
func NewViewport(lo, hi r2.Vec, w, h int) Viewport {
	span := r2.Sub(hi, lo)
	sx := float64(w-1) / math.Max(span.X, 1e-12)
	sy := float64(h-1) / math.Max(span.Y, 1e-12)
	return Viewport{
		Center: r2.Scale(0.5, r2.Add(lo, hi)),
		Scale:  math.Min(sx, sy),
		W:      w,
		H:      h,
	}
}

// Fit returns a viewport that shows every point with a margin of a tenth of
// the extent.
func Fit(points []r2.Vec, w, h int) Viewport {
	if len(points) == 0 {
		return NewViewport(r2.Vec{X: -5, Y: -5}, r2.Vec{X: 5, Y: 5}, w, h)
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = r2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = r2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	pad := r2.Scale(0.1, r2.Sub(hi, lo))
	pad.X = math.Max(pad.X, 0.5)
	pad.Y = math.Max(pad.Y, 0.5)
	return NewViewport(r2.Sub(lo, pad), r2.Add(hi, pad), w, h)
}

// Project returns the sub-pixel for a world point. y grows downward on
// screen.
func (v Viewport) Project(p r2.Vec) (int, int) {
	d := r2.Scale(v.Scale, r2.Sub(p, v.Center))
	x := float64(v.W-1)/2 + d.X
	y := float64(v.H-1)/2 - d.Y
	return int(math.Round(x)), int(math.Round(y))
}

// Zoom scales the view about its center; factors above one zoom in.
func (v Viewport) Zoom(factor float64) Viewport {
	v.Scale *= factor
	return v
}
