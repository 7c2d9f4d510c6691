package trajectory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func track(n int) []r2.Vec {
	out := make([]r2.Vec, n)
	for i := range out {
		out[i] = r2.Vec{X: float64(i)}
	}
	return out
}

func xs(w []r2.Vec) []float64 {
	out := make([]float64, len(w))
	for i, p := range w {
		out[i] = p.X
	}
	return out
}

func TestWindow(t *testing.T) {
	path := track(10)

	tests := []struct {
		name  string
		frame int
		size  int
		want  []float64
	}{
		{"frame zero", 0, 50, []float64{}},
		{"size zero", 7, 0, []float64{}},
		{"short history", 3, 5, []float64{0, 1, 2}},
		{"full window", 8, 3, []float64{5, 6, 7}},
		{"window equals frame", 4, 4, []float64{0, 1, 2, 3}},
		{"frame just past end", 11, 3, []float64{8, 9}},
		{"frame at end", 10, 2, []float64{8, 9}},
		{"window beyond track", 25, 2, []float64{}},
		{"negative frame", -3, 4, []float64{}},
		{"negative size", 5, -1, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(path, tt.frame, tt.size)
			assert.Equal(t, tt.want, xs(got))
		})
	}
}

func TestWindowEmptyForAnySize(t *testing.T) {
	path := track(100)
	for size := 0; size < 120; size += 7 {
		assert.Empty(t, Window(path, 0, size))
	}
	for frame := 0; frame < 120; frame += 9 {
		assert.Empty(t, Window(path, frame, 0))
	}
}

func TestWindowAppendDoesNotClobberTrack(t *testing.T) {
	path := track(10)

	w := Window(path, 5, 3)
	assert.Equal(t, len(w), cap(w))
	_ = append(w, r2.Vec{X: -1})

	assert.Equal(t, 5.0, path[5].X)
}

func TestTrackerWindows(t *testing.T) {
	tr := sampleTrajectory(t, 6)
	tk := NewTracker(tr, 2)

	ws := tk.Windows(4)
	assert.Len(t, ws, 3)
	for b, w := range ws {
		assert.Equal(t, []r2.Vec{tr.Position(b, 2), tr.Position(b, 3)}, w)
	}

	for _, w := range tk.Windows(0) {
		assert.Empty(t, w)
	}
	assert.Equal(t, 0, NewTracker(tr, -4).Size())
}
