package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the one-sided power spectrum of series. The mean is
// removed, a Hann window applied and the result zero-padded to the next power
// of two n, giving n/2+1 bins spaced sampleRate/n apart. Series shorter than
// two samples have no spectrum.
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}

	n := nextPow2(len(series))
	buf := make([]float64, n)
	mean := stat.Mean(series, nil)
	for i, v := range series {
		buf[i] = v - mean
	}
	window.Apply(buf[:len(series)], window.Hann)

	coeffs := fft.FFTReal(buf)
	ps := make([]float64, n/2+1)
	for k := range ps {
		mag := cmplx.Abs(coeffs[k])
		ps[k] = mag * mag / float64(n)
	}
	return ps
}

// DominantFrequency is the frequency of the strongest non-zero bin of the
// series' power spectrum, in cycles per unit of simulated time when
// sampleRate is in frames per unit time.
func DominantFrequency(series []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	n := 2 * (len(ps) - 1)
	return float64(best) * sampleRate / float64(n)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
