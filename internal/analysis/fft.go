package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooFewSamples = errors.New("analysis: too few samples or no variation")

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period in seconds of the strongest non-DC
// component of series sampled every interval seconds.
func DominantPeriod(series []float64, interval float64) (float64, error) {
	if len(series) < 4 || interval <= 0 {
		return 0, ErrTooFewSamples
	}

	ps := PowerSpectrum(series)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] <= 1e-12*maxAbs(series) {
		return 0, ErrTooFewSamples
	}
	return float64(len(series)) * interval / float64(best), nil
}

func maxAbs(data []float64) float64 {
	var m float64
	for _, v := range data {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}
