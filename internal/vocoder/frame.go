// Package vocoder implements a WORLD-style analysis/synthesis
// pipeline (Harvest-equivalent pitch tracking, CheapTrick-equivalent
// spectral envelope estimation, D4C-equivalent aperiodicity
// estimation, and additive resynthesis) built from real FFT/window
// primitives, since no Go binding to the native WORLD vocoder exists
// in the dependency pack this module was grounded on.
package vocoder

import "math"

// frameTimes returns the analysis frame centers, in seconds, that
// cover samples[0:len(samples)] at the given frame period.
func frameTimes(numSamples, fs int, framePeriodMs float64) []float64 {
	periodSec := framePeriodMs / 1000.0
	numFrames := int(math.Floor(float64(numSamples)/(periodSec*float64(fs)))) + 1
	if numFrames < 1 {
		numFrames = 1
	}

	t := make([]float64, numFrames)
	for i := range t {
		t[i] = float64(i) * periodSec
	}
	return t
}

// extractWindow copies a centered window of length n from src at
// sample center, zero-padding where the window runs off either end.
func extractWindow(src []float64, center, n int) []float64 {
	out := make([]float64, n)
	half := n / 2
	for i := 0; i < n; i++ {
		idx := center - half + i
		if idx >= 0 && idx < len(src) {
			out[i] = src[idx]
		}
	}
	return out
}

func applyWindow(samples, coeffs []float64) []float64 {
	out := make([]float64, len(samples))
	for i := range out {
		out[i] = samples[i] * coeffs[i]
	}
	return out
}
