package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/layetri/straycrab/internal/errs"
)

// smoothingHalfBins is the half-width, in FFT bins, of the triangular
// moving average used to smooth the raw periodogram into an envelope.
const smoothingHalfBins = 3

// CheapTrick estimates a per-frame spectral envelope for x, one power
// spectrum of width fftSize/2+1 per entry of f0/tAxis. Each frame's
// analysis window is sized to roughly three pitch periods (or three
// periods of f0Floor when unvoiced), matching CheapTrick's adaptive
// windowing strategy.
func CheapTrick(x, f0, tAxis []float64, fs int, f0Floor float64, fftSize int) ([][]float64, error) {
	if len(f0) != len(tAxis) {
		return nil, fmt.Errorf("%w: cheaptrick: f0/tAxis length mismatch", errs.ErrAnalysis)
	}
	if len(f0) == 0 {
		return nil, fmt.Errorf("%w: cheaptrick: empty f0", errs.ErrAnalysis)
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("%w: cheaptrick: fft plan: %v", errs.ErrAnalysis, err)
	}

	nBins := fftSize/2 + 1
	out := make([][]float64, len(f0))

	for i, t := range tAxis {
		f := f0[i]
		if f <= 0 {
			f = f0Floor
		}

		winLen := int(3.0 * float64(fs) / f)
		if winLen > fftSize {
			winLen = fftSize
		}
		if winLen < 4 {
			winLen = 4
		}

		center := int(math.Round(t * float64(fs)))
		frame := extractWindow(x, center, winLen)
		coeffs := window.Generate(window.TypeHann, winLen, window.WithPeriodic())
		windowed := applyWindow(frame, coeffs)

		buf := make([]float64, fftSize)
		copy(buf, windowed)

		spec := make([]complex128, nBins)
		plan.Forward(spec, buf)

		power := make([]float64, nBins)
		for k, c := range spec {
			mag := cmplx.Abs(c)
			power[k] = mag * mag
		}

		out[i] = smoothPeriodogram(power)
	}

	return out, nil
}

// smoothPeriodogram applies a triangular moving average across
// frequency bins, approximating CheapTrick's spectral smoothing
// without its full liftering step.
func smoothPeriodogram(power []float64) []float64 {
	out := make([]float64, len(power))
	for k := range power {
		var sum, weight float64
		for d := -smoothingHalfBins; d <= smoothingHalfBins; d++ {
			idx := k + d
			if idx < 0 || idx >= len(power) {
				continue
			}
			w := float64(smoothingHalfBins+1-abs(d))
			sum += power[idx] * w
			weight += w
		}
		if weight > 0 {
			out[k] = sum / weight
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
