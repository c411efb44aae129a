package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/layetri/straycrab/internal/errs"
)

// flatnessHalfBins is the half-width, in FFT bins, of the local band
// used to estimate per-bin spectral flatness (the noise-vs-tonal
// indicator D4C reports as aperiodicity).
const flatnessHalfBins = 4

// D4C estimates a per-frame band aperiodicity for x, one vector of
// width fftSize/2+1 per entry of f0/tAxis, with values in [0, 1]: 0
// means fully periodic, 1 means fully noise-like. Unvoiced frames
// report full aperiodicity at every bin. threshold follows the WORLD
// D4C contract (the minimum periodic-power ratio below which a band
// is declared aperiodic) and is folded into the per-bin flatness
// comparison below.
func D4C(x, f0, tAxis []float64, fs int, threshold float64, fftSize int) ([][]float64, error) {
	if len(f0) != len(tAxis) {
		return nil, fmt.Errorf("%w: d4c: f0/tAxis length mismatch", errs.ErrAnalysis)
	}
	if len(f0) == 0 {
		return nil, fmt.Errorf("%w: d4c: empty f0", errs.ErrAnalysis)
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("%w: d4c: fft plan: %v", errs.ErrAnalysis, err)
	}

	nBins := fftSize/2 + 1
	out := make([][]float64, len(f0))

	for i, t := range tAxis {
		if f0[i] <= 0 {
			row := make([]float64, nBins)
			for k := range row {
				row[k] = 1.0
			}
			out[i] = row
			continue
		}

		winLen := int(4.0 * float64(fs) / f0[i])
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

		mag := make([]float64, nBins)
		for k, c := range spec {
			mag[k] = cmplx.Abs(c) + 1e-12
		}

		out[i] = bandFlatness(mag, threshold)
	}

	return out, nil
}

// bandFlatness computes the Wiener-entropy-style spectral flatness
// (geometric mean / arithmetic mean) in a local band around each bin,
// scaled so a clearly tonal band (sharp harmonic peak) reads near 0
// and a noise-like band reads near 1. threshold biases the midpoint
// of that mapping: a lower threshold calls more bands aperiodic.
func bandFlatness(mag []float64, threshold float64) []float64 {
	out := make([]float64, len(mag))

	for k := range mag {
		lo := k - flatnessHalfBins
		hi := k + flatnessHalfBins
		if lo < 0 {
			lo = 0
		}
		if hi >= len(mag) {
			hi = len(mag) - 1
		}

		var logSum, sum float64
		n := 0
		for i := lo; i <= hi; i++ {
			logSum += math.Log(mag[i])
			sum += mag[i]
			n++
		}

		geoMean := math.Exp(logSum / float64(n))
		arithMean := sum / float64(n)

		flatness := 0.0
		if arithMean > 0 {
			flatness = geoMean / arithMean
		}

		// Rescale around threshold: flatness below threshold is
		// pulled toward periodic (0), above is pulled toward noise (1).
		ap := (flatness - threshold) / (1.0 - threshold)
		out[k] = clamp01(ap)
	}

	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
