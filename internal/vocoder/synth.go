package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/layetri/straycrab/internal/errs"
)

// synthesisSeed keeps the noise excitation deterministic across runs
// (and therefore across test assertions) without needing a caller-
// supplied RNG.
const synthesisSeed = 1

// Synthesize resynthesizes a mono waveform from a target F0 track and
// per-frame spectral envelope/aperiodicity, at the given frame period
// and output sample rate.
//
// Each frame contributes two overlap-added grains: a pulse-train
// grain carrying the periodic energy and a white-noise grain carrying
// the aperiodic energy, both shaped in the frequency domain by
// imposing sp/ap as the grain's magnitude spectrum while preserving
// the grain's own phase (the same magnitude-replace-phase-preserve
// technique a phase-vocoder pitch shifter uses).
func Synthesize(f0 []float64, sp, ap [][]float64, framePeriodMs float64, fs int) ([]float64, error) {
	numFrames := len(f0)
	if numFrames == 0 {
		return nil, fmt.Errorf("%w: synthesize: empty f0", errs.ErrSynthesis)
	}
	if len(sp) != numFrames || len(ap) != numFrames {
		return nil, fmt.Errorf("%w: synthesize: sp/ap/f0 length mismatch", errs.ErrSynthesis)
	}
	if numFrames > 0 && len(sp[0]) == 0 {
		return nil, fmt.Errorf("%w: synthesize: empty spectral envelope", errs.ErrSynthesis)
	}

	fftSize := 2 * (len(sp[0]) - 1)
	hopSamples := framePeriodMs / 1000.0 * float64(fs)
	totalSamples := int(float64(numFrames)*hopSamples) + fftSize

	pulse, noise := buildExcitation(f0, hopSamples, fs, totalSamples)

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("%w: synthesize: fft plan: %v", errs.ErrSynthesis, err)
	}
	coeffs := window.Generate(window.TypeHann, fftSize, window.WithPeriodic())

	out := make([]float64, totalSamples)
	norm := make([]float64, totalSamples)

	grain := make([]float64, fftSize)
	outGrain := make([]float64, fftSize)
	spec := make([]complex128, fftSize/2+1)

	for j := 0; j < numFrames; j++ {
		start := int(float64(j)*hopSamples) - fftSize/2

		fillGrain(grain, pulse, start, coeffs)
		plan.Forward(spec, grain)
		imposeEnvelope(spec, sp[j], ap[j], false)
		plan.Inverse(outGrain, spec)
		overlapAdd(out, norm, outGrain, coeffs, start)

		fillGrain(grain, noise, start, coeffs)
		plan.Forward(spec, grain)
		imposeEnvelope(spec, sp[j], ap[j], true)
		plan.Inverse(outGrain, spec)
		overlapAdd(out, norm, outGrain, coeffs, start)
	}

	for i := range out {
		if norm[i] > 1e-8 {
			out[i] /= norm[i]
		}
	}

	finalLen := int(float64(numFrames) * hopSamples)
	if finalLen > len(out) {
		finalLen = len(out)
	}
	if finalLen < 0 {
		finalLen = 0
	}
	return out[:finalLen], nil
}

// buildExcitation produces two continuous excitation signals spanning
// totalSamples: a phase-accumulated pulse train (one impulse per
// pitch period while voiced, silent while unvoiced) and a white-noise
// bed.
func buildExcitation(f0 []float64, hopSamples float64, fs, totalSamples int) (pulse, noise []float64) {
	pulse = make([]float64, totalSamples)
	noise = make([]float64, totalSamples)

	rng := rand.New(rand.NewSource(synthesisSeed))
	phase := 0.0
	numFrames := len(f0)
	hopSec := hopSamples / float64(fs)

	for n := 0; n < totalSamples; n++ {
		tSec := float64(n) / float64(fs)
		idx := int(tSec / hopSec)
		if idx >= numFrames {
			idx = numFrames - 1
		}

		f := f0[idx]
		if f > 0 {
			phase += f / float64(fs)
			if phase >= 1.0 {
				phase -= math.Floor(phase)
				pulse[n] = 1.0
			}
		} else {
			phase = 0
		}

		noise[n] = rng.NormFloat64()
	}

	return pulse, noise
}

func fillGrain(dst, src []float64, start int, coeffs []float64) {
	for i := range dst {
		idx := start + i
		if idx >= 0 && idx < len(src) {
			dst[i] = src[idx] * coeffs[i]
		} else {
			dst[i] = 0
		}
	}
}

func overlapAdd(out, norm, grain, coeffs []float64, start int) {
	for i := range grain {
		idx := start + i
		if idx < 0 || idx >= len(out) {
			continue
		}
		out[idx] += grain[i] * coeffs[i]
		norm[idx] += coeffs[i] * coeffs[i]
	}
}

// imposeEnvelope replaces a grain spectrum's magnitude with the
// target power envelope (sp, optionally scaled down by ap or 1-ap)
// while preserving the grain's own phase.
func imposeEnvelope(spec []complex128, sp, ap []float64, noiseGrain bool) {
	for k := range spec {
		power := sp[k]
		if noiseGrain {
			power *= ap[k]
		} else {
			power *= 1 - ap[k]
		}
		if power < 0 {
			power = 0
		}

		mag := math.Sqrt(power)
		ang := cmplx.Phase(spec[k])
		spec[k] = cmplx.Rect(mag, ang)
	}
}
