// Package effects applies the pre-synthesis flag transformations to
// the resampled (sp, ap, f0) streams: vocal fry bumps f0 in a
// time-windowed region, gender warps the spectral envelope along its
// frequency axis. The remaining declared flags (fv, ve, vo, A, B, P,
// p, S) are accepted by the parser but have no synthesis effect.
package effects

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/layetri/straycrab/internal/errs"
	"github.com/layetri/straycrab/internal/notes"
	"github.com/layetri/straycrab/internal/rflags"
)

// defaultFryLength is used when fe is present without fl, matching the
// flag table's own floor (fl's minimum of 1ms).
const defaultFryLength = 0.001

// ApplyFry adds a smoothstep-windowed pitch bump to f0 when the fe
// flag is present. tRender gives each frame's render-grid time and
// conTime is the consonant boundary (seconds) the bump is anchored
// to. f0 is mutated in place.
func ApplyFry(f0, tRender []float64, conTime float64, flags *rflags.ResamplerFlags) {
	if flags == nil || flags.FryEnd == nil {
		return
	}

	fryEnd := *flags.FryEnd
	fryLen := defaultFryLength
	if flags.FryLen != nil {
		fryLen = *flags.FryLen
	}
	fryOffset := 0.0
	if flags.FryOff != nil {
		fryOffset = *flags.FryOff
	}
	fryPitch := 0.0
	if flags.FryPitch != nil {
		fryPitch = *flags.FryPitch
	}

	for j, t := range tRender {
		tFry := t - conTime - fryOffset
		amt := notes.Smoothstep(-fryEnd-fryLen/2, -fryEnd+fryLen/2, tFry) *
			notes.Smoothstep(fryLen/2, -fryLen/2, tFry)
		f0[j] += fryPitch * amt
	}
}

// ApplyGender warps sp's frequency axis by the gender flag's warp
// factor, frame by frame, and returns a new spectral-envelope stream
// of the same shape. If the gender flag is absent, sp is returned
// unmodified.
func ApplyGender(sp [][]float64, flags *rflags.ResamplerFlags) ([][]float64, error) {
	if flags == nil || flags.Gender == nil || len(sp) == 0 {
		return sp, nil
	}

	gender := *flags.Gender
	nBins := len(sp[0])

	freqX := linspace(0, 1, nBins)
	freqX2 := linspace(0, gender, nBins)
	for i := range freqX2 {
		freqX2[i] = notes.Clamp(freqX2[i], 0, 1)
	}

	out := make([][]float64, len(sp))
	for f, row := range sp {
		var spline interp.AkimaSpline
		if err := spline.Fit(freqX, row); err != nil {
			return nil, fmt.Errorf("%w: gender warp at frame %d: %v", errs.ErrInterpolation, f, err)
		}
		warped := make([]float64, nBins)
		for i, x := range freqX2 {
			warped[i] = spline.Predict(x)
		}
		out[f] = warped
	}

	return out, nil
}

func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
