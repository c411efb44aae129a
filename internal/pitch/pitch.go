// Package pitch builds the target F0 contour a render is resynthesized
// against: the note's MIDI pitch bent by the decoded pitchbend string,
// makima-interpolated onto the frame grid, shifted by pitch_offset, and
// blended with the source's own pitch modulation.
package pitch

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/layetri/straycrab/internal/errs"
	"github.com/layetri/straycrab/internal/notes"
)

// akimaMinPoints is the smallest control-point count gonum's Akima
// spline will fit; pitchbend sequences of two to four samples fall back
// to linear interpolation instead. A single-sample bend (the empty-bend
// case) is broadcast to numFrames samples first, so it only falls back
// when numFrames is below this count.
const akimaMinPoints = 5

// BuildContour constructs the per-frame target F0 (Hz) for numFrames
// frames at the fixed 5ms analysis spacing. pitchbendCents holds the
// decoded pitchbend samples (signed cents, one per 1/96th beat at
// tempo); a single-sample pitchbend is broadcast across the whole
// contour. pitchOffsetSemitones, if non-nil, shifts every sample by
// that many semitones before conversion to Hz. f0Off is the source's
// own pitch-offset stream (already resampled onto the same frame
// grid), blended in scaled by modulation (already normalized to
// [0,1]).
func BuildContour(pitchbendCents []int, midiPitch, tempo float64, numFrames int, pitchOffsetSemitones *int, f0Off []float64, modulation float64) ([]float64, error) {
	if numFrames <= 0 {
		return nil, nil
	}
	if tempo <= 0 {
		return nil, fmt.Errorf("%w: pitch contour: non-positive tempo %v", errs.ErrArgument, tempo)
	}
	if len(f0Off) != numFrames {
		return nil, fmt.Errorf("%w: pitch contour: f0_off length %d != numFrames %d", errs.ErrArgument, len(f0Off), numFrames)
	}

	pitchCents := make([]float64, len(pitchbendCents))
	for i, c := range pitchbendCents {
		pitchCents[i] = float64(c)/100.0 + midiPitch
	}
	if len(pitchCents) == 1 {
		broadcast := make([]float64, numFrames)
		for i := range broadcast {
			broadcast[i] = pitchCents[0]
		}
		pitchCents = broadcast
	}
	if len(pitchCents) == 0 {
		pitchCents = []float64{midiPitch}
		broadcast := make([]float64, numFrames)
		for i := range broadcast {
			broadcast[i] = midiPitch
		}
		pitchCents = broadcast
	}

	tPitch := make([]float64, len(pitchCents))
	for k := range tPitch {
		tPitch[k] = 60.0 * float64(k) / (tempo * 96.0)
	}

	pitchRender, err := interpolate(tPitch, pitchCents, numFrames)
	if err != nil {
		return nil, fmt.Errorf("%w: pitch contour: %v", errs.ErrInterpolation, err)
	}

	if pitchOffsetSemitones != nil {
		off := float64(*pitchOffsetSemitones)
		for i := range pitchRender {
			pitchRender[i] += off
		}
	}

	f0 := make([]float64, numFrames)
	for j := range f0 {
		f0[j] = notes.MIDIToHz(pitchRender[j]) + f0Off[j]*modulation
	}
	return f0, nil
}

// interpolate resamples (xs, ys) at j*0.005 for j in [0, numFrames),
// using an Akima spline when there are enough control points and a
// piecewise-linear fallback (gonum's Akima requires at least five)
// otherwise.
func interpolate(xs, ys []float64, numFrames int) ([]float64, error) {
	out := make([]float64, numFrames)

	if len(xs) >= akimaMinPoints {
		var spline interp.AkimaSpline
		if err := spline.Fit(xs, ys); err != nil {
			return nil, err
		}
		for j := range out {
			out[j] = spline.Predict(float64(j) * 0.005)
		}
		return out, nil
	}

	for j := range out {
		out[j] = linearAt(xs, ys, float64(j)*0.005)
	}
	return out, nil
}

func linearAt(xs, ys []float64, t float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if len(xs) == 1 {
		return ys[0]
	}
	if t <= xs[0] {
		return ys[0]
	}
	if t >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	for i := 1; i < len(xs); i++ {
		if t <= xs[i] {
			span := xs[i] - xs[i-1]
			if span <= 0 {
				return ys[i]
			}
			frac := (t - xs[i-1]) / span
			return ys[i-1] + frac*(ys[i]-ys[i-1])
		}
	}
	return ys[len(ys)-1]
}
