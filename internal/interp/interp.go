// Package interp is the interpolation engine: it builds the
// output render grid from a TimingData plan and resamples the
// spectral envelope, aperiodicity, and F0-offset streams onto it
// using makima (Akima) splines.
package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/layetri/straycrab/internal/errs"
	"github.com/layetri/straycrab/internal/timing"
)

// akimaMinPoints is the smallest control-point count gonum's Akima
// spline will fit; shorter position grids fall back to piecewise-
// linear interpolation instead (mirrors internal/pitch.interpolate).
const akimaMinPoints = 5

// VelocityScale converts a 0-100 velocity argument into the
// consonant-compression factor (1 - velocity/100)^2.
func VelocityScale(velocity float64) float64 {
	v := 1 - velocity/100.0
	return v * v
}

// BuildRenderGrid constructs the output time grid (t_render): a
// velocity-scaled consonant grid from start to con, followed by a
// sustain grid that either windows the source positions directly
// (when the source sustain is longer than requested) or linearly
// stretches con..end to fit the requested length. Points outside
// [0, positions.last()] are dropped.
func BuildRenderGrid(plan timing.Plan, velocity, consonantMs, lengthMs float64) []float64 {
	vel := VelocityScale(velocity)

	nCon := int(math.Floor(vel * consonantMs / 5.0))
	conGrid := linspace(plan.Start, plan.Con, nCon)

	stretchLength := plan.End - plan.Con
	lengthReq := lengthMs / 1000.0
	nStretch := int(math.Floor(200.0 * lengthReq))

	var stretchGrid []float64
	if stretchLength > lengthReq {
		startIdx := int(math.Floor(200.0 * plan.Con))
		stretchGrid = sliceWindow(plan.Positions, startIdx, nStretch)
		if len(stretchGrid) == 0 {
			// Open Question #3: an out-of-range window falls back to
			// a linear stretch rather than producing an empty grid.
			stretchGrid = linspace(plan.Con, plan.End, nStretch)
		}
	} else {
		stretchGrid = linspace(plan.Con, plan.End, nStretch)
	}

	tRender := append(append([]float64{}, conGrid...), stretchGrid...)

	last := 0.0
	if len(plan.Positions) > 0 {
		last = plan.Positions[len(plan.Positions)-1]
	}

	filtered := tRender[:0]
	for _, t := range tRender {
		if t >= 0 && t <= last {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Resample resamples sp, ap (per-bin makima splines, ap clamped to
// [0,1]) and f0Off (a smoothed makima spline) from positions onto
// tRender. An empty sp/ap aborts with InterpolationError; an empty
// tRender returns all-nil results with no error (the caller produces
// no output).
func Resample(positions []float64, sp, ap [][]float64, f0Off, tRender []float64) (newSp, newAp [][]float64, newF0Off []float64, err error) {
	if len(sp) == 0 || len(ap) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: empty spectral streams", errs.ErrInterpolation)
	}
	if len(tRender) == 0 {
		return nil, nil, nil, nil
	}

	nBins := len(sp[0])
	newSp = make([][]float64, len(tRender))
	newAp = make([][]float64, len(tRender))
	for i := range tRender {
		newSp[i] = make([]float64, nBins)
		newAp[i] = make([]float64, nBins)
	}

	binSp := make([]float64, len(positions))
	binAp := make([]float64, len(positions))

	for bin := 0; bin < nBins; bin++ {
		for i := range positions {
			binSp[i] = sp[i][bin]
			binAp[i] = ap[i][bin]
		}

		spVals, spErr := fitAndPredict(positions, binSp, tRender)
		if spErr != nil {
			return nil, nil, nil, fmt.Errorf("%w: sp spline at bin %d: %v", errs.ErrInterpolation, bin, spErr)
		}
		apVals, apErr := fitAndPredict(positions, binAp, tRender)
		if apErr != nil {
			return nil, nil, nil, fmt.Errorf("%w: ap spline at bin %d: %v", errs.ErrInterpolation, bin, apErr)
		}

		for i := range tRender {
			newSp[i][bin] = spVals[i]
			newAp[i][bin] = clamp01(apVals[i])
		}
	}

	newF0Off, err = smoothResample(positions, f0Off, tRender)
	if err != nil {
		return nil, nil, nil, err
	}

	return newSp, newAp, newF0Off, nil
}

// smoothResample implements the "smoothing cubic spline" spec.md asks
// for on the scalar f0_off stream: a zero-phase exponential
// pre-smoothing pass (gonum's interp package ships Akima/piecewise
// interpolants but no dedicated smoothing spline) followed by an
// Akima fit.
func smoothResample(positions, f0Off, tRender []float64) ([]float64, error) {
	smoothed := ewmaSmooth(f0Off, 0.3)

	out, err := fitAndPredict(positions, smoothed, tRender)
	if err != nil {
		return nil, fmt.Errorf("%w: f0_off spline: %v", errs.ErrInterpolation, err)
	}
	return out, nil
}

// fitAndPredict fits an Akima spline through (xs, ys) and evaluates it
// at each point in at, falling back to piecewise-linear interpolation
// when xs has fewer than akimaMinPoints entries for gonum's Akima to
// fit (short notes, or a near-empty position grid).
func fitAndPredict(xs, ys, at []float64) ([]float64, error) {
	out := make([]float64, len(at))

	if len(xs) >= akimaMinPoints {
		var spline interp.AkimaSpline
		if err := spline.Fit(xs, ys); err != nil {
			return nil, err
		}
		for i, t := range at {
			out[i] = spline.Predict(t)
		}
		return out, nil
	}

	for i, t := range at {
		out[i] = linearAt(xs, ys, t)
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

// ewmaSmooth applies a forward and then backward exponential moving
// average (zero-phase smoothing) with the given decay.
func ewmaSmooth(x []float64, alpha float64) []float64 {
	if len(x) == 0 {
		return x
	}

	fwd := make([]float64, len(x))
	fwd[0] = x[0]
	for i := 1; i < len(x); i++ {
		fwd[i] = alpha*x[i] + (1-alpha)*fwd[i-1]
	}

	out := make([]float64, len(x))
	out[len(x)-1] = fwd[len(x)-1]
	for i := len(x) - 2; i >= 0; i-- {
		out[i] = alpha*fwd[i] + (1-alpha)*out[i+1]
	}
	return out
}

func linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}

	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func sliceWindow(positions []float64, start, count int) []float64 {
	if start < 0 || start >= len(positions) || count <= 0 {
		return nil
	}
	end := start + count
	if end > len(positions) {
		end = len(positions)
	}
	if end <= start {
		return nil
	}
	out := make([]float64, end-start)
	copy(out, positions[start:end])
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
