package vocoder

import (
	"fmt"
	"math"

	"github.com/layetri/straycrab/internal/errs"
)

// voicingThreshold is the minimum normalized-autocorrelation peak for
// a frame to be called voiced.
const voicingThreshold = 0.30

// peakTolerance is the fraction of the best autocorrelation score a
// shorter-lag peak must reach to be preferred over it.
const peakTolerance = 0.95

// Harvest estimates a per-frame fundamental frequency track for x,
// within [f0Floor, f0Ceil], at the given frame period. Unvoiced frames
// are reported as 0.0. It mirrors the WORLD Harvest contract: inputs
// are a mono float waveform and a sample rate, outputs are
// time-aligned (f0, tAxis) sequences of equal length.
func Harvest(x []float64, fs int, f0Floor, f0Ceil, framePeriodMs float64) (f0, tAxis []float64, err error) {
	if len(x) == 0 {
		return nil, nil, fmt.Errorf("%w: harvest: empty input", errs.ErrAnalysis)
	}
	if f0Floor <= 0 || f0Ceil <= f0Floor {
		return nil, nil, fmt.Errorf("%w: harvest: invalid f0 bounds [%v, %v]", errs.ErrAnalysis, f0Floor, f0Ceil)
	}

	tAxis = frameTimes(len(x), fs, framePeriodMs)
	f0 = make([]float64, len(tAxis))

	minLag := int(float64(fs) / f0Ceil)
	maxLag := int(float64(fs) / f0Floor)
	if minLag < 1 {
		minLag = 1
	}

	// Window wide enough to hold at least three periods of f0Floor.
	winLen := int(3.0 * float64(fs) / f0Floor)
	if winLen < 2*maxLag {
		winLen = 2 * maxLag
	}

	for i, t := range tAxis {
		center := int(math.Round(t * float64(fs)))
		frame := extractWindow(x, center, winLen)

		scores := make([]float64, maxLag+2)
		bestLag := 0
		bestScore := 0.0
		for lag := minLag; lag <= maxLag && lag < len(frame); lag++ {
			score := normalizedAutocorr(frame, lag)
			scores[lag] = score
			if score > bestScore {
				bestScore = score
				bestLag = lag
			}
		}
		// Take the shortest-lag local peak scoring close to the best one,
		// so a multiple of the period does not win as an octave error.
		for lag := minLag + 1; lag < bestLag; lag++ {
			if scores[lag] >= peakTolerance*bestScore && scores[lag] >= scores[lag-1] && scores[lag] >= scores[lag+1] {
				bestLag = lag
				break
			}
		}

		if bestLag > 0 && bestScore >= voicingThreshold {
			f0[i] = float64(fs) / float64(bestLag)
		}
	}

	return f0, tAxis, nil
}

func normalizedAutocorr(frame []float64, lag int) float64 {
	n := len(frame) - lag
	if n <= 0 {
		return 0
	}

	var num, e1, e2 float64
	for i := 0; i < n; i++ {
		a, b := frame[i], frame[i+lag]
		num += a * b
		e1 += a * a
		e2 += b * b
	}

	denom := math.Sqrt(e1 * e2)
	if denom <= 0 {
		return 0
	}
	return num / denom
}
