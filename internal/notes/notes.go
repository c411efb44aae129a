// Package notes holds the pipeline's module-level constants and the
// small pitch-arithmetic helpers (note-name parsing, MIDI/Hz
// conversion, base-frequency estimation) shared by every other stage.
package notes

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/layetri/straycrab/internal/errs"
)

const (
	// F0Floor is the lower Harvest pitch-tracking bound, in Hz.
	F0Floor = 71.0
	// F0Ceil is the upper Harvest pitch-tracking bound, in Hz.
	F0Ceil = 1760.0
	// DefaultFS is the synthesizer's fixed output sample rate.
	DefaultFS = 44100
	// FramePeriodMs is the fixed analysis/synthesis frame spacing.
	FramePeriodMs = 5.0
	// FFTSize is used throughout extraction and synthesis (Open
	// Question #1: the original used 512 at extraction and 2048 at
	// synthesis; this module fixes it to 2048 everywhere).
	FFTSize = 2048
	// D4CThreshold is the aperiodicity detection threshold.
	D4CThreshold = 0.25
)

var noteOffsets = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

var noteRe = regexp.MustCompile(`^([A-Ga-g])(#?)(-?\d+)$`)

// NoteNameToMIDI converts a note name such as "F4" or "C#5" into a
// floating-point MIDI pitch, per the grammar [A-Ga-g][#]?\d+.
func NoteNameToMIDI(name string) (float64, error) {
	m := noteRe.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("%w: invalid note name %q", errs.ErrArgument, name)
	}

	base := noteOffsets[toLower(m[1][0])]
	if m[2] == "#" {
		base++
	}

	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid octave in %q: %v", errs.ErrArgument, name, err)
	}

	return float64(12*(octave+1) + base), nil
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// MIDIToHz converts a MIDI pitch to a frequency in Hz: 69 = A4 = 440Hz.
func MIDIToHz(m float64) float64 {
	return 440.0 * math.Pow(2.0, (m-69.0)/12.0)
}

// HzToMIDI is the inverse of MIDIToHz.
func HzToMIDI(f float64) float64 {
	return 69.0 + 12.0*math.Log2(f/440.0)
}

// BaseFrequency computes the smoothness-weighted mean fundamental of
// the voiced region of f0, bounded by (fMin, fMax). See spec §4.1.1:
// frames near a stable pitch (small local derivative q) get weight
// 2^(-q^2), close to 1; frames during a fast pitch movement get
// weighted toward 0. If every weight underflows to 0, the unweighted
// sum of the in-range frames is returned instead.
func BaseFrequency(f0 []float64, fMin, fMax float64) float64 {
	var avg, weight, tally float64
	n := len(f0)

	for i := 0; i < n; i++ {
		if !(f0[i] > fMin && f0[i] < fMax) {
			continue
		}

		var q float64
		switch {
		case i < 1:
			if n > 1 {
				q = f0[i+1] - f0[i]
			}
		case i == n-1:
			q = f0[i] - f0[i-1]
		default:
			q = (f0[i+1] - f0[i-1]) / 2.0
		}

		w := math.Pow(2.0, -q*q)
		avg += f0[i] * w
		weight += w
		tally += f0[i]
	}

	if weight > 0 {
		return avg / weight
	}
	return tally
}

// Smoothstep is the classic Hermite smoothstep: 0 below edge0, 1 above
// edge1, a 3u²-2u³ ease between.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := clamp((x-edge0)/(edge1-edge0), 0, 1)
	return 3*t*t - 2*t*t*t
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp exports the same bound used throughout the pipeline for
// aperiodicity/warp clamping.
func Clamp(x, lo, hi float64) float64 {
	return clamp(x, lo, hi)
}
