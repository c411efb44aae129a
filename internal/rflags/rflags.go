// Package rflags decodes the resampler's pipe-delimited expressive
// flag string into a ResamplerFlags configuration record.
//
// ResamplerFlags is modeled as a record of optional fields rather than
// a list of enum variants: every flag is independent and at most one
// of each may apply, which gives the parser one obvious destination
// per token and the effects stage a plain struct to pattern-match on.
package rflags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/layetri/straycrab/internal/errs"
)

// ResamplerFlags holds the decoded value of every enumerated flag.
// Each numeric field is nil unless its code appeared in the flag
// string; ForceFeatures is a plain bool since its code carries no
// value.
type ResamplerFlags struct {
	FryEnd   *float64 // fe: seconds, onset relative to consonant end
	FryLen   *float64 // fl: seconds, floored at 0.001
	FryOff   *float64 // fo: seconds
	FryVol   *int     // fv: 0-100 (parsed, not applied; see §9 Open Question #4)
	FryPitch *float64 // fp: Hz, floored at 0

	VoicingTransition *int // ve
	VoicingOffset     *int // vo

	Gender *float64 // g: (v/120)^2

	PitchOffset *int // t: semitones

	Tremolo           *int // A
	Breathiness       *int // B
	PeakCompression   *int // P
	PeakNormalization *int // p
	Sibilance         *int // S

	ForceFeatures bool // G
}

// Parse decodes a flag string of the form "code[ value]|code[ value]|...".
// Unknown codes are ignored silently, per spec.
func Parse(flagStr string) (*ResamplerFlags, error) {
	res := &ResamplerFlags{}
	if flagStr == "" {
		return res, nil
	}

	for _, entry := range strings.Split(flagStr, "|") {
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, " ", 2)
		code := parts[0]

		var value int
		if len(parts) == 2 && parts[1] != "" {
			v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid value for flag %q: %v", errs.ErrArgument, code, err)
			}
			value = v
		}

		applyFlag(res, code, value)
	}

	return res, nil
}

func applyFlag(res *ResamplerFlags, code string, value int) {
	switch code {
	case "fe":
		res.FryEnd = floatPtr(float64(value) / 1000.0)
	case "fl":
		res.FryLen = floatPtr(maxFloat(float64(value)/1000.0, 0.001))
	case "fo":
		res.FryOff = floatPtr(float64(value) / 1000.0)
	case "fv":
		res.FryVol = intPtr(value)
	case "fp":
		res.FryPitch = floatPtr(maxFloat(float64(value), 0))
	case "ve":
		res.VoicingTransition = intPtr(value)
	case "vo":
		res.VoicingOffset = intPtr(value)
	case "g":
		g := float64(value) / 120.0
		res.Gender = floatPtr(g * g)
	case "t":
		res.PitchOffset = intPtr(value)
	case "A":
		res.Tremolo = intPtr(value)
	case "B":
		res.Breathiness = intPtr(value)
	case "P":
		res.PeakCompression = intPtr(value)
	case "p":
		res.PeakNormalization = intPtr(value)
	case "S":
		res.Sibilance = intPtr(value)
	case "G":
		res.ForceFeatures = true
	default:
		// Unknown codes are ignored silently.
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
