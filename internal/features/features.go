// Package features implements the feature cache: computing a
// source's F0/spectral-envelope/aperiodicity streams (or loading a
// previously-persisted sidecar) and saving them back as a compressed
// binary file beside the source.
package features

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/layetri/straycrab/internal/errs"
	"github.com/layetri/straycrab/internal/notes"
	"github.com/layetri/straycrab/internal/vocoder"
	"github.com/layetri/straycrab/internal/wavio"
)

// Features holds the three time-aligned analysis streams for one
// source waveform plus its scalar base frequency.
type Features struct {
	Base float64     // weighted-mean fundamental of the voiced region, Hz
	F0   []float64   // per-frame fundamental estimate, Hz (0 = unvoiced)
	Mgc  [][]float64 // per-frame spectral envelope, width fft_size/2+1
	Bap  [][]float64 // per-frame band aperiodicity, [0,1], same width as Mgc
}

// FeaturesFor computes or loads the analysis features for sourceWav.
// When forceReuse is true and a sidecar already exists beside the
// source, it is deserialized and returned without touching the
// source audio. Otherwise the source is decoded and analyzed fresh,
// and the result is written back to the sidecar.
func FeaturesFor(sourceWav string, forceReuse bool) (*Features, error) {
	sidecarPath := SidecarPath(sourceWav)

	if forceReuse {
		if f, err := loadSidecar(sidecarPath); err == nil {
			return f, nil
		}
	}

	src, err := wavio.ReadSource(sourceWav)
	if err != nil {
		return nil, err
	}

	f0, tAxis, err := vocoder.Harvest(src.Samples, src.SampleRate, notes.F0Floor, notes.F0Ceil, notes.FramePeriodMs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrAnalysis, err)
	}

	mgc, err := vocoder.CheapTrick(src.Samples, f0, tAxis, src.SampleRate, notes.F0Floor, notes.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrAnalysis, err)
	}

	bap, err := vocoder.D4C(src.Samples, f0, tAxis, src.SampleRate, notes.D4CThreshold, notes.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrAnalysis, err)
	}

	base := notes.BaseFrequency(f0, notes.F0Floor, notes.F0Ceil)

	feats := &Features{
		Base: base,
		F0:   f0,
		Mgc:  mgc,
		Bap:  bap,
	}

	if err := saveSidecar(sidecarPath, feats); err != nil {
		return nil, err
	}

	return feats, nil
}

// SidecarPath is the compressed-features file written beside sourceWav,
// replacing its extension: "voice.wav" -> "voice.scx".
func SidecarPath(sourceWav string) string {
	ext := filepath.Ext(sourceWav)
	return strings.TrimSuffix(sourceWav, ext) + ".scx"
}
