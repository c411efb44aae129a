// Package resampler wires the pipeline end to end: it ensures
// analysis features exist for the source sample, builds a timing
// plan from the note's offset/cutoff/consonant, interpolates the
// spectral streams onto the render grid, builds the target pitch
// contour, applies the pre-synthesis flag effects, and drives the
// vocoder to produce the output waveform.
package resampler

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/layetri/straycrab/internal/effects"
	"github.com/layetri/straycrab/internal/errs"
	"github.com/layetri/straycrab/internal/features"
	"github.com/layetri/straycrab/internal/instruction"
	"github.com/layetri/straycrab/internal/interp"
	"github.com/layetri/straycrab/internal/notes"
	"github.com/layetri/straycrab/internal/pitch"
	"github.com/layetri/straycrab/internal/timing"
	"github.com/layetri/straycrab/internal/vocoder"
	"github.com/layetri/straycrab/internal/wavio"
)

// nullOutput is the UTAU-protocol sentinel output path meaning "write
// nothing".
const nullOutput = "nul"

// Render executes one resampler invocation end to end.
func Render(instr *instruction.ResamplerInstruction, logger *log.Logger) error {
	logger.Debug("loading features", "input", instr.InputPath, "force_features", instr.Flags.ForceFeatures)

	feats, err := features.FeaturesFor(instr.InputPath, instr.Flags.ForceFeatures)
	if err != nil {
		return err
	}

	plan := timing.Calculate(len(feats.F0), instr.OffsetMs, instr.CutoffMs, instr.ConsonantMs)
	tRender := interp.BuildRenderGrid(plan, instr.Velocity, instr.ConsonantMs, instr.LengthMs)
	logger.Debug("render grid built", "frames", len(tRender), "start", plan.Start, "con", plan.Con, "end", plan.End)

	if len(tRender) == 0 {
		logger.Debug("empty render grid, producing no output")
		return nil
	}

	f0Off := deviationFromBase(feats.F0, feats.Base)

	newSp, newAp, newF0Off, err := interp.Resample(plan.Positions, feats.Mgc, feats.Bap, f0Off, tRender)
	if err != nil {
		return err
	}
	if newSp == nil {
		logger.Debug("resample produced no output")
		return nil
	}

	f0Target, err := pitch.BuildContour(instr.Pitchbend, instr.PitchMIDI, instr.Tempo, len(tRender), instr.Flags.PitchOffset, newF0Off, instr.Modulation)
	if err != nil {
		return err
	}

	effects.ApplyFry(f0Target, tRender, plan.Con, instr.Flags)
	newSp, err = effects.ApplyGender(newSp, instr.Flags)
	if err != nil {
		return err
	}

	logger.Debug("synthesizing", "frames", len(f0Target))
	out, err := vocoder.Synthesize(f0Target, newSp, newAp, notes.FramePeriodMs, notes.DefaultFS)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSynthesis, err)
	}

	applyVolume(out, instr.Volume)

	if instr.OutputPath == nullOutput {
		logger.Debug("output path is nul, skipping write")
		return nil
	}

	if err := wavio.WriteMonoFloat32(instr.OutputPath, out, notes.DefaultFS); err != nil {
		return err
	}
	logger.Debug("wrote output", "path", instr.OutputPath, "samples", len(out))
	return nil
}

// deviationFromBase computes the source's own pitch-offset stream:
// how far each voiced frame's F0 deviates from the source's overall
// base frequency. Unvoiced frames contribute no deviation.
func deviationFromBase(f0 []float64, base float64) []float64 {
	out := make([]float64, len(f0))
	for i, f := range f0 {
		if f > 0 {
			out[i] = f - base
		}
	}
	return out
}

// applyVolume scales out in place by the UTAU volume percentage.
func applyVolume(out []float64, volumePercent float64) {
	gain := volumePercent / 100.0
	for i := range out {
		out[i] *= gain
	}
}
