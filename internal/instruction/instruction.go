// Package instruction parses the UTAU resampler protocol's 13
// positional arguments into a typed ResamplerInstruction.
package instruction

import (
	"fmt"
	"strconv"

	"github.com/layetri/straycrab/internal/errs"
	"github.com/layetri/straycrab/internal/notes"
	"github.com/layetri/straycrab/internal/pitchbend"
	"github.com/layetri/straycrab/internal/rflags"
)

// NumArgs is the fixed count of positional arguments the UTAU
// resampler protocol defines, excluding the program name.
const NumArgs = 13

// ResamplerInstruction is the parsed form of one resampler invocation.
type ResamplerInstruction struct {
	InputPath  string
	OutputPath string

	PitchMIDI float64
	Velocity  float64
	Flags     *rflags.ResamplerFlags

	OffsetMs     float64
	LengthMs     float64
	ConsonantMs  float64
	CutoffMs     float64
	Volume       float64
	Modulation   float64 // normalized to [0,1] once, here (Open Question #2)
	Tempo        float64
	PitchbendRaw string
	Pitchbend    []int
}

// FromArgs parses the 13 positional arguments (in protocol order) into
// a ResamplerInstruction. Every numeric/string failure is wrapped in
// errs.ErrArgument.
func FromArgs(args []string) (*ResamplerInstruction, error) {
	if len(args) != NumArgs {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", errs.ErrArgument, NumArgs, len(args))
	}

	pitchMIDI, err := notes.NoteNameToMIDI(args[2])
	if err != nil {
		return nil, err
	}

	velocity, err := parseFloat("velocity", args[3])
	if err != nil {
		return nil, err
	}

	flags, err := rflags.Parse(args[4])
	if err != nil {
		return nil, err
	}

	offsetMs, err := parseFloat("offset_ms", args[5])
	if err != nil {
		return nil, err
	}
	lengthMs, err := parseFloat("length_ms", args[6])
	if err != nil {
		return nil, err
	}
	consonantMs, err := parseFloat("consonant_ms", args[7])
	if err != nil {
		return nil, err
	}
	cutoffMs, err := parseFloat("cutoff_ms", args[8])
	if err != nil {
		return nil, err
	}
	volume, err := parseFloat("volume", args[9])
	if err != nil {
		return nil, err
	}
	modulationArg, err := parseFloat("modulation", args[10])
	if err != nil {
		return nil, err
	}
	tempo, err := parseFloat("tempo", args[11])
	if err != nil {
		return nil, err
	}

	bend, err := pitchbend.Decode(args[12])
	if err != nil {
		return nil, err
	}

	return &ResamplerInstruction{
		InputPath:    args[0],
		OutputPath:   args[1],
		PitchMIDI:    pitchMIDI,
		Velocity:     velocity,
		Flags:        flags,
		OffsetMs:     offsetMs,
		LengthMs:     lengthMs,
		ConsonantMs:  consonantMs,
		CutoffMs:     cutoffMs,
		Volume:       volume,
		Modulation:   modulationArg / 100.0,
		Tempo:        tempo,
		PitchbendRaw: args[12],
		Pitchbend:    bend,
	}, nil
}

func parseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q: %v", errs.ErrArgument, field, raw, err)
	}
	return v, nil
}
