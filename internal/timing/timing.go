// Package timing builds the time-warp plan that maps a source
// sample's natural frame grid onto a requested note's timing
// envelope: offset, consonant region, and usable end.
package timing

// Plan is the time-warp plan produced from a source frame count and
// the note's offset/cutoff/consonant parameters. All fields are in
// seconds.
type Plan struct {
	Positions []float64 // the source frame time grid, 5ms spacing
	Start     float64   // sample-time of note onset
	Con       float64   // end of consonant region
	End       float64   // end of usable sample region
}

// FramePeriod is the fixed analysis/synthesis frame spacing, in
// seconds.
const FramePeriod = 0.005

// Calculate builds a Plan for a source with n analysis frames, given
// offset/cutoff/consonant in milliseconds.
//
// cutoffMs < 0 is treated as an absolute length from start; cutoffMs
// >= 0 is trimmed from the tail of the source's frame grid.
func Calculate(n int, offsetMs, cutoffMs, consonantMs float64) Plan {
	positions := make([]float64, n)
	for i := range positions {
		positions[i] = float64(i) * FramePeriod
	}

	start := offsetMs / 1000.0

	var end float64
	if cutoffMs < 0 {
		end = start - cutoffMs/1000.0
	} else {
		var last float64
		if n > 0 {
			last = positions[n-1]
		}
		end = last - cutoffMs/1000.0
	}

	con := start + consonantMs/1000.0

	return Plan{
		Positions: positions,
		Start:     start,
		Con:       con,
		End:       end,
	}
}
