package interp

import (
	"math"
	"testing"

	"github.com/layetri/straycrab/internal/timing"
)

func TestVelocityScale(t *testing.T) {
	if v := VelocityScale(0); math.Abs(v-1.0) > 1e-9 {
		t.Errorf("VelocityScale(0) = %v, want 1.0", v)
	}
	if v := VelocityScale(100); math.Abs(v) > 1e-9 {
		t.Errorf("VelocityScale(100) = %v, want 0.0", v)
	}
}

func TestBuildRenderGridBounds(t *testing.T) {
	plan := timing.Calculate(44100*2, 100, 500, 50)
	tRender := BuildRenderGrid(plan, 50, 50, 500)

	if len(tRender) == 0 {
		t.Fatal("BuildRenderGrid produced an empty grid")
	}

	last := plan.Positions[len(plan.Positions)-1]
	for i, v := range tRender {
		if v < 0 || v > last {
			t.Fatalf("tRender[%d] = %v out of bounds [0, %v]", i, v, last)
		}
	}
}

func TestBuildRenderGridStretchFallback(t *testing.T) {
	// A 20-frame (0.1 s) source is too short for the requested 2 s
	// sustain, so con..end is linearly stretched; the grid should still
	// be non-empty and bounded.
	plan := timing.Calculate(20, 10, 10, 5)
	tRender := BuildRenderGrid(plan, 0, 10, 2000)

	if len(tRender) == 0 {
		t.Fatal("BuildRenderGrid produced an empty grid")
	}
	last := plan.Positions[len(plan.Positions)-1]
	for i, v := range tRender {
		if v < 0 || v > last {
			t.Fatalf("tRender[%d] = %v out of bounds [0, %v]", i, v, last)
		}
	}
}

func makeStream(positions []float64, nBins int) [][]float64 {
	out := make([][]float64, len(positions))
	for i, p := range positions {
		row := make([]float64, nBins)
		for k := range row {
			row[k] = p + float64(k)
		}
		out[i] = row
	}
	return out
}

func TestResampleShapeAndBounds(t *testing.T) {
	positions := []float64{0, 0.05, 0.10, 0.15, 0.20, 0.25, 0.30}
	sp := makeStream(positions, 4)
	ap := make([][]float64, len(positions))
	for i := range ap {
		ap[i] = []float64{0, 0.5, 1.0, 2.0} // last bin deliberately out of range
	}
	f0Off := []float64{0, 1, 2, 1, 0, -1, 0}

	tRender := []float64{0.02, 0.10, 0.18, 0.26}

	newSp, newAp, newF0Off, err := Resample(positions, sp, ap, f0Off, tRender)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if len(newSp) != len(tRender) || len(newAp) != len(tRender) || len(newF0Off) != len(tRender) {
		t.Fatalf("Resample output length mismatch: sp=%d ap=%d f0Off=%d, want %d",
			len(newSp), len(newAp), len(newF0Off), len(tRender))
	}
	for i, row := range newAp {
		for j, v := range row {
			if v < 0 || v > 1 {
				t.Fatalf("newAp[%d][%d] = %v out of [0,1]", i, j, v)
			}
		}
	}
}

func TestResampleEmptyInputs(t *testing.T) {
	if _, _, _, err := Resample(nil, nil, nil, nil, []float64{0.1}); err == nil {
		t.Fatal("Resample with empty sp/ap should error")
	}

	positions := []float64{0, 0.05, 0.10, 0.15, 0.20}
	sp := makeStream(positions, 2)
	ap := makeStream(positions, 2)
	newSp, newAp, newF0Off, err := Resample(positions, sp, ap, positions, nil)
	if err != nil {
		t.Fatalf("Resample with empty tRender should not error: %v", err)
	}
	if newSp != nil || newAp != nil || newF0Off != nil {
		t.Fatal("Resample with empty tRender should return nil results")
	}
}
