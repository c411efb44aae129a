package effects

import (
	"math"
	"testing"

	"github.com/layetri/straycrab/internal/rflags"
)

func floatPtr(v float64) *float64 { return &v }

func TestApplyFryNoOpWithoutFlag(t *testing.T) {
	f0 := []float64{100, 100, 100}
	tRender := []float64{0, 0.1, 0.2}
	ApplyFry(f0, tRender, 0.05, &rflags.ResamplerFlags{})
	for i, v := range f0 {
		if v != 100 {
			t.Errorf("f0[%d] = %v, want unchanged 100 (no fe flag)", i, v)
		}
	}
}

func TestApplyFryBumpsNearOnset(t *testing.T) {
	f0 := make([]float64, 50)
	tRender := make([]float64, 50)
	for i := range tRender {
		tRender[i] = float64(i) * 0.01
	}
	conTime := 0.1

	flags := &rflags.ResamplerFlags{
		FryEnd:   floatPtr(0.05),
		FryLen:   floatPtr(0.02),
		FryPitch: floatPtr(30),
	}
	ApplyFry(f0, tRender, conTime, flags)

	maxBump := 0.0
	for _, v := range f0 {
		if v > maxBump {
			maxBump = v
		}
	}
	if maxBump <= 0 {
		t.Fatal("ApplyFry produced no pitch bump with fe/fl/fp set")
	}
	if maxBump > 30.0001 {
		t.Errorf("max fry bump = %v, want <= fry_pitch (30)", maxBump)
	}
}

func TestApplyGenderNoOpWithoutFlag(t *testing.T) {
	sp := [][]float64{{1, 2, 3, 4, 5}}
	out, err := ApplyGender(sp, &rflags.ResamplerFlags{})
	if err != nil {
		t.Fatalf("ApplyGender: %v", err)
	}
	if &out[0] != &sp[0] {
		t.Error("ApplyGender without gender flag should return sp unmodified")
	}
}

func TestApplyGenderIdentityWarp(t *testing.T) {
	nBins := 10
	row := make([]float64, nBins)
	for i := range row {
		row[i] = float64(i)
	}
	sp := [][]float64{row}

	gender := 1.0 // (v/120)^2 = 1 happens at v=120
	out, err := ApplyGender(sp, &rflags.ResamplerFlags{Gender: &gender})
	if err != nil {
		t.Fatalf("ApplyGender: %v", err)
	}
	for i, v := range out[0] {
		if math.Abs(v-row[i]) > 1e-6 {
			t.Errorf("identity gender warp at bin %d: got %v, want %v", i, v, row[i])
		}
	}
}

func TestApplyGenderLiftsFormants(t *testing.T) {
	nBins := 10
	row := make([]float64, nBins)
	for i := range row {
		row[i] = float64(i)
	}
	sp := [][]float64{row}

	gender := 2.0
	out, err := ApplyGender(sp, &rflags.ResamplerFlags{Gender: &gender})
	if err != nil {
		t.Fatalf("ApplyGender: %v", err)
	}
	// gender > 1 samples further along the original axis at the same
	// relative position, so later bins should read higher values than
	// the unwarped row at the same index.
	if out[0][5] <= row[5] {
		t.Errorf("gender=2 warp at bin 5: got %v, want > %v", out[0][5], row[5])
	}
}
