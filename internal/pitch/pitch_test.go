package pitch

import (
	"math"
	"testing"

	"github.com/layetri/straycrab/internal/notes"
)

func TestBuildContourFlatBend(t *testing.T) {
	numFrames := 20
	f0Off := make([]float64, numFrames)

	f0, err := BuildContour([]int{0}, 69, 120, numFrames, nil, f0Off, 0)
	if err != nil {
		t.Fatalf("BuildContour: %v", err)
	}
	if len(f0) != numFrames {
		t.Fatalf("len(f0) = %d, want %d", len(f0), numFrames)
	}
	for i, v := range f0 {
		if math.Abs(v-440.0) > 1e-6 {
			t.Fatalf("f0[%d] = %v, want 440 (A4, flat bend)", i, v)
		}
	}
}

func TestBuildContourPitchOffset(t *testing.T) {
	numFrames := 10
	f0Off := make([]float64, numFrames)
	offset := 12 // one octave up

	f0, err := BuildContour([]int{0}, 69, 120, numFrames, &offset, f0Off, 0)
	if err != nil {
		t.Fatalf("BuildContour: %v", err)
	}
	want := notes.MIDIToHz(81)
	if math.Abs(f0[0]-want) > 1e-6 {
		t.Errorf("f0[0] = %v, want %v", f0[0], want)
	}
}

func TestBuildContourModulationBlend(t *testing.T) {
	numFrames := 5
	f0Off := make([]float64, numFrames)
	for i := range f0Off {
		f0Off[i] = 10.0
	}

	f0NoMod, err := BuildContour([]int{0}, 69, 120, numFrames, nil, f0Off, 0)
	if err != nil {
		t.Fatalf("BuildContour: %v", err)
	}
	f0FullMod, err := BuildContour([]int{0}, 69, 120, numFrames, nil, f0Off, 1.0)
	if err != nil {
		t.Fatalf("BuildContour: %v", err)
	}

	for i := range f0NoMod {
		if math.Abs((f0FullMod[i]-f0NoMod[i])-10.0) > 1e-6 {
			t.Errorf("modulation blend at %d: got delta %v, want 10", i, f0FullMod[i]-f0NoMod[i])
		}
	}
}

func TestBuildContourInvalidTempo(t *testing.T) {
	if _, err := BuildContour([]int{0}, 69, 0, 10, nil, make([]float64, 10), 0); err == nil {
		t.Fatal("BuildContour with zero tempo should error")
	}
}

func TestBuildContourZeroFrames(t *testing.T) {
	f0, err := BuildContour([]int{0}, 69, 120, 0, nil, nil, 0)
	if err != nil {
		t.Fatalf("BuildContour with zero frames should not error: %v", err)
	}
	if f0 != nil {
		t.Fatalf("BuildContour with zero frames should return nil, got %v", f0)
	}
}

func TestBuildContourLongBendUsesAkima(t *testing.T) {
	numFrames := 50
	bend := make([]int, 10)
	for i := range bend {
		bend[i] = i * 10
	}
	f0Off := make([]float64, numFrames)

	f0, err := BuildContour(bend, 69, 120, numFrames, nil, f0Off, 0)
	if err != nil {
		t.Fatalf("BuildContour: %v", err)
	}
	if len(f0) != numFrames {
		t.Fatalf("len(f0) = %d, want %d", len(f0), numFrames)
	}
	// Pitch should rise monotonically-ish across the bend's span since
	// cents only increase.
	if f0[0] >= f0[numFrames-1] {
		t.Errorf("expected rising contour, got f0[0]=%v f0[last]=%v", f0[0], f0[numFrames-1])
	}
}
