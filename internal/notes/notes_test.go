package notes

import (
	"math"
	"testing"
)

func TestNoteNameToMIDI(t *testing.T) {
	cases := []struct {
		name string
		want float64
	}{
		{"A4", 69},
		{"C0", 12},
		{"C#5", 73},
		{"F4", 65},
		{"a4", 69},
	}

	for _, c := range cases {
		got, err := NoteNameToMIDI(c.name)
		if err != nil {
			t.Fatalf("NoteNameToMIDI(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("NoteNameToMIDI(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNoteNameToMIDIInvalid(t *testing.T) {
	if _, err := NoteNameToMIDI("H4"); err == nil {
		t.Error("expected error for invalid note name")
	}
}

func TestMIDIHzRoundTrip(t *testing.T) {
	for _, m := range []float64{0, 45, 69, 81, 120} {
		hz := MIDIToHz(m)
		back := HzToMIDI(hz)
		if math.Abs(back-m) > 1e-9 {
			t.Errorf("round trip MIDI %v -> %v -> %v, diff too large", m, hz, back)
		}
	}
}

func TestMIDIToHzA4(t *testing.T) {
	if got := MIDIToHz(69); math.Abs(got-440.0) > 1e-9 {
		t.Errorf("MIDIToHz(69) = %v, want 440", got)
	}
}

func TestBaseFrequencyAllUnvoiced(t *testing.T) {
	f0 := []float64{0, 0, 0, 0}
	if got := BaseFrequency(f0, F0Floor, F0Ceil); got != 0 {
		t.Errorf("BaseFrequency of silence = %v, want 0", got)
	}
}

func TestBaseFrequencyStableTone(t *testing.T) {
	f0 := make([]float64, 50)
	for i := range f0 {
		f0[i] = 220.0
	}
	got := BaseFrequency(f0, F0Floor, F0Ceil)
	if math.Abs(got-220.0) > 1e-6 {
		t.Errorf("BaseFrequency of steady 220Hz = %v, want 220", got)
	}
}

func TestSmoothstepBounds(t *testing.T) {
	if got := Smoothstep(0, 1, -1); got != 0 {
		t.Errorf("Smoothstep below edge0 = %v, want 0", got)
	}
	if got := Smoothstep(0, 1, 2); got != 1 {
		t.Errorf("Smoothstep above edge1 = %v, want 1", got)
	}
	if got := Smoothstep(0, 1, 0.5); got != 0.5 {
		t.Errorf("Smoothstep(0.5) = %v, want 0.5 (symmetric ease)", got)
	}
}
