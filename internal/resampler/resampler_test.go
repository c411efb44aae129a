package resampler

import (
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/layetri/straycrab/internal/instruction"
	"github.com/layetri/straycrab/internal/wavio"
)

func silentLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeTone(t *testing.T, path string, freq float64, seconds float64) {
	t.Helper()
	fs := 44100
	n := int(float64(fs) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(fs))
	}
	if err := wavio.WriteMonoFloat32(path, samples, fs); err != nil {
		t.Fatalf("WriteMonoFloat32: %v", err)
	}
}

func TestRenderProducesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "voice.wav")
	out := filepath.Join(dir, "rendered.wav")
	writeTone(t, in, 220.0, 1.0)

	args := []string{
		in, out, "A4", "100", "", "100", "500", "50", "100", "100", "0", "120", "",
	}
	instr, err := instruction.FromArgs(args)
	if err != nil {
		t.Fatalf("FromArgs: %v", err)
	}

	if err := Render(instr, silentLogger()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	src, err := wavio.ReadSource(out)
	if err != nil {
		t.Fatalf("ReadSource(out): %v", err)
	}
	if len(src.Samples) == 0 {
		t.Fatal("Render wrote an empty output file")
	}
}

func TestRenderNulOutputSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "voice.wav")
	writeTone(t, in, 220.0, 1.0)

	args := []string{
		in, "nul", "A4", "100", "", "100", "500", "50", "100", "100", "0", "120", "",
	}
	instr, err := instruction.FromArgs(args)
	if err != nil {
		t.Fatalf("FromArgs: %v", err)
	}

	if err := Render(instr, silentLogger()); err != nil {
		t.Fatalf("Render: %v", err)
	}
}
