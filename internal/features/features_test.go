package features

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/layetri/straycrab/internal/wavio"
)

func writeTestTone(t *testing.T, path string, freq float64, seconds float64) {
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

func TestFeaturesForComputesAndCaches(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "a.wav")
	writeTestTone(t, wavPath, 220.0, 0.5)

	feats, err := FeaturesFor(wavPath, false)
	if err != nil {
		t.Fatalf("FeaturesFor: %v", err)
	}
	if len(feats.F0) == 0 {
		t.Fatal("FeaturesFor produced no frames")
	}
	if len(feats.F0) != len(feats.Mgc) || len(feats.F0) != len(feats.Bap) {
		t.Fatalf("stream length mismatch: f0=%d mgc=%d bap=%d", len(feats.F0), len(feats.Mgc), len(feats.Bap))
	}

	sidecar := SidecarPath(wavPath)
	if _, err := os.Stat(sidecar); err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}

	cached, err := FeaturesFor(wavPath, true)
	if err != nil {
		t.Fatalf("FeaturesFor (cached): %v", err)
	}
	if len(cached.F0) != len(feats.F0) {
		t.Fatalf("cached F0 length = %d, want %d", len(cached.F0), len(feats.F0))
	}
	if math.Abs(cached.Base-feats.Base) > 1e-6 {
		t.Errorf("cached Base = %v, want %v", cached.Base, feats.Base)
	}
}

func TestBuildDatabase(t *testing.T) {
	dir := t.TempDir()
	writeTestTone(t, filepath.Join(dir, "a.wav"), 220.0, 0.2)
	writeTestTone(t, filepath.Join(dir, "b.wav"), 330.0, 0.2)

	db, err := BuildDatabase(dir)
	if err != nil {
		t.Fatalf("BuildDatabase: %v", err)
	}
	if len(db.Entries) != 2 {
		t.Fatalf("len(db.Entries) = %d, want 2", len(db.Entries))
	}

	loaded, err := LoadDatabase(dir)
	if err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("len(loaded.Entries) = %d, want 2", len(loaded.Entries))
	}
}
