package features

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/layetri/straycrab/internal/errs"
)

// Database holds the analysis features for every WAV in a directory,
// keyed by file name, persisted as a single `<dir-name>.scx` sidecar
// alongside per-source sidecars.
type Database struct {
	Entries map[string]Features
}

// BuildDatabase computes (or loads the existing per-source sidecars
// for) every .wav file directly inside dir and persists the combined
// result to `<dir>.scx`.
func BuildDatabase(dir string) (*Database, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read dir %s: %v", errs.ErrIO, dir, err)
	}

	db := &Database{Entries: make(map[string]Features)}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}

		wavPath := filepath.Join(dir, e.Name())
		feats, err := FeaturesFor(wavPath, true)
		if err != nil {
			return nil, fmt.Errorf("%w: building database entry %s: %v", errs.ErrAnalysis, e.Name(), err)
		}
		db.Entries[e.Name()] = *feats
	}

	dbPath := databasePath(dir)
	if err := saveDatabase(dbPath, db); err != nil {
		return nil, err
	}

	return db, nil
}

// LoadDatabase reads a previously-built `<dir>.scx` feature database.
func LoadDatabase(dir string) (*Database, error) {
	return loadDatabase(databasePath(dir))
}

func databasePath(dir string) string {
	name := strings.TrimRight(filepath.Clean(dir), string(filepath.Separator))
	return name + ".scx"
}
