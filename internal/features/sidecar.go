package features

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/layetri/straycrab/internal/errs"
)

// saveSidecar gob-encodes feats and writes it zstd-compressed to path.
func saveSidecar(path string, feats *Features) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(feats); err != nil {
		return fmt.Errorf("%w: encode sidecar %s: %v", errs.ErrIO, path, err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("%w: sidecar compressor %s: %v", errs.ErrIO, path, err)
	}
	defer enc.Close()

	compressed := enc.EncodeAll(buf.Bytes(), nil)

	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("%w: write sidecar %s: %v", errs.ErrIO, path, err)
	}
	return nil
}

// loadSidecar reads and decodes a previously-saved sidecar.
func loadSidecar(path string) (*Features, error) {
	raw, err := readCompressed(path)
	if err != nil {
		return nil, err
	}

	var feats Features
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&feats); err != nil {
		return nil, fmt.Errorf("%w: decode sidecar %s: %v", errs.ErrIO, path, err)
	}
	return &feats, nil
}

// saveDatabase gob-encodes db and writes it zstd-compressed to path.
func saveDatabase(path string, db *Database) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(db); err != nil {
		return fmt.Errorf("%w: encode database %s: %v", errs.ErrIO, path, err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("%w: database compressor %s: %v", errs.ErrIO, path, err)
	}
	defer enc.Close()

	compressed := enc.EncodeAll(buf.Bytes(), nil)

	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("%w: write database %s: %v", errs.ErrIO, path, err)
	}
	return nil
}

// loadDatabase reads and decodes a previously-saved feature database.
func loadDatabase(path string) (*Database, error) {
	raw, err := readCompressed(path)
	if err != nil {
		return nil, err
	}

	var db Database
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&db); err != nil {
		return nil, fmt.Errorf("%w: decode database %s: %v", errs.ErrIO, path, err)
	}
	return &db, nil
}

func readCompressed(path string) ([]byte, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", errs.ErrIO, path, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompressor for %s: %v", errs.ErrIO, path, err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %v", errs.ErrIO, path, err)
	}
	return raw, nil
}
