package wavio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/layetri/straycrab/internal/errs"
)

// WriteMonoFloat32 writes samples as a 32-bit IEEE-float mono WAV file
// at the given sample rate. The synthesizer's output is always this
// one fixed shape, so this is a small hand-rolled RIFF writer rather
// than an adaptation of a general int-PCM encoder (see DESIGN.md).
func WriteMonoFloat32(path string, samples []float64, sampleRate int) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create dir %s: %v", errs.ErrIO, dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", errs.ErrIO, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	const (
		bitsPerSample = 32
		numChannels   = 1
		audioFormat   = 3 // WAVE_FORMAT_IEEE_FLOAT
	)
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(samples) * bitsPerSample / 8
	riffSize := 4 + (8 + 16) + (8 + dataSize)

	writeString(w, "RIFF")
	writeUint32(w, uint32(riffSize))
	writeString(w, "WAVE")

	writeString(w, "fmt ")
	writeUint32(w, 16)
	writeUint16(w, uint16(audioFormat))
	writeUint16(w, uint16(numChannels))
	writeUint32(w, uint32(sampleRate))
	writeUint32(w, uint32(byteRate))
	writeUint16(w, uint16(blockAlign))
	writeUint16(w, uint16(bitsPerSample))

	writeString(w, "data")
	writeUint32(w, uint32(dataSize))
	for _, s := range samples {
		writeUint32(w, math.Float32bits(float32(s)))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: write %s: %v", errs.ErrIO, path, err)
	}
	return nil
}

func writeString(w *bufio.Writer, s string) {
	w.WriteString(s)
}

func writeUint32(w *bufio.Writer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeUint16(w *bufio.Writer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}
