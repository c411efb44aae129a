// Package wavio reads arbitrary WAV input (via go-audio/wav, which
// handles whatever bit depth/channel count/sample rate the source
// carries) and writes the fixed 32-bit-float mono 44.1kHz output the
// synthesizer always produces.
package wavio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"github.com/layetri/straycrab/internal/errs"
	"github.com/layetri/straycrab/internal/notes"
)

// Source holds a decoded, mono, analysis-rate waveform.
type Source struct {
	Samples    []float64
	SampleRate int
}

// ReadSource decodes path, downmixes to mono if the source carries
// more than one channel, and resamples to the pipeline's fixed
// analysis/synthesis rate if the source's native rate differs.
func ReadSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errs.ErrIO, path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", errs.ErrIO, path, err)
	}
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", errs.ErrIO, path)
	}

	floatBuf := buf.AsFloat32Buffer()
	numChans := floatBuf.Format.NumChannels
	if numChans < 1 {
		numChans = 1
	}

	samples := downmix(floatBuf.Data, numChans)
	sourceRate := floatBuf.Format.SampleRate

	if sourceRate != notes.DefaultFS {
		samples = resampleLinear(samples, sourceRate, notes.DefaultFS)
		sourceRate = notes.DefaultFS
	}

	return &Source{Samples: samples, SampleRate: sourceRate}, nil
}

// resampleLinear rate-converts samples from fromRate to toRate via
// plain linear interpolation. No resampling library appears anywhere
// in the dependency pack this module draws on, so this one ambient
// conversion step is hand-rolled rather than reaching for a
// fabricated import; see DESIGN.md.
func resampleLinear(samples []float64, fromRate, toRate int) []float64 {
	if fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(toRate) / float64(fromRate)
	outLen := int(float64(len(samples)) * ratio)
	out := make([]float64, outLen)

	for i := range out {
		srcPos := float64(i) / ratio
		lo := int(srcPos)
		frac := srcPos - float64(lo)

		if lo >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		out[i] = samples[lo] + frac*(samples[lo+1]-samples[lo])
	}

	return out
}

// downmix averages interleaved multi-channel float32 samples into a
// mono float64 stream.
func downmix(data []float32, numChans int) []float64 {
	n := len(data) / numChans
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for c := 0; c < numChans; c++ {
			sum += float64(data[i*numChans+c])
		}
		out[i] = sum / float64(numChans)
	}
	return out
}
