// Package errs defines the error taxonomy shared across the resampler
// pipeline. Every stage wraps a sentinel from this package so the CLI
// entry point can report a stable diagnostic kind regardless of which
// stage failed.
package errs

import "errors"

var (
	// ErrArgument marks a wrong argument count or unparseable argument.
	ErrArgument = errors.New("argument error")
	// ErrIO marks a file read/write, WAV-format, or zstd framing failure.
	ErrIO = errors.New("io error")
	// ErrAnalysis marks a vocoder primitive returning an invalid shape
	// or an empty F0 track.
	ErrAnalysis = errors.New("analysis error")
	// ErrInterpolation marks a spline construction failure (non-monotonic
	// grid, insufficient points).
	ErrInterpolation = errors.New("interpolation error")
	// ErrSynthesis marks a vocoder synthesizer failure.
	ErrSynthesis = errors.New("synthesis error")
)
