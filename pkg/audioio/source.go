package audioio

import (
	"context"
	"io"
)

// Frame is one fixed-length block of mono PCM16 samples. Frames are
// immutable once read; consumers must not modify Samples.
type Frame struct {
	// Samples contains exactly Config.FrameLength PCM16 samples.
	Samples []int16
}

// Bytes returns the raw little-endian bytes of the frame.
func (f *Frame) Bytes() []byte {
	buf := make([]byte, len(f.Samples)*2)
	for i, s := range f.Samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

// Source captures audio frames from a microphone or other input device.
type Source interface {
	// Start begins audio capture.
	// After calling Start, frames are available via Read.
	Start(ctx context.Context) error

	// Stop halts audio capture.
	// It is safe to call Stop multiple times.
	Stop() error

	// Read reads the next frame, blocking until one is available.
	// Returns io.EOF when the source is stopped; any other error is a
	// device failure and terminates the caller's loop.
	Read(ctx context.Context) (Frame, error)

	// Config returns the capture format.
	Config() Config

	// Name returns the backend name (e.g., "alsa", "mock").
	Name() string

	// Close releases all resources.
	// After Close, the source cannot be restarted.
	io.Closer
}

// SourceStats contains statistics about the audio source.
type SourceStats struct {
	// FramesRead is the total number of frames read.
	FramesRead int64 `json:"frames_read"`

	// Overruns is the number of buffer overruns (dropped frames).
	Overruns int64 `json:"overruns"`

	// Running indicates if the source is currently capturing.
	Running bool `json:"running"`

	// Backend is the name of the audio backend.
	Backend string `json:"backend"`
}

// SourceWithStats extends Source with statistics.
type SourceWithStats interface {
	Source
	Stats() SourceStats
}
