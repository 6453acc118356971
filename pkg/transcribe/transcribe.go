// Package transcribe converts finished wake word recordings to text.
//
// Providers implement the Provider interface; the Worker drains the
// listener's sample channel and publishes transcripts onto the bus.
package transcribe

import (
	"context"
	"time"

	"github.com/teslashibe/go-wakeword/pkg/listener"
)

// Transcript is the text result for one recording session.
type Transcript struct {
	SessionID string    `json:"session_id"`
	WakeWord  string    `json:"wake_word"`
	Text      string    `json:"text"`
	Language  string    `json:"language,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int64     `json:"latency_ms"`
}

// Provider converts one audio sample into a transcript.
type Provider interface {
	// Transcribe sends the sample for transcription and returns the
	// result. The context bounds the whole exchange.
	Transcribe(ctx context.Context, sample *listener.AudioSample) (*Transcript, error)

	// Health checks API connectivity.
	Health(ctx context.Context) error

	// Close releases resources.
	Close() error
}
