// Package detect defines the frame classifier contracts the listener
// consumes: wake word detection and voice activity estimation.
//
// Licensed inference engines (Porcupine-style keyword spotters, neural
// VADs) live outside this module and only need to satisfy these
// interfaces. The package ships a pure-Go energy VAD and scripted
// detectors for tests.
package detect

import "fmt"

// NoMatch is returned by KeywordDetector.Process when no keyword was
// detected in the frame.
const NoMatch = -1

// KeywordDetector classifies a single audio frame against a fixed keyword
// set. Process returns the matched keyword index, or NoMatch.
//
// An error is a fatal engine failure: the caller does not retry the frame.
type KeywordDetector interface {
	Process(frame []int16) (int, error)
}

// VoiceActivity estimates the probability that a frame contains human
// speech. Process returns a value in [0, 1].
//
// An error is a fatal engine failure: the caller does not retry the frame.
type VoiceActivity interface {
	Process(frame []int16) (float32, error)
}

// Keywords is the index-addressable binding from detector keyword indices
// to human-readable wake word names. Built once at startup; read-only
// afterward.
type Keywords struct {
	names []string
}

// NewKeywords builds the binding table. Order must match the detector's
// keyword ordering.
func NewKeywords(names ...string) (*Keywords, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one keyword is required")
	}
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("keyword %d is empty", i)
		}
	}
	bound := make([]string, len(names))
	copy(bound, names)
	return &Keywords{names: bound}, nil
}

// Name resolves a detector index to a wake word name.
func (k *Keywords) Name(index int) (string, error) {
	if index < 0 || index >= len(k.names) {
		return "", fmt.Errorf("keyword index %d unknown (have %d keywords)", index, len(k.names))
	}
	return k.names[index], nil
}

// Len returns the number of bound keywords.
func (k *Keywords) Len() int {
	return len(k.names)
}

// Names returns a copy of the bound keyword names in index order.
func (k *Keywords) Names() []string {
	out := make([]string, len(k.names))
	copy(out, k.names)
	return out
}
