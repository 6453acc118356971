// Package audioio defines the microphone frame source contract for the
// wake word listener.
//
// Real capture backends (ALSA, CoreAudio, vendor recorders) live outside
// this module; they only need to satisfy the Source interface. The package
// ships a mock source for development and tests.
package audioio

import (
	"fmt"
	"time"
)

// Config holds the capture format.
type Config struct {
	// SampleRate is the audio sample rate in Hz.
	// Default: 16000 (what keyword detectors typically require)
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`

	// FrameLength is the number of samples per frame. The keyword
	// detector fixes this; every frame read has exactly this length.
	// Default: 512
	FrameLength int `yaml:"frame_length" json:"frame_length"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SampleRate:  16000,
		FrameLength: 512,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.FrameLength <= 0 {
		return fmt.Errorf("frame_length must be positive, got %d", c.FrameLength)
	}
	return nil
}

// FrameDuration returns the wall-clock duration of one frame.
func (c *Config) FrameDuration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(c.FrameLength) / float64(c.SampleRate) * float64(time.Second))
}
