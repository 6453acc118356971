package listener

import (
	"fmt"
	"time"
)

// Config holds the listener's timing and threshold parameters.
type Config struct {
	// SampleRate is the capture rate in Hz. Must match the audio source.
	// Default: 16000
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`

	// SilenceTimeout is how long without human speech before an active
	// recording finishes.
	// Default: 3s
	SilenceTimeout time.Duration `yaml:"silence_timeout" json:"silence_timeout"`

	// SpeechThreshold is the voice probability above which a frame counts
	// as human speech. Strictly-greater comparison.
	// Default: 0.5
	SpeechThreshold float32 `yaml:"speech_threshold" json:"speech_threshold"`

	// TriggerGrace is how long after the wake word a recording is kept
	// alive regardless of silence, so a slow start does not end it.
	// Default: 1s
	TriggerGrace time.Duration `yaml:"trigger_grace" json:"trigger_grace"`

	// RetentionWindow is how much recent audio the retention buffer keeps.
	// Default: 5s
	RetentionWindow time.Duration `yaml:"retention_window" json:"retention_window"`

	// DismissKeyword, when non-empty, names the keyword that cancels an
	// active recording instead of starting one.
	DismissKeyword string `yaml:"dismiss_keyword" json:"dismiss_keyword"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SampleRate:      16000,
		SilenceTimeout:  3 * time.Second,
		SpeechThreshold: 0.5,
		TriggerGrace:    time.Second,
		RetentionWindow: 5 * time.Second,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.SilenceTimeout <= 0 {
		return fmt.Errorf("silence_timeout must be positive, got %v", c.SilenceTimeout)
	}
	if c.SpeechThreshold < 0 || c.SpeechThreshold > 1 {
		return fmt.Errorf("speech_threshold must be in [0,1], got %v", c.SpeechThreshold)
	}
	if c.TriggerGrace < 0 {
		return fmt.Errorf("trigger_grace must not be negative, got %v", c.TriggerGrace)
	}
	if c.RetentionWindow <= 0 {
		return fmt.Errorf("retention_window must be positive, got %v", c.RetentionWindow)
	}
	return nil
}
