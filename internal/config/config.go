// Package config loads the wakewordd configuration from a YAML file with
// environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvBusAddr   = "WAKEWORD_BUS_ADDR"
)

// Duration is a time.Duration that unmarshals from YAML strings like "3s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level wakewordd configuration.
type Config struct {
	// LogLevel controls the global logger: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Audio describes the capture format the detectors expect.
	Audio AudioConfig `yaml:"audio"`

	// Keywords are the wake words, index-addressable in detector order.
	Keywords []string `yaml:"keywords"`

	// DismissKeyword cancels an active recording instead of starting one.
	// Empty disables dismiss handling.
	DismissKeyword string `yaml:"dismiss_keyword"`

	Listener  ListenerConfig  `yaml:"listener"`
	Bus       BusConfig       `yaml:"bus"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Indicator IndicatorConfig `yaml:"indicator"`
}

// AudioConfig describes the fixed capture format.
type AudioConfig struct {
	// SampleRate in Hz. Default: 16000.
	SampleRate int `yaml:"sample_rate"`

	// FrameLength is the number of samples per frame, fixed by the
	// keyword detector. Default: 512.
	FrameLength int `yaml:"frame_length"`
}

// ListenerConfig holds the recording state machine timings.
type ListenerConfig struct {
	// SilenceTimeout closes an active session after this much continuous
	// sub-threshold voice activity. Default: 3s.
	SilenceTimeout Duration `yaml:"silence_timeout"`

	// SpeechThreshold is the voice probability above which a frame counts
	// as human speech. Default: 0.5.
	SpeechThreshold float32 `yaml:"speech_threshold"`

	// TriggerGrace keeps a session alive unconditionally for this long
	// after the triggering wake word. Default: 1s.
	TriggerGrace Duration `yaml:"trigger_grace"`

	// RetentionWindow is how much recent audio the always-on retention
	// buffer keeps for post-hoc validation. Default: 5s.
	RetentionWindow Duration `yaml:"retention_window"`

	// MinRecording rejects finished sessions shorter than this as
	// validation failures. Zero disables the check.
	MinRecording Duration `yaml:"min_recording"`

	// EventBuffer and SampleBuffer size the hand-off channels.
	EventBuffer  int `yaml:"event_buffer"`
	SampleBuffer int `yaml:"sample_buffer"`
}

// BusConfig holds the event bus server settings.
type BusConfig struct {
	// Addr is the listen address for the bus/status server.
	Addr string `yaml:"addr"`

	// Prefix is prepended to every bus topic. Default: "wakeword".
	Prefix string `yaml:"prefix"`
}

// OpenAIConfig holds cloud transcription settings.
type OpenAIConfig struct {
	// APIKey is usually supplied via OPENAI_API_KEY instead.
	APIKey string `yaml:"api_key"`

	// Model is the transcription model. Default: "whisper-1".
	Model string `yaml:"model"`

	// Language hints the transcription language. Default: "en".
	Language string `yaml:"language"`
}

// IndicatorConfig controls the status indicator driver.
type IndicatorConfig struct {
	// Enabled starts the indicator driver loop. Commands are dropped
	// silently when disabled.
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Audio: AudioConfig{
			SampleRate:  16000,
			FrameLength: 512,
		},
		Listener: ListenerConfig{
			SilenceTimeout:  Duration(3 * time.Second),
			SpeechThreshold: 0.5,
			TriggerGrace:    Duration(time.Second),
			RetentionWindow: Duration(5 * time.Second),
			EventBuffer:     100,
			SampleBuffer:    100,
		},
		Bus: BusConfig{
			Addr:   ":8090",
			Prefix: "wakeword",
		},
		OpenAI: OpenAIConfig{
			Model:    "whisper-1",
			Language: "en",
		},
		Indicator: IndicatorConfig{Enabled: true},
	}
}

// Load reads the configuration file at path (if non-empty), layered over
// Default(), then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if key := os.Getenv(EnvOpenAIKey); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if addr := os.Getenv(EnvBusAddr); addr != "" {
		cfg.Bus.Addr = addr
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.FrameLength <= 0 {
		return fmt.Errorf("audio.frame_length must be positive, got %d", c.Audio.FrameLength)
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	if c.Listener.SilenceTimeout <= 0 {
		return fmt.Errorf("listener.silence_timeout must be positive")
	}
	if c.Listener.SpeechThreshold < 0 || c.Listener.SpeechThreshold > 1 {
		return fmt.Errorf("listener.speech_threshold must be in [0,1], got %v", c.Listener.SpeechThreshold)
	}
	if c.Listener.RetentionWindow <= 0 {
		return fmt.Errorf("listener.retention_window must be positive")
	}
	if c.Bus.Prefix == "" {
		return fmt.Errorf("bus.prefix is required")
	}
	return nil
}
