package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.Equal(t, 512, cfg.Audio.FrameLength)
	assert.Equal(t, 3*time.Second, cfg.Listener.SilenceTimeout.Std())
	assert.Equal(t, 5*time.Second, cfg.Listener.RetentionWindow.Std())
	assert.Equal(t, time.Second, cfg.Listener.TriggerGrace.Std())
	assert.Equal(t, float32(0.5), cfg.Listener.SpeechThreshold)
	assert.Equal(t, "wakeword", cfg.Bus.Prefix)
	assert.Equal(t, "whisper-1", cfg.OpenAI.Model)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
log_level: debug
keywords: [computer, jarvis]
dismiss_keyword: stop
listener:
  silence_timeout: 2s
  speech_threshold: 0.7
bus:
  prefix: lab
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv(EnvOpenAIKey, "env-key")
	t.Setenv(EnvBusAddr, ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"computer", "jarvis"}, cfg.Keywords)
	assert.Equal(t, "stop", cfg.DismissKeyword)
	assert.Equal(t, 2*time.Second, cfg.Listener.SilenceTimeout.Std())
	assert.Equal(t, float32(0.7), cfg.Listener.SpeechThreshold)
	assert.Equal(t, "lab", cfg.Bus.Prefix)

	// Untouched fields keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Listener.RetentionWindow.Std())

	// Environment wins over file and defaults.
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
	assert.Equal(t, ":9999", cfg.Bus.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listener:\n  silence_timeout: banana\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Keywords = []string{"computer"}
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no_keywords", func(c *Config) { c.Keywords = nil }, true},
		{"bad_sample_rate", func(c *Config) { c.Audio.SampleRate = 0 }, true},
		{"bad_frame_length", func(c *Config) { c.Audio.FrameLength = -1 }, true},
		{"bad_threshold", func(c *Config) { c.Listener.SpeechThreshold = 1.5 }, true},
		{"zero_timeout", func(c *Config) { c.Listener.SilenceTimeout = 0 }, true},
		{"zero_retention", func(c *Config) { c.Listener.RetentionWindow = 0 }, true},
		{"no_prefix", func(c *Config) { c.Bus.Prefix = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
