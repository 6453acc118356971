package listener

import "time"

// AudioSample is a finished recording handed to downstream consumers.
// The listener transfers ownership of Samples; it keeps no reference.
type AudioSample struct {
	// SessionID identifies the recording session that produced the sample.
	SessionID string `json:"session_id"`

	// WakeWord is the keyword that triggered the recording.
	WakeWord string `json:"wake_word"`

	// SampleRate is the capture rate of Samples in Hz.
	SampleRate int `json:"sample_rate"`

	// TriggeredAt is when the wake word opened the session.
	TriggeredAt time.Time `json:"triggered_at"`

	// Samples is the recorded mono PCM16 audio, wake word frame included.
	Samples []int16 `json:"-"`
}

// Duration returns the audible length of the recording.
func (s *AudioSample) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// WAV renders the sample as a complete WAV file.
func (s *AudioSample) WAV() []byte {
	return EncodeWAV(s.Samples, s.SampleRate)
}
