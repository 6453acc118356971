package listener

import "time"

// EventKind identifies the type of a lifecycle event.
type EventKind string

const (
	KindVoiceProbability EventKind = "voice_probability"
	KindWakeWordDetected EventKind = "wake_word_detected"
	KindRecordingStarted EventKind = "recording_started"
	KindRecordingEnded   EventKind = "recording_ended"
)

// EndReason says why a recording session ended.
type EndReason string

const (
	// EndFinished: the silence timeout elapsed and the sample was handed off.
	EndFinished EndReason = "finished"

	// EndDismissed: the dismiss keyword cancelled the session.
	EndDismissed EndReason = "dismissed"

	// EndPrivacyMode: privacy mode activation cancelled the session.
	EndPrivacyMode EndReason = "privacy_mode_activated"

	// EndValidationFailed: the finished recording was rejected by the
	// configured validator and discarded.
	EndValidationFailed EndReason = "validation_failed"
)

// Event is a lifecycle event emitted by the listener. Events are values;
// the listener keeps no reference after emitting.
type Event interface {
	Kind() EventKind
}

// VoiceProbability reports the per-frame voice activity estimate.
type VoiceProbability struct {
	// Probability is the speech probability in [0, 1].
	Probability float32 `json:"probability"`

	Timestamp time.Time `json:"timestamp"`

	// SinceLastSpeechMs is the elapsed time since human speech was last
	// detected, measured before this frame's estimate is applied.
	SinceLastSpeechMs int64 `json:"since_last_speech_ms"`

	// Recording indicates whether a session was active for this frame.
	Recording bool `json:"recording"`
}

// Kind implements Event.
func (VoiceProbability) Kind() EventKind { return KindVoiceProbability }

// WakeWordDetected reports a wake word match, including repeated matches
// during an active session and dismiss keyword matches.
type WakeWordDetected struct {
	WakeWord  string    `json:"wake_word"`
	Timestamp time.Time `json:"timestamp"`
}

// Kind implements Event.
func (WakeWordDetected) Kind() EventKind { return KindWakeWordDetected }

// RecordingStarted reports that a wake word opened a new session.
type RecordingStarted struct {
	SessionID string    `json:"session_id"`
	WakeWord  string    `json:"wake_word"`
	Timestamp time.Time `json:"timestamp"`
}

// Kind implements Event.
func (RecordingStarted) Kind() EventKind { return KindRecordingStarted }

// RecordingEnded reports that a session ended. WakeWord and Timestamp are
// the session's triggering wake word and trigger time, not the end time.
type RecordingEnded struct {
	SessionID string    `json:"session_id"`
	WakeWord  string    `json:"wake_word"`
	Timestamp time.Time `json:"timestamp"`
	Reason    EndReason `json:"reason"`
}

// Kind implements Event.
func (RecordingEnded) Kind() EventKind { return KindRecordingEnded }
