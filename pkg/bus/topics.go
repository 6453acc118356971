package bus

// Topic suffixes, resolved under the configured prefix.
const (
	// TopicVoiceProbability carries per-frame voice telemetry.
	TopicVoiceProbability = "telemetry/voice_probability"

	// TopicWakeWordDetected carries wake word matches.
	TopicWakeWordDetected = "event/wake_word_detected"

	// TopicRecordingStarted carries session starts.
	TopicRecordingStarted = "event/recording_started"

	// TopicRecordingEnded carries session ends with their reason.
	TopicRecordingEnded = "event/recording_ended"

	// TopicTranscript carries finished transcriptions.
	TopicTranscript = "event/transcript"

	// TopicPrivacyMode is the inbound control topic for privacy toggles.
	TopicPrivacyMode = "control/privacy_mode"
)

// Topics resolves topic suffixes under a deployment prefix, so several
// daemons can share one bus without colliding.
type Topics struct {
	prefix string
}

// NewTopics creates a resolver for the given prefix ("" for none).
func NewTopics(prefix string) Topics {
	return Topics{prefix: prefix}
}

// Resolve returns the fully-qualified topic.
func (t Topics) Resolve(suffix string) string {
	if t.prefix == "" {
		return suffix
	}
	return t.prefix + "/" + suffix
}
