package listener

import "time"

// Validator decides whether a finished recording is worth delivering.
// It runs after the silence timeout, before the sample hand-off; a rejected
// recording ends with EndValidationFailed and is discarded.
//
// The retention clip is the WAV render of the retention buffer at finish
// time, for validators that want the audio leading into the wake word.
type Validator interface {
	Validate(sample *AudioSample, retentionClip []byte) bool
}

// MinDurationValidator rejects recordings shorter than Min. A recording
// that never got past the wake word frame is usually a false trigger.
type MinDurationValidator struct {
	Min time.Duration
}

// Validate implements Validator.
func (v MinDurationValidator) Validate(sample *AudioSample, _ []byte) bool {
	return sample.Duration() >= v.Min
}

var _ Validator = MinDurationValidator{}
