package listener

import (
	"time"

	"github.com/google/uuid"
)

// session accumulates audio for one active recording. At most one session
// exists at a time; takeSession moves it out of the listener wholesale.
type session struct {
	id          string
	wakeWord    string
	triggeredAt time.Time
	samples     []int16
	frames      int
}

func newSession(wakeWord string, triggeredAt time.Time) *session {
	return &session{
		id:          uuid.NewString(),
		wakeWord:    wakeWord,
		triggeredAt: triggeredAt,
	}
}

// append copies one frame into the session buffer.
func (s *session) append(frame []int16) {
	s.samples = append(s.samples, frame...)
	s.frames++
}

// sample converts the session into a deliverable AudioSample, transferring
// ownership of the accumulated audio.
func (s *session) sample(sampleRate int) AudioSample {
	out := AudioSample{
		SessionID:   s.id,
		WakeWord:    s.wakeWord,
		SampleRate:  sampleRate,
		TriggeredAt: s.triggeredAt,
		Samples:     s.samples,
	}
	s.samples = nil
	return out
}
