// Package listener implements the wake word recording state machine: a
// single-goroutine loop that consumes microphone frames, spots wake words,
// records until silence, and hands finished samples downstream.
package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-wakeword/internal/log"
	"github.com/teslashibe/go-wakeword/pkg/audioio"
	"github.com/teslashibe/go-wakeword/pkg/detect"
)

// Indicator drives a visual cue for the recording state. Calls must not
// block; the listener invokes them from its real-time loop.
type Indicator interface {
	// Listen signals that a recording is in progress.
	Listen()

	// Off clears the cue.
	Off()
}

// nopIndicator is the default when no indicator is wired.
type nopIndicator struct{}

func (nopIndicator) Listen() {}
func (nopIndicator) Off()    {}

// Deps are the collaborators the listener drives. Source, Detector,
// Keywords, Voice, Events and Samples are required; the rest are optional.
type Deps struct {
	// Source supplies audio frames.
	Source audioio.Source

	// Detector classifies frames against the keyword set.
	Detector detect.KeywordDetector

	// Keywords resolves detector indices to wake word names.
	Keywords *detect.Keywords

	// Voice estimates per-frame speech probability.
	Voice detect.VoiceActivity

	// Privacy, when true, suspends detection and cancels any active
	// recording. Toggled externally at any time.
	Privacy *atomic.Bool

	// Events receives lifecycle events. The listener never blocks on it;
	// a full channel drops the event.
	Events chan<- Event

	// Samples receives finished recordings. The listener never blocks on
	// it; a full channel drops the recording.
	Samples chan<- AudioSample

	// Indicator shows the recording state. Optional.
	Indicator Indicator

	// Validator vets finished recordings before delivery. Optional.
	Validator Validator

	// Logger for structured logging. Defaults to the process logger.
	Logger *slog.Logger
}

// Stats are cumulative listener counters, safe to read concurrently.
type Stats struct {
	FramesProcessed   int64 `json:"frames_processed"`
	WakeWordsDetected int64 `json:"wake_words_detected"`
	SessionsStarted   int64 `json:"sessions_started"`
	SessionsFinished  int64 `json:"sessions_finished"`
	SessionsCancelled int64 `json:"sessions_cancelled"`
	SessionsRejected  int64 `json:"sessions_rejected"`
	EventsDropped     int64 `json:"events_dropped"`
	SamplesDropped    int64 `json:"samples_dropped"`
	Recording         bool  `json:"recording"`
}

// Listener is the recording state machine. All frame processing happens on
// the goroutine that calls Run; only Stats is safe to use concurrently.
type Listener struct {
	cfg       Config
	source    audioio.Source
	detector  detect.KeywordDetector
	keywords  *detect.Keywords
	voice     detect.VoiceActivity
	privacy   *atomic.Bool
	events    chan<- Event
	samples   chan<- AudioSample
	indicator Indicator
	validator Validator
	logger    *slog.Logger

	// now is the single clock for all timing decisions. Tests override it.
	now func() time.Time

	retention  *RetentionBuffer
	lastSpeech time.Time
	session    *session

	framesProcessed   atomic.Int64
	wakeWordsDetected atomic.Int64
	sessionsStarted   atomic.Int64
	sessionsFinished  atomic.Int64
	sessionsCancelled atomic.Int64
	sessionsRejected  atomic.Int64
	eventsDropped     atomic.Int64
	samplesDropped    atomic.Int64
	recording         atomic.Bool
}

// New creates a Listener. The privacy flag defaults to a private always-off
// flag when nil.
func New(cfg Config, deps Deps) (*Listener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid listener config: %w", err)
	}
	if deps.Source == nil {
		return nil, errors.New("audio source is required")
	}
	if deps.Detector == nil {
		return nil, errors.New("keyword detector is required")
	}
	if deps.Keywords == nil {
		return nil, errors.New("keyword bindings are required")
	}
	if deps.Voice == nil {
		return nil, errors.New("voice activity estimator is required")
	}
	if deps.Events == nil {
		return nil, errors.New("event channel is required")
	}
	if deps.Samples == nil {
		return nil, errors.New("sample channel is required")
	}
	if deps.Privacy == nil {
		deps.Privacy = &atomic.Bool{}
	}
	if deps.Indicator == nil {
		deps.Indicator = nopIndicator{}
	}
	if deps.Logger == nil {
		deps.Logger = log.L()
	}
	return &Listener{
		cfg:       cfg,
		source:    deps.Source,
		detector:  deps.Detector,
		keywords:  deps.Keywords,
		voice:     deps.Voice,
		privacy:   deps.Privacy,
		events:    deps.Events,
		samples:   deps.Samples,
		indicator: deps.Indicator,
		validator: deps.Validator,
		logger:    deps.Logger.With("component", "listener"),
		now:       time.Now,
		retention: NewRetentionBuffer(cfg.RetentionWindow),
	}, nil
}

// Run starts the audio source and processes frames until the context is
// cancelled, the source stops, or a frame processor fails. Any active
// session and all retained audio are discarded on return.
//
// Run is single-shot: create a fresh Listener to run again.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.source.Start(ctx); err != nil {
		return fmt.Errorf("start audio source: %w", err)
	}
	defer l.source.Stop()
	defer l.discard()

	l.lastSpeech = l.now()
	l.logger.Info("listening for wake words",
		"keywords", l.keywords.Names(),
		"backend", l.source.Name())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := l.source.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.logger.Info("audio source stopped")
				return nil
			}
			return fmt.Errorf("read audio frame: %w", err)
		}
		if err := l.processFrame(frame.Samples); err != nil {
			return err
		}
	}
}

// processFrame runs one frame through the state machine. Per-frame order:
// retention insert, privacy check, wake word detection, voice activity,
// session accumulation, silence timeout.
func (l *Listener) processFrame(frame []int16) error {
	now := l.now()
	l.framesProcessed.Add(1)
	l.retention.Insert(now, frame)

	if l.privacy.Load() {
		if s := l.takeSession(); s != nil {
			l.logger.Info("recording cancelled, privacy mode active",
				"session_id", s.id,
				"wake_word", s.wakeWord)
			l.sessionsCancelled.Add(1)
			l.emit(RecordingEnded{
				SessionID: s.id,
				WakeWord:  s.wakeWord,
				Timestamp: s.triggeredAt,
				Reason:    EndPrivacyMode,
			})
			l.indicator.Off()
		}
		return nil
	}

	dismissed, err := l.detectWakeWord(frame, now)
	if err != nil {
		return err
	}
	if dismissed {
		// The dismiss keyword consumes the frame: no voice telemetry,
		// no session accumulation, no timeout check.
		return nil
	}

	prob, err := l.voice.Process(frame)
	if err != nil {
		return fmt.Errorf("estimate voice activity: %w", err)
	}
	l.emit(VoiceProbability{
		Probability:       prob,
		Timestamp:         now,
		SinceLastSpeechMs: now.Sub(l.lastSpeech).Milliseconds(),
		Recording:         l.session != nil,
	})
	if prob > l.cfg.SpeechThreshold {
		l.lastSpeech = now
	}

	if l.session == nil {
		return nil
	}
	l.session.append(frame)

	keepAlive := now.Sub(l.lastSpeech) < l.cfg.SilenceTimeout ||
		now.Sub(l.session.triggeredAt) < l.cfg.TriggerGrace
	if !keepAlive {
		l.finishSession()
	}
	return nil
}

// detectWakeWord handles the keyword stage of one frame: dismissal,
// session start, and repeated-match bookkeeping. A true result means the
// dismiss keyword matched and the frame is fully consumed.
func (l *Listener) detectWakeWord(frame []int16, now time.Time) (bool, error) {
	index, err := l.detector.Process(frame)
	if err != nil {
		return false, fmt.Errorf("process frame for wake words: %w", err)
	}
	if index == detect.NoMatch {
		return false, nil
	}

	name, err := l.keywords.Name(index)
	if err != nil {
		return false, fmt.Errorf("resolve wake word: %w", err)
	}
	l.wakeWordsDetected.Add(1)

	if l.cfg.DismissKeyword != "" && name == l.cfg.DismissKeyword {
		if s := l.takeSession(); s != nil {
			l.logger.Info("recording dismissed",
				"session_id", s.id,
				"wake_word", s.wakeWord)
			l.sessionsCancelled.Add(1)
			l.emit(RecordingEnded{
				SessionID: s.id,
				WakeWord:  s.wakeWord,
				Timestamp: s.triggeredAt,
				Reason:    EndDismissed,
			})
			l.indicator.Off()
		}
		l.emit(WakeWordDetected{WakeWord: name, Timestamp: now})
		return true, nil
	}

	l.emit(WakeWordDetected{WakeWord: name, Timestamp: now})
	if l.session == nil {
		l.session = newSession(name, now)
		l.recording.Store(true)
		l.sessionsStarted.Add(1)
		l.logger.Info("recording started",
			"session_id", l.session.id,
			"wake_word", name)
		l.emit(RecordingStarted{
			SessionID: l.session.id,
			WakeWord:  name,
			Timestamp: now,
		})
		l.indicator.Listen()
	}

	// A keyword match is speech even if the estimator disagrees.
	l.lastSpeech = now
	return false, nil
}

// finishSession closes the active session after the silence timeout,
// running the validator and handing the sample off without blocking.
func (l *Listener) finishSession() {
	s := l.takeSession()
	sample := s.sample(l.cfg.SampleRate)

	if l.validator != nil {
		clip := l.retention.Render(l.cfg.SampleRate)
		if !l.validator.Validate(&sample, clip) {
			l.logger.Info("recording rejected",
				"session_id", s.id,
				"wake_word", s.wakeWord,
				"duration", sample.Duration())
			l.sessionsRejected.Add(1)
			l.emit(RecordingEnded{
				SessionID: s.id,
				WakeWord:  s.wakeWord,
				Timestamp: s.triggeredAt,
				Reason:    EndValidationFailed,
			})
			l.indicator.Off()
			return
		}
	}

	l.logger.Info("recording finished",
		"session_id", s.id,
		"wake_word", s.wakeWord,
		"duration", sample.Duration())
	select {
	case l.samples <- sample:
	default:
		l.samplesDropped.Add(1)
		l.logger.Warn("sample channel full, recording dropped",
			"session_id", s.id)
	}
	l.sessionsFinished.Add(1)
	l.emit(RecordingEnded{
		SessionID: s.id,
		WakeWord:  s.wakeWord,
		Timestamp: s.triggeredAt,
		Reason:    EndFinished,
	})
	l.indicator.Off()
}

// takeSession moves the active session out and resets to inactive.
func (l *Listener) takeSession() *session {
	s := l.session
	l.session = nil
	if s != nil {
		l.recording.Store(false)
	}
	return s
}

// emit sends an event without blocking; a full channel drops it.
func (l *Listener) emit(e Event) {
	select {
	case l.events <- e:
	default:
		l.eventsDropped.Add(1)
	}
}

// discard drops any in-flight session audio and the retention buffer.
func (l *Listener) discard() {
	if s := l.takeSession(); s != nil {
		l.logger.Info("discarding unfinished recording", "session_id", s.id)
		l.indicator.Off()
	}
	l.retention = NewRetentionBuffer(l.cfg.RetentionWindow)
}

// Stats returns a snapshot of the cumulative counters.
func (l *Listener) Stats() Stats {
	return Stats{
		FramesProcessed:   l.framesProcessed.Load(),
		WakeWordsDetected: l.wakeWordsDetected.Load(),
		SessionsStarted:   l.sessionsStarted.Load(),
		SessionsFinished:  l.sessionsFinished.Load(),
		SessionsCancelled: l.sessionsCancelled.Load(),
		SessionsRejected:  l.sessionsRejected.Load(),
		EventsDropped:     l.eventsDropped.Load(),
		SamplesDropped:    l.samplesDropped.Load(),
		Recording:         l.recording.Load(),
	}
}
