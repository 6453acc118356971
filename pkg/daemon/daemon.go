// Package daemon assembles the wake word daemon: audio source, detectors,
// the listener state machine, the bus, transcription and the HTTP surface.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-wakeword/internal/config"
	"github.com/teslashibe/go-wakeword/internal/log"
	"github.com/teslashibe/go-wakeword/pkg/audioio"
	"github.com/teslashibe/go-wakeword/pkg/bus"
	"github.com/teslashibe/go-wakeword/pkg/detect"
	"github.com/teslashibe/go-wakeword/pkg/indicator"
	"github.com/teslashibe/go-wakeword/pkg/listener"
	"github.com/teslashibe/go-wakeword/pkg/transcribe"
	"github.com/teslashibe/go-wakeword/pkg/web"
)

// restartDelay paces listener restarts after a crash.
const restartDelay = time.Second

// Deps are optional component overrides. Real deployments inject a
// hardware audio source and a licensed keyword engine here; everything
// left nil gets a development default (mock microphone, energy VAD, a
// detector that never fires).
type Deps struct {
	Source   audioio.Source
	Detector detect.KeywordDetector
	Voice    detect.VoiceActivity
	Ring     indicator.Ring
}

// App is the assembled daemon.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	privacy  atomic.Bool
	source   audioio.Source
	detector detect.KeywordDetector
	voice    detect.VoiceActivity
	keywords *detect.Keywords

	events  chan listener.Event
	samples chan listener.AudioSample

	hub       *bus.Hub
	server    *web.Server
	commander *indicator.Commander
	publisher *bus.EventPublisher
	worker    *transcribe.Worker
	provider  transcribe.Provider

	mu      sync.RWMutex
	current *listener.Listener
}

// New validates the configuration and assembles the daemon.
func New(cfg config.Config, deps Deps) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := log.L()

	keywords, err := detect.NewKeywords(cfg.Keywords...)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:      cfg,
		logger:   logger.With("component", "daemon"),
		keywords: keywords,
		events:   make(chan listener.Event, cfg.Listener.EventBuffer),
		samples:  make(chan listener.AudioSample, cfg.Listener.SampleBuffer),
		source:   deps.Source,
		detector: deps.Detector,
		voice:    deps.Voice,
	}

	audioCfg := audioio.Config{
		SampleRate:  cfg.Audio.SampleRate,
		FrameLength: cfg.Audio.FrameLength,
	}
	if a.source == nil {
		a.source = audioio.NewMockSource(audioCfg, logger)
	}
	if a.detector == nil {
		a.detector = detect.NewScriptedKeyword(nil)
	}
	if a.voice == nil {
		a.voice = detect.NewEnergyVAD()
	}

	ring := deps.Ring
	if ring == nil || !cfg.Indicator.Enabled {
		ring = indicator.NopRing{}
	}
	a.commander = indicator.NewCommander(ring, logger)

	a.hub = bus.NewHub(bus.NewTopics(cfg.Bus.Prefix), &a.privacy, logger)
	a.publisher = bus.NewEventPublisher(a.hub, logger)
	a.server = web.NewServer(cfg.Bus.Addr, a.hub, &a.privacy, a.statsSnapshot, logger)

	if cfg.OpenAI.APIKey != "" {
		provider, err := transcribe.NewOpenAI(
			transcribe.WithAPIKey(cfg.OpenAI.APIKey),
			transcribe.WithModel(cfg.OpenAI.Model),
			transcribe.WithLanguage(cfg.OpenAI.Language),
			transcribe.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		a.provider = provider
		a.worker = transcribe.NewWorker(provider, a.hub, bus.TopicTranscript, a.commander, logger)
	} else {
		logger.Warn("no OpenAI API key, transcription disabled")
	}

	return a, nil
}

// newListener builds a fresh listener; one is consumed per Run attempt.
func (a *App) newListener() (*listener.Listener, error) {
	cfg := listener.Config{
		SampleRate:      a.cfg.Audio.SampleRate,
		SilenceTimeout:  a.cfg.Listener.SilenceTimeout.Std(),
		SpeechThreshold: a.cfg.Listener.SpeechThreshold,
		TriggerGrace:    a.cfg.Listener.TriggerGrace.Std(),
		RetentionWindow: a.cfg.Listener.RetentionWindow.Std(),
		DismissKeyword:  a.cfg.DismissKeyword,
	}

	deps := listener.Deps{
		Source:    a.source,
		Detector:  a.detector,
		Keywords:  a.keywords,
		Voice:     a.voice,
		Privacy:   &a.privacy,
		Events:    a.events,
		Samples:   a.samples,
		Indicator: a.commander,
		Logger:    log.L(),
	}
	if min := a.cfg.Listener.MinRecording.Std(); min > 0 {
		deps.Validator = listener.MinDurationValidator{Min: min}
	}
	return listener.New(cfg, deps)
}

// Run starts every component and supervises the listener until the
// context is cancelled. A crashed listener is replaced with a fresh one
// after a short delay; the audio source and channels are shared across
// restarts so no subscriber reconnects.
func (a *App) Run(ctx context.Context) error {
	go a.publisher.Run(ctx, a.events)
	if a.worker != nil {
		go a.worker.Run(ctx, a.samples)
	}

	serverErr := make(chan error, 1)
	a.server.StartAsync(serverErr)
	defer a.shutdown()

	for {
		l, err := a.newListener()
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.current = l
		a.mu.Unlock()

		err = l.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		select {
		case serr := <-serverErr:
			return fmt.Errorf("http server failed: %w", serr)
		default:
		}
		if err != nil {
			a.logger.Error("listener stopped, restarting", "error", err)
		} else {
			a.logger.Warn("audio source ended, restarting listener")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(restartDelay):
		}
	}
}

func (a *App) shutdown() {
	if err := a.server.Shutdown(); err != nil {
		a.logger.Warn("http shutdown failed", "error", err)
	}
	if err := a.commander.Close(); err != nil {
		a.logger.Warn("indicator shutdown failed", "error", err)
	}
	if a.provider != nil {
		a.provider.Close()
	}
	if err := a.source.Close(); err != nil {
		a.logger.Warn("audio source close failed", "error", err)
	}
	a.logger.Info("daemon stopped")
}

// statsSnapshot aggregates component stats for /api/stats.
func (a *App) statsSnapshot() map[string]interface{} {
	out := map[string]interface{}{
		"privacy_mode": a.privacy.Load(),
		"bus":          a.hub.Stats(),
	}
	a.mu.RLock()
	if a.current != nil {
		out["listener"] = a.current.Stats()
	}
	a.mu.RUnlock()
	if src, ok := a.source.(audioio.SourceWithStats); ok {
		out["source"] = src.Stats()
	}
	if a.worker != nil {
		out["transcribe"] = a.worker.Stats()
	}
	return out
}
