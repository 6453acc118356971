package transcribe

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/teslashibe/go-wakeword/internal/log"
	"github.com/teslashibe/go-wakeword/pkg/listener"
)

// Publisher publishes a transcript payload to a bus topic.
// *bus.Hub satisfies this.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Cue shows a processing indicator while a transcription is in flight.
type Cue interface {
	Think()
	Off()
}

// WorkerStats are cumulative worker counters, safe to read concurrently.
type WorkerStats struct {
	Transcribed int64 `json:"transcribed"`
	Failed      int64 `json:"failed"`
}

// Worker drains finished recordings, transcribes them and publishes the
// transcripts. One sample is processed at a time; the listener's bounded
// channel absorbs bursts.
type Worker struct {
	provider Provider
	pub      Publisher
	topic    string
	cue      Cue
	logger   *slog.Logger

	transcribed atomic.Int64
	failed      atomic.Int64
}

// NewWorker creates a worker. pub and cue may be nil.
func NewWorker(provider Provider, pub Publisher, topic string, cue Cue, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = log.L()
	}
	return &Worker{
		provider: provider,
		pub:      pub,
		topic:    topic,
		cue:      cue,
		logger:   logger.With("component", "transcribe"),
	}
}

// Run consumes samples until the context is cancelled or the channel
// closes. Call it in a goroutine.
func (w *Worker) Run(ctx context.Context, samples <-chan listener.AudioSample) {
	for {
		select {
		case <-ctx.Done():
			return
		case sample, ok := <-samples:
			if !ok {
				return
			}
			w.handle(ctx, &sample)
		}
	}
}

func (w *Worker) handle(ctx context.Context, sample *listener.AudioSample) {
	if w.cue != nil {
		w.cue.Think()
		defer w.cue.Off()
	}

	transcript, err := w.provider.Transcribe(ctx, sample)
	if err != nil {
		w.failed.Add(1)
		w.logger.Error("transcription failed",
			"session_id", sample.SessionID,
			"error", err)
		return
	}
	w.transcribed.Add(1)
	w.logger.Info("transcript ready",
		"session_id", transcript.SessionID,
		"wake_word", transcript.WakeWord,
		"chars", len(transcript.Text))

	if w.pub == nil {
		return
	}
	if err := w.pub.Publish(w.topic, transcript); err != nil {
		w.logger.Error("failed to publish transcript",
			"session_id", transcript.SessionID,
			"error", err)
	}
}

// Stats returns a snapshot of the worker counters.
func (w *Worker) Stats() WorkerStats {
	return WorkerStats{
		Transcribed: w.transcribed.Load(),
		Failed:      w.failed.Load(),
	}
}
