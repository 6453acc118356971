package bus

import (
	"context"
	"log/slog"

	"github.com/teslashibe/go-wakeword/internal/log"
	"github.com/teslashibe/go-wakeword/pkg/listener"
)

// EventPublisher drains listener events onto the bus, mapping each event
// kind to its topic.
type EventPublisher struct {
	bus    Broadcaster
	logger *slog.Logger
}

// NewEventPublisher creates a publisher for the given broadcaster.
func NewEventPublisher(b Broadcaster, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = log.L()
	}
	return &EventPublisher{
		bus:    b,
		logger: logger.With("component", "publisher"),
	}
}

// Run consumes events until the context is cancelled or the channel
// closes. Call it in a goroutine.
func (p *EventPublisher) Run(ctx context.Context, events <-chan listener.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			p.publish(e)
		}
	}
}

func (p *EventPublisher) publish(e listener.Event) {
	var topic string
	switch e.Kind() {
	case listener.KindVoiceProbability:
		topic = TopicVoiceProbability
	case listener.KindWakeWordDetected:
		topic = TopicWakeWordDetected
	case listener.KindRecordingStarted:
		topic = TopicRecordingStarted
	case listener.KindRecordingEnded:
		topic = TopicRecordingEnded
	default:
		p.logger.Warn("no topic for event", "kind", e.Kind())
		return
	}
	if err := p.bus.Publish(topic, e); err != nil {
		p.logger.Error("failed to publish event", "topic", topic, "error", err)
	}
}
