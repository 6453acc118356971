// Package bus is the daemon's websocket message bus: lifecycle events and
// telemetry fan out to subscribers, and control messages (privacy mode)
// flow back in. One hub, one wire format, topic-addressed envelopes.
package bus

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the wire format for every bus message.
type Envelope struct {
	// Topic addresses the message, e.g. "wakeword/event/recording_started".
	Topic string `json:"topic"`

	// Timestamp is Unix milliseconds at publish time.
	Timestamp int64 `json:"ts"`

	// Data is the topic-specific JSON payload.
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope creates an envelope with the current timestamp.
func NewEnvelope(topic string, payload interface{}) (*Envelope, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
		}
	}
	return &Envelope{
		Topic:     topic,
		Timestamp: time.Now().UnixMilli(),
		Data:      raw,
	}, nil
}

// ParseData unmarshals the payload into the provided struct.
func (e *Envelope) ParseData(v interface{}) error {
	if e.Data == nil {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// Bytes returns the JSON-encoded envelope.
func (e *Envelope) Bytes() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEnvelope parses a JSON envelope from bytes.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}
	if e.Topic == "" {
		return nil, fmt.Errorf("envelope has no topic")
	}
	return &e, nil
}

// PrivacyModePayload is the control payload that toggles privacy mode.
type PrivacyModePayload struct {
	Enabled bool `json:"enabled"`
}
