package transcribe

import (
	"context"
	"sync"

	"github.com/teslashibe/go-wakeword/pkg/listener"
)

// MockProvider is a Provider for tests: it returns a fixed text, or a
// scripted error, and records the samples it saw.
type MockProvider struct {
	mu      sync.Mutex
	text    string
	err     error
	samples []string
	closed  bool
}

// NewMockProvider creates a provider that returns the given text.
func NewMockProvider(text string) *MockProvider {
	return &MockProvider{text: text}
}

// FailWith makes every subsequent Transcribe call return err.
func (m *MockProvider) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Transcribe implements Provider.
func (m *MockProvider) Transcribe(_ context.Context, sample *listener.AudioSample) (*Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, sample.SessionID)
	if m.err != nil {
		return nil, m.err
	}
	return &Transcript{
		SessionID: sample.SessionID,
		WakeWord:  sample.WakeWord,
		Text:      m.text,
		Timestamp: sample.TriggeredAt,
	}, nil
}

// Health implements Provider.
func (m *MockProvider) Health(context.Context) error { return nil }

// Close implements Provider.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Sessions returns the session IDs transcribed so far.
func (m *MockProvider) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.samples))
	copy(out, m.samples)
	return out
}

var _ Provider = (*MockProvider)(nil)
