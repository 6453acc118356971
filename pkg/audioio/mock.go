package audioio

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// MockSource is a mock audio source for testing and development.
// It generates synthetic frames (silence or sine wave) at the real frame
// cadence, or replays a scripted frame sequence immediately.
type MockSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	closed  bool
	frameCh chan Frame
	stopCh  chan struct{}

	// Stats
	framesRead atomic.Int64
	overruns   atomic.Int64

	// Synthetic audio generation
	phase     float64
	frequency float64 // Hz, 0 = silence
	amplitude float64 // 0.0 to 1.0

	// Scripted playback; when non-nil the generator is bypassed and the
	// script is delivered without pacing, followed by io.EOF.
	script []Frame
}

// MockSourceOption configures a MockSource.
type MockSourceOption func(*MockSource)

// WithSineWave configures the mock to generate a sine wave.
func WithSineWave(frequency, amplitude float64) MockSourceOption {
	return func(m *MockSource) {
		m.frequency = frequency
		m.amplitude = amplitude
	}
}

// WithScript configures the mock to replay the given frames and then
// report io.EOF. Used by tests that need deterministic input.
func WithScript(frames []Frame) MockSourceOption {
	return func(m *MockSource) {
		m.script = frames
	}
}

// NewMockSource creates a new mock audio source.
func NewMockSource(cfg Config, logger *slog.Logger, opts ...MockSourceOption) *MockSource {
	if logger == nil {
		logger = slog.Default()
	}

	m := &MockSource{
		cfg:       cfg,
		logger:    logger,
		frameCh:   make(chan Frame, 10),
		stopCh:    make(chan struct{}),
		frequency: 0, // Silence by default
		amplitude: 0.5,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start begins generating frames.
func (m *MockSource) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}
	if m.running {
		return nil
	}

	m.running = true
	m.stopCh = make(chan struct{})
	m.frameCh = make(chan Frame, 10)

	if m.script != nil {
		go m.replayLoop(m.frameCh, m.stopCh)
	} else {
		go m.generateLoop(ctx, m.frameCh, m.stopCh)
	}

	m.logger.Info("mock audio source started",
		"sample_rate", m.cfg.SampleRate,
		"frame_length", m.cfg.FrameLength,
		"frequency", m.frequency,
		"scripted", m.script != nil,
	)

	return nil
}

// The producer goroutines own the frame channel: they close it on exit so
// Read observes io.EOF, and Stop only signals them via the stop channel.

func (m *MockSource) replayLoop(out chan Frame, stop chan struct{}) {
	defer close(out)
	for _, f := range m.script {
		select {
		case <-stop:
			return
		case out <- f:
		}
	}
	m.Stop()
}

func (m *MockSource) generateLoop(ctx context.Context, out chan Frame, stop chan struct{}) {
	defer close(out)
	ticker := time.NewTicker(m.cfg.FrameDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Stop()
			return
		case <-stop:
			return
		case <-ticker.C:
			frame := m.generateFrame()
			select {
			case out <- frame:
			default:
				// Buffer full, drop frame (overrun)
				m.overruns.Add(1)
				m.logger.Debug("mock source: buffer full, dropping frame")
			}
		}
	}
}

func (m *MockSource) generateFrame() Frame {
	samples := make([]int16, m.cfg.FrameLength)

	if m.frequency > 0 {
		// Generate sine wave
		for i := range samples {
			sample := m.amplitude * math.Sin(2*math.Pi*m.frequency*m.phase/float64(m.cfg.SampleRate))
			samples[i] = int16(sample * 32767)

			m.phase++
			if m.phase >= float64(m.cfg.SampleRate) {
				m.phase = 0
			}
		}
	}
	// else: samples are already zero (silence)

	return Frame{Samples: samples}
}

// Stop halts frame generation.
func (m *MockSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	m.running = false
	close(m.stopCh)

	m.logger.Info("mock audio source stopped")

	return nil
}

// Read reads the next frame.
func (m *MockSource) Read(ctx context.Context) (Frame, error) {
	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case frame, ok := <-m.frameCh:
		if !ok {
			return Frame{}, io.EOF
		}
		m.framesRead.Add(1)
		return frame, nil
	}
}

// Config returns the capture format.
func (m *MockSource) Config() Config {
	return m.cfg
}

// Name returns "mock".
func (m *MockSource) Name() string {
	return "mock"
}

// Close releases resources.
func (m *MockSource) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.Stop()
	return nil
}

// Stats returns source statistics.
func (m *MockSource) Stats() SourceStats {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()

	return SourceStats{
		FramesRead: m.framesRead.Load(),
		Overruns:   m.overruns.Load(),
		Running:    running,
		Backend:    "mock",
	}
}

// Ensure MockSource implements SourceWithStats.
var _ SourceWithStats = (*MockSource)(nil)
