// Package indicator drives a visual recording cue (an LED ring or similar)
// from the listener's state transitions without ever blocking the audio
// loop: commands go through a small bounded queue and a driver goroutine.
package indicator

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-wakeword/internal/log"
)

// Mode is a display state for the cue.
type Mode string

const (
	// ModeOff clears the cue.
	ModeOff Mode = "off"

	// ModeListen indicates a recording in progress.
	ModeListen Mode = "listen"

	// ModeThink indicates downstream processing (e.g. transcription).
	ModeThink Mode = "think"
)

// Ring is a physical or virtual indicator device. Calls may block on
// device I/O; the Commander serializes them on its own goroutine.
type Ring interface {
	// Apply switches the device to the given mode.
	Apply(mode Mode) error

	// Close releases the device, turning it off first if possible.
	Close() error
}

// commandQueueSize bounds pending mode changes. Newer commands are dropped
// when the device cannot keep up; state cues are ephemeral anyway.
const commandQueueSize = 8

// Commander fans listener state transitions into a Ring. Off, Listen and
// Think never block; they enqueue and return.
type Commander struct {
	ring   Ring
	logger *slog.Logger

	cmds    chan Mode
	done    chan struct{}
	dropped atomic.Int64
	errors  atomic.Int64

	closeOnce sync.Once
}

// NewCommander starts the driver goroutine for the given ring.
func NewCommander(ring Ring, logger *slog.Logger) *Commander {
	if logger == nil {
		logger = log.L()
	}
	c := &Commander{
		ring:   ring,
		logger: logger.With("component", "indicator"),
		cmds:   make(chan Mode, commandQueueSize),
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

// Off clears the cue.
func (c *Commander) Off() { c.send(ModeOff) }

// Listen shows the recording cue.
func (c *Commander) Listen() { c.send(ModeListen) }

// Think shows the processing cue.
func (c *Commander) Think() { c.send(ModeThink) }

func (c *Commander) send(m Mode) {
	select {
	case c.cmds <- m:
	default:
		c.dropped.Add(1)
	}
}

func (c *Commander) run() {
	defer close(c.done)
	for m := range c.cmds {
		if err := c.ring.Apply(m); err != nil {
			// Device hiccups must not take the daemon down; log and
			// keep applying later commands.
			c.errors.Add(1)
			c.logger.Warn("indicator update failed", "mode", m, "error", err)
		}
	}
}

// Close drains pending commands, stops the driver and closes the ring.
func (c *Commander) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.cmds)
		<-c.done
		err = c.ring.Close()
	})
	return err
}

// Dropped returns how many commands were discarded on a full queue.
func (c *Commander) Dropped() int64 {
	return c.dropped.Load()
}

// NopRing is a Ring backed by nothing, for headless deployments.
type NopRing struct{}

// Apply implements Ring.
func (NopRing) Apply(Mode) error { return nil }

// Close implements Ring.
func (NopRing) Close() error { return nil }

// MockRing records applied modes for tests.
type MockRing struct {
	mu     sync.Mutex
	modes  []Mode
	failOn Mode
	closed bool
}

// FailOn makes Apply return an error for the given mode.
func (m *MockRing) FailOn(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = mode
}

// Apply implements Ring.
func (m *MockRing) Apply(mode Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == mode && mode != "" {
		return fmt.Errorf("mock failure for %s", mode)
	}
	m.modes = append(m.modes, mode)
	return nil
}

// Close implements Ring.
func (m *MockRing) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Modes returns a copy of the modes applied so far.
func (m *MockRing) Modes() []Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Mode, len(m.modes))
	copy(out, m.modes)
	return out
}

// Closed reports whether Close was called.
func (m *MockRing) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var (
	_ Ring = NopRing{}
	_ Ring = (*MockRing)(nil)
)
