package bus

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-wakeword/internal/log"
)

// Broadcaster publishes a payload to all subscribers of a topic.
type Broadcaster interface {
	Publish(topic string, payload interface{}) error
}

// HubStats are cumulative hub counters, safe to read concurrently.
type HubStats struct {
	Clients          int   `json:"clients"`
	Published        int64 `json:"published"`
	Dropped          int64 `json:"dropped"`
	SlowClientsShed  int64 `json:"slow_clients_shed"`
	ControlsReceived int64 `json:"controls_received"`
}

// Hub maintains the set of subscribed websocket clients and fans envelopes
// out to them. Slow clients are shed rather than allowed to apply
// backpressure. Inbound control envelopes toggle the privacy flag.
type Hub struct {
	topics  Topics
	privacy *atomic.Bool
	logger  *slog.Logger

	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	mu      sync.RWMutex
	runOnce sync.Once

	published atomic.Int64
	dropped   atomic.Int64
	shed      atomic.Int64
	controls  atomic.Int64
}

// NewHub creates a hub. Inbound privacy toggles are stored into privacy;
// pass nil to ignore control messages.
func NewHub(topics Topics, privacy *atomic.Bool, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = log.L()
	}
	return &Hub{
		topics:     topics,
		privacy:    privacy,
		logger:     logger.With("component", "bus"),
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run drives the hub's main loop. Call it in a goroutine; only the first
// call runs the loop, later calls are no-ops.
func (h *Hub) Run() {
	h.runOnce.Do(h.loop)
}

func (h *Hub) loop() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("bus client connected", "clients", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("bus client disconnected", "clients", count)

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Too slow to keep up; shed the client.
					close(c.send)
					delete(h.clients, c)
					h.shed.Add(1)
					h.logger.Warn("shedding slow bus client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish implements Broadcaster: it encodes an envelope and queues it for
// broadcast without blocking. A full broadcast queue drops the message.
func (h *Hub) Publish(topic string, payload interface{}) error {
	env, err := NewEnvelope(h.topics.Resolve(topic), payload)
	if err != nil {
		return err
	}
	data, err := env.Bytes()
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		h.published.Add(1)
	default:
		h.dropped.Add(1)
		h.logger.Warn("broadcast queue full, dropping message", "topic", env.Topic)
	}
	return nil
}

// Handler returns the fiber websocket handler for the bus endpoint.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		c := newClient(h, conn)
		c.run()
	})
}

// Upgrade is the fiber middleware that rejects non-websocket requests.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// handleInbound processes one message received from a subscriber.
func (h *Hub) handleInbound(data []byte) {
	env, err := ParseEnvelope(data)
	if err != nil {
		h.logger.Warn("ignoring malformed control message", "error", err)
		return
	}
	if env.Topic != h.topics.Resolve(TopicPrivacyMode) {
		h.logger.Debug("ignoring message on unknown topic", "topic", env.Topic)
		return
	}
	var payload PrivacyModePayload
	if err := env.ParseData(&payload); err != nil {
		h.logger.Warn("ignoring malformed privacy payload", "error", err)
		return
	}
	h.controls.Add(1)
	if h.privacy != nil {
		h.privacy.Store(payload.Enabled)
	}
	h.logger.Info("privacy mode toggled", "enabled", payload.Enabled)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns a snapshot of the hub counters.
func (h *Hub) Stats() HubStats {
	return HubStats{
		Clients:          h.ClientCount(),
		Published:        h.published.Load(),
		Dropped:          h.dropped.Load(),
		SlowClientsShed:  h.shed.Load(),
		ControlsReceived: h.controls.Load(),
	}
}

var _ Broadcaster = (*Hub)(nil)
