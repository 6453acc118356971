// Package web hosts the daemon's HTTP surface: health, stats, a REST
// privacy toggle and the websocket bus endpoint.
package web

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/teslashibe/go-wakeword/internal/log"
	"github.com/teslashibe/go-wakeword/pkg/bus"
)

// StatsFunc returns the daemon-wide stats snapshot served at /api/stats.
type StatsFunc func() map[string]interface{}

// Server is the daemon's HTTP server.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	hub     *bus.Hub
	privacy *atomic.Bool
	stats   StatsFunc
}

// NewServer creates a server. stats may be nil.
func NewServer(addr string, h *bus.Hub, privacy *atomic.Bool, stats StatsFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = log.L()
	}
	s := &Server{
		addr:    addr,
		logger:  logger.With("component", "web"),
		hub:     h,
		privacy: privacy,
		stats:   stats,
	}

	app := fiber.New(fiber.Config{
		AppName:               "wakewordd",
		DisableStartupMessage: true,
	})

	// CORS for local tooling
	app.Use(cors.New())

	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/stats", s.handleStats)
	api.Get("/privacy", s.handleGetPrivacy)
	api.Post("/privacy", s.handleSetPrivacy)

	app.Use("/ws", bus.Upgrade)
	app.Get("/ws/bus", s.hub.Handler())

	// The server owns the hub loop; Hub.Run guards against double starts.
	go s.hub.Run()

	s.app = app
	return s
}

// Start serves HTTP. It blocks until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// StartAsync starts the server in a goroutine, reporting errors to errCh.
func (s *Server) StartAsync(errCh chan<- error) {
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errCh <- err
		}
	}()
	s.logger.Info("http server listening", "addr", s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}
