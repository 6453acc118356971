package web

import (
	"github.com/gofiber/fiber/v2"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleStats returns the daemon-wide stats snapshot.
func (s *Server) handleStats(c *fiber.Ctx) error {
	if s.stats == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(s.stats())
}

// handleGetPrivacy returns the current privacy mode.
func (s *Server) handleGetPrivacy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"enabled": s.privacy.Load()})
}

// PrivacyRequest is the body for POST /api/privacy.
type PrivacyRequest struct {
	Enabled bool `json:"enabled"`
}

// handleSetPrivacy toggles privacy mode over REST, mirroring the bus
// control topic for clients without a websocket.
func (s *Server) handleSetPrivacy(c *fiber.Ctx) error {
	var req PrivacyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}
	s.privacy.Store(req.Enabled)
	s.logger.Info("privacy mode toggled via http", "enabled", req.Enabled)
	return c.JSON(fiber.Map{"enabled": req.Enabled})
}
