package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-crm-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	redis *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{redis: redis}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"redis": "ok"}
	status := "ok"
	if h.redis != nil {
		if err := h.redis.Ping(c.Context()); err != nil {
			checks["redis"] = "unreachable"
			status = "degraded"
		}
	}
	return c.JSON(fiber.Map{"status": status, "checks": checks})
}
