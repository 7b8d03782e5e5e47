package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache CacheChecker
}

func NewHealthHandler(db Pinger, cache CacheChecker) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{"database": "connected", "cache": "connected"}

	if err := h.db.PingContext(ctx); err != nil {
		services["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			services["cache"] = "unavailable"
			status = fiber.StatusServiceUnavailable
		}
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"version":  "1.0.0",
		"services": services,
	})
}
