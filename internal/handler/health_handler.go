package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and database probes.
type HealthHandler struct {
	app     string
	version string
	db      Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(app, version string, db Pinger) *HealthHandler {
	return &HealthHandler{app: app, version: version, db: db}
}

// Register sets up health routes.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.Health)
	router.Get("/db-check", h.DBCheck)
}

// Health reports that the process is up.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"app":     h.app,
		"version": h.version,
	})
}

// DBCheck pings the database.
func (h *HealthHandler) DBCheck(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "connected"})
}
