package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/arturoeanton/codeoh-assistant/internal/port"
	"github.com/arturoeanton/codeoh-assistant/internal/validation"
)

// bindJSON decodes and validates the request body. Missing fields are
// answered with 200 and a "required" message; undecodable bodies with 400.
// The returned bool is false when a response has already been written.
func bindJSON(c fiber.Ctx, out any) (bool, error) {
	err := c.Bind().JSON(out)
	if err == nil {
		return true, nil
	}

	if msg, ok := validation.Message(err); ok {
		return false, c.JSON(fiber.Map{"error": msg})
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
}

// errorResponse reports a collaborator failure. Callers must treat any
// body with an "error" key as failed, so the status stays 200.
func errorResponse(c fiber.Ctx, op string, err error) error {
	slog.Error(op+" failed", "error", err, "request_id", requestid.FromContext(c))

	body := fiber.Map{"error": err.Error()}
	if errors.Is(err, port.ErrUpstreamTimeout) {
		body["retryable"] = true
	}
	return c.JSON(body)
}
