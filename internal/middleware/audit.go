package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
)

type ownerKey struct{}

type actionKey struct{}

// SetOwner records the user id a handler resolved from the request body,
// so the audit record can be attributed.
func SetOwner(c fiber.Ctx, userID string) {
	c.Locals(ownerKey{}, userID)
}

// Owner returns the user id set by SetOwner, or "" when none was set.
func Owner(c fiber.Ctx) string {
	if v, ok := c.Locals(ownerKey{}).(string); ok {
		return v
	}
	return ""
}

// SetAction overrides the audit action for the current request.
func SetAction(c fiber.Ctx, action string) {
	c.Locals(actionKey{}, action)
}

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(ctx context.Context, l *domain.AuditLog) error
}

// AuditMiddleware logs every request for later inspection.
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		method := c.Method()
		path := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		userID := Owner(c)
		if userID == "" {
			userID = domain.AuditAnonymousUser
		}
		action := domain.AuditActionHTTPRequest
		if a, ok := c.Locals(actionKey{}).(string); ok && a != "" {
			action = a
		}

		details := map[string]interface{}{
			"method":      method,
			"path":        path,
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  requestid.FromContext(c),
		}
		detailsJSON, _ := json.Marshal(details)

		entry := &domain.AuditLog{
			UserID:     userID,
			Action:     action,
			Resource:   "api",
			ResourceID: path,
			Details:    string(detailsJSON),
			IP:         ip,
			UserAgent:  userAgent,
		}

		// Write audit log asynchronously; all values are captured above.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if writeErr := writer.WriteAudit(ctx, entry); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}
