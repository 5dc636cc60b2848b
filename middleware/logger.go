package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// JobIDKey is the Locals key a handler sets when it queues a print job, so
// the request log line carries the new job id.
const JobIDKey = "jobID"

// StructuredLogger writes one line per request. Changes to records are
// logged at Info, reads at Debug, and failures at Warn or Error.
func StructuredLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.New().String()

		c.Locals("requestID", requestID)
		c.Set("X-Request-ID", requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := append([]slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Method()),
			slog.String("route", c.Route().Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}, recordAttrs(c)...)

		level, msg := slog.LevelDebug, "request completed"
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level, msg = slog.LevelError, "request error"
		case status == fiber.StatusServiceUnavailable:
			level, msg = slog.LevelWarn, "service unavailable"
		case status >= 500:
			level, msg = slog.LevelError, "server error"
		case status >= 400:
			level, msg = slog.LevelWarn, "client error"
		case c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead:
			level, msg = slog.LevelInfo, "record changed"
		}

		logger.LogAttrs(c.Context(), level, msg, attrs...)
		return err
	}
}

// recordAttrs names the patient, print job or dropdown category the
// request addressed.
func recordAttrs(c *fiber.Ctx) []slog.Attr {
	var attrs []slog.Attr

	route := c.Route().Path
	switch {
	case strings.HasPrefix(route, "/api/patients/:id"):
		attrs = append(attrs, slog.String("patient_id", c.Params("id")))
	case strings.HasPrefix(route, "/api/reports/jobs/:id"):
		attrs = append(attrs, slog.String("job_id", c.Params("id")))
	case strings.HasPrefix(route, "/api/dropdowns/:category"):
		attrs = append(attrs, slog.String("category", c.Params("category")))
	}

	if jobID, ok := c.Locals(JobIDKey).(string); ok && jobID != "" {
		attrs = append(attrs, slog.String("job_id", jobID))
	}
	return attrs
}
