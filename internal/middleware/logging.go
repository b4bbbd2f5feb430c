// Package middleware holds the fiber middleware shared by every route.
package middleware

import (
	"time"

	"projecthub/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Locals keys written by middleware and read by handlers.
const (
	LocalRequestID = "requestid"
	LocalUserID    = "userID"
	LocalTraceID   = "traceID"
	LocalSpanID    = "spanID"
)

// ContextMiddleware copies request ID, user ID and trace ID from fiber locals
// into the request context so observability.Ctx can pick them up.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if rid, ok := c.Locals(LocalRequestID).(string); ok && rid != "" {
			ctx = observability.WithRequestID(ctx, rid)
		}
		if uid, ok := c.Locals(LocalUserID).(uint); ok && uid != 0 {
			ctx = observability.WithUserID(ctx, uid)
		}
		if tid, ok := c.Locals(LocalTraceID).(string); ok && tid != "" {
			ctx = withTraceID(ctx, tid)
		}

		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger logs one line per request after it has been handled.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger := observability.Ctx(c.UserContext())
		event := logger.Info()
		msg := "request processed"
		if err != nil {
			event = logger.Error().Err(err)
			msg = "request failed"
		}

		event.
			Int("status", c.Response().StatusCode()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(start)).
			Str("user_agent", c.Get(fiber.HeaderUserAgent)).
			Msg(msg)

		return err
	}
}
