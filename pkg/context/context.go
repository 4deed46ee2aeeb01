// Package context carries per-request metadata from the fiber layer down
// into services and repositories, which only ever see a context.Context.
package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// HeaderRequestID is the header and fiber local the request ID travels in.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request ID stored in ctx, or "unknown" when the
// context never passed through the HTTP layer.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok && requestID != "" {
		return requestID
	}
	return "unknown"
}

// FromFiberCtx builds a fresh context carrying the request ID set by the
// request-ID middleware, so log lines below the handler stay correlated.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(HeaderRequestID).(string)
	if !ok || requestID == "" {
		requestID = c.Get(HeaderRequestID)
	}

	return WithRequestID(context.Background(), requestID)
}
