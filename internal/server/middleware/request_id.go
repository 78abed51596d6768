package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	XRequestID = "x-request-id"

	maxRequestIDLen = 128
)

type requestIDKey struct{}

// RequestID reuses an inbound x-request-id or generates a UUID, then exposes
// it on the echo context, the request context and the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(XRequestID)
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}

			ctx := context.WithValue(c.Request().Context(), requestIDKey{}, reqID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(XRequestID, reqID)
			c.Response().Header().Set(XRequestID, reqID)
			return next(c)
		}
	}
}

func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(XRequestID).(string); ok {
		return id
	}
	return RequestIDFromContext(c.Request().Context())
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
