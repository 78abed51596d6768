package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
)

type Store interface {
	EnsureConnected(ctx context.Context) error
	ReportError(err error)
}

// StoreGuard reconnects a dropped store before letting the request through
// and feeds handler errors back so connectivity failures mark it dropped.
// timeout bounds the reconnect only.
func StoreGuard(store Store, timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if err := store.EnsureConnected(ctx); err != nil {
				return fmt.Errorf("%w: %w", models.ErrDatabaseUnavailable, err)
			}

			err := next(c)
			if err != nil {
				store.ReportError(err)
			}
			return err
		}
	}
}
