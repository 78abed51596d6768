package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
)

const callerKey = "caller"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Caller, error)
}

// JWTAuth requires a bearer token on every request it guards and attaches
// the resolved caller to the echo context.
func JWTAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return models.ErrMissingToken
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			tokenString = strings.TrimSpace(tokenString)
			if !ok || tokenString == "" {
				return models.ErrMalformedToken
			}

			caller, err := auth.Authenticate(c.Request().Context(), tokenString)
			if err != nil {
				return err
			}

			SetCaller(c, caller)
			return next(c)
		}
	}
}

func SetCaller(c echo.Context, caller *models.Caller) {
	c.Set(callerKey, caller)
}

func GetCaller(c echo.Context) (*models.Caller, bool) {
	caller, ok := c.Get(callerKey).(*models.Caller)
	return caller, ok && caller != nil
}

// MustCaller returns the authenticated caller or ErrMissingToken when the
// route was not guarded by JWTAuth.
func MustCaller(c echo.Context) (*models.Caller, error) {
	caller, ok := GetCaller(c)
	if !ok {
		return nil, models.ErrMissingToken
	}
	return caller, nil
}

func GetUserID(c echo.Context) string {
	if caller, ok := GetCaller(c); ok {
		return caller.ID.Hex()
	}
	return ""
}
