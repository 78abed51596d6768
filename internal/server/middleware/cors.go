package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	corsAllowMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsAllowHeaders = strings.Join([]string{
		echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestedWith, echo.HeaderAccept,
	}, ", ")
)

// CORS return echo middleware that handle cors with regexp pattern
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			respHeader := c.Response().Header()
			respHeader.Add(echo.HeaderVary, echo.HeaderOrigin)
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}
			respHeader.Set(echo.HeaderAccessControlAllowOrigin, origin)
			if c.Request().Method == http.MethodOptions {
				respHeader.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				respHeader.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
