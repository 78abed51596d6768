package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
)

const defaultMaxLoggedBody = 4 << 10

type LogRequestConfig struct {
	Logger  Logger
	Skipper Skipper
	// SkipBody reports requests whose body must stay out of the log.
	SkipBody     func(c echo.Context) bool
	MaxBodyBytes int
}

// LogRequest writes one access log line per request. Fields added through
// logger.AddFields while the request is served are appended to it.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.SkipBody == nil {
		config.SkipBody = DefaultSkipper
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxLoggedBody
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			c.SetRequest(c.Request().WithContext(logger.WithFields(c.Request().Context())))
			req := c.Request()
			res := c.Response()
			start := time.Now()

			var body []byte
			logBody := !config.SkipBody(c) && strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
			if logBody {
				body, _ = io.ReadAll(io.LimitReader(req.Body, int64(config.MaxBodyBytes)+1))
				req.Body = struct {
					io.Reader
					io.Closer
				}{io.MultiReader(bytes.NewReader(body), req.Body), req.Body}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := []any{
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"route", c.Path(),
				"latency_ms", time.Since(start).Milliseconds(),
				"bytes_out", res.Size,
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"request_id", GetRequestID(c),
			}
			if caller, ok := GetCaller(c); ok {
				args = append(args, "user_id", caller.ID.Hex(), "role", string(caller.Role))
			}
			args = append(args, logger.Fields(req.Context())...)
			if logBody {
				args = append(args, bodyField(body, config.MaxBodyBytes)...)
			}

			switch {
			case res.Status >= 500:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw("", args...)
			case res.Status >= 400:
				config.Logger.Warnw("", args...)
			default:
				config.Logger.Infow("", args...)
			}
			return err
		}
	}
}

// bodyField logs small valid JSON bodies verbatim and only the size otherwise.
func bodyField(body []byte, limit int) []any {
	switch {
	case len(body) == 0:
		return nil
	case len(body) > limit || !json.Valid(body):
		return []any{"request_bytes", len(body)}
	default:
		return []any{"request_body", json.RawMessage(body)}
	}
}
