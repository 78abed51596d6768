package middleware

import (
	"errors"
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsConfig struct {
	Skipper             Skipper
	Namespace           string
	Subsystem           string
	Buckets             []float64
	NormalizeHTTPStatus bool
	MetricsPath         string
}

const (
	httpRequestsDuration = "request_duration_seconds"
	notFoundRoute        = "/not-found"
)

// DefaultMetricsConfig records every route except the health probes.
var DefaultMetricsConfig = MetricsConfig{
	Skipper:   SkipPaths("/health", "/api/health"),
	Namespace: "catalog",
	Subsystem: "http",
	Buckets: []float64{
		0.001, // 1ms
		0.005,
		0.01, // 10ms
		0.025,
		0.05,
		0.1, // 100 ms
		0.25,
		0.5,
		1.0, // 1s
		2.5,
		5.0,
		10.0,
	},
	NormalizeHTTPStatus: false,
	MetricsPath:         "/metrics",
}

func normalizeHTTPStatus(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	}
	return "5xx"
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

func Metrics() echo.MiddlewareFunc {
	return MetricsWithConfig(DefaultMetricsConfig)
}

// MetricsWithConfig observes request latency labelled by status, method and
// route template, and serves the prometheus registry on MetricsPath.
func MetricsWithConfig(config MetricsConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	httpMetrics, err := registerHTTPMetrics(config)
	if err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		httpMetrics = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	var promHandler echo.HandlerFunc
	if config.MetricsPath != "" {
		promHandler = echo.WrapHandler(promhttp.Handler())
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if promHandler != nil && req.URL.Path == config.MetricsPath {
				return promHandler(c)
			}
			if config.Skipper(c) {
				return next(c)
			}

			// unmatched paths share one label to bound cardinality
			route := c.Path()
			if isNotFoundHandler(c.Handler()) {
				route = notFoundRoute
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			if config.NormalizeHTTPStatus {
				status = normalizeHTTPStatus(c.Response().Status)
			}
			httpMetrics.WithLabelValues(status, req.Method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func registerHTTPMetrics(config MetricsConfig) (*prometheus.HistogramVec, error) {
	httpMetrics := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      httpRequestsDuration,
		Help:      "Time spent serving a route",
		Buckets:   config.Buckets,
	}, []string{"code", "method", "route"})
	return httpMetrics, prometheus.Register(httpMetrics)
}
