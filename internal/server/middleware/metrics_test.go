package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRequest(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func resetMetrics(t *testing.T, conf MetricsConfig) {
	_, err := registerHTTPMetrics(conf)
	if err == nil {
		return
	}
	var are prometheus.AlreadyRegisteredError
	require.True(t, errors.As(err, &are), "unexpected error %v", err)
	are.ExistingCollector.(*prometheus.HistogramVec).Reset()
}

func TestMetricsMiddleware(t *testing.T) {
	resetMetrics(t, DefaultMetricsConfig)

	e := echo.New()
	e.Use(Metrics())
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/api/products/:id", func(c echo.Context) error { return c.String(http.StatusOK, c.Param("id")) })
	e.DELETE("/api/products/:id", func(c echo.Context) error { return fmt.Errorf("store down") })

	for i := 0; i < 5; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/api/products/%d", i))
		makeRequest(e, http.MethodGet, "/health")
	}
	for i := 0; i < 3; i++ {
		makeRequest(e, http.MethodDelete, "/api/products/1")
		makeRequest(e, http.MethodGet, fmt.Sprintf("/nowhere/%d", i))
	}

	body := makeRequest(e, http.MethodGet, "/metrics").Body.String()
	assert.Contains(t, body, `catalog_http_request_duration_seconds_count{code="200",method="GET",route="/api/products/:id"} 5`)
	assert.Contains(t, body, `catalog_http_request_duration_seconds_count{code="500",method="DELETE",route="/api/products/:id"} 3`)
	assert.Contains(t, body, `catalog_http_request_duration_seconds_count{code="404",method="GET",route="/not-found"} 3`)
	assert.False(t, strings.Contains(body, `route="/health"`), "health probes must not be recorded")
}

func TestNormalizeHTTPStatus(t *testing.T) {
	assert.Equal(t, "1xx", normalizeHTTPStatus(101))
	assert.Equal(t, "2xx", normalizeHTTPStatus(201))
	assert.Equal(t, "3xx", normalizeHTTPStatus(304))
	assert.Equal(t, "4xx", normalizeHTTPStatus(404))
	assert.Equal(t, "5xx", normalizeHTTPStatus(503))
}
