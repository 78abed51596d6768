package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
)

type fakeStore struct {
	ensureErr error
	ensured   int
	reported  []error
}

func (s *fakeStore) EnsureConnected(ctx context.Context) error {
	s.ensured++
	return s.ensureErr
}

func (s *fakeStore) ReportError(err error) {
	s.reported = append(s.reported, err)
}

func TestStoreGuard(t *testing.T) {
	handlerErr := errors.New("boom")

	tests := []struct {
		name         string
		store        *fakeStore
		handler      echo.HandlerFunc
		wantStatus   int
		wantBody     string
		wantReported int
	}{
		{
			name:       "passes through when connected",
			store:      &fakeStore{},
			handler:    func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name:       "fails when reconnect fails",
			store:      &fakeStore{ensureErr: errors.New("no reachable servers")},
			handler:    func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Database connection error"}`,
		},
		{
			name:         "reports handler errors",
			store:        &fakeStore{},
			handler:      func(c echo.Context) error { return handlerErr },
			wantStatus:   http.StatusInternalServerError,
			wantReported: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = ErrorHandler(zap.NewNop().Sugar(), false)
			e.GET("/", tt.handler, StoreGuard(tt.store, time.Second))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, trimNewline(rec.Body.String()))
			}
			assert.Equal(t, 1, tt.store.ensured)
			assert.Len(t, tt.store.reported, tt.wantReported)
		})
	}
}

func TestStoreGuardErrorIsUnavailable(t *testing.T) {
	store := &fakeStore{ensureErr: errors.New("down")}
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := StoreGuard(store, 0)(func(c echo.Context) error { return nil })(c)
	assert.ErrorIs(t, err, models.ErrDatabaseUnavailable)
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
