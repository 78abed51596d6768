package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
)

const (
	StatusClientClosedRequest = 499
	internalErrorMessage      = "Something went wrong!"
	routeNotFoundMessage      = "Route not found"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type grpcStatus interface {
	GRPCStatus() *status.Status
}

var codeToHTTP = map[codes.Code]int{
	codes.InvalidArgument:  http.StatusBadRequest,
	codes.Unauthenticated:  http.StatusUnauthorized,
	codes.PermissionDenied: http.StatusForbidden,
	codes.NotFound:         http.StatusNotFound,
	codes.AlreadyExists:    http.StatusConflict,
	codes.Unavailable:      http.StatusInternalServerError,
}

// ErrorHandler returns the echo error handler. exposeDetails adds the raw
// error text to the body and is only meant for development.
func ErrorHandler(log Logger, exposeDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := NewErrorResponse(c, err)
		if resp.Status >= http.StatusInternalServerError && resp.Status != StatusClientClosedRequest {
			log.Errorw("request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"request_id", GetRequestID(c),
				"error", err,
			)
		}
		if exposeDetails {
			resp.Error = err.Error()
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.Status)
		} else {
			writeErr = c.JSON(resp.Status, resp)
		}
		if writeErr != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp, "error", writeErr)
		}
	}
}

// NewErrorResponse maps err to a status code and client-safe message.
func NewErrorResponse(c echo.Context, err error) *ErrorResponse {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return &ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: verr.Message(),
			Errors:  verr.Fields,
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		resp := &ErrorResponse{
			Status:  httpErr.Code,
			Message: fmt.Sprint(httpErr.Message),
		}
		if httpErr == echo.ErrNotFound || (httpErr.Code == http.StatusNotFound && isNotFoundHandler(c.Handler())) {
			resp.Message = routeNotFoundMessage
		}
		if httpErr.Code >= http.StatusInternalServerError {
			resp.Message = internalErrorMessage
		}
		return resp
	}

	var se grpcStatus
	if errors.As(err, &se) {
		st := se.GRPCStatus()
		if code, ok := codeToHTTP[st.Code()]; ok {
			return &ErrorResponse{Status: code, Message: st.Message()}
		}
	}

	// detect canceled request error
	if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
		return &ErrorResponse{Status: StatusClientClosedRequest, Message: "Request canceled"}
	}

	return &ErrorResponse{Status: http.StatusInternalServerError, Message: internalErrorMessage}
}
