package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-catalog/internal/models"
)

// BindAndValidate binds the request (body, path params and query) into req
// and runs the echo validator over it.
// Binding failures are reported as a 400 validation error on the body.
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := Bind(c, req); err != nil {
		return err
	}
	return c.Validate(req)
}

// Bind binds without validating.
func Bind(c echo.Context, req interface{}) error {
	err := c.Bind(req)
	if err == nil {
		return nil
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusUnsupportedMediaType {
		return err
	}

	verr := models.NewValidationError()
	verr.Add("body", fmt.Sprintf("Invalid request body: %s", bindMessage(err)))
	return verr
}

func bindMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Internal != nil {
			return httpErr.Internal.Error()
		}
		return fmt.Sprint(httpErr.Message)
	}
	return err.Error()
}
