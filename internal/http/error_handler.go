package http

import (
	"errors"
	"fmt"
	"net/http"

	"viewtuber/internal/http/handler"
	"viewtuber/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CustomHTTPErrorHandler catches errors that escape handlers and middleware.
// Sentinel errors map to their public status and message; everything else is
// sanitized to a 500.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var code int
	var message string

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		code, message = handler.MapToPublicError(err)
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(logger.Redact("unhandled error: " + err.Error()))
	}

	if writeErr := c.JSON(code, map[string]string{"error": message}); writeErr != nil {
		c.Logger().Errorf("failed to write error response: %v", writeErr)
	}
}
