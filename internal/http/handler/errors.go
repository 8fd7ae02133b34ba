package handler

import (
	"errors"
	"net/http"

	apperrors "viewtuber/pkg/errors"
	"viewtuber/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MapToPublicError maps internal errors to public-facing HTTP status codes and
// short generic messages so provider and database details never leak.
func MapToPublicError(err error) (int, string) {
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, publicMessage(err, "resource conflict")
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, publicMessage(err, "invalid input")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, publicMessage(err, "bad request")
	case errors.Is(err, apperrors.ErrExpired):
		return http.StatusGone, publicMessage(err, "resource expired")
	case errors.Is(err, apperrors.ErrState):
		return http.StatusConflict, publicMessage(err, "operation not allowed in current state")
	case errors.Is(err, apperrors.ErrExternalProvider):
		if errors.As(err, &appErr) {
			return http.StatusBadGateway, appErr.Message
		}
		return http.StatusBadGateway, "upstream provider error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// publicMessage surfaces the AppError message when available. These are
// written for clients; wrapped causes stay in logs.
func publicMessage(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

func RespondWithMappedError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		c.Logger().Error(logger.Redact("request failed: " + err.Error()))
	}
	return respondError(c, status, msg)
}
