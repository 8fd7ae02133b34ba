package auth

import (
	"net/http"
	"strings"

	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtService *JWTService
}

func NewMiddleware(jwtService *JWTService) *Middleware {
	return &Middleware{jwtService: jwtService}
}

func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Email)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

// GetUserID reads the authenticated user's id set by RequireJWT.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	value := c.Get(ContextKeyUserID)
	if value == nil {
		return uuid.Nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.Unauthorized(msgInvalidUserIDCtx)
	}

	return userID, nil
}

// GetEmail reads the authenticated user's email set by RequireJWT.
func GetEmail(c echo.Context) (string, error) {
	value := c.Get(ContextKeyEmail)
	if value == nil {
		return "", apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	email, ok := value.(string)
	if !ok || email == "" {
		return "", apperrors.Unauthorized(msgInvalidEmailCtx)
	}

	return email, nil
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}
