package handler

import (
	"net/http"
	"time"

	"viewtuber/internal/domain/user"
	"viewtuber/pkg/token"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const stateCookieTTL = 10 * time.Minute

type AuthHandler struct {
	oauth OAuthService
	jwt   TokenGenerator
}

func NewAuthHandler(oauth OAuthService, jwt TokenGenerator) *AuthHandler {
	return &AuthHandler{
		oauth: oauth,
		jwt:   jwt,
	}
}

// userResponse hides the stored OAuth credential from API clients.
type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}

func newUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Image: u.Image,
	}
}

// GoogleLogin redirects to the consent screen with a one-shot state cookie.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	state, err := token.GenerateHex(16)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(stateCookieTTL),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusTemporaryRedirect, h.oauth.LoginURL(state))
}

// GoogleCallback finishes the OAuth flow and returns a session token.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	cookie, err := c.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam(queryState) {
		return respondError(c, http.StatusBadRequest, msgMissingOAuthState)
	}

	code := c.QueryParam(queryCode)
	if code == "" {
		return respondError(c, http.StatusBadRequest, msgMissingOAuthCode)
	}

	u, err := h.oauth.HandleCallback(c.Request().Context(), code)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	sessionToken, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		c.Logger().Errorf("failed to generate session token for %s: %v", u.ID, err)
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	// Expire the state cookie; it is single use.
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, map[string]any{
		"token": sessionToken,
		"user":  newUserResponse(u),
	})
}
