package handler

import (
	"net/http"

	"viewtuber/internal/auth"

	"github.com/labstack/echo/v4"
)

type ChannelHandler struct {
	userRepo    UserGetter
	credentials CredentialSource
	channels    ChannelSource
}

func NewChannelHandler(userRepo UserGetter, credentials CredentialSource, channels ChannelSource) *ChannelHandler {
	return &ChannelHandler{
		userRepo:    userRepo,
		credentials: credentials,
		channels:    channels,
	}
}

// GetChannel proxies the caller's own channel snippet and statistics.
func (h *ChannelHandler) GetChannel(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	u, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	accessToken, err := h.credentials.Fresh(c.Request().Context(), u)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	info, err := h.channels.Channel(c.Request().Context(), accessToken)
	if err != nil {
		return RespondWithMappedError(c, err)
	}
	if info == nil {
		return respondError(c, http.StatusNotFound, "no channel found for this account")
	}

	return c.JSON(http.StatusOK, info)
}
