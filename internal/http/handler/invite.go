package handler

import (
	"net/http"
	"strings"

	"viewtuber/internal/auth"
	"viewtuber/internal/domain/member"
	"viewtuber/internal/invite"
	"viewtuber/pkg/permission"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type InviteHandler struct {
	invites     InviteService
	memberRepo  MemberRepository
	projectRepo ProjectGetter
}

func NewInviteHandler(invites InviteService, memberRepo MemberRepository, projectRepo ProjectGetter) *InviteHandler {
	return &InviteHandler{
		invites:     invites,
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
	}
}

type IssueInviteRequest struct {
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// memberResponse never exposes the invite code; it only travels by email.
type memberResponse struct {
	ID          uuid.UUID     `json:"id"`
	ProjectID   uuid.UUID     `json:"projectId"`
	UserID      *uuid.UUID    `json:"userId,omitempty"`
	Email       string        `json:"email"`
	Role        member.Role   `json:"role"`
	Status      member.Status `json:"status"`
	Permissions []string      `json:"permissions"`
}

func newMemberResponse(m *member.Member) memberResponse {
	return memberResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		UserID:      m.UserID,
		Email:       m.Email,
		Role:        m.Role,
		Status:      m.Status,
		Permissions: m.Permissions,
	}
}

func (h *InviteHandler) IssueInvite(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	var req IssueInviteRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}

	m, err := h.invites.Issue(c.Request().Context(), invite.IssueInput{
		ProjectID:   projectID,
		OwnerID:     userID,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Role:        member.Role(req.Role),
		Permissions: req.Permissions,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, newMemberResponse(m))
}

type AcceptInviteRequest struct {
	Code string `json:"code"`
}

// AcceptInvite binds the authenticated user to the pending invite addressed
// to their email.
func (h *InviteHandler) AcceptInvite(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	email, err := auth.GetEmail(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	var req AcceptInviteRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}

	m, err := h.invites.Accept(c.Request().Context(), invite.AcceptInput{
		ProjectID: projectID,
		Email:     strings.ToLower(email),
		Code:      strings.TrimSpace(req.Code),
		UserID:    userID,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, newMemberResponse(m))
}

func (h *InviteHandler) ListMembers(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	if _, err := h.memberRepo.GetAccepted(c.Request().Context(), projectID, userID); err != nil {
		return respondError(c, http.StatusForbidden, msgNotProjectMember)
	}

	members, err := h.memberRepo.GetMembers(c.Request().Context(), projectID)
	if err != nil {
		c.Logger().Errorf("failed to list members for project %s: %v", projectID, err)
		return respondError(c, http.StatusInternalServerError, msgListMembersFail)
	}

	resp := make([]memberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, newMemberResponse(m))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *InviteHandler) GetPermissions(c echo.Context) error {
	projectID, targetID, err := h.ownerAndTarget(c)
	if err != nil {
		return err
	}

	m, err := h.memberRepo.GetAccepted(c.Request().Context(), projectID, targetID)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgMemberNotFound)
	}

	return c.JSON(http.StatusOK, map[string]any{"permissions": m.Permissions})
}

type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

func (h *InviteHandler) UpdatePermissions(c echo.Context) error {
	projectID, targetID, err := h.ownerAndTarget(c)
	if err != nil {
		return err
	}

	var req UpdatePermissionsRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}

	if _, err := permission.NewSet(req.Permissions); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.memberRepo.UpdatePermissions(c.Request().Context(), member.UpdatePermissionsInput{
		ProjectID:   projectID,
		UserID:      targetID,
		Permissions: req.Permissions,
	}); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, "permissions updated")
}

// ownerAndTarget parses both route ids and verifies the caller owns the
// project.
func (h *InviteHandler) ownerAndTarget(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return uuid.Nil, uuid.Nil, respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	targetID, err := uuid.Parse(c.Param(paramUserID))
	if err != nil {
		return uuid.Nil, uuid.Nil, respondError(c, http.StatusBadRequest, msgInvalidUserID)
	}

	proj, err := h.projectRepo.GetByID(c.Request().Context(), projectID)
	if err != nil {
		return uuid.Nil, uuid.Nil, respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	if proj.OwnerID != userID {
		return uuid.Nil, uuid.Nil, respondError(c, http.StatusForbidden, msgOwnerOnly)
	}

	return projectID, targetID, nil
}
