package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"viewtuber/internal/auth"
	"viewtuber/internal/domain/project"
	"viewtuber/internal/domain/video"
	"viewtuber/internal/upload"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProjectHandler struct {
	projectRepo ProjectRepository
	creator     ProjectCreator
	coordinator UploadCoordinator
	storage     PrefixDeleter
}

func NewProjectHandler(
	projectRepo ProjectRepository,
	creator ProjectCreator,
	coordinator UploadCoordinator,
	storage PrefixDeleter,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		creator:     creator,
		coordinator: coordinator,
		storage:     storage,
	}
}

type CreateProjectRequest struct {
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Requirements  string     `json:"requirements,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	FileName      string     `json:"fileName,omitempty"`
	ContentType   string     `json:"contentType,omitempty"`
	FilePartCount int        `json:"filePartCount,omitempty"`
}

type createProjectResponse struct {
	Project *project.Project `json:"project"`
	Video   *video.Video     `json:"video"`
	Upload  *upload.Session  `json:"upload,omitempty"`
}

// CreateProject creates the project, its owner membership, and the pending
// source video in one request. When the client announces file parts it also
// opens the multipart upload session so the browser can start immediately.
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	email, err := auth.GetEmail(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	var req CreateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return respondError(c, http.StatusBadRequest, msgProjectNameRequired)
	}

	storageKey := fmt.Sprintf("%s/projects/%s-%d", userID, slugify(req.Name), time.Now().Unix())

	proj, _, vid, err := h.creator.CreateProjectTransaction(c.Request().Context(), project.CreateProjectInput{
		OwnerID:      userID,
		Name:         req.Name,
		Description:  optionalString(req.Description),
		Requirements: optionalString(req.Requirements),
		Deadline:     req.Deadline,
		StorageKey:   &storageKey,
	}, email, optionalString(req.FileName))
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	resp := createProjectResponse{Project: proj, Video: vid}

	if req.FilePartCount > 0 {
		session, err := h.coordinator.Initiate(c.Request().Context(), upload.InitiateInput{
			Key:         sourceObjectKey(storageKey, req.FileName),
			ContentType: req.ContentType,
			PartCount:   req.FilePartCount,
		})
		if err != nil {
			h.rollbackProject(c, proj.ID)
			return RespondWithMappedError(c, err)
		}
		resp.Upload = session
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *ProjectHandler) ListProjects(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projects, err := h.projectRepo.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("failed to list projects for user %s: %v", userID, err)
		return respondError(c, http.StatusInternalServerError, msgListProjectsFail)
	}

	if projects == nil {
		projects = []*project.Project{}
	}

	return c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(c echo.Context) error {
	proj, err := h.authorizedProject(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proj)
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	proj, err := h.ownedProject(c)
	if err != nil {
		return err
	}

	var req UpdateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}

	if req.Name == nil && req.Description == nil {
		return respondError(c, http.StatusBadRequest, msgNoUpdateFields)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return respondError(c, http.StatusBadRequest, msgProjectNameRequired)
	}

	if err := h.projectRepo.Update(c.Request().Context(), proj.ID, project.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		return RespondWithMappedError(c, err)
	}

	updated, err := h.projectRepo.GetByID(c.Request().Context(), proj.ID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteProject removes the project row (members and videos cascade) and then
// clears the storage prefix. Object cleanup is best effort; an orphaned prefix
// is preferable to a half-deleted project.
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	proj, err := h.ownedProject(c)
	if err != nil {
		return err
	}

	if err := h.projectRepo.Delete(c.Request().Context(), proj.ID); err != nil {
		return RespondWithMappedError(c, err)
	}

	if proj.StorageKey != nil && *proj.StorageKey != "" {
		if err := h.storage.DeletePrefix(c.Request().Context(), *proj.StorageKey); err != nil {
			c.Logger().Errorf("failed to delete storage prefix %s for project %s: %v", *proj.StorageKey, proj.ID, err)
		}
	}

	return respondMessage(c, http.StatusOK, "project deleted")
}

// authorizedProject loads the project from the :id param. Membership gating
// happens on the listing queries; direct reads return 404 for unknown ids.
func (h *ProjectHandler) authorizedProject(c echo.Context) (*project.Project, error) {
	projectID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return nil, respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	proj, err := h.projectRepo.GetByID(c.Request().Context(), projectID)
	if err != nil {
		return nil, respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	return proj, nil
}

// ownedProject is authorizedProject plus an owner check.
func (h *ProjectHandler) ownedProject(c echo.Context) (*project.Project, error) {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return nil, respondError(c, http.StatusUnauthorized, err.Error())
	}

	proj, err := h.authorizedProject(c)
	if err != nil {
		return nil, err
	}

	if proj.OwnerID != userID {
		return nil, respondError(c, http.StatusForbidden, msgOwnerOnly)
	}

	return proj, nil
}

// rollbackProject undoes a committed create when the upload session cannot be
// opened; members and videos cascade with the project row.
func (h *ProjectHandler) rollbackProject(c echo.Context, projectID uuid.UUID) {
	if err := h.projectRepo.Delete(c.Request().Context(), projectID); err != nil {
		c.Logger().Errorf("failed to roll back project %s: %v", projectID, err)
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// slugify keeps the storage key readable and URL safe.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "project"
	}
	return slug
}

func sourceObjectKey(storageKey, fileName string) string {
	if fileName == "" {
		fileName = "source"
	}
	return storageKey + "/" + fileName
}
