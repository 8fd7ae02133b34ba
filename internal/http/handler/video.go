package handler

import (
	"fmt"
	"net/http"
	"time"

	"viewtuber/internal/auth"
	"viewtuber/internal/domain/member"
	"viewtuber/internal/domain/video"
	"viewtuber/internal/storage/s3"
	"viewtuber/internal/upload"
	"viewtuber/pkg/permission"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const videoResource = "video"

type VideoHandler struct {
	videoRepo   VideoRepository
	memberRepo  MemberRepository
	projectRepo ProjectGetter
	userRepo    UserGetter
	coordinator UploadCoordinator
	linker      EditedVideoLinker
	notifier    SubmissionNotifier
	publisher   VideoPublisher
}

func NewVideoHandler(
	videoRepo VideoRepository,
	memberRepo MemberRepository,
	projectRepo ProjectGetter,
	userRepo UserGetter,
	coordinator UploadCoordinator,
	linker EditedVideoLinker,
	notifier SubmissionNotifier,
	publisher VideoPublisher,
) *VideoHandler {
	return &VideoHandler{
		videoRepo:   videoRepo,
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		coordinator: coordinator,
		linker:      linker,
		notifier:    notifier,
		publisher:   publisher,
	}
}

// UpdateVideo applies a permission-filtered metadata update. Fields the
// caller has no write grant for are dropped; a request where nothing survives
// the filter fails outright.
func (h *VideoHandler) UpdateVideo(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	videoID, err := uuid.Parse(c.Param(paramVideoID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidVideoID)
	}

	var updates map[string]any
	if err := bindStrictJSON(c, &updates); err != nil {
		return respondBindError(c, err)
	}
	if len(updates) == 0 {
		return respondError(c, http.StatusBadRequest, msgNoUpdateFields)
	}

	m, err := h.memberRepo.GetAccepted(c.Request().Context(), projectID, userID)
	if err != nil {
		return respondError(c, http.StatusForbidden, msgNotProjectMember)
	}

	grants, err := permission.NewSet(m.Permissions)
	if err != nil {
		c.Logger().Errorf("member %s carries malformed grants: %v", m.ID, err)
		return respondError(c, http.StatusForbidden, msgNoPermittedFields)
	}

	filtered := permission.FilterFields(grants, videoResource, updates)
	if len(filtered) == 0 {
		return respondError(c, http.StatusForbidden, msgNoPermittedFields)
	}

	normalized, err := normalizeVideoFields(filtered)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	updated, err := h.videoRepo.UpdateFields(c.Request().Context(), videoID, projectID, normalized)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

type SubmitEditedRequest struct {
	FileName      string `json:"fileName"`
	ContentType   string `json:"contentType"`
	FilePartCount int    `json:"filePartCount"`
}

// SubmitEdited opens an upload session for an editor's finished cut and
// notifies the owner. The notification is best effort; the session stands
// either way.
func (h *VideoHandler) SubmitEdited(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, videoID, m, err := h.uploadAuthorized(c, userID)
	if err != nil {
		return err
	}

	var req SubmitEditedRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}
	if req.FilePartCount < 1 {
		return respondError(c, http.StatusBadRequest, msgUploadNotRequired)
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "edited"
	}

	session, err := h.coordinator.Initiate(c.Request().Context(), upload.InitiateInput{
		Key:         fmt.Sprintf("edited-videos/%s/%s/%s", projectID, videoID, fileName),
		ContentType: req.ContentType,
		PartCount:   req.FilePartCount,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if err := h.videoRepo.SetUploadStatus(c.Request().Context(), videoID, video.UploadPending); err != nil {
		return RespondWithMappedError(c, err)
	}

	h.notifyOwner(c, projectID, m)

	return c.JSON(http.StatusCreated, session)
}

type CompleteEditedRequest struct {
	Key      string             `json:"key"`
	UploadID string             `json:"uploadId"`
	Parts    []s3.CompletedPart `json:"parts"`
}

// CompleteEdited finalizes the edited cut and links it as the project's
// current edited video.
func (h *VideoHandler) CompleteEdited(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	projectID, videoID, _, err := h.uploadAuthorized(c, userID)
	if err != nil {
		return err
	}

	var req CompleteEditedRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}

	url, err := h.coordinator.Complete(c.Request().Context(), upload.CompleteInput{
		Key:      req.Key,
		UploadID: req.UploadID,
		Parts:    req.Parts,
		VideoID:  videoID,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if err := h.linker.SetEditedVideo(c.Request().Context(), projectID, videoID); err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"url":     url,
		"videoId": videoID,
	})
}

type SetApprovalRequest struct {
	IsApproved    bool    `json:"isApproved"`
	FailureReason *string `json:"failureReason,omitempty"`
}

func (h *VideoHandler) SetApproval(c echo.Context) error {
	vid, err := h.ownedVideo(c)
	if err != nil {
		return err
	}

	var req SetApprovalRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondBindError(c, err)
	}

	updated, err := h.videoRepo.SetApproval(c.Request().Context(), video.SetApprovalInput{
		VideoID:       vid.ID,
		IsApproved:    req.IsApproved,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *VideoHandler) PublishVideo(c echo.Context) error {
	vid, err := h.ownedVideo(c)
	if err != nil {
		return err
	}

	published, err := h.publisher.Publish(c.Request().Context(), vid.ID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, published)
}

// uploadAuthorized checks the caller is an accepted member holding an upload
// write grant, and that the video belongs to the routed project.
func (h *VideoHandler) uploadAuthorized(c echo.Context, userID uuid.UUID) (uuid.UUID, uuid.UUID, *member.Member, error) {
	projectID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	videoID, err := uuid.Parse(c.Param(paramVideoID))
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, respondError(c, http.StatusBadRequest, msgInvalidVideoID)
	}

	m, err := h.memberRepo.GetAccepted(c.Request().Context(), projectID, userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, respondError(c, http.StatusForbidden, msgNotProjectMember)
	}

	if !permission.Has(m.Permissions, videoResource, "upload", permission.AccessWrite) {
		return uuid.Nil, uuid.Nil, nil, respondError(c, http.StatusForbidden, msgNoPermittedFields)
	}

	vid, err := h.videoRepo.GetByID(c.Request().Context(), videoID)
	if err != nil || vid.ProjectID != projectID {
		return uuid.Nil, uuid.Nil, nil, respondError(c, http.StatusNotFound, msgVideoNotFound)
	}

	return projectID, videoID, m, nil
}

// ownedVideo resolves the :id video and requires the caller to own its
// project.
func (h *VideoHandler) ownedVideo(c echo.Context) (*video.Video, error) {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return nil, respondError(c, http.StatusUnauthorized, err.Error())
	}

	videoID, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return nil, respondError(c, http.StatusBadRequest, msgInvalidVideoID)
	}

	vid, err := h.videoRepo.GetByID(c.Request().Context(), videoID)
	if err != nil {
		return nil, respondError(c, http.StatusNotFound, msgVideoNotFound)
	}

	proj, err := h.projectRepo.GetByID(c.Request().Context(), vid.ProjectID)
	if err != nil {
		return nil, respondError(c, http.StatusNotFound, msgProjectNotFound)
	}

	if proj.OwnerID != userID {
		return nil, respondError(c, http.StatusForbidden, msgOwnerOnly)
	}

	return vid, nil
}

func (h *VideoHandler) notifyOwner(c echo.Context, projectID uuid.UUID, editor *member.Member) {
	proj, err := h.projectRepo.GetByID(c.Request().Context(), projectID)
	if err != nil {
		c.Logger().Errorf("failed to load project %s for submission notice: %v", projectID, err)
		return
	}

	owner, err := h.userRepo.GetByID(c.Request().Context(), proj.OwnerID)
	if err != nil {
		c.Logger().Errorf("failed to load owner %s for submission notice: %v", proj.OwnerID, err)
		return
	}

	editorName := editor.Email
	if editor.UserID != nil {
		if u, err := h.userRepo.GetByID(c.Request().Context(), *editor.UserID); err == nil && u.Name != "" {
			editorName = u.Name
		}
	}

	if err := h.notifier.SendEditorSubmission(owner.Email, proj.Name, editorName); err != nil {
		c.Logger().Errorf("failed to send submission notice for project %s: %v", projectID, err)
	}
}

// normalizeVideoFields coerces JSON-decoded values into the types the
// repository expects.
func normalizeVideoFields(fields map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(fields))
	for name, value := range fields {
		switch name {
		case "tags":
			raw, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("tags must be an array of strings")
			}
			tags := make([]string, 0, len(raw))
			for _, item := range raw {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("tags must be an array of strings")
				}
				tags = append(tags, s)
			}
			normalized[name] = tags
		case "publishAt":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("publishAt must be an RFC 3339 timestamp")
			}
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, fmt.Errorf("publishAt must be an RFC 3339 timestamp")
			}
			normalized[name] = ts
		default:
			normalized[name] = value
		}
	}
	return normalized, nil
}
