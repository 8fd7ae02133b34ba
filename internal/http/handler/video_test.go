package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"viewtuber/internal/auth"
	"viewtuber/internal/domain/member"
	"viewtuber/internal/domain/project"
	"viewtuber/internal/domain/user"
	"viewtuber/internal/domain/video"
	"viewtuber/internal/upload"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVideoRepo struct {
	video         *video.Video
	updatedFields map[string]any
	statusSet     []video.UploadStatus
	approval      *video.SetApprovalInput
}

func (f *fakeVideoRepo) GetByID(_ context.Context, _ uuid.UUID) (*video.Video, error) {
	if f.video == nil {
		return nil, apperrors.NotFound("video not found")
	}
	return f.video, nil
}

func (f *fakeVideoRepo) UpdateFields(_ context.Context, _, _ uuid.UUID, fields map[string]any) (*video.Video, error) {
	f.updatedFields = fields
	return f.video, nil
}

func (f *fakeVideoRepo) SetApproval(_ context.Context, input video.SetApprovalInput) (*video.Video, error) {
	f.approval = &input
	return f.video, nil
}

func (f *fakeVideoRepo) SetUploadStatus(_ context.Context, _ uuid.UUID, status video.UploadStatus) error {
	f.statusSet = append(f.statusSet, status)
	return nil
}

type fakeMemberRepo struct {
	accepted *member.Member
}

func (f *fakeMemberRepo) GetMembers(_ context.Context, _ uuid.UUID) ([]*member.Member, error) {
	return []*member.Member{f.accepted}, nil
}

func (f *fakeMemberRepo) GetAccepted(_ context.Context, _, _ uuid.UUID) (*member.Member, error) {
	if f.accepted == nil {
		return nil, apperrors.NotFound("member not found")
	}
	return f.accepted, nil
}

func (f *fakeMemberRepo) UpdatePermissions(_ context.Context, _ member.UpdatePermissionsInput) error {
	return nil
}

type fakeProjectGetter struct {
	project *project.Project
	linked  *uuid.UUID
}

func (f *fakeProjectGetter) GetByID(_ context.Context, _ uuid.UUID) (*project.Project, error) {
	if f.project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	return f.project, nil
}

func (f *fakeProjectGetter) SetEditedVideo(_ context.Context, _, videoID uuid.UUID) error {
	f.linked = &videoID
	return nil
}

type fakeUserGetter struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserGetter) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

type fakeCoordinator struct {
	session     *upload.Session
	completed   *upload.CompleteInput
	initiateIn  *upload.InitiateInput
	initiateErr error
}

func (f *fakeCoordinator) Initiate(_ context.Context, input upload.InitiateInput) (*upload.Session, error) {
	f.initiateIn = &input
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	return f.session, nil
}

func (f *fakeCoordinator) Complete(_ context.Context, input upload.CompleteInput) (string, error) {
	f.completed = &input
	return "https://bucket.example.com/" + input.Key, nil
}

func (f *fakeCoordinator) Abort(_ context.Context, _, _ string) error {
	return nil
}

type fakeSubmissionNotifier struct {
	sent int
}

func (f *fakeSubmissionNotifier) SendEditorSubmission(_, _, _ string) error {
	f.sent++
	return nil
}

type fakePublisher struct {
	published *uuid.UUID
}

func (f *fakePublisher) Publish(_ context.Context, videoID uuid.UUID) (*video.Video, error) {
	f.published = &videoID
	return &video.Video{ID: videoID, UploadStatus: video.UploadCompleted}, nil
}

type videoFixture struct {
	handler   *VideoHandler
	videos    *fakeVideoRepo
	members   *fakeMemberRepo
	projects  *fakeProjectGetter
	notifier  *fakeSubmissionNotifier
	publisher *fakePublisher
	projectID uuid.UUID
	videoID   uuid.UUID
	userID    uuid.UUID
}

func newVideoFixture(permissions []string) *videoFixture {
	projectID := uuid.New()
	videoID := uuid.New()
	userID := uuid.New()
	ownerID := uuid.New()

	videos := &fakeVideoRepo{video: &video.Video{
		ID:        videoID,
		ProjectID: projectID,
		Title:     "draft",
	}}
	members := &fakeMemberRepo{accepted: &member.Member{
		ID:          uuid.New(),
		ProjectID:   projectID,
		UserID:      &userID,
		Email:       "editor@example.com",
		Role:        member.RoleEditor,
		Status:      member.StatusAccepted,
		Permissions: permissions,
	}}
	projects := &fakeProjectGetter{project: &project.Project{
		ID:      projectID,
		OwnerID: ownerID,
		Name:    "Launch",
	}}
	users := &fakeUserGetter{users: map[uuid.UUID]*user.User{
		ownerID: {ID: ownerID, Email: "owner@example.com", Name: "Owner"},
		userID:  {ID: userID, Email: "editor@example.com", Name: "Eddie"},
	}}
	coordinator := &fakeCoordinator{session: &upload.Session{UploadID: "upload-1", Key: "k"}}
	notifier := &fakeSubmissionNotifier{}
	publisher := &fakePublisher{}

	return &videoFixture{
		handler:   NewVideoHandler(videos, members, projects, users, coordinator, projects, notifier, publisher),
		videos:    videos,
		members:   members,
		projects:  projects,
		notifier:  notifier,
		publisher: publisher,
		projectID: projectID,
		videoID:   videoID,
		userID:    userID,
	}
}

func (f *videoFixture) updateRequest(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramID, paramVideoID)
	c.SetParamValues(f.projectID.String(), f.videoID.String())
	c.Set(auth.ContextKeyUserID, f.userID)
	c.Set(auth.ContextKeyEmail, "editor@example.com")

	return c, rec
}

func TestUpdateVideoFiltersUnwritableFields(t *testing.T) {
	f := newVideoFixture([]string{"video.title:write", "video.description:read"})
	c, rec := f.updateRequest(t, `{"title":"New Title","description":"nope"}`)

	err := f.handler.UpdateVideo(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.videos.updatedFields)
	assert.Equal(t, map[string]any{"title": "New Title"}, f.videos.updatedFields)
}

func TestUpdateVideoRejectsWhenNothingSurvivesFilter(t *testing.T) {
	f := newVideoFixture([]string{"video.title:read"})
	c, rec := f.updateRequest(t, `{"title":"New Title"}`)

	err := f.handler.UpdateVideo(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, f.videos.updatedFields)
}

func TestUpdateVideoSentinelPassesEverything(t *testing.T) {
	f := newVideoFixture([]string{"all"})
	c, rec := f.updateRequest(t, `{"title":"T","description":"D","tags":["a","b"]}`)

	err := f.handler.UpdateVideo(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "T", f.videos.updatedFields["title"])
	assert.Equal(t, []string{"a", "b"}, f.videos.updatedFields["tags"])
}

func TestUpdateVideoRejectsNonMember(t *testing.T) {
	f := newVideoFixture(nil)
	f.members.accepted = nil
	c, rec := f.updateRequest(t, `{"title":"T"}`)

	err := f.handler.UpdateVideo(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitEditedRequiresUploadGrant(t *testing.T) {
	f := newVideoFixture([]string{"video.title:write"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"fileName":"cut.mp4","contentType":"video/mp4","filePartCount":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramID, paramVideoID)
	c.SetParamValues(f.projectID.String(), f.videoID.String())
	c.Set(auth.ContextKeyUserID, f.userID)

	err := f.handler.SubmitEdited(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, f.notifier.sent)
}

func TestSubmitEditedOpensSessionAndNotifiesOwner(t *testing.T) {
	f := newVideoFixture([]string{"video.upload:write"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"fileName":"cut.mp4","contentType":"video/mp4","filePartCount":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramID, paramVideoID)
	c.SetParamValues(f.projectID.String(), f.videoID.String())
	c.Set(auth.ContextKeyUserID, f.userID)

	err := f.handler.SubmitEdited(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, f.notifier.sent)
	assert.Equal(t, []video.UploadStatus{video.UploadPending}, f.videos.statusSet)
}

func TestPublishVideoOwnerOnly(t *testing.T) {
	f := newVideoFixture([]string{"all"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramID)
	c.SetParamValues(f.videoID.String())
	c.Set(auth.ContextKeyUserID, f.userID) // editor, not owner

	err := f.handler.PublishVideo(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, f.publisher.published)
}

func TestPublishVideoAsOwner(t *testing.T) {
	f := newVideoFixture([]string{"all"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramID)
	c.SetParamValues(f.videoID.String())
	c.Set(auth.ContextKeyUserID, f.projects.project.OwnerID)

	err := f.handler.PublishVideo(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.publisher.published)
	assert.Equal(t, f.videoID, *f.publisher.published)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
}
