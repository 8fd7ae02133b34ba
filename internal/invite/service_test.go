package invite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"viewtuber/internal/domain/member"
	"viewtuber/internal/domain/project"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProjectStore struct {
	project *project.Project
	err     error
}

func (f *fakeProjectStore) GetByID(_ context.Context, _ uuid.UUID) (*project.Project, error) {
	return f.project, f.err
}

type fakeMemberStore struct {
	existing   *member.Member
	existErr   error
	created    *member.CreateInviteInput
	superseded *member.CreateInviteInput
	accepted   *member.AcceptInviteInput
	acceptErr  error
}

func (f *fakeMemberStore) GetByProjectAndEmail(_ context.Context, _ uuid.UUID, _ string) (*member.Member, error) {
	if f.existErr != nil {
		return nil, f.existErr
	}
	return f.existing, nil
}

func (f *fakeMemberStore) CreateInvite(_ context.Context, input member.CreateInviteInput) (*member.Member, error) {
	f.created = &input
	return pendingFromInput(input), nil
}

func (f *fakeMemberStore) SupersedeInvite(_ context.Context, input member.CreateInviteInput) (*member.Member, error) {
	f.superseded = &input
	return pendingFromInput(input), nil
}

func (f *fakeMemberStore) AcceptInvite(_ context.Context, input member.AcceptInviteInput) (*member.Member, error) {
	f.accepted = &input
	if f.acceptErr != nil {
		return nil, f.acceptErr
	}
	return &member.Member{
		ID:        uuid.New(),
		ProjectID: input.ProjectID,
		UserID:    &input.UserID,
		Email:     input.Email,
		Status:    member.StatusAccepted,
	}, nil
}

func pendingFromInput(input member.CreateInviteInput) *member.Member {
	expiry := input.InviteCodeExpiry
	code := input.InviteCode
	return &member.Member{
		ID:               uuid.New(),
		ProjectID:        input.ProjectID,
		Email:            input.Email,
		Role:             input.Role,
		Status:           member.StatusPending,
		InviteCode:       &code,
		InviteCodeExpiry: &expiry,
		Permissions:      input.Permissions,
	}
}

type fakeNotifier struct {
	sent      int
	lastURL   string
	lastEmail string
	err       error
}

func (f *fakeNotifier) SendProjectInvite(email, _, _, inviteURL string) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	f.lastEmail = email
	f.lastURL = inviteURL
	return nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(projects *fakeProjectStore, members *fakeMemberStore, notifier *fakeNotifier) *Service {
	svc := NewService(projects, members, notifier, "https://app.example.com", time.Hour)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestIssueCreatesPendingInvite(t *testing.T) {
	ownerID := uuid.New()
	projectID := uuid.New()
	projects := &fakeProjectStore{project: &project.Project{ID: projectID, OwnerID: ownerID, Name: "Launch Video"}}
	members := &fakeMemberStore{existErr: apperrors.NotFound("member not found")}
	notifier := &fakeNotifier{}
	svc := newTestService(projects, members, notifier)

	m, err := svc.Issue(context.Background(), IssueInput{
		ProjectID:   projectID,
		OwnerID:     ownerID,
		Email:       "editor@example.com",
		Role:        member.RoleEditor,
		Permissions: []string{"video.title:write", "video.description:read"},
	})

	require.NoError(t, err)
	require.NotNil(t, members.created)
	assert.Equal(t, 1, notifier.sent)
	assert.Equal(t, member.StatusPending, m.Status)
	assert.GreaterOrEqual(t, len(members.created.InviteCode), 10)
	assert.Equal(t, testNow.Add(time.Hour), members.created.InviteCodeExpiry)
	assert.Equal(t, []string{"video.title:write", "video.description:read"}, members.created.Permissions)
	assert.Contains(t, notifier.lastURL, "/project/"+projectID.String())
	assert.Contains(t, notifier.lastURL, "invitecode="+*m.InviteCode)
	assert.Contains(t, notifier.lastURL, "editor%40example.com")
}

func TestIssueYoutuberGetsSentinelPermission(t *testing.T) {
	ownerID := uuid.New()
	projects := &fakeProjectStore{project: &project.Project{ID: uuid.New(), OwnerID: ownerID, Name: "p"}}
	members := &fakeMemberStore{existErr: apperrors.NotFound("member not found")}
	svc := newTestService(projects, members, &fakeNotifier{})

	_, err := svc.Issue(context.Background(), IssueInput{
		ProjectID:   projects.project.ID,
		OwnerID:     ownerID,
		Email:       "cohost@example.com",
		Role:        member.RoleYoutuber,
		Permissions: []string{"video.title:write"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"all"}, members.created.Permissions)
}

func TestIssueRejectsNonOwner(t *testing.T) {
	projects := &fakeProjectStore{project: &project.Project{ID: uuid.New(), OwnerID: uuid.New(), Name: "p"}}
	members := &fakeMemberStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(projects, members, notifier)

	_, err := svc.Issue(context.Background(), IssueInput{
		ProjectID: projects.project.ID,
		OwnerID:   uuid.New(),
		Email:     "editor@example.com",
		Role:      member.RoleEditor,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Zero(t, notifier.sent)
}

func TestIssueRejectsMalformedPermission(t *testing.T) {
	ownerID := uuid.New()
	projects := &fakeProjectStore{project: &project.Project{ID: uuid.New(), OwnerID: ownerID, Name: "p"}}
	svc := newTestService(projects, &fakeMemberStore{}, &fakeNotifier{})

	_, err := svc.Issue(context.Background(), IssueInput{
		ProjectID:   projects.project.ID,
		OwnerID:     ownerID,
		Email:       "editor@example.com",
		Role:        member.RoleEditor,
		Permissions: []string{"video.title"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestIssueConflictsWithAcceptedMember(t *testing.T) {
	ownerID := uuid.New()
	projects := &fakeProjectStore{project: &project.Project{ID: uuid.New(), OwnerID: ownerID, Name: "p"}}
	members := &fakeMemberStore{existing: &member.Member{Status: member.StatusAccepted}}
	notifier := &fakeNotifier{}
	svc := newTestService(projects, members, notifier)

	_, err := svc.Issue(context.Background(), IssueInput{
		ProjectID: projects.project.ID,
		OwnerID:   ownerID,
		Email:     "editor@example.com",
		Role:      member.RoleEditor,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Zero(t, notifier.sent)
}

func TestIssueConflictsWithActivePendingInvite(t *testing.T) {
	ownerID := uuid.New()
	projects := &fakeProjectStore{project: &project.Project{ID: uuid.New(), OwnerID: ownerID, Name: "p"}}
	code := "existingcode1234"
	future := testNow.Add(30 * time.Minute)
	members := &fakeMemberStore{existing: &member.Member{
		Status:           member.StatusPending,
		InviteCode:       &code,
		InviteCodeExpiry: &future,
	}}
	notifier := &fakeNotifier{}
	svc := newTestService(projects, members, notifier)

	_, err := svc.Issue(context.Background(), IssueInput{
		ProjectID: projects.project.ID,
		OwnerID:   ownerID,
		Email:     "editor@example.com",
		Role:      member.RoleEditor,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Zero(t, notifier.sent)
}

func TestIssueSupersedesExpiredPendingInvite(t *testing.T) {
	ownerID := uuid.New()
	projects := &fakeProjectStore{project: &project.Project{ID: uuid.New(), OwnerID: ownerID, Name: "p"}}
	code := "oldcode123456789"
	past := testNow.Add(-time.Minute)
	members := &fakeMemberStore{existing: &member.Member{
		Status:           member.StatusPending,
		InviteCode:       &code,
		InviteCodeExpiry: &past,
	}}
	notifier := &fakeNotifier{}
	svc := newTestService(projects, members, notifier)

	_, err := svc.Issue(context.Background(), IssueInput{
		ProjectID:   projects.project.ID,
		OwnerID:     ownerID,
		Email:       "editor@example.com",
		Role:        member.RoleEditor,
		Permissions: []string{"all"},
	})

	require.NoError(t, err)
	assert.Nil(t, members.created)
	require.NotNil(t, members.superseded)
	assert.Equal(t, 1, notifier.sent)
	assert.NotEqual(t, code, members.superseded.InviteCode)
}

func TestIssueEmailFailureSkipsPersistence(t *testing.T) {
	ownerID := uuid.New()
	projects := &fakeProjectStore{project: &project.Project{ID: uuid.New(), OwnerID: ownerID, Name: "p"}}
	members := &fakeMemberStore{existErr: apperrors.NotFound("member not found")}
	notifier := &fakeNotifier{err: errors.New("provider down")}
	svc := newTestService(projects, members, notifier)

	_, err := svc.Issue(context.Background(), IssueInput{
		ProjectID: projects.project.ID,
		OwnerID:   ownerID,
		Email:     "editor@example.com",
		Role:      member.RoleEditor,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalProvider)
	assert.Nil(t, members.created)
	assert.Nil(t, members.superseded)
}

func TestAcceptBindsUser(t *testing.T) {
	members := &fakeMemberStore{}
	svc := newTestService(&fakeProjectStore{}, members, &fakeNotifier{})
	userID := uuid.New()

	m, err := svc.Accept(context.Background(), AcceptInput{
		ProjectID: uuid.New(),
		Email:     "editor@example.com",
		Code:      "code897213987123",
		UserID:    userID,
	})

	require.NoError(t, err)
	require.NotNil(t, m.UserID)
	assert.Equal(t, userID, *m.UserID)
	assert.Equal(t, member.StatusAccepted, m.Status)
	assert.Equal(t, svc.now(), members.accepted.Now)
}

func TestAcceptMissSurfacesAsBadRequest(t *testing.T) {
	members := &fakeMemberStore{acceptErr: apperrors.NotFound("member not found")}
	svc := newTestService(&fakeProjectStore{}, members, &fakeNotifier{})

	_, err := svc.Accept(context.Background(), AcceptInput{
		ProjectID: uuid.New(),
		Email:     "editor@example.com",
		Code:      "wrongcode1234567",
		UserID:    uuid.New(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.True(t, strings.Contains(err.Error(), "invalid or has expired"))
}

func TestAcceptRejectsBlankCode(t *testing.T) {
	svc := newTestService(&fakeProjectStore{}, &fakeMemberStore{}, &fakeNotifier{})

	_, err := svc.Accept(context.Background(), AcceptInput{
		ProjectID: uuid.New(),
		Email:     "editor@example.com",
		UserID:    uuid.New(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
