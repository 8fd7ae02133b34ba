package invite

import (
	"context"
	"errors"
	"net/url"
	"time"

	"viewtuber/internal/domain/member"
	"viewtuber/internal/domain/project"
	apperrors "viewtuber/pkg/errors"
	"viewtuber/pkg/permission"
	"viewtuber/pkg/token"

	"github.com/google/uuid"
)

const (
	errOnlyOwnerCanInvite     = "only the project owner can send invitations"
	errMemberAlreadyAccepted  = "user is already a member of this project"
	errInviteStillActive      = "an active invitation for this email already exists"
	errInvalidOrExpiredInvite = "invitation is invalid or has expired"
	errEmailRequired          = "email is required"
	errFailedSendInvite       = "failed to send invitation email"
)

type ProjectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type MemberStore interface {
	GetByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*member.Member, error)
	CreateInvite(ctx context.Context, input member.CreateInviteInput) (*member.Member, error)
	SupersedeInvite(ctx context.Context, input member.CreateInviteInput) (*member.Member, error)
	AcceptInvite(ctx context.Context, input member.AcceptInviteInput) (*member.Member, error)
}

type Notifier interface {
	SendProjectInvite(email, projectName, role, inviteURL string) error
}

// Service runs the invitation lifecycle: issuing coded invites and accepting
// them. The invite email is sent before the pending row is persisted, so a
// failed delivery never leaves a dangling invitation.
type Service struct {
	projects  ProjectStore
	members   MemberStore
	notifier  Notifier
	baseURL   string
	inviteTTL time.Duration
	now       func() time.Time
}

func NewService(projects ProjectStore, members MemberStore, notifier Notifier, baseURL string, inviteTTL time.Duration) *Service {
	return &Service{
		projects:  projects,
		members:   members,
		notifier:  notifier,
		baseURL:   baseURL,
		inviteTTL: inviteTTL,
		now:       time.Now,
	}
}

type IssueInput struct {
	ProjectID   uuid.UUID
	OwnerID     uuid.UUID
	Email       string
	Role        member.Role
	Permissions []string
}

// Issue creates an invitation for the given email. An accepted member or an
// unexpired pending invite for the same email is a conflict; an expired
// pending invite is replaced in place.
func (s *Service) Issue(ctx context.Context, input IssueInput) (*member.Member, error) {
	if input.Email == "" {
		return nil, apperrors.Validation(errEmailRequired)
	}
	if err := input.Role.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	permissions := input.Permissions
	if input.Role == member.RoleYoutuber {
		permissions = []string{permission.Sentinel}
	}
	if _, err := permission.NewSet(permissions); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	proj, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if proj.OwnerID != input.OwnerID {
		return nil, apperrors.Forbidden(errOnlyOwnerCanInvite)
	}

	now := s.now()
	supersede := false

	existing, err := s.members.GetByProjectAndEmail(ctx, input.ProjectID, input.Email)
	switch {
	case err == nil:
		if existing.Status == member.StatusAccepted {
			return nil, apperrors.Conflict(errMemberAlreadyAccepted)
		}
		if existing.PendingInviteActive(now) {
			return nil, apperrors.Conflict(errInviteStillActive)
		}
		supersede = true
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	code, err := token.GenerateInviteCode()
	if err != nil {
		return nil, apperrors.InternalServer("failed to generate invite code", err)
	}

	inviteURL := s.buildInviteURL(input.ProjectID, code, input.Email, input.Role)
	if err := s.notifier.SendProjectInvite(input.Email, proj.Name, string(input.Role), inviteURL); err != nil {
		return nil, apperrors.ExternalProvider(errFailedSendInvite, err)
	}

	createInput := member.CreateInviteInput{
		ProjectID:        input.ProjectID,
		Email:            input.Email,
		Role:             input.Role,
		InviteCode:       code,
		InviteCodeExpiry: now.Add(s.inviteTTL),
		Permissions:      permissions,
	}

	if supersede {
		return s.members.SupersedeInvite(ctx, createInput)
	}
	return s.members.CreateInvite(ctx, createInput)
}

type AcceptInput struct {
	ProjectID uuid.UUID
	Email     string
	Code      string
	UserID    uuid.UUID
}

// Accept transitions a pending invite to accepted and binds the accepting
// user. Wrong codes, wrong emails, expired invites, and replays all miss the
// same compound filter and surface as one indistinguishable failure.
func (s *Service) Accept(ctx context.Context, input AcceptInput) (*member.Member, error) {
	if input.Email == "" || input.Code == "" {
		return nil, apperrors.Validation(errInvalidOrExpiredInvite)
	}

	m, err := s.members.AcceptInvite(ctx, member.AcceptInviteInput{
		ProjectID: input.ProjectID,
		Email:     input.Email,
		Code:      input.Code,
		UserID:    input.UserID,
		Now:       s.now(),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.BadRequest(errInvalidOrExpiredInvite)
		}
		return nil, err
	}

	return m, nil
}

func (s *Service) buildInviteURL(projectID uuid.UUID, code, email string, role member.Role) string {
	query := url.Values{}
	query.Set("invitecode", code)
	query.Set("email", email)
	query.Set("role", string(role))
	return s.baseURL + "/project/" + projectID.String() + "?" + query.Encode()
}
