package handler

import (
	"context"

	"viewtuber/internal/domain/member"
	"viewtuber/internal/domain/project"
	"viewtuber/internal/domain/user"
	"viewtuber/internal/domain/video"
	"viewtuber/internal/invite"
	"viewtuber/internal/publish"
	"viewtuber/internal/upload"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers.
// Each interface contains only the methods needed by the specific handler.

// AuthHandler interfaces
type OAuthService interface {
	LoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*user.User, error)
}

type TokenGenerator interface {
	Generate(userID uuid.UUID, email string) (string, error)
}

// ProjectHandler interfaces
type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*project.Project, error)
	Update(ctx context.Context, id uuid.UUID, input project.UpdateProjectInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectCreator writes the project, owner membership, and pending source
// video atomically so a failure can never leave a partial project behind.
type ProjectCreator interface {
	CreateProjectTransaction(ctx context.Context, input project.CreateProjectInput, ownerEmail string, fileName *string) (*project.Project, *member.Member, *video.Video, error)
}

type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// InviteHandler interfaces
type InviteService interface {
	Issue(ctx context.Context, input invite.IssueInput) (*member.Member, error)
	Accept(ctx context.Context, input invite.AcceptInput) (*member.Member, error)
}

type MemberRepository interface {
	GetMembers(ctx context.Context, projectID uuid.UUID) ([]*member.Member, error)
	GetAccepted(ctx context.Context, projectID, userID uuid.UUID) (*member.Member, error)
	UpdatePermissions(ctx context.Context, input member.UpdatePermissionsInput) error
}

// VideoHandler interfaces
type VideoRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*video.Video, error)
	UpdateFields(ctx context.Context, videoID, projectID uuid.UUID, fields map[string]any) (*video.Video, error)
	SetApproval(ctx context.Context, input video.SetApprovalInput) (*video.Video, error)
	SetUploadStatus(ctx context.Context, videoID uuid.UUID, status video.UploadStatus) error
}

type UploadCoordinator interface {
	Initiate(ctx context.Context, input upload.InitiateInput) (*upload.Session, error)
	Complete(ctx context.Context, input upload.CompleteInput) (string, error)
	Abort(ctx context.Context, key, uploadID string) error
}

type EditedVideoLinker interface {
	SetEditedVideo(ctx context.Context, projectID, videoID uuid.UUID) error
}

type SubmissionNotifier interface {
	SendEditorSubmission(ownerEmail, projectName, editorName string) error
}

type VideoPublisher interface {
	Publish(ctx context.Context, videoID uuid.UUID) (*video.Video, error)
}

// Shared interfaces
type ProjectGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// ChannelHandler interfaces
type CredentialSource interface {
	Fresh(ctx context.Context, u *user.User) (string, error)
}

type ChannelSource interface {
	Channel(ctx context.Context, accessToken string) (*publish.ChannelInfo, error)
}
