package publish

import (
	"context"
	"io"
	"net/url"
	"strings"

	"viewtuber/internal/domain/project"
	"viewtuber/internal/domain/user"
	"viewtuber/internal/domain/video"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
)

const (
	errVideoNotApproved   = "video is not approved for publishing"
	errNoOwnerCredential  = "project owner has no platform credential"
	errVideoHasNoObject   = "video has no uploaded object"
	errFailedFetchObject  = "failed to read video object from storage"
	errFailedPlatformCall = "platform upload failed"
)

type VideoStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*video.Video, error)
	SetUploadStatus(ctx context.Context, videoID uuid.UUID, status video.UploadStatus) error
	MarkUploadResult(ctx context.Context, input video.MarkUploadResultInput) error
}

type ProjectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type CredentialSource interface {
	Fresh(ctx context.Context, u *user.User) (string, error)
}

type ObjectStore interface {
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

type Platform interface {
	Upload(ctx context.Context, accessToken string, v *video.Video, media io.Reader) (channelID string, err error)
}

// Publisher pushes an approved, fully uploaded video to the owner's channel.
// Approval and credential are checked before anything leaves the process; a
// failure after the uploading mark is recorded on the video before it
// resurfaces.
type Publisher struct {
	videos      VideoStore
	projects    ProjectStore
	users       UserStore
	credentials CredentialSource
	storage     ObjectStore
	platform    Platform
}

func NewPublisher(videos VideoStore, projects ProjectStore, users UserStore, credentials CredentialSource, storage ObjectStore, platform Platform) *Publisher {
	return &Publisher{
		videos:      videos,
		projects:    projects,
		users:       users,
		credentials: credentials,
		storage:     storage,
		platform:    platform,
	}
}

func (p *Publisher) Publish(ctx context.Context, videoID uuid.UUID) (*video.Video, error) {
	vid, err := p.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if !vid.IsApproved {
		return nil, apperrors.State(errVideoNotApproved)
	}
	if vid.URL == nil || *vid.URL == "" {
		return nil, apperrors.State(errVideoHasNoObject)
	}

	proj, err := p.projects.GetByID(ctx, vid.ProjectID)
	if err != nil {
		return nil, err
	}

	owner, err := p.users.GetByID(ctx, proj.OwnerID)
	if err != nil {
		return nil, err
	}

	if !owner.HasCredential() {
		return nil, apperrors.State(errNoOwnerCredential)
	}

	accessToken, err := p.credentials.Fresh(ctx, owner)
	if err != nil {
		return nil, err
	}

	key, err := objectKey(*vid.URL)
	if err != nil {
		return nil, apperrors.State(errVideoHasNoObject)
	}

	media, err := p.storage.GetObject(ctx, key)
	if err != nil {
		return nil, apperrors.ExternalProvider(errFailedFetchObject, err)
	}
	defer media.Close()

	if err := p.videos.SetUploadStatus(ctx, vid.ID, video.UploadUploading); err != nil {
		return nil, err
	}

	channelID, err := p.platform.Upload(ctx, accessToken, vid, media)
	if err != nil {
		p.markFailed(ctx, vid.ID, err)
		return nil, apperrors.ExternalProvider(errFailedPlatformCall, err)
	}

	err = p.videos.MarkUploadResult(ctx, video.MarkUploadResultInput{
		VideoID:      vid.ID,
		UploadStatus: video.UploadCompleted,
		ChannelID:    &channelID,
	})
	if err != nil {
		return nil, err
	}

	return p.videos.GetByID(ctx, vid.ID)
}

func (p *Publisher) markFailed(ctx context.Context, videoID uuid.UUID, cause error) {
	reason := cause.Error()
	_ = p.videos.MarkUploadResult(ctx, video.MarkUploadResultInput{
		VideoID:       videoID,
		UploadStatus:  video.UploadFailed,
		FailureReason: &reason,
	})
}

// objectKey extracts the storage key from a stored object URL.
func objectKey(objectURL string) (string, error) {
	parsed, err := url.Parse(objectURL)
	if err != nil {
		return "", err
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", apperrors.State(errVideoHasNoObject)
	}
	return key, nil
}
