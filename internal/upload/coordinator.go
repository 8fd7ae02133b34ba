package upload

import (
	"context"
	"time"

	"viewtuber/internal/domain/video"
	"viewtuber/internal/storage/s3"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
)

const (
	errPartCountRequired   = "file part count must be at least 1"
	errPartsRequired       = "at least one completed part is required"
	errPartETagRequired    = "every completed part needs an ETag"
	errFailedInitiate      = "failed to initiate upload session"
	errFailedPresignParts  = "failed to sign upload part URLs"
	errFailedFinalize      = "failed to finalize upload"
	errFailedAbort         = "failed to abort upload session"
	errFailedPersistResult = "failed to record upload result"
)

type Storage interface {
	InitiateMultipartUpload(ctx context.Context, key, contentType string) (string, error)
	PresignUploadParts(ctx context.Context, key, uploadID string, partCount int, ttl time.Duration) ([]s3.PresignedPart, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []s3.CompletedPart) error
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
	ObjectURL(key string) string
}

type VideoStore interface {
	MarkUploadResult(ctx context.Context, input video.MarkUploadResultInput) error
}

// Coordinator drives multipart upload sessions: it hands the client one
// presigned URL per part and finalizes the object once all parts are in.
// The video row only reaches completed after the provider confirms the
// finalize, so a stored url always points at a real object.
type Coordinator struct {
	storage Storage
	videos  VideoStore
	partTTL time.Duration
}

func NewCoordinator(storage Storage, videos VideoStore, partTTL time.Duration) *Coordinator {
	return &Coordinator{
		storage: storage,
		videos:  videos,
		partTTL: partTTL,
	}
}

type InitiateInput struct {
	Key         string
	ContentType string
	PartCount   int
}

// Session carries everything the client needs to upload all parts directly to
// storage.
type Session struct {
	UploadID string            `json:"uploadId"`
	Key      string            `json:"key"`
	Parts    []s3.PresignedPart `json:"parts"`
}

// Initiate opens a provider-side session and signs upload URLs for parts
// 1..PartCount. A presign failure aborts the freshly opened session.
func (c *Coordinator) Initiate(ctx context.Context, input InitiateInput) (*Session, error) {
	if input.PartCount < 1 {
		return nil, apperrors.Validation(errPartCountRequired)
	}

	uploadID, err := c.storage.InitiateMultipartUpload(ctx, input.Key, input.ContentType)
	if err != nil {
		return nil, apperrors.ExternalProvider(errFailedInitiate, err)
	}

	parts, err := c.storage.PresignUploadParts(ctx, input.Key, uploadID, input.PartCount, c.partTTL)
	if err != nil {
		_ = c.storage.AbortMultipartUpload(ctx, input.Key, uploadID)
		return nil, apperrors.ExternalProvider(errFailedPresignParts, err)
	}

	return &Session{
		UploadID: uploadID,
		Key:      input.Key,
		Parts:    parts,
	}, nil
}

type CompleteInput struct {
	Key      string
	UploadID string
	Parts    []s3.CompletedPart
	VideoID  uuid.UUID
}

// Complete finalizes the object and records the resulting URL on the video.
// A provider failure leaves the video's upload status untouched.
func (c *Coordinator) Complete(ctx context.Context, input CompleteInput) (string, error) {
	if len(input.Parts) == 0 {
		return "", apperrors.Validation(errPartsRequired)
	}
	for _, part := range input.Parts {
		if part.ETag == "" {
			return "", apperrors.Validation(errPartETagRequired)
		}
	}

	if err := c.storage.CompleteMultipartUpload(ctx, input.Key, input.UploadID, input.Parts); err != nil {
		return "", apperrors.ExternalProvider(errFailedFinalize, err)
	}

	url := c.storage.ObjectURL(input.Key)
	err := c.videos.MarkUploadResult(ctx, video.MarkUploadResultInput{
		VideoID:      input.VideoID,
		UploadStatus: video.UploadCompleted,
		URL:          &url,
	})
	if err != nil {
		return "", apperrors.InternalServer(errFailedPersistResult, err)
	}

	return url, nil
}

// Abort discards an in-flight session without touching the video row.
func (c *Coordinator) Abort(ctx context.Context, key, uploadID string) error {
	if err := c.storage.AbortMultipartUpload(ctx, key, uploadID); err != nil {
		return apperrors.ExternalProvider(errFailedAbort, err)
	}
	return nil
}
