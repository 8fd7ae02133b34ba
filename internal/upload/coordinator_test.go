package upload

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"viewtuber/internal/domain/video"
	"viewtuber/internal/storage/s3"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	initiateErr error
	presignErr  error
	completeErr error
	abortErr    error

	initiated     int
	completedWith []s3.CompletedPart
	aborted       int
	abortedUpload string
}

func (f *fakeStorage) InitiateMultipartUpload(_ context.Context, _, _ string) (string, error) {
	if f.initiateErr != nil {
		return "", f.initiateErr
	}
	f.initiated++
	return "upload-123", nil
}

func (f *fakeStorage) PresignUploadParts(_ context.Context, key, uploadID string, partCount int, _ time.Duration) ([]s3.PresignedPart, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	parts := make([]s3.PresignedPart, partCount)
	for i := range parts {
		parts[i] = s3.PresignedPart{
			PartNumber: i + 1,
			SignedURL:  fmt.Sprintf("https://bucket.example.com/%s?uploadId=%s&partNumber=%d", key, uploadID, i+1),
		}
	}
	return parts, nil
}

func (f *fakeStorage) CompleteMultipartUpload(_ context.Context, _, _ string, parts []s3.CompletedPart) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completedWith = parts
	return nil
}

func (f *fakeStorage) AbortMultipartUpload(_ context.Context, _, uploadID string) error {
	f.aborted++
	f.abortedUpload = uploadID
	return f.abortErr
}

func (f *fakeStorage) ObjectURL(key string) string {
	return "https://bucket.example.com/" + key
}

type fakeVideoStore struct {
	marked *video.MarkUploadResultInput
	err    error
}

func (f *fakeVideoStore) MarkUploadResult(_ context.Context, input video.MarkUploadResultInput) error {
	if f.err != nil {
		return f.err
	}
	f.marked = &input
	return nil
}

func TestInitiateReturnsOrderedPartURLs(t *testing.T) {
	storage := &fakeStorage{}
	c := NewCoordinator(storage, &fakeVideoStore{}, time.Hour)

	session, err := c.Initiate(context.Background(), InitiateInput{
		Key:         "user/projects/demo-1234",
		ContentType: "video/mp4",
		PartCount:   5,
	})

	require.NoError(t, err)
	assert.Equal(t, "upload-123", session.UploadID)
	require.Len(t, session.Parts, 5)
	for i, part := range session.Parts {
		assert.Equal(t, i+1, part.PartNumber)
		assert.NotEmpty(t, part.SignedURL)
	}
}

func TestInitiateRejectsZeroParts(t *testing.T) {
	storage := &fakeStorage{}
	c := NewCoordinator(storage, &fakeVideoStore{}, time.Hour)

	_, err := c.Initiate(context.Background(), InitiateInput{Key: "k", ContentType: "video/mp4"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Zero(t, storage.initiated)
}

func TestInitiateProviderFailure(t *testing.T) {
	storage := &fakeStorage{initiateErr: errors.New("s3 unavailable")}
	c := NewCoordinator(storage, &fakeVideoStore{}, time.Hour)

	_, err := c.Initiate(context.Background(), InitiateInput{Key: "k", ContentType: "video/mp4", PartCount: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalProvider)
}

func TestInitiatePresignFailureAbortsSession(t *testing.T) {
	storage := &fakeStorage{presignErr: errors.New("presign failed")}
	c := NewCoordinator(storage, &fakeVideoStore{}, time.Hour)

	_, err := c.Initiate(context.Background(), InitiateInput{Key: "k", ContentType: "video/mp4", PartCount: 3})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalProvider)
	assert.Equal(t, 1, storage.aborted)
	assert.Equal(t, "upload-123", storage.abortedUpload)
}

func TestCompletePersistsURLAndStatus(t *testing.T) {
	storage := &fakeStorage{}
	videos := &fakeVideoStore{}
	c := NewCoordinator(storage, videos, time.Hour)
	videoID := uuid.New()

	url, err := c.Complete(context.Background(), CompleteInput{
		Key:      "user/projects/demo-1234",
		UploadID: "upload-123",
		Parts: []s3.CompletedPart{
			{PartNumber: 1, ETag: "etag-1"},
			{PartNumber: 2, ETag: "etag-2"},
		},
		VideoID: videoID,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/user/projects/demo-1234", url)
	require.NotNil(t, videos.marked)
	assert.Equal(t, videoID, videos.marked.VideoID)
	assert.Equal(t, video.UploadCompleted, videos.marked.UploadStatus)
	require.NotNil(t, videos.marked.URL)
	assert.Equal(t, url, *videos.marked.URL)
}

func TestCompleteProviderFailureLeavesVideoUntouched(t *testing.T) {
	storage := &fakeStorage{completeErr: errors.New("incomplete parts")}
	videos := &fakeVideoStore{}
	c := NewCoordinator(storage, videos, time.Hour)

	_, err := c.Complete(context.Background(), CompleteInput{
		Key:      "k",
		UploadID: "upload-123",
		Parts:    []s3.CompletedPart{{PartNumber: 1, ETag: "etag-1"}},
		VideoID:  uuid.New(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalProvider)
	assert.Nil(t, videos.marked)
}

func TestCompleteRejectsMissingETag(t *testing.T) {
	storage := &fakeStorage{}
	c := NewCoordinator(storage, &fakeVideoStore{}, time.Hour)

	_, err := c.Complete(context.Background(), CompleteInput{
		Key:      "k",
		UploadID: "upload-123",
		Parts:    []s3.CompletedPart{{PartNumber: 1}},
		VideoID:  uuid.New(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, storage.completedWith)
}

func TestAbortSurfacesProviderFailure(t *testing.T) {
	storage := &fakeStorage{abortErr: errors.New("no such upload")}
	c := NewCoordinator(storage, &fakeVideoStore{}, time.Hour)

	err := c.Abort(context.Background(), "k", "upload-123")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalProvider)
}
