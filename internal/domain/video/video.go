package video

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	Title           string
	Description     *string
	Tags            []string
	Category        *string
	PrivacyStatus   *string
	DefaultLanguage *string
	MadeForKids     bool
	URL             *string
	Thumbnail       *string
	Filename        *string
	IsApproved      bool
	FailureReason   *string
	UploadStatus    UploadStatus
	PublishAt       *time.Time
	ChannelID       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UploadStatus is the persisted projection of the upload session phase.
// pending -> uploading -> completed, with uploading -> failed on error.
// Nothing leaves completed or failed.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadCompleted UploadStatus = "completed"
	UploadFailed    UploadStatus = "failed"

	errInvalidUploadStatusFmt = "invalid upload status: %s"
)

func (s UploadStatus) Validate() error {
	switch s {
	case UploadPending, UploadUploading, UploadCompleted, UploadFailed:
		return nil
	default:
		return fmt.Errorf(errInvalidUploadStatusFmt, s)
	}
}

// EditableFields names the video columns an editor may touch through the
// permission-filtered update path. Keys match the permission field names.
var EditableFields = map[string]struct{}{
	"title":           {},
	"description":     {},
	"tags":            {},
	"category":        {},
	"privacyStatus":   {},
	"defaultLanguage": {},
	"thumbnail":       {},
	"publishAt":       {},
}

type SetApprovalInput struct {
	VideoID       uuid.UUID
	IsApproved    bool
	FailureReason *string
}

// MarkUploadResultInput records the outcome of a publish or upload attempt.
type MarkUploadResultInput struct {
	VideoID       uuid.UUID
	UploadStatus  UploadStatus
	URL           *string
	ChannelID     *string
	FailureReason *string
}
