package postgres

import (
	"context"
	"fmt"
	"sort"

	"viewtuber/internal/domain/video"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, project_id, title, description, tags, category, privacy_status,
	default_language, made_for_kids, url, thumbnail, filename, is_approved,
	failure_reason, upload_status, publish_at, channel_id, created_at, updated_at`

// fieldColumns maps permission field names to video columns. Fields absent
// here can never reach an UPDATE, whatever the caller's grants say.
var fieldColumns = map[string]string{
	"title":           "title",
	"description":     "description",
	"tags":            "tags",
	"category":        "category",
	"privacyStatus":   "privacy_status",
	"defaultLanguage": "default_language",
	"thumbnail":       "thumbnail",
	"publishAt":       "publish_at",
}

func scanVideo(row pgx.Row) (*video.Video, error) {
	v := &video.Video{}
	err := row.Scan(
		&v.ID, &v.ProjectID, &v.Title, &v.Description, &v.Tags, &v.Category,
		&v.PrivacyStatus, &v.DefaultLanguage, &v.MadeForKids, &v.URL,
		&v.Thumbnail, &v.Filename, &v.IsApproved, &v.FailureReason,
		&v.UploadStatus, &v.PublishAt, &v.ChannelID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*video.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	v, err := scanVideo(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errVideoNotFound)
		}
		return nil, errFailedGetVideo(err)
	}

	return v, nil
}

// UpdateFields applies a permission-filtered field map in one statement.
// Unknown field names fail validation rather than being dropped, so a bad
// caller never half-applies an update.
func (r *VideoRepository) UpdateFields(ctx context.Context, videoID, projectID uuid.UUID, fields map[string]any) (*video.Video, error) {
	if len(fields) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := fieldColumns[name]; !ok {
			return nil, apperrors.Validation(fmt.Sprintf("unknown video field: %s", name))
		}
		names = append(names, name)
	}
	sort.Strings(names)

	query := "UPDATE videos SET updated_at = NOW()"
	args := []interface{}{videoID, projectID}
	argCount := 2

	for _, name := range names {
		argCount++
		query += fmt.Sprintf(", %s = $%d", fieldColumns[name], argCount)
		args = append(args, fields[name])
	}

	query += " WHERE id = $1 AND project_id = $2 RETURNING " + videoColumns

	v, err := scanVideo(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errVideoNotFound)
		}
		return nil, errFailedUpdateVideo(err)
	}

	return v, nil
}

func (r *VideoRepository) SetApproval(ctx context.Context, input video.SetApprovalInput) (*video.Video, error) {
	query := `
		UPDATE videos
		SET is_approved = $1, failure_reason = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + videoColumns

	v, err := scanVideo(r.db.Pool.QueryRow(ctx, query,
		input.IsApproved, input.FailureReason, input.VideoID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errVideoNotFound)
		}
		return nil, errFailedSetApproval(err)
	}

	return v, nil
}

func (r *VideoRepository) SetUploadStatus(ctx context.Context, videoID uuid.UUID, status video.UploadStatus) error {
	query := "UPDATE videos SET upload_status = $1, updated_at = NOW() WHERE id = $2"

	result, err := r.db.Pool.Exec(ctx, query, status, videoID)
	if err != nil {
		return errFailedUpdateVideo(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errVideoNotFound)
	}

	return nil
}

// MarkUploadResult records the terminal outcome of an upload or publish
// attempt: status plus whichever of url, channel id, and failure reason apply.
func (r *VideoRepository) MarkUploadResult(ctx context.Context, input video.MarkUploadResultInput) error {
	query := `
		UPDATE videos
		SET upload_status = $1,
		    url = COALESCE($2, url),
		    channel_id = COALESCE($3, channel_id),
		    failure_reason = $4,
		    updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.db.Pool.Exec(ctx, query,
		input.UploadStatus, input.URL, input.ChannelID, input.FailureReason, input.VideoID,
	)
	if err != nil {
		return errFailedMarkUploadResult(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errVideoNotFound)
	}

	return nil
}
