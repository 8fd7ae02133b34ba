package postgres

import (
	"context"

	"viewtuber/internal/domain/member"
	"viewtuber/internal/domain/project"
	"viewtuber/internal/domain/video"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
)

// CreateProjectTransaction inserts the project, its accepted owner member,
// and the pending source video in a single transaction. Either all three
// rows exist afterwards or none do.
func (db *DB) CreateProjectTransaction(ctx context.Context, input project.CreateProjectInput, ownerEmail string, fileName *string) (*project.Project, *member.Member, *video.Video, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	projectQuery := `
		INSERT INTO projects (id, owner_id, name, description, requirements, deadline, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projectColumns

	p, err := scanProject(tx.QueryRow(ctx, projectQuery,
		uuid.New(), input.OwnerID, input.Name, input.Description,
		input.Requirements, input.Deadline, input.StorageKey,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, nil, apperrors.Conflict("project with this name already exists")
		}
		return nil, nil, nil, errFailedCreateProject(err)
	}

	memberQuery := `
		INSERT INTO members (id, project_id, user_id, email, role, status, permissions)
		VALUES ($1, $2, $3, $4, 'youtuber', 'accepted', ARRAY['all'])
		RETURNING ` + memberColumns

	m, err := scanMember(tx.QueryRow(ctx, memberQuery,
		uuid.New(), p.ID, input.OwnerID, ownerEmail,
	))
	if err != nil {
		return nil, nil, nil, errFailedAddOwner(err)
	}

	videoQuery := `
		INSERT INTO videos (id, project_id, title, filename, upload_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + videoColumns

	v, err := scanVideo(tx.QueryRow(ctx, videoQuery,
		uuid.New(), p.ID, input.Name, fileName, video.UploadPending,
	))
	if err != nil {
		return nil, nil, nil, errFailedCreateVideo(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, nil, errFailedCommitTransaction(err)
	}

	return p, m, v, nil
}
