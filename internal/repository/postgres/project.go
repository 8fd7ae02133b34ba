package postgres

import (
	"context"
	"fmt"

	"viewtuber/internal/domain/project"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, owner_id, name, description, requirements, deadline, storage_key, edited_video_id, created_at, updated_at`

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Requirements,
		&p.Deadline, &p.StorageKey, &p.EditedVideoID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error) {
	query := `
		INSERT INTO projects (id, owner_id, name, description, requirements, deadline, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projectColumns

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.OwnerID, input.Name, input.Description,
		input.Requirements, input.Deadline, input.StorageKey,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("project with this name already exists")
		}
		return nil, errFailedCreateProject(err)
	}

	return p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedGetProject(err)
	}

	return p, nil
}

// GetByUserID lists projects where the user is an accepted member, owned
// projects included.
func (r *ProjectRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*project.Project, error) {
	query := `
		SELECT p.id, p.owner_id, p.name, p.description, p.requirements, p.deadline,
		       p.storage_key, p.edited_video_id, p.created_at, p.updated_at
		FROM projects p
		INNER JOIN members m ON m.project_id = p.id
		WHERE m.user_id = $1 AND m.status = 'accepted'
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errFailedListProjects(err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errFailedScanProject(err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, input project.UpdateProjectInput) error {
	query := "UPDATE projects SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	if input.Name != nil {
		argCount++
		query += fmt.Sprintf(", name = $%d", argCount)
		args = append(args, *input.Name)
	}

	if input.Description != nil {
		argCount++
		query += fmt.Sprintf(", description = $%d", argCount)
		args = append(args, *input.Description)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("project with this name already exists")
		}
		return errFailedUpdateProject(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}

// Delete removes the project; members and videos cascade at the schema level.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM projects WHERE id = $1"
	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedDeleteProject(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}

func (r *ProjectRepository) SetEditedVideo(ctx context.Context, projectID, videoID uuid.UUID) error {
	query := "UPDATE projects SET edited_video_id = $1, updated_at = NOW() WHERE id = $2"
	result, err := r.db.Pool.Exec(ctx, query, videoID, projectID)
	if err != nil {
		return errFailedSetEditedVideo(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}
