package project

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Name          string
	Description   *string
	Requirements  *string
	Deadline      *time.Time
	StorageKey    *string
	EditedVideoID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateProjectInput struct {
	OwnerID      uuid.UUID
	Name         string
	Description  *string
	Requirements *string
	Deadline     *time.Time
	StorageKey   *string
}

// UpdateProjectInput carries owner-editable fields; nil means unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}
