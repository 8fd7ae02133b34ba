package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated Google account. OAuth tokens are stored so the
// service can publish to the owner's channel on their behalf.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Image        string
	Role         string
	AccessToken  *string
	RefreshToken *string
	TokenExpiry  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasCredential reports whether the user has a usable platform token.
func (u *User) HasCredential() bool {
	return u.AccessToken != nil && *u.AccessToken != ""
}

type UpsertUserInput struct {
	Email        string
	Name         string
	Image        string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
}

type UpdateTokensInput struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
}
