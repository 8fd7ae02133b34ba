package member

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Member binds a person to a project with a role, a status, and a set of
// permission strings. UserID stays nil until the invitation is accepted;
// accepting is the only path that binds it.
type Member struct {
	ID               uuid.UUID
	ProjectID        uuid.UUID
	UserID           *uuid.UUID
	Email            string
	Role             Role
	Status           Status
	InviteCode       *string
	InviteCodeExpiry *time.Time
	Permissions      []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Role string

const (
	RoleYoutuber Role = "youtuber"
	RoleEditor   Role = "editor"

	errInvalidRoleFmt = "invalid role: %s"
)

func (r Role) Validate() error {
	switch r {
	case RoleYoutuber, RoleEditor:
		return nil
	default:
		return fmt.Errorf(errInvalidRoleFmt, r)
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// PendingInviteActive reports whether this row blocks a new invitation for
// the same email: pending and not yet expired. Expired pending invites may be
// superseded.
func (m *Member) PendingInviteActive(now time.Time) bool {
	return m.Status == StatusPending &&
		m.InviteCodeExpiry != nil &&
		m.InviteCodeExpiry.After(now)
}

type CreateInviteInput struct {
	ProjectID        uuid.UUID
	Email            string
	Role             Role
	InviteCode       string
	InviteCodeExpiry time.Time
	Permissions      []string
}

type AcceptInviteInput struct {
	ProjectID uuid.UUID
	Email     string
	Code      string
	UserID    uuid.UUID
	Now       time.Time
}

type UpdatePermissionsInput struct {
	ProjectID   uuid.UUID
	UserID      uuid.UUID
	Permissions []string
}
