package postgres

import (
	"context"

	"viewtuber/internal/domain/member"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MemberRepository struct {
	db *DB
}

func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `id, project_id, user_id, email, role, status, invite_code, invite_code_expiry, permissions, created_at, updated_at`

func scanMember(row pgx.Row) (*member.Member, error) {
	m := &member.Member{}
	err := row.Scan(
		&m.ID, &m.ProjectID, &m.UserID, &m.Email, &m.Role, &m.Status,
		&m.InviteCode, &m.InviteCodeExpiry, &m.Permissions,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MemberRepository) CreateInvite(ctx context.Context, input member.CreateInviteInput) (*member.Member, error) {
	query := `
		INSERT INTO members (id, project_id, email, role, status, invite_code, invite_code_expiry, permissions)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7)
		RETURNING ` + memberColumns

	m, err := scanMember(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.ProjectID, input.Email, input.Role,
		input.InviteCode, input.InviteCodeExpiry, input.Permissions,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("an invitation for this email already exists")
		}
		return nil, errFailedCreateInvite(err)
	}

	return m, nil
}

// SupersedeInvite replaces an expired pending invite in place with a fresh
// code, expiry, role, and permission set. Only pending rows are eligible.
func (r *MemberRepository) SupersedeInvite(ctx context.Context, input member.CreateInviteInput) (*member.Member, error) {
	query := `
		UPDATE members
		SET role = $1, invite_code = $2, invite_code_expiry = $3, permissions = $4, updated_at = NOW()
		WHERE project_id = $5 AND email = $6 AND status = 'pending'
		RETURNING ` + memberColumns

	m, err := scanMember(r.db.Pool.QueryRow(ctx, query,
		input.Role, input.InviteCode, input.InviteCodeExpiry, input.Permissions,
		input.ProjectID, input.Email,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errMemberNotFound)
		}
		return nil, errFailedSupersedeInvite(err)
	}

	return m, nil
}

func (r *MemberRepository) GetByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE project_id = $1 AND email = $2`

	m, err := scanMember(r.db.Pool.QueryRow(ctx, query, projectID, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errMemberNotFound)
		}
		return nil, errFailedGetMember(err)
	}

	return m, nil
}

// GetAccepted returns the accepted member row binding a user to a project.
func (r *MemberRepository) GetAccepted(ctx context.Context, projectID, userID uuid.UUID) (*member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE project_id = $1 AND user_id = $2 AND status = 'accepted'`

	m, err := scanMember(r.db.Pool.QueryRow(ctx, query, projectID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errMemberNotFound)
		}
		return nil, errFailedGetMember(err)
	}

	return m, nil
}

func (r *MemberRepository) GetMembers(ctx context.Context, projectID uuid.UUID) ([]*member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, errFailedListMembers(err)
	}
	defer rows.Close()

	var members []*member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, errFailedScanMember(err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// AcceptInvite transitions a matching pending, unexpired invite to accepted
// and binds the user. The compound filter makes replay and expired codes miss;
// a miss surfaces as not found.
func (r *MemberRepository) AcceptInvite(ctx context.Context, input member.AcceptInviteInput) (*member.Member, error) {
	query := `
		UPDATE members
		SET status = 'accepted', user_id = $1, updated_at = NOW()
		WHERE project_id = $2 AND email = $3 AND invite_code = $4
		  AND status = 'pending' AND invite_code_expiry > $5
		RETURNING ` + memberColumns

	m, err := scanMember(r.db.Pool.QueryRow(ctx, query,
		input.UserID, input.ProjectID, input.Email, input.Code, input.Now,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errMemberNotFound)
		}
		return nil, errFailedAcceptInvite(err)
	}

	return m, nil
}

// UpdatePermissions replaces an accepted editor's grant list.
func (r *MemberRepository) UpdatePermissions(ctx context.Context, input member.UpdatePermissionsInput) error {
	query := `
		UPDATE members
		SET permissions = $1, updated_at = NOW()
		WHERE project_id = $2 AND user_id = $3 AND status = 'accepted'
	`

	result, err := r.db.Pool.Exec(ctx, query, input.Permissions, input.ProjectID, input.UserID)
	if err != nil {
		return errFailedUpdateGrants(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errMemberNotFound)
	}

	return nil
}
