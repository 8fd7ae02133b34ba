package postgres

import (
	"context"

	"viewtuber/internal/domain/user"
	apperrors "viewtuber/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, image, role, access_token, refresh_token, token_expiry, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Image, &u.Role,
		&u.AccessToken, &u.RefreshToken, &u.TokenExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertByEmail creates the user on first login and refreshes the stored
// OAuth tokens on every subsequent login.
func (r *UserRepository) UpsertByEmail(ctx context.Context, input user.UpsertUserInput) (*user.User, error) {
	query := `
		INSERT INTO users (id, email, name, image, access_token, refresh_token, token_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expiry = EXCLUDED.token_expiry,
			updated_at = NOW()
		RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query,
		uuid.New(), input.Email, input.Name, input.Image,
		input.AccessToken, input.RefreshToken, input.TokenExpiry,
	))
	if err != nil {
		return nil, errFailedUpsertUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

// UpdateTokens persists a rotated OAuth credential after a refresh.
func (r *UserRepository) UpdateTokens(ctx context.Context, input user.UpdateTokensInput) error {
	query := `
		UPDATE users
		SET access_token = $1, refresh_token = $2, token_expiry = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.Pool.Exec(ctx, query,
		input.AccessToken, input.RefreshToken, input.TokenExpiry, input.UserID,
	)
	if err != nil {
		return errFailedUpdateTokens(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}
