package repository

import (
	"context"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, verified, role,
	verification_token, reset_token, reset_token_expires, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Verified,
		&u.Role,
		&u.VerificationToken,
		&u.ResetToken,
		&u.ResetTokenExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return model.User{}, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`
	return scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1`
	return scanUser(r.db.QueryRow(ctx, query, token))
}

// Create inserts the user, assigning ID and timestamps. A duplicate email is
// reported as ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (id, name, email, password_hash, verified, role, verification_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Verified,
		user.Role,
		user.VerificationToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, mapError(err)
	}
	return user, nil
}

// MarkVerified sets verified and clears the verification token.
func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	const query = `
		UPDATE users
		SET verified = TRUE, verification_token = NULL, updated_at = now()
		WHERE id = $1`
	return expectAffected(r.db.Exec(ctx, query, id))
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, token string) error {
	const query = `UPDATE users SET verification_token = $1, updated_at = now() WHERE id = $2`
	return expectAffected(r.db.Exec(ctx, query, token, id))
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	const query = `
		UPDATE users
		SET reset_token = $1, reset_token_expires = $2, updated_at = now()
		WHERE id = $3`
	return expectAffected(r.db.Exec(ctx, query, token, expires, id))
}

// UpdatePassword stores a new hash and clears any pending reset token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL, updated_at = now()
		WHERE id = $2`
	return expectAffected(r.db.Exec(ctx, query, passwordHash, id))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name string) (model.User, error) {
	query := `UPDATE users SET name = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, name, id))
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	query := `UPDATE users SET role = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, role, id))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}
