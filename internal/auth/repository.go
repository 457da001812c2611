package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srithep/meeting-backend/internal/models"
)

const userColumns = `id, username, password_hash, name, surname, position, role, line_user_id, allowed_meeting_ids, created_at, updated_at`

// Repository handles the user lookups and inserts the auth flow needs.
// Full user management lives in the users package.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var allowed []byte
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Surname,
		&u.Position, &u.Role, &u.LineUserID, &allowed, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(allowed, &u.AllowedMeetingIDs); err != nil {
		return nil, fmt.Errorf("decode allowed_meeting_ids: %w", err)
	}
	if u.AllowedMeetingIDs == nil {
		u.AllowedMeetingIDs = []uuid.UUID{}
	}
	return &u, nil
}

// GetByUsername returns a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// CreateUser inserts a self-registered user (role USER, empty allow-list).
// A duplicate username surfaces as a unique-constraint violation.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash, name, surname, position string) (*models.User, error) {
	const q = `INSERT INTO users (username, password_hash, name, surname, position, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q,
		username, passwordHash, name, surname, position, string(models.RoleUser)))
}
