package users

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

// Repository handles user persistence, including the per-user meeting
// allow-list stored as a jsonb array of meeting ids.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
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

// List returns all users ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, surname, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByUsername returns a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// GetByLineUserID returns the user linked to a LINE identity.
func (r *Repository) GetByLineUserID(ctx context.Context, lineUserID string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE line_user_id = $1`, lineUserID))
}

// CreateParams holds fields for user creation.
type CreateParams struct {
	Username     string
	PasswordHash string
	Name         string
	Surname      string
	Position     string
	Role         models.Role
	LineUserID   *string
}

// Create inserts a new user with an empty allow-list. A duplicate username
// surfaces as a unique-constraint violation.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*models.User, error) {
	const q = `INSERT INTO users (username, password_hash, name, surname, position, role, line_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q,
		p.Username, p.PasswordHash, p.Name, p.Surname, p.Position, string(p.Role), p.LineUserID))
}

// LinkLineIdentity attaches a LINE identity to the user holding username.
// Self-registration owns the synthetic line_<id> username namespace, so a
// pre-existing row with that username and no LINE link is adopted rather
// than treated as a collision.
func (r *Repository) LinkLineIdentity(ctx context.Context, username, lineUserID string) (*models.User, error) {
	const q = `UPDATE users SET line_user_id = $1, updated_at = NOW() WHERE username = $2 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, lineUserID, username))
}

// UpdateParams holds fields for a full user update. PasswordHash is applied
// only when non-nil; LineUserID is applied (set or cleared) only when
// SetLineUserID is true.
type UpdateParams struct {
	Username      string
	Name          string
	Surname       string
	Position      string
	Role          models.Role
	PasswordHash  *string
	LineUserID    *string
	SetLineUserID bool
}

// Update applies an admin edit and returns the updated user.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.User, error) {
	q := `UPDATE users SET username = $1, name = $2, surname = $3, position = $4, role = $5, updated_at = NOW()`
	args := []interface{}{p.Username, p.Name, p.Surname, p.Position, string(p.Role)}
	idx := 6
	if p.PasswordHash != nil {
		q += fmt.Sprintf(", password_hash = $%d", idx)
		args = append(args, *p.PasswordHash)
		idx++
	}
	if p.SetLineUserID {
		q += fmt.Sprintf(", line_user_id = $%d", idx)
		args = append(args, p.LineUserID)
		idx++
	}
	q += fmt.Sprintf(" WHERE id = $%d RETURNING %s", idx, userColumns)
	args = append(args, id)
	return scanUser(r.pool.QueryRow(ctx, q, args...))
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetAllowedMeetingIDs replaces the allow-list and returns the updated user.
// The write is immediate; the next visibility read reflects it.
func (r *Repository) SetAllowedMeetingIDs(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*models.User, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	body, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode allowed_meeting_ids: %w", err)
	}
	const q = `UPDATE users SET allowed_meeting_ids = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, body, id))
}
