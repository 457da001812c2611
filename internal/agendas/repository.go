package agendas

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srithep/meeting-backend/internal/models"
)

const agendaColumns = `id, meeting_id, title, description, "order", is_important, files, created_at`

// Repository handles agenda item persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an agendas repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAgenda(row pgx.Row) (*models.AgendaItem, error) {
	var a models.AgendaItem
	var files []byte
	err := row.Scan(&a.ID, &a.MeetingID, &a.Title, &a.Description, &a.Order,
		&a.IsImportant, &files, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(files, &a.Files); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	if a.Files == nil {
		a.Files = []models.FileRef{}
	}
	return &a, nil
}

// List returns agenda items ordered by "order", with insertion order as the
// tiebreak so equal-order items keep a stable position.
func (r *Repository) List(ctx context.Context, meetingID *uuid.UUID) ([]models.AgendaItem, error) {
	q := `SELECT ` + agendaColumns + ` FROM agendas`
	args := []any{}
	if meetingID != nil {
		q += ` WHERE meeting_id = $1`
		args = append(args, *meetingID)
	}
	q += ` ORDER BY "order" ASC, created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AgendaItem
	for rows.Next() {
		a, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// Params holds the writable agenda fields.
type Params struct {
	MeetingID   uuid.UUID
	Title       string
	Description string
	Order       int
	IsImportant bool
	Files       []models.FileRef
}

// Create inserts an agenda item. A missing meeting surfaces as a foreign
// key violation.
func (r *Repository) Create(ctx context.Context, p Params) (*models.AgendaItem, error) {
	if p.Files == nil {
		p.Files = []models.FileRef{}
	}
	files, err := json.Marshal(p.Files)
	if err != nil {
		return nil, fmt.Errorf("encode files: %w", err)
	}
	const q = `INSERT INTO agendas (meeting_id, title, description, "order", is_important, files)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + agendaColumns
	return scanAgenda(r.pool.QueryRow(ctx, q,
		p.MeetingID, p.Title, p.Description, p.Order, p.IsImportant, files))
}

// Update replaces all writable fields of an agenda item except its meeting.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p Params) (*models.AgendaItem, error) {
	if p.Files == nil {
		p.Files = []models.FileRef{}
	}
	files, err := json.Marshal(p.Files)
	if err != nil {
		return nil, fmt.Errorf("encode files: %w", err)
	}
	const q = `UPDATE agendas SET title = $1, description = $2, "order" = $3,
		is_important = $4, files = $5
		WHERE id = $6
		RETURNING ` + agendaColumns
	return scanAgenda(r.pool.QueryRow(ctx, q,
		p.Title, p.Description, p.Order, p.IsImportant, files, id))
}

// Delete removes an agenda item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agendas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
