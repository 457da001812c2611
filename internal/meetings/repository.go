package meetings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srithep/meeting-backend/internal/models"
)

const meetingColumns = `id, title, edition, date, time, location, status, budget, minutes_files, minutes_summary, created_at, updated_at`

// Repository handles meeting persistence. Agendas, attendees and documents
// reference meetings with ON DELETE CASCADE, so deleting a meeting removes
// the whole aggregate at the store level.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a meetings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMeeting(row pgx.Row) (*models.Meeting, error) {
	var m models.Meeting
	var files []byte
	err := row.Scan(&m.ID, &m.Title, &m.Edition, &m.Date, &m.Time, &m.Location,
		&m.Status, &m.Budget, &files, &m.MinutesSummary, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(files, &m.MinutesFiles); err != nil {
		return nil, fmt.Errorf("decode minutes_files: %w", err)
	}
	if m.MinutesFiles == nil {
		m.MinutesFiles = []models.FileRef{}
	}
	return &m, nil
}

// List returns all meetings, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Meeting, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// GetByID returns a meeting by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	return scanMeeting(r.pool.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id))
}

// Exists reports whether the meeting exists.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM meetings WHERE id = $1`, id).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Params holds the writable meeting fields.
type Params struct {
	Title          string
	Edition        string
	Date           string
	Time           string
	Location       string
	Status         models.MeetingStatus
	Budget         float64
	MinutesFiles   []models.FileRef
	MinutesSummary string
}

func encodeFiles(files []models.FileRef) ([]byte, error) {
	if files == nil {
		files = []models.FileRef{}
	}
	return json.Marshal(files)
}

// Create inserts a new meeting.
func (r *Repository) Create(ctx context.Context, p Params) (*models.Meeting, error) {
	files, err := encodeFiles(p.MinutesFiles)
	if err != nil {
		return nil, fmt.Errorf("encode minutes_files: %w", err)
	}
	const q = `INSERT INTO meetings (title, edition, date, time, location, status, budget, minutes_files, minutes_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + meetingColumns
	return scanMeeting(r.pool.QueryRow(ctx, q,
		p.Title, p.Edition, p.Date, p.Time, p.Location, string(p.Status), p.Budget, files, p.MinutesSummary))
}

// Update replaces all writable fields of a meeting.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p Params) (*models.Meeting, error) {
	files, err := encodeFiles(p.MinutesFiles)
	if err != nil {
		return nil, fmt.Errorf("encode minutes_files: %w", err)
	}
	const q = `UPDATE meetings SET title = $1, edition = $2, date = $3, time = $4, location = $5,
		status = $6, budget = $7, minutes_files = $8, minutes_summary = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING ` + meetingColumns
	return scanMeeting(r.pool.QueryRow(ctx, q,
		p.Title, p.Edition, p.Date, p.Time, p.Location, string(p.Status), p.Budget, files, p.MinutesSummary, id))
}

// Delete removes a meeting. Agendas, attendees and documents cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AllowedMeetingIDs returns the caller's allow-list. The meetings handler
// needs it to filter the list view for non-admins without depending on the
// users package.
func (r *Repository) AllowedMeetingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT allowed_meeting_ids FROM users WHERE id = $1`, userID).Scan(&raw)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode allowed_meeting_ids: %w", err)
	}
	return ids, nil
}
