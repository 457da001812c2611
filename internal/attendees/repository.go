package attendees

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srithep/meeting-backend/internal/models"
)

const attendeeColumns = `id, meeting_id, user_id, name, position, status, created_at, updated_at`

// Repository handles attendee persistence. The partial unique index on
// (meeting_id, user_id) enforces at most one row per linked user per
// meeting; rows with a null user_id (external invites) are exempt.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendees repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAttendee(row pgx.Row) (*models.Attendee, error) {
	var a models.Attendee
	err := row.Scan(&a.ID, &a.MeetingID, &a.UserID, &a.Name, &a.Position,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns attendees, optionally filtered by meeting, in insertion order.
func (r *Repository) List(ctx context.Context, meetingID *uuid.UUID) ([]models.Attendee, error) {
	q := `SELECT ` + attendeeColumns + ` FROM attendees`
	args := []any{}
	if meetingID != nil {
		q += ` WHERE meeting_id = $1`
		args = append(args, *meetingID)
	}
	q += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// GetByID returns an attendee by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Attendee, error) {
	return scanAttendee(r.pool.QueryRow(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE id = $1`, id))
}

// GetByMeetingAndUser returns the attendee row linking a user to a meeting.
func (r *Repository) GetByMeetingAndUser(ctx context.Context, meetingID, userID uuid.UUID) (*models.Attendee, error) {
	const q = `SELECT ` + attendeeColumns + ` FROM attendees WHERE meeting_id = $1 AND user_id = $2`
	return scanAttendee(r.pool.QueryRow(ctx, q, meetingID, userID))
}

// Create inserts an attendee row. A duplicate (meeting_id, user_id) pair
// surfaces as a unique-constraint violation from the partial index, so the
// check and the insert cannot race.
func (r *Repository) Create(ctx context.Context, meetingID uuid.UUID, userID *uuid.UUID, name, position string, status models.AttendeeStatus) (*models.Attendee, error) {
	const q = `INSERT INTO attendees (meeting_id, user_id, name, position, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attendeeColumns
	return scanAttendee(r.pool.QueryRow(ctx, q, meetingID, userID, name, position, string(status)))
}

// UpdateStatus sets the RSVP status of an attendee.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttendeeStatus) (*models.Attendee, error) {
	const q = `UPDATE attendees SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + attendeeColumns
	return scanAttendee(r.pool.QueryRow(ctx, q, string(status), id))
}

// UpdateRegistration refreshes the snapshot name/position and status of an
// existing row, used when a linked user re-registers.
func (r *Repository) UpdateRegistration(ctx context.Context, id uuid.UUID, name, position string, status models.AttendeeStatus) (*models.Attendee, error) {
	const q = `UPDATE attendees SET name = $1, position = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + attendeeColumns
	return scanAttendee(r.pool.QueryRow(ctx, q, name, position, string(status), id))
}

// Delete removes an attendee row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
