package notifications

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srithep/meeting-backend/internal/models"
)

const notificationColumns = `id, user_id, title, message, type, is_read, created_at`

// Repository handles notification persistence. A null user_id marks a
// broadcast visible to everyone.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notifications repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns broadcasts plus the given user's targeted notifications,
// newest first. With no user filter every row is returned.
func (r *Repository) List(ctx context.Context, userID *uuid.UUID) ([]models.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications`
	args := []any{}
	if userID != nil {
		q += ` WHERE user_id IS NULL OR user_id = $1`
		args = append(args, *userID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

// Create inserts a notification. userID nil produces a broadcast.
func (r *Repository) Create(ctx context.Context, userID *uuid.UUID, title, message, notifType string) (*models.Notification, error) {
	const q = `INSERT INTO notifications (user_id, title, message, type)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns
	return scanNotification(r.pool.QueryRow(ctx, q, userID, title, message, notifType))
}

// MarkRead flips the shared read flag of a notification.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING ` + notificationColumns
	return scanNotification(r.pool.QueryRow(ctx, q, id))
}

// Delete removes a notification.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
