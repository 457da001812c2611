package documents

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srithep/meeting-backend/internal/models"
)

// metaColumns omits file_data so listings never drag inline bytes out of
// the database.
const metaColumns = `id, meeting_id, name, url, mime_type, storage_key, file_data IS NOT NULL OR storage_key <> '' AS has_file, created_at`

// Repository handles document persistence. File bytes live either inline
// in file_data or in S3 under storage_key, never both.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a documents repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMeta(row pgx.Row) (*models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.MeetingID, &d.Name, &d.URL, &d.MimeType,
		&d.StorageKey, &d.HasFile, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns document metadata, optionally filtered by meeting.
func (r *Repository) List(ctx context.Context, meetingID *uuid.UUID) ([]models.Document, error) {
	q := `SELECT ` + metaColumns + ` FROM documents`
	args := []any{}
	if meetingID != nil {
		q += ` WHERE meeting_id = $1`
		args = append(args, *meetingID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Document
	for rows.Next() {
		d, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

// GetMeta returns a document without its inline bytes.
func (r *Repository) GetMeta(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return scanMeta(r.pool.QueryRow(ctx, `SELECT `+metaColumns+` FROM documents WHERE id = $1`, id))
}

// GetWithFile returns a document including inline bytes, for the download
// endpoint.
func (r *Repository) GetWithFile(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	const q = `SELECT id, meeting_id, name, url, mime_type, storage_key, file_data, created_at FROM documents WHERE id = $1`
	var d models.Document
	err := r.pool.QueryRow(ctx, q, id).Scan(&d.ID, &d.MeetingID, &d.Name, &d.URL,
		&d.MimeType, &d.StorageKey, &d.FileData, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.HasFile = len(d.FileData) > 0 || d.StorageKey != ""
	return &d, nil
}

// CreateParams holds fields for document creation. Exactly one of URL,
// FileData or StorageKey is set by the handler.
type CreateParams struct {
	MeetingID  uuid.UUID
	Name       string
	URL        string
	MimeType   string
	FileData   []byte
	StorageKey string
}

// Create inserts a document row. A missing meeting surfaces as a foreign
// key violation.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*models.Document, error) {
	const q = `INSERT INTO documents (meeting_id, name, url, mime_type, storage_key, file_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + metaColumns
	return scanMeta(r.pool.QueryRow(ctx, q,
		p.MeetingID, p.Name, p.URL, p.MimeType, p.StorageKey, p.FileData))
}

// Delete removes a document row and returns its storage key so the handler
// can clean up the S3 object afterwards.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var key string
	err := r.pool.QueryRow(ctx, `DELETE FROM documents WHERE id = $1 RETURNING storage_key`, id).Scan(&key)
	if err != nil {
		return "", err
	}
	return key, nil
}
