package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is a file attached to a meeting. Exactly one storage mode is used
// per row: an external URL, inline bytes in the database, or an S3 object
// referenced by StorageKey. Inline bytes and the S3 key are never exposed in
// list responses; downloads go through the download endpoint.
type Document struct {
	ID         uuid.UUID `json:"id"`
	MeetingID  uuid.UUID `json:"meetingId"`
	Name       string    `json:"name"`
	URL        string    `json:"url,omitempty"`
	MimeType   string    `json:"mimeType,omitempty"`
	StorageKey string    `json:"-"`
	FileData   []byte    `json:"-"`
	HasFile    bool      `json:"hasFile"`
	CreatedAt  time.Time `json:"createdAt"`
}
