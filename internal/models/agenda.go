package models

import (
	"time"

	"github.com/google/uuid"
)

// AgendaItem belongs to exactly one meeting. Order defines display sequence;
// it is not unique, ties fall back to insertion order.
type AgendaItem struct {
	ID          uuid.UUID `json:"id"`
	MeetingID   uuid.UUID `json:"meetingId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	IsImportant bool      `json:"isImportant"`
	Files       []FileRef `json:"files"`
	CreatedAt   time.Time `json:"createdAt"`
}
