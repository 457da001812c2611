package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is either targeted at one user or, with UserID nil, a
// broadcast visible to everyone. IsRead is a single shared flag per row;
// there is no per-recipient read state.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}
