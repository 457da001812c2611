package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user role in the system.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a system user. AllowedMeetingIDs is the explicit
// allow-list that drives meeting visibility for non-admins.
type User struct {
	ID                uuid.UUID   `json:"id"`
	Username          string      `json:"username"`
	PasswordHash      string      `json:"-"`
	Name              string      `json:"name"`
	Surname           string      `json:"surname"`
	Position          string      `json:"position"`
	Role              Role        `json:"role"`
	LineUserID        *string     `json:"lineUserId,omitempty"`
	AllowedMeetingIDs []uuid.UUID `json:"allowedMeetingIds"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}
