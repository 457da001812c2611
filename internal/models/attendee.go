package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendeeStatus is the invitation response state.
type AttendeeStatus string

const (
	AttendeePending  AttendeeStatus = "PENDING"
	AttendeeAccepted AttendeeStatus = "ACCEPTED"
	AttendeeDeclined AttendeeStatus = "DECLINED"
)

// Valid reports whether the status is one of the known values.
func (s AttendeeStatus) Valid() bool {
	return s == AttendeePending || s == AttendeeAccepted || s == AttendeeDeclined
}

// Attendee is a per-meeting invitation/response record. UserID is set for
// internal invitees and LINE self-registrations; external invitees carry only
// a free-text name and position. Name and position are snapshots taken at
// invite time, not a live join against the user row.
type Attendee struct {
	ID        uuid.UUID      `json:"id"`
	MeetingID uuid.UUID      `json:"meetingId"`
	UserID    *uuid.UUID     `json:"userId,omitempty"`
	Name      string         `json:"name"`
	Position  string         `json:"position"`
	Status    AttendeeStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
