package models

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus is manually set by an admin, never derived from the date.
type MeetingStatus string

const (
	MeetingUpcoming  MeetingStatus = "UPCOMING"
	MeetingCompleted MeetingStatus = "COMPLETED"
)

// Valid reports whether the status is one of the known values.
func (s MeetingStatus) Valid() bool {
	return s == MeetingUpcoming || s == MeetingCompleted
}

// FileRef is a named file reference (agenda attachments, minutes files).
type FileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Meeting is the aggregate root: agendas, attendees and documents hang off it
// and are removed with it.
type Meeting struct {
	ID             uuid.UUID     `json:"id"`
	Title          string        `json:"title"`
	Edition        string        `json:"edition"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Location       string        `json:"location"`
	Status         MeetingStatus `json:"status"`
	Budget         float64       `json:"budget"`
	MinutesFiles   []FileRef     `json:"minutesFiles"`
	MinutesSummary string        `json:"minutesSummary,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
