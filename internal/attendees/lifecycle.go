package attendees

import (
	"errors"

	"github.com/google/uuid"

	"github.com/srithep/meeting-backend/internal/models"
)

// DefaultPosition is the label given to external invitees who come without
// a position of their own.
const DefaultPosition = "Attendee"

var (
	errNameRequired   = errors.New("name is required")
	errStatusRequired = errors.New("invalid status")
)

// Invite describes a resolved invitation: either internal (UserID set, name
// and position snapshotted from the linked user at invite time) or external
// (UserID nil).
type Invite struct {
	MeetingID uuid.UUID
	UserID    *uuid.UUID
	Name      string
	Position  string
	Status    models.AttendeeStatus
}

// NewInvite validates an invitation request and fills in the lifecycle
// defaults: status starts PENDING, external invitees get DefaultPosition
// when none is given. The name and position are stored as a snapshot; later
// edits to the linked user do not flow back into the attendee row.
func NewInvite(meetingID uuid.UUID, userID *uuid.UUID, name, position string) (Invite, error) {
	if name == "" {
		return Invite{}, errNameRequired
	}
	if userID == nil && position == "" {
		position = DefaultPosition
	}
	return Invite{
		MeetingID: meetingID,
		UserID:    userID,
		Name:      name,
		Position:  position,
		Status:    models.AttendeePending,
	}, nil
}

// SelfRegistration is the outcome of a chat-platform self-registration.
// Whether the attendee row is inserted or refreshed, the status is forced
// to ACCEPTED: walking through the registration flow is itself the
// acceptance.
type SelfRegistration struct {
	Name     string
	Position string
	Status   models.AttendeeStatus
}

// NewSelfRegistration validates a self-registration and forces ACCEPTED.
// It applies equally to first-time registration and resubmission, so a
// prior DECLINED is overwritten.
func NewSelfRegistration(name, position string) (SelfRegistration, error) {
	if name == "" {
		return SelfRegistration{}, errNameRequired
	}
	return SelfRegistration{
		Name:     name,
		Position: position,
		Status:   models.AttendeeAccepted,
	}, nil
}

// ParseStatus validates an RSVP status value from a request body.
func ParseStatus(raw string) (models.AttendeeStatus, error) {
	s := models.AttendeeStatus(raw)
	if !s.Valid() {
		return "", errStatusRequired
	}
	return s, nil
}

// LineUsername derives the synthetic account username for a LINE identity.
func LineUsername(lineUserID string) string {
	return "line_" + lineUserID
}
