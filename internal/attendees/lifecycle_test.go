package attendees

import (
	"testing"

	"github.com/google/uuid"

	"github.com/srithep/meeting-backend/internal/models"
)

func TestNewInviteInternal(t *testing.T) {
	meetingID, userID := uuid.New(), uuid.New()
	inv, err := NewInvite(meetingID, &userID, "Somchai J.", "Director")
	if err != nil {
		t.Fatalf("NewInvite: %v", err)
	}
	if inv.Status != models.AttendeePending {
		t.Errorf("internal invite status = %q, want PENDING", inv.Status)
	}
	if inv.UserID == nil || *inv.UserID != userID {
		t.Error("internal invite lost its user link")
	}
	if inv.Name != "Somchai J." || inv.Position != "Director" {
		t.Errorf("snapshot = (%q, %q), want request values", inv.Name, inv.Position)
	}
}

func TestNewInviteExternalDefaults(t *testing.T) {
	cases := []struct {
		name         string
		position     string
		wantPosition string
	}{
		{"empty position gets default", "", DefaultPosition},
		{"explicit position kept", "Guest Speaker", "Guest Speaker"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv, err := NewInvite(uuid.New(), nil, "Visitor", tc.position)
			if err != nil {
				t.Fatalf("NewInvite: %v", err)
			}
			if inv.Position != tc.wantPosition {
				t.Errorf("position = %q, want %q", inv.Position, tc.wantPosition)
			}
			if inv.Status != models.AttendeePending {
				t.Errorf("external invite status = %q, want PENDING", inv.Status)
			}
		})
	}
}

func TestNewInviteRequiresName(t *testing.T) {
	if _, err := NewInvite(uuid.New(), nil, "", "Guest"); err == nil {
		t.Error("external invite without name accepted")
	}
	userID := uuid.New()
	if _, err := NewInvite(uuid.New(), &userID, "", ""); err == nil {
		t.Error("internal invite without name accepted")
	}
}

func TestSelfRegistrationForcesAccepted(t *testing.T) {
	reg, err := NewSelfRegistration("Malee", "Nurse")
	if err != nil {
		t.Fatalf("NewSelfRegistration: %v", err)
	}
	if reg.Status != models.AttendeeAccepted {
		t.Errorf("self-registration status = %q, want ACCEPTED", reg.Status)
	}
}

func TestSelfRegistrationRequiresName(t *testing.T) {
	if _, err := NewSelfRegistration("", "Nurse"); err == nil {
		t.Error("self-registration without name accepted")
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "ACCEPTED", "DECLINED"} {
		if _, err := ParseStatus(raw); err != nil {
			t.Errorf("ParseStatus(%q) rejected a valid status: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "accepted", "MAYBE"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Errorf("ParseStatus(%q) accepted an invalid status", raw)
		}
	}
}

func TestLineUsername(t *testing.T) {
	if got := LineUsername("U1234"); got != "line_U1234" {
		t.Errorf("LineUsername = %q, want line_U1234", got)
	}
}
