// Package access holds the allow-list evaluation rules for meeting
// visibility. The functions are pure: they never touch the store, so the
// callers decide when a changed allow-list is persisted.
package access

import (
	"github.com/google/uuid"

	"github.com/srithep/meeting-backend/internal/models"
)

// VisibleMeetings returns the meetings the user may see. Admins see
// everything; everyone else sees exactly the meetings on their allow-list.
// Being an attendee of a meeting grants nothing by itself.
func VisibleMeetings(user *models.User, meetings []models.Meeting) []models.Meeting {
	if user.Role == models.RoleAdmin {
		return meetings
	}
	allowed := make(map[uuid.UUID]struct{}, len(user.AllowedMeetingIDs))
	for _, id := range user.AllowedMeetingIDs {
		allowed[id] = struct{}{}
	}
	visible := make([]models.Meeting, 0, len(allowed))
	for _, m := range meetings {
		if _, ok := allowed[m.ID]; ok {
			visible = append(visible, m)
		}
	}
	return visible
}

// Toggle returns the allow-list with id added if absent or removed if
// present. Applying it twice returns the original set.
func Toggle(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids)+1)
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// GrantAll returns an allow-list containing every current meeting id.
func GrantAll(meetings []models.Meeting) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
	}
	return ids
}

// RevokeAll returns the empty allow-list.
func RevokeAll() []uuid.UUID {
	return []uuid.UUID{}
}
