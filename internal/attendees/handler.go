package attendees

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/auth"
	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/internal/realtime"
	"github.com/srithep/meeting-backend/internal/users"
	"github.com/srithep/meeting-backend/pkg/response"
)

// Store is the attendee persistence surface. *Repository implements it.
type Store interface {
	List(ctx context.Context, meetingID *uuid.UUID) ([]models.Attendee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attendee, error)
	GetByMeetingAndUser(ctx context.Context, meetingID, userID uuid.UUID) (*models.Attendee, error)
	Create(ctx context.Context, meetingID uuid.UUID, userID *uuid.UUID, name, position string, status models.AttendeeStatus) (*models.Attendee, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttendeeStatus) (*models.Attendee, error)
	UpdateRegistration(ctx context.Context, id uuid.UUID, name, position string, status models.AttendeeStatus) (*models.Attendee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore is the slice of the users repository the LIFF flow needs.
// *users.Repository implements it.
type UserStore interface {
	GetByLineUserID(ctx context.Context, lineUserID string) (*models.User, error)
	Create(ctx context.Context, p users.CreateParams) (*models.User, error)
	LinkLineIdentity(ctx context.Context, username, lineUserID string) (*models.User, error)
}

// MeetingStore is the meeting lookup surface for the public endpoints.
// *meetings.Repository implements it.
type MeetingStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
}

// CreateRequest is the body for POST /attendees. A present userId makes
// this an internal invite; name and position are stored as an invite-time
// snapshot either way.
type CreateRequest struct {
	MeetingID uuid.UUID  `json:"meetingId" binding:"required"`
	UserID    *uuid.UUID `json:"userId"`
	Name      string     `json:"name" binding:"required"`
	Position  string     `json:"position"`
}

// StatusRequest is the body for PATCH /attendees/:id/status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LineRegisterRequest is the body for POST /attendees/line, sent by the
// LIFF mini-app after the LINE profile is read client-side.
type LineRegisterRequest struct {
	MeetingID  string `json:"meetingId" binding:"required"`
	LineUserID string `json:"lineUserId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Position   string `json:"position"`
	PictureURL string `json:"pictureUrl"`
}

// LineRegisterResponse acknowledges a LIFF registration.
type LineRegisterResponse struct {
	Success bool      `json:"success"`
	UserID  uuid.UUID `json:"userId"`
}

// PublicMeetingResponse is the unauthenticated RSVP page payload.
type PublicMeetingResponse struct {
	Meeting   *models.Meeting   `json:"meeting"`
	Attendees []models.Attendee `json:"attendees"`
}

// Handler handles attendee HTTP endpoints, including the public RSVP and
// LIFF surfaces.
type Handler struct {
	repo        Store
	userRepo    UserStore
	meetingRepo MeetingStore
	hub         *realtime.Hub
	logger      *zap.Logger
}

// NewHandler creates an attendees handler. hub may be nil in tests.
func NewHandler(repo Store, userRepo UserStore, meetingRepo MeetingStore, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, userRepo: userRepo, meetingRepo: meetingRepo, hub: hub, logger: logger}
}

func (h *Handler) broadcast(meetingID uuid.UUID, payload interface{}) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastToMeetingAndPublish(meetingID, realtime.EventAttendeeUpdate, payload)
}

// List handles GET /attendees with an optional meetingId filter.
func (h *Handler) List(c *gin.Context) {
	var meetingID *uuid.UUID
	if raw := c.Query("meetingId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid meetingId")
			return
		}
		meetingID = &id
	}
	list, err := h.repo.List(c.Request.Context(), meetingID)
	if err != nil {
		response.Internal(c, err.Error())
		return
	}
	if list == nil {
		list = []models.Attendee{}
	}
	response.OK(c, list)
}

// Create handles POST /attendees. An internal invite for a user already on
// the meeting hits the partial unique index and comes back as 409.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	inv, err := NewInvite(req.MeetingID, req.UserID, req.Name, req.Position)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.repo.Create(c.Request.Context(), inv.MeetingID, inv.UserID, inv.Name, inv.Position, inv.Status)
	if err != nil {
		if response.IsForeignKey(err) {
			response.NotFound(c, "meeting not found")
			return
		}
		response.StoreError(c, err, "meeting not found", "user is already an attendee of this meeting")
		return
	}
	h.broadcast(a.MeetingID, a)
	response.Created(c, a)
}

// UpdateStatus handles PATCH /attendees/:id/status. The route is reachable
// without a token so the public RSVP page can use it.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attendee id")
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.repo.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.StoreError(c, err, "attendee not found", "")
		return
	}
	h.broadcast(a.MeetingID, a)
	response.OK(c, a)
}

// Delete handles DELETE /attendees/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid attendee id")
		return
	}
	a, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "attendee not found", "")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.StoreError(c, err, "attendee not found", "")
		return
	}
	h.broadcast(a.MeetingID, gin.H{"id": a.ID, "meetingId": a.MeetingID, "deleted": true})
	response.NoContent(c)
}

// LineRegister handles POST /attendees/line: resolve or create the user
// behind the LINE identity, then register them for the meeting with status
// forced to ACCEPTED. Resubmitting refreshes the snapshot and re-forces
// ACCEPTED, overwriting an earlier decline.
func (h *Handler) LineRegister(c *gin.Context) {
	var req LineRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	meetingID, err := uuid.Parse(req.MeetingID)
	if err != nil {
		response.BadRequest(c, "invalid meeting id format")
		return
	}
	reg, err := NewSelfRegistration(req.Name, req.Position)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	exists, err := h.meetingRepo.Exists(ctx, meetingID)
	if err != nil {
		response.Internal(c, err.Error())
		return
	}
	if !exists {
		response.NotFound(c, "meeting not found")
		return
	}

	u, err := h.userRepo.GetByLineUserID(ctx, req.LineUserID)
	if response.IsNotFound(err) {
		placeholder, err := auth.PlaceholderPassword()
		if err != nil {
			response.Internal(c, "failed to provision account")
			return
		}
		hash, err := auth.HashPassword(placeholder)
		if err != nil {
			response.Internal(c, "failed to provision account")
			return
		}
		u, err = h.userRepo.Create(ctx, users.CreateParams{
			Username:     LineUsername(req.LineUserID),
			PasswordHash: hash,
			Name:         req.Name,
			Position:     req.Position,
			Role:         models.RoleUser,
			LineUserID:   &req.LineUserID,
		})
		if response.IsConflict(err) {
			// the synthetic line_<id> username already exists without a LINE
			// link (e.g. created by an admin import); adopt that row instead
			// of failing the registration
			u, err = h.userRepo.LinkLineIdentity(ctx, LineUsername(req.LineUserID), req.LineUserID)
		}
		if err != nil {
			h.logger.Error("line account provisioning failed", zap.Error(err), zap.String("line_user_id", req.LineUserID))
			response.Internal(c, err.Error())
			return
		}
	} else if err != nil {
		response.Internal(c, err.Error())
		return
	}

	var a *models.Attendee
	existing, err := h.repo.GetByMeetingAndUser(ctx, meetingID, u.ID)
	switch {
	case err == nil:
		a, err = h.repo.UpdateRegistration(ctx, existing.ID, reg.Name, reg.Position, reg.Status)
	case response.IsNotFound(err):
		a, err = h.repo.Create(ctx, meetingID, &u.ID, reg.Name, reg.Position, reg.Status)
	}
	if err != nil {
		h.logger.Error("line registration failed", zap.Error(err), zap.String("meeting_id", meetingID.String()))
		response.Internal(c, err.Error())
		return
	}

	h.broadcast(meetingID, a)
	response.OK(c, LineRegisterResponse{Success: true, UserID: u.ID})
}

// PublicMeeting handles GET /public/meetings/:id for the unauthenticated
// RSVP page: the meeting plus its attendee list.
func (h *Handler) PublicMeeting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid meeting id")
		return
	}
	m, err := h.meetingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "meeting not found", "")
		return
	}
	list, err := h.repo.List(c.Request.Context(), &id)
	if err != nil {
		response.Internal(c, err.Error())
		return
	}
	if list == nil {
		list = []models.Attendee{}
	}
	response.OK(c, PublicMeetingResponse{Meeting: m, Attendees: list})
}
