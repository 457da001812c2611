package meetings

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/access"
	"github.com/srithep/meeting-backend/internal/middleware"
	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/pkg/response"
)

// Request is the body for POST /meetings and PUT /meetings/:id.
type Request struct {
	Title          string           `json:"title" binding:"required"`
	Edition        string           `json:"edition" binding:"required"`
	Date           string           `json:"date" binding:"required"`
	Time           string           `json:"time" binding:"required"`
	Location       string           `json:"location" binding:"required"`
	Status         string           `json:"status"`
	Budget         float64          `json:"budget"`
	MinutesFiles   []models.FileRef `json:"minutesFiles"`
	MinutesSummary string           `json:"minutesSummary"`
}

func (req *Request) params() (Params, string) {
	status := models.MeetingStatus(req.Status)
	if req.Status == "" {
		status = models.MeetingUpcoming
	}
	if !status.Valid() {
		return Params{}, "invalid status"
	}
	if req.Budget < 0 {
		return Params{}, "budget must not be negative"
	}
	return Params{
		Title:          req.Title,
		Edition:        req.Edition,
		Date:           req.Date,
		Time:           req.Time,
		Location:       req.Location,
		Status:         status,
		Budget:         req.Budget,
		MinutesFiles:   req.MinutesFiles,
		MinutesSummary: req.MinutesSummary,
	}, ""
}

// Handler handles meeting HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a meetings handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /meetings. Admins see every meeting; users see only the
// meetings on their allow-list. A request that somehow reaches this handler
// without an authenticated role gets nothing, not everything.
func (h *Handler) List(c *gin.Context) {
	roleVal, ok := c.Get(middleware.ContextUserRole)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	role, _ := roleVal.(models.Role)

	caller := &models.User{Role: role}
	if role != models.RoleAdmin {
		userID, ok := c.Get(middleware.ContextUserID)
		if !ok {
			response.Unauthorized(c, "missing user context")
			return
		}
		allowed, err := h.repo.AllowedMeetingIDs(c.Request.Context(), userID.(uuid.UUID))
		if err != nil {
			response.Internal(c, err.Error())
			return
		}
		caller.Role = models.RoleUser
		caller.AllowedMeetingIDs = allowed
	}

	all, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err.Error())
		return
	}

	visible := access.VisibleMeetings(caller, all)
	if visible == nil {
		visible = []models.Meeting{}
	}
	response.OK(c, visible)
}

// Get handles GET /meetings/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid meeting id")
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "meeting not found", "")
		return
	}
	response.OK(c, m)
}

// Create handles POST /meetings.
func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, msg := req.params()
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}
	m, err := h.repo.Create(c.Request.Context(), p)
	if err != nil {
		h.logger.Error("create meeting failed", zap.Error(err))
		response.Internal(c, err.Error())
		return
	}
	response.Created(c, m)
}

// Update handles PUT /meetings/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid meeting id")
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, msg := req.params()
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}
	m, err := h.repo.Update(c.Request.Context(), id, p)
	if err != nil {
		response.StoreError(c, err, "meeting not found", "")
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /meetings/:id. Agendas, attendees and documents of
// the meeting are removed by the store-level cascade.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid meeting id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.StoreError(c, err, "meeting not found", "")
		return
	}
	response.NoContent(c)
}
