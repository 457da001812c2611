package agendas

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/pkg/response"
)

// CreateRequest is the body for POST /agendas.
type CreateRequest struct {
	MeetingID   uuid.UUID        `json:"meetingId" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Order       int              `json:"order"`
	IsImportant bool             `json:"isImportant"`
	Files       []models.FileRef `json:"files"`
}

// UpdateRequest is the body for PUT /agendas/:id. The meeting an item
// belongs to cannot be changed.
type UpdateRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Order       int              `json:"order"`
	IsImportant bool             `json:"isImportant"`
	Files       []models.FileRef `json:"files"`
}

// Handler handles agenda HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an agendas handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /agendas with an optional meetingId filter.
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
		list = []models.AgendaItem{}
	}
	response.OK(c, list)
}

// Create handles POST /agendas.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, err := h.repo.Create(c.Request.Context(), Params{
		MeetingID:   req.MeetingID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		IsImportant: req.IsImportant,
		Files:       req.Files,
	})
	if err != nil {
		if response.IsForeignKey(err) {
			response.NotFound(c, "meeting not found")
			return
		}
		h.logger.Error("create agenda failed", zap.Error(err))
		response.Internal(c, err.Error())
		return
	}
	response.Created(c, a)
}

// Update handles PUT /agendas/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid agenda id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, err := h.repo.Update(c.Request.Context(), id, Params{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		IsImportant: req.IsImportant,
		Files:       req.Files,
	})
	if err != nil {
		response.StoreError(c, err, "agenda not found", "")
		return
	}
	response.OK(c, a)
}

// Delete handles DELETE /agendas/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid agenda id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.StoreError(c, err, "agenda not found", "")
		return
	}
	response.NoContent(c)
}
