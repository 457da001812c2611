package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/pkg/queue"
	"github.com/srithep/meeting-backend/pkg/response"
)

// CreateRequest is the body for POST /notifications. An absent userId makes
// the notification a broadcast.
type CreateRequest struct {
	UserID  *uuid.UUID `json:"userId"`
	Title   string     `json:"title" binding:"required"`
	Message string     `json:"message" binding:"required"`
	Type    string     `json:"type"`
}

// Handler handles notification HTTP endpoints. Broadcasts are additionally
// fanned out to the configured LINE group through the job queue.
type Handler struct {
	repo        *Repository
	queue       *queue.Queue
	lineEnabled bool
	logger      *zap.Logger
}

// NewHandler creates a notifications handler. queue may be nil; lineEnabled
// gates the LINE fan-out.
func NewHandler(repo *Repository, q *queue.Queue, lineEnabled bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, lineEnabled: lineEnabled, logger: logger}
}

// List handles GET /notifications with an optional userId filter.
func (h *Handler) List(c *gin.Context) {
	var userID *uuid.UUID
	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid userId")
			return
		}
		userID = &id
	}
	list, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, err.Error())
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	response.OK(c, list)
}

// Create handles POST /notifications.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	notifType := req.Type
	if notifType == "" {
		notifType = "SYSTEM"
	}
	n, err := h.repo.Create(c.Request.Context(), req.UserID, req.Title, req.Message, notifType)
	if err != nil {
		if response.IsForeignKey(err) {
			response.NotFound(c, "user not found")
			return
		}
		response.Internal(c, err.Error())
		return
	}

	// Broadcasts also go out to the LINE group, asynchronously.
	if n.UserID == nil && h.lineEnabled && h.queue != nil {
		err := h.queue.EnqueueLinePush(c.Request.Context(), queue.LinePushPayload{
			NotificationID: n.ID,
			Title:          n.Title,
			Message:        n.Message,
		})
		if err != nil {
			h.logger.Warn("line push enqueue failed", zap.Error(err), zap.String("notification_id", n.ID.String()))
		}
	}

	response.Created(c, n)
}

// MarkRead handles PATCH /notifications/:id/read. The flag is shared by all
// readers of a broadcast.
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	n, err := h.repo.MarkRead(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "notification not found", "")
		return
	}
	response.OK(c, n)
}

// Delete handles DELETE /notifications/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.StoreError(c, err, "notification not found", "")
		return
	}
	response.NoContent(c)
}
