package lineapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/pkg/response"
)

// BroadcastRequest is the body for POST /line/broadcast.
type BroadcastRequest struct {
	Messages      []Message `json:"messages" binding:"required"`
	TargetGroupID string    `json:"targetGroupId"`
}

// BroadcastResponse acknowledges a delivered broadcast.
type BroadcastResponse struct {
	Success bool `json:"success"`
}

// Handler exposes synchronous LINE pushes to admins.
type Handler struct {
	client         *Client
	defaultGroupID string
	logger         *zap.Logger
}

// NewHandler creates a lineapi handler.
func NewHandler(client *Client, defaultGroupID string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{client: client, defaultGroupID: defaultGroupID, logger: logger}
}

// Broadcast handles POST /line/broadcast: a single synchronous push, no
// retry. Failures surface the upstream message.
func (h *Handler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	to := req.TargetGroupID
	if to == "" {
		to = h.defaultGroupID
	}
	if err := h.client.Push(c.Request.Context(), to, req.Messages); err != nil {
		h.logger.Error("line broadcast failed", zap.Error(err))
		response.Internal(c, err.Error())
		return
	}
	response.OK(c, BroadcastResponse{Success: true})
}
