package users

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/access"
	"github.com/srithep/meeting-backend/internal/auth"
	"github.com/srithep/meeting-backend/internal/meetings"
	"github.com/srithep/meeting-backend/internal/middleware"
	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/pkg/response"
)

// CreateRequest is the body for POST /users (admin). Unlike self-service
// registration, an admin may assign any role.
type CreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname"`
	Position string `json:"position"`
	Role     string `json:"role" binding:"required"`
}

// UpdateRequest is the body for PUT /users/:id. Password is changed only
// when provided. LineUserID is untouched when absent; an empty string
// unlinks the LINE identity.
type UpdateRequest struct {
	Username   string  `json:"username" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Surname    string  `json:"surname"`
	Position   string  `json:"position"`
	Role       string  `json:"role" binding:"required"`
	Password   string  `json:"password"`
	LineUserID *string `json:"lineUserId"`
}

// PermissionsRequest is the body for PATCH /users/:id/permissions.
type PermissionsRequest struct {
	AllowedMeetingIDs []uuid.UUID `json:"allowedMeetingIds"`
}

// ToggleRequest is the body for POST /users/:id/permissions/toggle.
type ToggleRequest struct {
	MeetingID uuid.UUID `json:"meetingId" binding:"required"`
}

// Handler handles user management HTTP endpoints (admin area).
type Handler struct {
	repo        *Repository
	meetingRepo *meetings.Repository
	logger      *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, meetingRepo *meetings.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, meetingRepo: meetingRepo, logger: logger}
}

// List handles GET /users.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err.Error())
		return
	}
	if list == nil {
		list = []models.User{}
	}
	response.OK(c, list)
}

// Create handles POST /users.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		response.BadRequest(c, "invalid role")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	u, err := h.repo.Create(c.Request.Context(), CreateParams{
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Surname:      req.Surname,
		Position:     req.Position,
		Role:         role,
	})
	if err != nil {
		response.StoreError(c, err, "user not found", "username already exists")
		return
	}
	response.Created(c, u)
}

// Update handles PUT /users/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		response.BadRequest(c, "invalid role")
		return
	}
	params := UpdateParams{
		Username: req.Username,
		Name:     req.Name,
		Surname:  req.Surname,
		Position: req.Position,
		Role:     role,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			response.Internal(c, "failed to hash password")
			return
		}
		params.PasswordHash = &hash
	}
	if req.LineUserID != nil {
		params.SetLineUserID = true
		if *req.LineUserID != "" {
			params.LineUserID = req.LineUserID
		}
	}
	u, err := h.repo.Update(c.Request.Context(), id, params)
	if err != nil {
		response.StoreError(c, err, "user not found", "username already exists")
		return
	}
	response.OK(c, u)
}

// Delete handles DELETE /users/:id. Deleting the user currently signed in
// is forbidden.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if callerID, ok := c.Get(middleware.ContextUserID); ok {
		if caller, ok := callerID.(uuid.UUID); ok && caller == id {
			response.Conflict(c, "cannot delete the currently signed-in user")
			return
		}
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.StoreError(c, err, "user not found", "user is referenced elsewhere")
		return
	}
	response.NoContent(c)
}

// UpdatePermissions handles PATCH /users/:id/permissions. Replaces the
// allow-list wholesale and persists immediately.
func (h *Handler) UpdatePermissions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req PermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.repo.SetAllowedMeetingIDs(c.Request.Context(), id, req.AllowedMeetingIDs)
	if err != nil {
		response.StoreError(c, err, "user not found", "")
		return
	}
	response.OK(c, u)
}

// TogglePermission handles POST /users/:id/permissions/toggle: adds the
// meeting id if absent, removes it if present.
func (h *Handler) TogglePermission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "user not found", "")
		return
	}
	updated, err := h.repo.SetAllowedMeetingIDs(c.Request.Context(), id,
		access.Toggle(u.AllowedMeetingIDs, req.MeetingID))
	if err != nil {
		response.StoreError(c, err, "user not found", "")
		return
	}
	response.OK(c, updated)
}

// GrantAllPermissions handles POST /users/:id/permissions/grant-all: sets
// the allow-list to every current meeting id.
func (h *Handler) GrantAllPermissions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	all, err := h.meetingRepo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err.Error())
		return
	}
	u, err := h.repo.SetAllowedMeetingIDs(c.Request.Context(), id, access.GrantAll(all))
	if err != nil {
		response.StoreError(c, err, "user not found", "")
		return
	}
	response.OK(c, u)
}

// RevokeAllPermissions handles POST /users/:id/permissions/revoke-all.
func (h *Handler) RevokeAllPermissions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	u, err := h.repo.SetAllowedMeetingIDs(c.Request.Context(), id, access.RevokeAll())
	if err != nil {
		response.StoreError(c, err, "user not found", "")
		return
	}
	response.OK(c, u)
}
