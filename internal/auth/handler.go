package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/pkg/response"
)

// Store is the user lookup surface the auth flow needs. *Repository
// implements it.
type Store interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, passwordHash, name, surname, position string) (*models.User, error)
}

// RegisterRequest is the body for POST /auth/register. Self-service
// registration always produces a USER account with an empty allow-list.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname"`
	Position string `json:"position"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT and the signed-in user.
type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   Store
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo Store, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	u, err := h.repo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		// an unknown username is a bad credential; anything else is the
		// store failing and must not masquerade as one
		if response.IsNotFound(err) {
			response.Unauthorized(c, "invalid credentials")
			return
		}
		h.logger.Error("login lookup failed", zap.Error(err), zap.String("username", req.Username))
		response.Internal(c, err.Error())
		return
	}
	if !CheckPassword(req.Password, u.PasswordHash) {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Username, u.Role)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, User: u})
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	u, err := h.repo.CreateUser(c.Request.Context(), req.Username, hash, req.Name, req.Surname, req.Position)
	if err != nil {
		if response.IsConflict(err) {
			response.BadRequest(c, "username already exists")
			return
		}
		h.logger.Error("register failed", zap.Error(err), zap.String("username", req.Username))
		response.Internal(c, err.Error())
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Username, u.Role)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.Created(c, TokenResponse{Token: token, User: u})
}
