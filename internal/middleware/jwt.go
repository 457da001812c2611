package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/srithep/meeting-backend/internal/auth"
	"github.com/srithep/meeting-backend/pkg/response"
)

const (
	// ContextUserID is the gin context key for the authenticated user id.
	ContextUserID = "user_id"
	// ContextUserRole is the gin context key for the authenticated role.
	ContextUserRole = "user_role"
	// ContextUsername is the gin context key for the authenticated username.
	ContextUsername = "username"
)

// JWT returns a middleware that validates the bearer token and stores the
// claims in the request context. Unauthenticated callers get 401; the
// client routes them back to the login entry point.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
