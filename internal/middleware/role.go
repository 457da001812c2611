package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles.
// A caller with a valid token but the wrong role gets 403; the client
// routes it to its own role's home view.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextUserRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, _ := roleVal.(models.Role)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
