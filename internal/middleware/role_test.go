package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/srithep/meeting-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func roleRouter(set bool, role models.Role, required ...models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if set {
			c.Set(ContextUserRole, role)
		}
		c.Next()
	}, RequireRole(required...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name       string
		set        bool
		role       models.Role
		required   []models.Role
		wantStatus int
	}{
		{"admin passes admin gate", true, models.RoleAdmin, []models.Role{models.RoleAdmin}, http.StatusOK},
		{"user blocked at admin gate", true, models.RoleUser, []models.Role{models.RoleAdmin}, http.StatusForbidden},
		{"user passes user gate", true, models.RoleUser, []models.Role{models.RoleAdmin, models.RoleUser}, http.StatusOK},
		{"missing context rejected", false, "", []models.Role{models.RoleAdmin}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			roleRouter(tc.set, tc.role, tc.required...).ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}
