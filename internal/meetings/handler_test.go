package meetings

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/srithep/meeting-backend/internal/middleware"
	"github.com/srithep/meeting-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestListRejectsMissingUserContext(t *testing.T) {
	h := NewHandler(nil, nil)
	r := gin.New()
	r.GET("/meetings", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/meetings", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status without role context = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestListRejectsUserWithoutIdentity(t *testing.T) {
	h := NewHandler(nil, nil)
	r := gin.New()
	r.GET("/meetings", func(c *gin.Context) {
		c.Set(middleware.ContextUserRole, models.RoleUser)
	}, h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/meetings", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status without user id context = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestHandlersRejectMalformedIDs(t *testing.T) {
	h := NewHandler(nil, nil)
	r := gin.New()
	r.GET("/meetings/:id", h.Get)
	r.DELETE("/meetings/:id", h.Delete)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/meetings/not-a-uuid", nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s with malformed id: status = %d, want %d", method, w.Code, http.StatusBadRequest)
		}
	}
}
