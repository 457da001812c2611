package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/srithep/meeting-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore serves canned users and errors for handler tests.
type fakeStore struct {
	users map[string]*models.User
	err   error
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash, name, surname, position string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Name:         name,
		Surname:      surname,
		Position:     position,
		Role:         models.RoleUser,
	}, nil
}

func loginRouter(store Store) *gin.Engine {
	h := NewHandler(store, NewJWTService("test-secret", 1), nil)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &fakeStore{users: map[string]*models.User{
		"jane": {ID: uuid.New(), Username: "jane", PasswordHash: hash, Role: models.RoleUser},
	}}
	w := postJSON(loginRouter(store), "/auth/login", `{"username":"jane","password":"hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"token"`) {
		t.Errorf("response missing token: %s", w.Body.String())
	}
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	hash, _ := HashPassword("hunter2")
	store := &fakeStore{users: map[string]*models.User{
		"jane": {ID: uuid.New(), Username: "jane", PasswordHash: hash},
	}}
	w := postJSON(loginRouter(store), "/auth/login", `{"username":"jane","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLoginUnknownUserIs401(t *testing.T) {
	store := &fakeStore{users: map[string]*models.User{}}
	w := postJSON(loginRouter(store), "/auth/login", `{"username":"ghost","password":"x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLoginStoreFailureIs500(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	w := postJSON(loginRouter(store), "/auth/login", `{"username":"jane","password":"hunter2"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("store error message not surfaced: %s", w.Body.String())
	}
}
