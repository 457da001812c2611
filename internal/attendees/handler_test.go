package attendees

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/internal/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAttendeeStore keeps attendee rows in memory and enforces the
// one-row-per-(meeting,user) rule the way the database index does.
type fakeAttendeeStore struct {
	rows map[uuid.UUID]*models.Attendee
}

func newFakeAttendeeStore() *fakeAttendeeStore {
	return &fakeAttendeeStore{rows: map[uuid.UUID]*models.Attendee{}}
}

func (f *fakeAttendeeStore) List(_ context.Context, meetingID *uuid.UUID) ([]models.Attendee, error) {
	var list []models.Attendee
	for _, a := range f.rows {
		if meetingID == nil || a.MeetingID == *meetingID {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (f *fakeAttendeeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Attendee, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttendeeStore) GetByMeetingAndUser(_ context.Context, meetingID, userID uuid.UUID) (*models.Attendee, error) {
	for _, a := range f.rows {
		if a.MeetingID == meetingID && a.UserID != nil && *a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttendeeStore) Create(_ context.Context, meetingID uuid.UUID, userID *uuid.UUID, name, position string, status models.AttendeeStatus) (*models.Attendee, error) {
	if userID != nil {
		for _, a := range f.rows {
			if a.MeetingID == meetingID && a.UserID != nil && *a.UserID == *userID {
				return nil, &pgconn.PgError{Code: "23505", ConstraintName: "idx_attendees_meeting_user"}
			}
		}
	}
	a := &models.Attendee{
		ID:        uuid.New(),
		MeetingID: meetingID,
		UserID:    userID,
		Name:      name,
		Position:  position,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.rows[a.ID] = a
	cp := *a
	return &cp, nil
}

func (f *fakeAttendeeStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.AttendeeStatus) (*models.Attendee, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeAttendeeStore) UpdateRegistration(_ context.Context, id uuid.UUID, name, position string, status models.AttendeeStatus) (*models.Attendee, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	a.Name = name
	a.Position = position
	a.Status = status
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeAttendeeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

// fakeUserStore mirrors the username and line_user_id uniqueness rules of the
// users table.
type fakeUserStore struct {
	byUsername map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byUsername: map[string]*models.User{}}
}

func (f *fakeUserStore) GetByLineUserID(_ context.Context, lineUserID string) (*models.User, error) {
	for _, u := range f.byUsername {
		if u.LineUserID != nil && *u.LineUserID == lineUserID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) Create(_ context.Context, p users.CreateParams) (*models.User, error) {
	if _, ok := f.byUsername[p.Username]; ok {
		return nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}
	u := &models.User{
		ID:           uuid.New(),
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		Name:         p.Name,
		Surname:      p.Surname,
		Position:     p.Position,
		Role:         p.Role,
		LineUserID:   p.LineUserID,
	}
	f.byUsername[p.Username] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) LinkLineIdentity(_ context.Context, username, lineUserID string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	id := lineUserID
	u.LineUserID = &id
	cp := *u
	return &cp, nil
}

type fakeMeetingStore struct {
	meetings map[uuid.UUID]*models.Meeting
}

func (f *fakeMeetingStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.meetings[id]
	return ok, nil
}

func (f *fakeMeetingStore) GetByID(_ context.Context, id uuid.UUID) (*models.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

type attendeeFixture struct {
	router    *gin.Engine
	store     *fakeAttendeeStore
	userStore *fakeUserStore
	meetingID uuid.UUID
}

func newAttendeeFixture() *attendeeFixture {
	meetingID := uuid.New()
	store := newFakeAttendeeStore()
	userStore := newFakeUserStore()
	h := NewHandler(store, userStore, &fakeMeetingStore{
		meetings: map[uuid.UUID]*models.Meeting{meetingID: {ID: meetingID, Title: "Quarterly Review"}},
	}, nil, nil)

	r := gin.New()
	r.POST("/attendees", h.Create)
	r.POST("/attendees/line", h.LineRegister)
	return &attendeeFixture{router: r, store: store, userStore: userStore, meetingID: meetingID}
}

func (fx *attendeeFixture) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	fx.router.ServeHTTP(w, req)
	return w
}

func (fx *attendeeFixture) lineRegister(t *testing.T, lineUserID, name string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(LineRegisterRequest{
		MeetingID:  fx.meetingID.String(),
		LineUserID: lineUserID,
		Name:       name,
	})
	return fx.post(t, "/attendees/line", string(body))
}

func TestLineRegisterCreatesUserAndAcceptedAttendee(t *testing.T) {
	fx := newAttendeeFixture()

	w := fx.lineRegister(t, "U123", "Somchai")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var resp LineRegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}

	u, ok := fx.userStore.byUsername["line_U123"]
	if !ok {
		t.Fatal("no account created for line_U123")
	}
	if u.LineUserID == nil || *u.LineUserID != "U123" {
		t.Errorf("LineUserID = %v, want U123", u.LineUserID)
	}
	a, err := fx.store.GetByMeetingAndUser(context.Background(), fx.meetingID, resp.UserID)
	if err != nil {
		t.Fatalf("attendee row not created: %v", err)
	}
	if a.Status != models.AttendeeAccepted {
		t.Errorf("status = %s, want %s", a.Status, models.AttendeeAccepted)
	}
}

func TestLineRegisterResubmitOverwritesDecline(t *testing.T) {
	fx := newAttendeeFixture()

	w := fx.lineRegister(t, "U123", "Somchai")
	if w.Code != http.StatusOK {
		t.Fatalf("first registration: status = %d (body %s)", w.Code, w.Body.String())
	}
	var resp LineRegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	a, err := fx.store.GetByMeetingAndUser(context.Background(), fx.meetingID, resp.UserID)
	if err != nil {
		t.Fatalf("attendee row not created: %v", err)
	}
	if _, err := fx.store.UpdateStatus(context.Background(), a.ID, models.AttendeeDeclined); err != nil {
		t.Fatalf("decline: %v", err)
	}

	w = fx.lineRegister(t, "U123", "Somchai P.")
	if w.Code != http.StatusOK {
		t.Fatalf("resubmission: status = %d (body %s)", w.Code, w.Body.String())
	}
	a, err = fx.store.GetByMeetingAndUser(context.Background(), fx.meetingID, resp.UserID)
	if err != nil {
		t.Fatalf("attendee row gone after resubmission: %v", err)
	}
	if a.Status != models.AttendeeAccepted {
		t.Errorf("status after resubmission = %s, want %s", a.Status, models.AttendeeAccepted)
	}
	if a.Name != "Somchai P." {
		t.Errorf("name not refreshed: %s", a.Name)
	}
}

func TestLineRegisterAdoptsExistingUsername(t *testing.T) {
	fx := newAttendeeFixture()
	// an account already holds the synthetic username but has no LINE link
	fx.userStore.byUsername["line_U123"] = &models.User{
		ID:       uuid.New(),
		Username: "line_U123",
		Name:     "Somchai",
		Role:     models.RoleUser,
	}

	w := fx.lineRegister(t, "U123", "Somchai")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var resp LineRegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	u := fx.userStore.byUsername["line_U123"]
	if resp.UserID != u.ID {
		t.Errorf("userId = %s, want the adopted account %s", resp.UserID, u.ID)
	}
	if u.LineUserID == nil || *u.LineUserID != "U123" {
		t.Errorf("LineUserID = %v, want U123", u.LineUserID)
	}
	if _, err := fx.store.GetByMeetingAndUser(context.Background(), fx.meetingID, u.ID); err != nil {
		t.Errorf("attendee row not created for adopted account: %v", err)
	}
}

func TestLineRegisterUnknownMeetingIs404(t *testing.T) {
	fx := newAttendeeFixture()
	body, _ := json.Marshal(LineRegisterRequest{
		MeetingID:  uuid.NewString(),
		LineUserID: "U123",
		Name:       "Somchai",
	})
	w := fx.post(t, "/attendees/line", string(body))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCreateDuplicateInviteIs409(t *testing.T) {
	fx := newAttendeeFixture()
	userID := uuid.New()
	body, _ := json.Marshal(CreateRequest{
		MeetingID: fx.meetingID,
		UserID:    &userID,
		Name:      "Somchai",
		Position:  "Engineer",
	})

	w := fx.post(t, "/attendees", string(body))
	if w.Code != http.StatusCreated {
		t.Fatalf("first invite: status = %d (body %s)", w.Code, w.Body.String())
	}
	w = fx.post(t, "/attendees", string(body))
	if w.Code != http.StatusConflict {
		t.Errorf("second invite: status = %d, want %d", w.Code, http.StatusConflict)
	}
	if !strings.Contains(w.Body.String(), "already an attendee") {
		t.Errorf("conflict message missing: %s", w.Body.String())
	}
}
