package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"goal-tracker-go/internal/auth"
	"goal-tracker-go/internal/config"
	categorydomain "goal-tracker-go/internal/domain/category"
	filedomain "goal-tracker-go/internal/domain/file"
	goaldomain "goal-tracker-go/internal/domain/goal"
	notificationdomain "goal-tracker-go/internal/domain/notification"
	statusdomain "goal-tracker-go/internal/domain/status"
	teamdomain "goal-tracker-go/internal/domain/team"
	templatedomain "goal-tracker-go/internal/domain/template"
	userdomain "goal-tracker-go/internal/domain/user"
	"goal-tracker-go/internal/metrics"
	categoryrepo "goal-tracker-go/internal/repository/postgres/category"
	"goal-tracker-go/internal/repository/postgres/dbtest"
	filerepo "goal-tracker-go/internal/repository/postgres/file"
	goalrepo "goal-tracker-go/internal/repository/postgres/goal"
	notificationrepo "goal-tracker-go/internal/repository/postgres/notification"
	statusrepo "goal-tracker-go/internal/repository/postgres/status"
	teamrepo "goal-tracker-go/internal/repository/postgres/team"
	templaterepo "goal-tracker-go/internal/repository/postgres/template"
	userrepo "goal-tracker-go/internal/repository/postgres/user"
	"goal-tracker-go/internal/transport/httpserver/handler"
	"goal-tracker-go/internal/transport/httpserver/handler/categories"
	"goal-tracker-go/internal/transport/httpserver/handler/common"
	"goal-tracker-go/internal/transport/httpserver/handler/goals"
	"goal-tracker-go/internal/transport/httpserver/handler/notifications"
	"goal-tracker-go/internal/transport/httpserver/handler/statuses"
	"goal-tracker-go/internal/transport/httpserver/handler/teams"
	"goal-tracker-go/internal/transport/httpserver/handler/templates"
	authmw "goal-tracker-go/internal/transport/httpserver/middleware"
	"goal-tracker-go/pkg/logger"
)

// tokenVerifier treats the bearer token as the user id.
type tokenVerifier struct{}

func (tokenVerifier) Configured() bool { return true }

func (tokenVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == "expired" {
		return auth.Claims{}, auth.ErrTokenExpired
	}
	return auth.Claims{Subject: token, Email: token + "@example.com", Role: "authenticated", Name: token}, nil
}

type memoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (s *memoryStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}

func (s *memoryStorage) Ping(context.Context) error { return nil }

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return errors.New("missing blob")
	}
	delete(s.blobs, key)
	return nil
}

func (s *memoryStorage) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://files.example/" + key + "?ttl=" + ttl.String(), nil
}

type recordingMailer struct {
	sent []teamdomain.InvitationEmail
}

func (m *recordingMailer) SendInvitation(_ context.Context, email teamdomain.InvitationEmail) error {
	m.sent = append(m.sent, email)
	return nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	blobs   *memoryStorage
	mail    *recordingMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.Open(t)
	log := logger.New(io.Discard, slog.LevelInfo, "text")

	blobs := &memoryStorage{blobs: map[string][]byte{}}
	mail := &recordingMailer{}

	users := userdomain.NewService(userrepo.NewPostgres(db))
	notificationService := notificationdomain.NewService(notificationrepo.NewPostgres(db))
	teamRepository := teamrepo.NewPostgres(db)
	teamService := teamdomain.NewService(teamRepository, notificationService, users, mail, log)
	goalService := goaldomain.NewService(goalrepo.NewPostgres(db), teamRepository, notificationService, blobs, log)
	categoryService := categorydomain.NewService(categoryrepo.NewPostgres(db))
	statusService := statusdomain.NewService(statusrepo.NewPostgres(db), teamRepository)
	templateService := templatedomain.NewService(templaterepo.NewPostgres(db), goalService, teamRepository)
	fileService := filedomain.NewService(filerepo.NewPostgres(db), blobs, goalService, time.Hour, log)
	m := metrics.New()

	sqlDB, err := db.DB()
	require.NoError(t, err)

	handlers := &handler.Handlers{
		Common:        common.New(sqlDB, blobs, log),
		Goals:         goals.New(goalService, fileService, m, log),
		Categories:    categories.New(categoryService, goalService, log),
		Teams:         teams.New(teamService, goalService, m, log),
		Statuses:      statuses.New(statusService, log),
		Templates:     templates.New(templateService, log),
		Notifications: notifications.New(notificationService, log),
	}
	cfg := config.Config{CORSOrigins: []string{"http://localhost:5173"}}
	jwtAuth := authmw.NewJWTAuth(cfg.Supabase, tokenVerifier{}, users, log)

	return &testServer{
		t:       t,
		handler: NewRouter(cfg, handlers, jwtAuth, m),
		blobs:   blobs,
		mail:    mail,
	}
}

func (s *testServer) do(method, path, user string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(v)
	default:
		payload, err := json.Marshal(v)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+user)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Goal Tracker API")

	rec = s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":"ok"`)
	require.Contains(t, rec.Body.String(), `"storage":"ok"`)

	rec = s.do(http.MethodGet, "/api/goals", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/goals", "expired", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "token_expired")

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "goal_tracker_http_requests_total")
}

func TestAuthMe(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/auth/me", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]string](t, rec)
	require.Equal(t, "alice", me["id"])
	require.Equal(t, "alice@example.com", me["email"])
	require.Equal(t, "authenticated", me["role"])
}

func TestGoalLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/goals", "alice", `{"title":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_json")

	rec = s.do(http.MethodPost, "/api/goals", "alice", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "validation_failed")

	rec = s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"title": "Run a marathon", "is_public": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	parent := decode[goals.GoalResponse](t, rec)
	require.Equal(t, "pending", parent.Status)
	require.Equal(t, "public", parent.Visibility)
	require.True(t, parent.IsPublic)
	require.NotNil(t, parent.Teams)
	require.NotNil(t, parent.Categories)

	rec = s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"title": "Run 10k", "parent_goal_id": parent.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	child := decode[goals.GoalResponse](t, rec)

	rec = s.do(http.MethodGet, "/api/goals?parent_goal_id=root", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roots := decode[[]goals.GoalResponse](t, rec)
	require.Len(t, roots, 1)
	require.Equal(t, parent.ID, roots[0].ID)

	rec = s.do(http.MethodGet, "/api/goals/"+parent.ID+"/subgoals", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]goals.GoalResponse](t, rec), 1)

	rec = s.do(http.MethodPut, "/api/goals/"+parent.ID, "alice", map[string]any{"parent_goal_id": child.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "goal_cycle")

	rec = s.do(http.MethodPut, "/api/goals/"+child.ID, "alice", map[string]any{"parent_goal_id": nil, "status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[goals.GoalResponse](t, rec)
	require.Nil(t, updated.ParentGoalID)
	require.Equal(t, "completed", updated.Status)

	rec = s.do(http.MethodGet, "/api/goals?sort_by=bogus", "alice", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/goals/"+parent.ID, "bob", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/goals/public", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]goals.GoalResponse](t, rec), 1)

	rec = s.do(http.MethodDelete, "/api/goals/"+parent.ID, "bob", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/goals/"+parent.ID, "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCategoriesAndAssignment(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/categories", "alice", map[string]any{"name": "Health"})
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[map[string]any](t, rec)
	categoryID := category["id"].(string)
	require.Equal(t, "#3B82F6", category["color"])

	rec = s.do(http.MethodPost, "/api/categories", "alice", map[string]any{"name": "Health"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/categories", "alice", map[string]any{"name": "Bad", "color": "blue"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"title": "Walk daily"})
	require.Equal(t, http.StatusCreated, rec.Code)
	goal := decode[goals.GoalResponse](t, rec)

	rec = s.do(http.MethodPost, "/api/goals/"+goal.ID+"/categories", "alice", map[string]any{"category_ids": []string{categoryID}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/categories/"+categoryID+"/goals", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]goals.GoalResponse](t, rec)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Categories, 1)

	rec = s.do(http.MethodGet, "/api/goals?category_ids="+categoryID, "alice", nil)
	require.Len(t, decode[[]goals.GoalResponse](t, rec), 1)

	rec = s.do(http.MethodGet, "/api/categories/"+categoryID, "bob", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/goals/"+goal.ID+"/categories/"+categoryID, "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTeamInvitationFlow(t *testing.T) {
	s := newTestServer(t)

	// bob's profile exists once he has made an authenticated request
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", "bob", nil).Code)

	rec := s.do(http.MethodPost, "/api/teams", "alice", map[string]any{"name": "Runners"})
	require.Equal(t, http.StatusCreated, rec.Code)
	team := decode[map[string]any](t, rec)
	teamID := team["id"].(string)
	require.Equal(t, "owner", team["role"])

	rec = s.do(http.MethodGet, "/api/teams/"+teamID, "bob", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/teams/"+teamID+"/invite", "alice", map[string]any{"email": "Bob@Example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	invitation := decode[map[string]any](t, rec)
	require.Equal(t, "bob@example.com", invitation["email"])
	require.Len(t, invitation["invite_code"], 12)
	require.Len(t, s.mail.sent, 1)

	rec = s.do(http.MethodPost, "/api/teams/"+teamID+"/invite", "alice", map[string]any{"email": "bob@example.com"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/notifications/unread-count", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/invitations", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]map[string]any](t, rec)
	require.Len(t, mine, 1)
	require.Equal(t, "Runners", mine[0]["team_name"])

	invitationID := invitation["id"].(string)
	rec = s.do(http.MethodPost, "/api/invitations/"+invitationID+"/accept", "carol", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/invitations/"+invitationID+"/accept", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	member := decode[map[string]any](t, rec)
	require.Equal(t, "member", member["role"])

	rec = s.do(http.MethodPost, "/api/invitations/"+invitationID+"/accept", "bob", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invitation_not_pending")

	rec = s.do(http.MethodPut, "/api/teams/"+teamID, "bob", map[string]any{"name": "Mine now"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/teams/"+teamID+"/members", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[[]map[string]any](t, rec)
	require.Len(t, members, 2)

	rec = s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"title": "Relay", "team_ids": []string{teamID}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/teams/"+teamID+"/goals", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]goals.GoalResponse](t, rec), 1)

	rec = s.do(http.MethodGet, "/api/notifications?unread_only=true", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	unread := decode[[]map[string]any](t, rec)
	require.Len(t, unread, 2)

	rec = s.do(http.MethodPut, "/api/notifications/read-all", "bob", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/api/notifications/unread-count", "bob", nil)
	require.JSONEq(t, `{"count":0}`, rec.Body.String())
}

func TestJoinByCodeWhenAlreadyMember(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/teams", "alice", map[string]any{"name": "Readers"})
	teamID := decode[map[string]any](t, rec)["id"].(string)

	rec = s.do(http.MethodPost, "/api/teams/"+teamID+"/invite", "alice", map[string]any{"email": "someone@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	code := decode[map[string]any](t, rec)["invite_code"].(string)

	rec = s.do(http.MethodGet, "/api/invite/"+code, "carol", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Readers")

	rec = s.do(http.MethodPost, "/api/invite/"+code+"/join", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "owner", decode[map[string]any](t, rec)["role"])

	rec = s.do(http.MethodPost, "/api/invite/"+code+"/join", "carol", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusesAndTemplates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/statuses", "alice", map[string]any{"name": "blocked", "color": "#FF0000"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(http.MethodPost, "/api/statuses", "alice", map[string]any{"name": "blocked"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/statuses/combined", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	combined := decode[map[string]any](t, rec)
	require.Len(t, combined["user_statuses"], 1)
	require.Len(t, combined["team_statuses"], 0)
	require.Equal(t, []any{"pending", "in_progress", "completed"}, combined["default_statuses"])

	rec = s.do(http.MethodPost, "/api/templates", "alice", map[string]any{
		"name":                "Weekly review",
		"title_template":      "Review {date}",
		"is_recurring":        true,
		"recurrence_type":     "weekly",
		"recurrence_interval": 1,
		"default_status":      "in_progress",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	template := decode[map[string]any](t, rec)
	require.Equal(t, []any{}, template["category_ids"])

	rec = s.do(http.MethodPost, "/api/templates/instantiate", "alice", map[string]any{"template_id": template["id"]})
	require.Equal(t, http.StatusCreated, rec.Code)
	goal := decode[goals.GoalResponse](t, rec)
	require.True(t, strings.HasPrefix(goal.Title, "Review 20"))
	require.Equal(t, "in_progress", goal.Status)
	require.NotNil(t, goal.TargetDate)
	require.NotNil(t, goal.TemplateID)

	rec = s.do(http.MethodGet, "/api/templates/"+template["id"].(string), "bob", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/templates/instantiate", "alice", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func uploadRequest(t *testing.T, path, user, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+user)
	return req
}

func TestFileEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/goals", "alice", map[string]any{"title": "Paperwork"})
	goal := decode[goals.GoalResponse](t, rec)
	base := "/api/goals/" + goal.ID + "/files"

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, uploadRequest(t, base, "alice", "Report.PDF", []byte("%PDF-1.4")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	uploaded := decode[map[string]any](t, rec)
	file := uploaded["file"].(map[string]any)
	fileID := file["id"].(string)
	require.True(t, strings.HasPrefix(file["file_path"].(string), goal.ID+"/"))
	require.True(t, strings.HasSuffix(file["file_path"].(string), ".pdf"))
	require.Len(t, s.blobs.blobs, 1)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, uploadRequest(t, base, "bob", "x.txt", []byte("x")))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, base, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(http.MethodGet, base+"/"+fileID+"/download", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	download := decode[map[string]any](t, rec)
	require.EqualValues(t, 3600, download["expires_in"])

	rec = s.do(http.MethodDelete, base+"/"+fileID, "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, s.blobs.blobs)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, uploadRequest(t, base, "alice", "scan.png", []byte("png")))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, s.blobs.blobs, 1)

	rec = s.do(http.MethodDelete, "/api/goals/"+goal.ID, "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, s.blobs.blobs)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/goals", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
