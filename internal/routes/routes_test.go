package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/onegoal/onegoal/internal/app"
	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/db"
	"github.com/onegoal/onegoal/internal/middleware"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/routes"
	"github.com/onegoal/onegoal/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t       *testing.T
	app     *app.App
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppName:     "One Goal",
		AppEnv:      "test",
		AppURL:      "http://localhost:8090",
		DBDriver:    db.DriverSQLite,
		JWTSecret:   "test-secret",
		JWTExpiry:   time.Hour,
		CORSOrigins: []string{"http://localhost:3000"},
	}

	database, err := db.Init(cfg.DBDriver, filepath.Join(t.TempDir(), "api.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, cfg.DBDriver))

	mailer, err := service.NewEmailService("", "", cfg.AppURL, cfg.AppName, true)
	require.NoError(t, err)

	a := app.Build(cfg, database, nil, mailer, service.SystemClock)
	limiter := middleware.NewRateLimiter(600, 100)

	return &testServer{t: t, app: a, handler: routes.SetupRoutes(a, limiter)}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (s *testServer) register(email string) string {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/auth/register", "",
		`{"email":"`+email+`","password":"correct-horse-battery","firstName":"Ana","lastName":"Lopez"}`)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(s.t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(s.t, token)
	return token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ana@example.com")

	rec := s.do(http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(http.MethodPost, "/api/auth/register", "",
		`{"email":"ANA@example.com","password":"correct-horse-battery","firstName":"Ana","lastName":"Lopez"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"wrong-password-here"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"correct-horse-battery"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", "", `{"email":"bad","password":"correct-horse-battery","firstName":"A","lastName":"B"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decode(t, rec)["field"])
}

func TestGoalAndCheckInFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ana@example.com")

	rec := s.do(http.MethodGet, "/api/goals", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	deadline := time.Now().UTC().AddDate(0, 1, 0).Format(time.DateOnly)
	rec = s.do(http.MethodPost, "/api/goals", token, `{"title":"Ship the app","deadline":"`+deadline+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	goal := decode(t, rec)["goal"].(map[string]any)
	goalID := goal["id"].(string)
	assert.Equal(t, model.GoalStatusActive, goal["status"])

	rec = s.do(http.MethodPost, "/api/goals", token, `{"title":"Another","deadline":"`+deadline+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/goals", token, `{"title":"Bad date","deadline":"tomorrow"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "deadline", decode(t, rec)["field"])

	rec = s.do(http.MethodPost, "/api/checkins", token, `{"goalId":"`+goalID+`","progress":40,"mood":"good","note":"Kickoff"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Check-in created", decode(t, rec)["message"])

	rec = s.do(http.MethodPost, "/api/checkins", token, `{"goalId":"`+goalID+`","progress":55}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Check-in updated", body["message"])
	assert.Equal(t, "Kickoff", body["checkIn"].(map[string]any)["note"])

	rec = s.do(http.MethodGet, "/api/checkins/streak", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["streak"])

	rec = s.do(http.MethodGet, "/api/goals/active", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(55), decode(t, rec)["goal"].(map[string]any)["progress"])

	rec = s.do(http.MethodGet, "/api/goals/"+goalID+"/export", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	rec = s.do(http.MethodPost, "/api/goals/"+goalID+"/export", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(http.MethodPut, "/api/goals/"+goalID+"/complete", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(100), decode(t, rec)["goal"].(map[string]any)["progress"])

	rec = s.do(http.MethodPost, "/api/checkins", token, `{"goalId":"`+goalID+`","progress":60}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalOwnership(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com")
	other := s.register("other@example.com")

	deadline := time.Now().UTC().AddDate(0, 0, 10).Format(time.DateOnly)
	rec := s.do(http.MethodPost, "/api/goals", owner, `{"title":"Mine","deadline":"`+deadline+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	goalID := decode(t, rec)["goal"].(map[string]any)["id"].(string)

	rec = s.do(http.MethodGet, "/api/goals/"+goalID, other, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/checkins", other, `{"goalId":"`+goalID+`","progress":10}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/goals/missing", owner, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.register("admin@example.com")

	rec := s.do(http.MethodGet, "/api/admin/stats", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	user, err := s.app.AuthService.Login("admin@example.com", "correct-horse-battery")
	require.NoError(t, err)
	_, err = s.app.DB.Exec(`UPDATE users SET role = 'admin' WHERE id = $1`, user.ID)
	require.NoError(t, err)

	rec = s.do(http.MethodGet, "/api/admin/stats", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["totalUsers"])

	rec = s.do(http.MethodPut, "/api/admin/users/"+user.ID+"/role", token, `{"role":"user"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/notifications/test/check-in", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])
}

func TestWaitlistRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/waitlist", "", `{"email":"early@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/waitlist", "", `{"email":"early@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/waitlist", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decode(t, rec)["message"])
}
