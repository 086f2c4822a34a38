package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/app"
	"github.com/ArowuTest/leadflow-backend/internal/config"
	"github.com/ArowuTest/leadflow-backend/internal/handlers"
	"github.com/ArowuTest/leadflow-backend/internal/middleware"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/pkg/jwt"
	"github.com/ArowuTest/leadflow-backend/pkg/mailer"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type testServer struct {
	router *gin.Engine
	svc    *app.Services
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()
	cfg := &config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverMemory},
		Mail:     config.MailConfig{Provider: config.MailMock, FromEmail: "news@leadflow.local"},
		Dispatch: config.DispatchConfig{Concurrency: 2},
		Admin:    config.AdminConfig{Email: "admin@leadflow.local", Password: "change-me-please"},
	}

	storage, err := app.OpenStorage(ctx, cfg, log)
	require.NoError(t, err)
	tokens := jwt.NewTokenService("routes-secret", time.Hour)
	svc := app.NewServices(cfg, storage.Repos, mailer.NewMockSender(log), tokens, log)
	require.NoError(t, app.SeedAdmin(ctx, cfg, svc.Auth, log))

	errs := handlers.NewErrorWriter(log, false)
	router := SetupRouter(Options{
		AllowedOrigins: []string{"*"},
		Tokens:         tokens,
		RateLimiter:    limiter,
		Logger:         log,
	}, HandlerDependencies{
		AuthHandler:        handlers.NewAuthHandler(svc.Auth, errs),
		ContactHandler:     handlers.NewContactHandler(svc.Contacts, errs),
		SegmentHandler:     handlers.NewSegmentHandler(svc.Segments, errs),
		CampaignHandler:    handlers.NewCampaignHandler(svc.Campaigns, errs),
		LandingPageHandler: handlers.NewLandingPageHandler(svc.LandingPages, errs, log),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(svc.Analytics, errs),
		CustomFieldHandler: handlers.NewCustomFieldHandler(svc.CustomFields, errs),
		AutomationHandler:  handlers.NewAutomationHandler(svc.Automations, errs),
		HealthHandler:      handlers.NewHealthHandler(map[string]handlers.Check{"storage": storage.Ping}),
	})
	return &testServer{router: router, svc: svc}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "admin@leadflow.local",
		Password: "change-me-please",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/contacts", "/api/segments", "/api/campaigns", "/api/analytics/dashboard", "/api/auth/me"} {
		t.Run(path, func(t *testing.T) {
			w, env := s.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, env.Success)
		})
	}

	w, _ := s.do(t, http.MethodGet, "/api/contacts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContactLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	w, env := s.do(t, http.MethodPost, "/api/contacts", token, map[string]interface{}{
		"email":     "  Ada@Example.com ",
		"firstName": "Ada",
		"tags":      []string{"vip"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Contact
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "ada@example.com", created.Email)

	w, _ = s.do(t, http.MethodPost, "/api/contacts", token, map[string]interface{}{"email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/contacts/"+created.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Email            string              `json:"email"`
		MatchingSegments []models.SegmentRef `json:"matchingSegments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "ada@example.com", detail.Email)
	assert.Empty(t, detail.MatchingSegments)

	w, _ = s.do(t, http.MethodDelete, "/api/contacts/"+created.ID.Hex(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/contacts/"+created.ID.Hex(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicLandingPageRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	page, err := s.svc.LandingPages.CreatePage(context.Background(), &models.LandingPage{
		Name:   "Spring Offer",
		Slug:   "spring-offer",
		Title:  "Spring",
		Status: models.PagePublished,
	})
	require.NoError(t, err)

	w, env := s.do(t, http.MethodGet, "/api/landing-pages/slug/spring-offer", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, env = s.do(t, http.MethodPost, "/api/landing-pages/"+page.ID.Hex()+"/submit", "", map[string]string{
		"email":     "lead@example.com",
		"firstName": "Lea",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.DefaultSuccessMessage, env.Message)

	w, _ = s.do(t, http.MethodGet, "/api/landing-pages/slug/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Admin page routes stay protected
	w, _ = s.do(t, http.MethodGet, "/api/landing-pages/"+page.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitIsRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := middleware.NewRateLimiter(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 1, time.Hour, zap.NewNop())
	s := newTestServer(t, limiter)
	page, err := s.svc.LandingPages.CreatePage(context.Background(), &models.LandingPage{
		Name:   "Limited",
		Slug:   "limited",
		Status: models.PagePublished,
	})
	require.NoError(t, err)

	path := "/api/landing-pages/" + page.ID.Hex() + "/submit"
	w, _ := s.do(t, http.MethodPost, path, "", map[string]string{"email": "one@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, env := s.do(t, http.MethodPost, path, "", map[string]string{"email": "two@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, env.Success)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "leadflow_http_requests_total")

	req := httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}
