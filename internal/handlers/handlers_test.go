package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/leadflow-backend/internal/middleware"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
	Pagination *models.Pagination `json:"pagination"`
}

func perform(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func devErrors() *ErrorWriter {
	return NewErrorWriter(zap.NewNop(), false)
}

func TestErrorWriter(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", false, fmt.Errorf("%w: name is required", services.ErrValidation), http.StatusBadRequest, "name is required"},
		{"not found", false, fmt.Errorf("%w: contact not found", services.ErrNotFound), http.StatusNotFound, "contact not found"},
		{"duplicate", false, fmt.Errorf("%w: contact with email a@x.com already exists", services.ErrDuplicate), http.StatusBadRequest, "duplicate: contact with email a@x.com already exists"},
		{"credentials", false, services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"internal in development", false, errors.New("connection reset"), http.StatusInternalServerError, "connection reset"},
		{"internal in production", true, errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewErrorWriter(zap.NewNop(), tt.production)
			router := gin.New()
			router.GET("/x", func(c *gin.Context) { writer.Write(c, tt.err) })

			w, env := perform(t, router, http.MethodGet, "/x", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestContactHandler_ListContactsPagination(t *testing.T) {
	svc := new(mockContactService)
	h := NewContactHandler(svc, devErrors())
	router := gin.New()
	router.GET("/contacts", h.ListContacts)

	segID := primitive.NewObjectID()
	contacts := []*models.Contact{{Email: "a@x.com"}}
	svc.On("ListContacts", mock.Anything, models.ContactFilter{Search: "ada", Tag: "vip", SegmentID: &segID}, 2, 100).
		Return(contacts, int64(250), nil)

	w, env := perform(t, router, http.MethodGet, "/contacts?page=2&limit=500&search=ada&tag=vip&segmentId="+segID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 100, Total: 250, Pages: 3}, *env.Pagination)
	svc.AssertExpectations(t)

	w, env = perform(t, router, http.MethodGet, "/contacts?segmentId=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid segmentId", env.Message)
}

func TestContactHandler_InvalidID(t *testing.T) {
	h := NewContactHandler(new(mockContactService), devErrors())
	router := gin.New()
	router.GET("/contacts/:id", h.GetContact)
	router.DELETE("/contacts/:id", h.DeleteContact)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w, env := perform(t, router, method, "/contacts/not-an-id", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid ID format", env.Message)
	}
}

func TestContactHandler_CreateContact(t *testing.T) {
	svc := new(mockContactService)
	h := NewContactHandler(svc, devErrors())
	router := gin.New()
	router.POST("/contacts", h.CreateContact)

	svc.On("CreateContact", mock.Anything, mock.MatchedBy(func(in *models.ContactInput) bool {
		return in.Email == "a@x.com" && in.FirstName != nil && *in.FirstName == "Ada"
	})).Return(&models.Contact{Email: "a@x.com", FirstName: "Ada"}, nil)

	w, env := perform(t, router, http.MethodPost, "/contacts", gin.H{"email": "a@x.com", "firstName": "Ada"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	w, env = perform(t, router, http.MethodPost, "/contacts", gin.H{"firstName": "NoEmail"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	svc.AssertNumberOfCalls(t, "CreateContact", 1)
}

func TestContactHandler_ImportContacts(t *testing.T) {
	svc := new(mockContactService)
	h := NewContactHandler(svc, devErrors())
	router := gin.New()
	router.POST("/contacts/import", h.ImportContacts)

	csv := "email\na@x.com\n"
	svc.On("ImportContacts", mock.Anything, csv).Return(&models.ImportReport{TotalRows: 1, Created: 1, Failed: []models.ImportError{}}, nil)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "contacts.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/contacts/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var report models.ImportReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Created)
	svc.AssertExpectations(t)

	w, env = perform(t, router, http.MethodPost, "/contacts/import", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "CSV file is required")
}

func TestCampaignHandler_SendCampaign(t *testing.T) {
	svc := new(mockCampaignService)
	h := NewCampaignHandler(svc, devErrors())
	router := gin.New()
	router.POST("/campaigns/:id/send", h.SendCampaign)

	id := primitive.NewObjectID()
	svc.On("SendCampaign", mock.Anything, id).Return(&models.DispatchReport{
		Attempted: 3,
		Succeeded: 2,
		Failed:    1,
		Result:    &models.BulkResult{Succeeded: []string{"a@x.com", "c@x.com"}, Failed: []models.BulkFailure{{Email: "b@x.com", Error: "rejected"}}},
	}, nil)

	w, env := perform(t, router, http.MethodPost, "/campaigns/"+id.Hex()+"/send", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Campaign sent to 2 of 3 recipients", env.Message)

	var report models.DispatchReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Failed)
}

func TestCampaignHandler_AlreadySent(t *testing.T) {
	svc := new(mockCampaignService)
	h := NewCampaignHandler(svc, devErrors())
	router := gin.New()
	router.POST("/campaigns/:id/send", h.SendCampaign)

	id := primitive.NewObjectID()
	svc.On("SendCampaign", mock.Anything, id).Return(nil, fmt.Errorf("%w: campaign has already been sent", services.ErrValidation))

	w, env := perform(t, router, http.MethodPost, "/campaigns/"+id.Hex()+"/send", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "campaign has already been sent", env.Message)
}

func TestCampaignHandler_TestSendRequiresFields(t *testing.T) {
	svc := new(mockCampaignService)
	h := NewCampaignHandler(svc, devErrors())
	router := gin.New()
	router.POST("/campaigns/test/send", h.TestSend)

	w, _ := perform(t, router, http.MethodPost, "/campaigns/test/send", gin.H{"emails": []string{"a@x.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "TestSend", mock.Anything, mock.Anything)
}

func TestLandingPageHandler_Submit(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name       string
		result     *models.SubmissionResult
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"success", &models.SubmissionResult{Message: "Thanks!"}, nil, http.StatusOK, "Thanks!"},
		{"validation", nil, fmt.Errorf("%w: a valid email is required", services.ErrValidation), http.StatusBadRequest, "a valid email is required"},
		{"unpublished", nil, fmt.Errorf("%w: landing page not found", services.ErrNotFound), http.StatusNotFound, "landing page not found"},
		{"store failure", nil, errors.New("mongo: connection refused"), http.StatusInternalServerError, genericSubmitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockLandingPageService)
			h := NewLandingPageHandler(svc, devErrors(), zap.NewNop())
			router := gin.New()
			router.POST("/landing-pages/:id/submit", h.Submit)

			svc.On("Submit", mock.Anything, id, &models.Submission{Email: "a@x.com"}, mock.AnythingOfType("models.RequestMeta")).
				Return(tt.result, tt.err)

			w, env := perform(t, router, http.MethodPost, "/landing-pages/"+id.Hex()+"/submit", gin.H{"email": "a@x.com"})
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestLandingPageHandler_GetPublishedPassesRequestMeta(t *testing.T) {
	svc := new(mockLandingPageService)
	h := NewLandingPageHandler(svc, devErrors(), zap.NewNop())
	router := gin.New()
	router.GET("/landing-pages/slug/:slug", h.GetPublished)

	svc.On("ViewPublished", mock.Anything, "spring", mock.MatchedBy(func(meta models.RequestMeta) bool {
		return meta.UserAgent == "test-agent" && meta.IP != ""
	})).Return(&models.LandingPage{Slug: "spring"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/landing-pages/slug/spring", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc, devErrors())
	userID := primitive.NewObjectID()

	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.GET("/auth/me", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, c.GetHeader("X-User"))
		h.Me(c)
	})

	svc.On("Login", mock.Anything, &models.LoginRequest{Email: "admin@x.com", Password: "wrong"}).Return(nil, services.ErrInvalidCredentials)
	svc.On("Me", mock.Anything, userID).Return(&models.AdminUser{ID: userID, Email: "admin@x.com"}, nil)

	w, env := perform(t, router, http.MethodPost, "/auth/login", gin.H{"email": "admin@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", env.Message)

	w, _ = perform(t, router, http.MethodPost, "/auth/login", gin.H{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("X-User", userID.Hex())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@x.com")
}

func TestHealthHandler(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("dial tcp: refused") }

	router := func(checks map[string]Check) *gin.Engine {
		h := NewHealthHandler(checks)
		r := gin.New()
		r.GET("/health", h.Health)
		r.GET("/health/live", h.Live)
		r.GET("/health/ready", h.Ready)
		r.GET("/health/detailed", h.Detailed)
		return r
	}

	up := router(map[string]Check{"mongodb": healthy, "redis": healthy})
	for _, path := range []string{"/health", "/health/live", "/health/ready", "/health/detailed"} {
		w, env := perform(t, up, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.True(t, env.Success, path)
	}

	down := router(map[string]Check{"mongodb": broken})
	w, _ := perform(t, down, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := perform(t, down, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Service not ready", env.Message)

	w, env = perform(t, down, http.MethodGet, "/health/detailed", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, string(env.Data), "dial tcp: refused")
}
