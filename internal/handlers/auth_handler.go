package handlers

import (
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/middleware"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService services.AuthService
	errs        *ErrorWriter
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, errs *ErrorWriter) *AuthHandler {
	return &AuthHandler{authService: authService, errs: errs}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, resp, "Login successful")
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	user, err := h.authService.Me(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, user, "")
}
