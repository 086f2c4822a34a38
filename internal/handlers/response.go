package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Pagination bounds
const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// genericSubmitError is all the public ever sees when a submission fails unexpectedly
const genericSubmitError = "Something went wrong, please try again"

// ErrorWriter translates service errors into the response envelope
type ErrorWriter struct {
	log        *zap.Logger
	production bool
}

// NewErrorWriter creates a new ErrorWriter. In production 500 responses carry no error detail.
func NewErrorWriter(log *zap.Logger, production bool) *ErrorWriter {
	return &ErrorWriter{log: log, production: production}
}

// Write maps err onto a status and writes the failure envelope
func (w *ErrorWriter) Write(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusBadRequest, detail(err, services.ErrValidation))
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, detail(err, services.ErrNotFound))
	case errors.Is(err, services.ErrDuplicate):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	default:
		w.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		message := "Internal server error"
		if !w.production {
			message = err.Error()
		}
		respondError(c, http.StatusInternalServerError, message)
	}
}

// detail drops the "kind: " prefix a service error carries
func detail(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, models.Response{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.Response{Success: false, Message: message})
}

func respondList(c *gin.Context, data interface{}, page, limit int, total int64) {
	c.JSON(http.StatusOK, models.Response{
		Success:    true,
		Data:       data,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// pageParams reads page and limit from the query, clamped to sane bounds
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// objectID parses the named path parameter, writing a 400 when it is malformed
func objectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// bind decodes the JSON body, writing a 400 when it does not parse
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// requestMeta describes the caller of a public endpoint
func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Country:   c.GetHeader("CF-IPCountry"),
	}
}
