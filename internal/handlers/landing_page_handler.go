package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LandingPageHandler handles landing page HTTP requests, including the public ones
type LandingPageHandler struct {
	pageService services.LandingPageService
	errs        *ErrorWriter
	log         *zap.Logger
}

// NewLandingPageHandler creates a new LandingPageHandler
func NewLandingPageHandler(pageService services.LandingPageService, errs *ErrorWriter, log *zap.Logger) *LandingPageHandler {
	return &LandingPageHandler{pageService: pageService, errs: errs, log: log}
}

// ListPages handles GET /landing-pages
func (h *LandingPageHandler) ListPages(c *gin.Context) {
	page, limit := pageParams(c)
	status := models.LandingPageStatus(c.Query("status"))
	pages, total, err := h.pageService.ListPages(c.Request.Context(), status, page, limit)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respondList(c, pages, page, limit, total)
}

// GetPage handles GET /landing-pages/:id
func (h *LandingPageHandler) GetPage(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	page, err := h.pageService.GetPage(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, page, "")
}

// CreatePage handles POST /landing-pages
func (h *LandingPageHandler) CreatePage(c *gin.Context) {
	var page models.LandingPage
	if !bind(c, &page) {
		return
	}
	created, err := h.pageService.CreatePage(c.Request.Context(), &page)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusCreated, created, "Landing page created")
}

// UpdatePage handles PUT /landing-pages/:id
func (h *LandingPageHandler) UpdatePage(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var page models.LandingPage
	if !bind(c, &page) {
		return
	}
	updated, err := h.pageService.UpdatePage(c.Request.Context(), id, &page)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, updated, "Landing page updated")
}

// DeletePage handles DELETE /landing-pages/:id
func (h *LandingPageHandler) DeletePage(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.pageService.DeletePage(c.Request.Context(), id); err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Landing page deleted")
}

// GetPublished handles the public GET /landing-pages/slug/:slug
func (h *LandingPageHandler) GetPublished(c *gin.Context) {
	page, err := h.pageService.ViewPublished(c.Request.Context(), c.Param("slug"), requestMeta(c))
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, page, "")
}

// Submit handles the public POST /landing-pages/:id/submit.
// Unexpected failures never leak detail to the visitor.
func (h *LandingPageHandler) Submit(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondError(c, http.StatusBadRequest, "Please check the form and try again")
		return
	}

	result, err := h.pageService.Submit(c.Request.Context(), id, &sub, requestMeta(c))
	switch {
	case err == nil:
		respond(c, http.StatusOK, result, result.Message)
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrNotFound):
		h.errs.Write(c, err)
	default:
		h.log.Error("form submission failed", zap.String("landingPageId", id.Hex()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, genericSubmitError)
	}
}
