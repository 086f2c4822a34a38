package handlers

import (
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the read-only analytics roll-ups
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	errs             *ErrorWriter
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService services.AnalyticsService, errs *ErrorWriter) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, errs: errs}
}

// Dashboard handles GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "")
}

// Reports handles GET /analytics/reports
func (h *AnalyticsHandler) Reports(c *gin.Context) {
	report, err := h.analyticsService.Reports(c.Request.Context())
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, report, "")
}
