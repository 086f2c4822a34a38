package handlers

import (
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AutomationHandler handles stored automation requests
type AutomationHandler struct {
	automationService services.AutomationService
	errs              *ErrorWriter
}

// NewAutomationHandler creates a new AutomationHandler
func NewAutomationHandler(automationService services.AutomationService, errs *ErrorWriter) *AutomationHandler {
	return &AutomationHandler{automationService: automationService, errs: errs}
}

// ListAutomations handles GET /automations
func (h *AutomationHandler) ListAutomations(c *gin.Context) {
	page, limit := pageParams(c)
	items, total, err := h.automationService.ListAutomations(c.Request.Context(), page, limit)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respondList(c, items, page, limit, total)
}

// GetAutomation handles GET /automations/:id
func (h *AutomationHandler) GetAutomation(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	automation, err := h.automationService.GetAutomation(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, automation, "")
}

// CreateAutomation handles POST /automations
func (h *AutomationHandler) CreateAutomation(c *gin.Context) {
	var automation models.Automation
	if !bind(c, &automation) {
		return
	}
	created, err := h.automationService.CreateAutomation(c.Request.Context(), &automation)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusCreated, created, "Automation created")
}

// UpdateAutomation handles PUT /automations/:id
func (h *AutomationHandler) UpdateAutomation(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var automation models.Automation
	if !bind(c, &automation) {
		return
	}
	updated, err := h.automationService.UpdateAutomation(c.Request.Context(), id, &automation)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, updated, "Automation updated")
}

// DeleteAutomation handles DELETE /automations/:id
func (h *AutomationHandler) DeleteAutomation(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.automationService.DeleteAutomation(c.Request.Context(), id); err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Automation deleted")
}
