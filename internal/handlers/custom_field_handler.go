package handlers

import (
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CustomFieldHandler handles custom field definition requests
type CustomFieldHandler struct {
	fieldService services.CustomFieldService
	errs         *ErrorWriter
}

// NewCustomFieldHandler creates a new CustomFieldHandler
func NewCustomFieldHandler(fieldService services.CustomFieldService, errs *ErrorWriter) *CustomFieldHandler {
	return &CustomFieldHandler{fieldService: fieldService, errs: errs}
}

// ListFields handles GET /custom-fields
func (h *CustomFieldHandler) ListFields(c *gin.Context) {
	fields, err := h.fieldService.ListFields(c.Request.Context())
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, fields, "")
}

// GetField handles GET /custom-fields/:id
func (h *CustomFieldHandler) GetField(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	field, err := h.fieldService.GetField(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, field, "")
}

// CreateField handles POST /custom-fields
func (h *CustomFieldHandler) CreateField(c *gin.Context) {
	var field models.CustomField
	if !bind(c, &field) {
		return
	}
	created, err := h.fieldService.CreateField(c.Request.Context(), &field)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusCreated, created, "Custom field created")
}

// UpdateField handles PUT /custom-fields/:id
func (h *CustomFieldHandler) UpdateField(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var field models.CustomField
	if !bind(c, &field) {
		return
	}
	updated, err := h.fieldService.UpdateField(c.Request.Context(), id, &field)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, updated, "Custom field updated")
}

// DeleteField handles DELETE /custom-fields/:id
func (h *CustomFieldHandler) DeleteField(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.fieldService.DeleteField(c.Request.Context(), id); err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Custom field deleted")
}
