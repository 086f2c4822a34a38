package handlers

import (
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	contactService services.ContactService
	errs           *ErrorWriter
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService services.ContactService, errs *ErrorWriter) *ContactHandler {
	return &ContactHandler{contactService: contactService, errs: errs}
}

// ListContacts handles GET /contacts
func (h *ContactHandler) ListContacts(c *gin.Context) {
	page, limit := pageParams(c)
	filter := models.ContactFilter{
		Search: c.Query("search"),
		Status: models.ContactStatus(c.Query("status")),
		Tag:    c.Query("tag"),
	}
	if raw := c.Query("segmentId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid segmentId")
			return
		}
		filter.SegmentID = &id
	}

	contacts, total, err := h.contactService.ListContacts(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respondList(c, contacts, page, limit, total)
}

// GetContact handles GET /contacts/:id
func (h *ContactHandler) GetContact(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	contact, err := h.contactService.GetContact(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, contact, "")
}

// CreateContact handles POST /contacts
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var input models.ContactInput
	if !bind(c, &input) {
		return
	}
	contact, err := h.contactService.CreateContact(c.Request.Context(), &input)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusCreated, contact, "Contact created")
}

// UpdateContact handles PUT /contacts/:id
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var patch models.ContactPatch
	if !bind(c, &patch) {
		return
	}
	contact, err := h.contactService.UpdateContact(c.Request.Context(), id, patch)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, contact, "Contact updated")
}

// DeleteContact handles DELETE /contacts/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.contactService.DeleteContact(c.Request.Context(), id); err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Contact deleted")
}

// ImportContacts handles POST /contacts/import with a multipart "file" field
func (h *ContactHandler) ImportContacts(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "A CSV file is required in the \"file\" field")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	defer file.Close()

	report, err := h.contactService.ImportContacts(c.Request.Context(), file)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, report, "Import finished")
}

// BulkTag handles POST /contacts/bulk-tag
func (h *ContactHandler) BulkTag(c *gin.Context) {
	var req models.BulkTagRequest
	if !bind(c, &req) {
		return
	}
	result, err := h.contactService.BulkTag(c.Request.Context(), &req)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, result, "")
}

// SendEmail handles POST /contacts/send-email
func (h *ContactHandler) SendEmail(c *gin.Context) {
	var req models.SendEmailRequest
	if !bind(c, &req) {
		return
	}
	report, err := h.contactService.SendEmail(c.Request.Context(), &req)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, report, sentMessage("Email", report))
}
