package handlers

import (
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SegmentHandler handles segment-related HTTP requests
type SegmentHandler struct {
	segmentService services.SegmentService
	errs           *ErrorWriter
}

// NewSegmentHandler creates a new SegmentHandler
func NewSegmentHandler(segmentService services.SegmentService, errs *ErrorWriter) *SegmentHandler {
	return &SegmentHandler{segmentService: segmentService, errs: errs}
}

// ListSegments handles GET /segments
func (h *SegmentHandler) ListSegments(c *gin.Context) {
	page, limit := pageParams(c)
	segments, total, err := h.segmentService.ListSegments(c.Request.Context(), page, limit)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respondList(c, segments, page, limit, total)
}

// GetSegment handles GET /segments/:id
func (h *SegmentHandler) GetSegment(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	segment, err := h.segmentService.GetSegment(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, segment, "")
}

// CreateSegment handles POST /segments
func (h *SegmentHandler) CreateSegment(c *gin.Context) {
	var input models.SegmentInput
	if !bind(c, &input) {
		return
	}
	segment, err := h.segmentService.CreateSegment(c.Request.Context(), &input)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusCreated, segment, "Segment created")
}

// UpdateSegment handles PUT /segments/:id
func (h *SegmentHandler) UpdateSegment(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var input models.SegmentInput
	if !bind(c, &input) {
		return
	}
	segment, err := h.segmentService.UpdateSegment(c.Request.Context(), id, &input)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, segment, "Segment updated")
}

// DeleteSegment handles DELETE /segments/:id
func (h *SegmentHandler) DeleteSegment(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.segmentService.DeleteSegment(c.Request.Context(), id); err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Segment deleted")
}

// Preview handles POST /segments/preview
func (h *SegmentHandler) Preview(c *gin.Context) {
	var req models.PreviewRequest
	if !bind(c, &req) {
		return
	}
	result, err := h.segmentService.Preview(c.Request.Context(), &req)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, result, "")
}

// SegmentContacts handles GET /segments/:id/contacts
func (h *SegmentHandler) SegmentContacts(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	page, limit := pageParams(c)
	contacts, total, err := h.segmentService.SegmentContacts(c.Request.Context(), id, page, limit)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respondList(c, contacts, page, limit, total)
}
