package handlers

import (
	"fmt"
	"net/http"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignService services.CampaignService
	errs            *ErrorWriter
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService services.CampaignService, errs *ErrorWriter) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, errs: errs}
}

// sentMessage summarises a dispatch, e.g. "Campaign sent to 2 of 3 recipients"
func sentMessage(what string, report *models.DispatchReport) string {
	return fmt.Sprintf("%s sent to %d of %d recipients", what, report.Succeeded, report.Attempted)
}

// ListCampaigns handles GET /campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	page, limit := pageParams(c)
	status := models.CampaignStatus(c.Query("status"))
	campaigns, total, err := h.campaignService.ListCampaigns(c.Request.Context(), status, page, limit)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respondList(c, campaigns, page, limit, total)
}

// GetCampaign handles GET /campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, campaign, "")
}

// CreateCampaign handles POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var campaign models.Campaign
	if !bind(c, &campaign) {
		return
	}
	created, err := h.campaignService.CreateCampaign(c.Request.Context(), &campaign)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusCreated, created, "Campaign created")
}

// UpdateCampaign handles PUT /campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	var campaign models.Campaign
	if !bind(c, &campaign) {
		return
	}
	updated, err := h.campaignService.UpdateCampaign(c.Request.Context(), id, &campaign)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, updated, "Campaign updated")
}

// DeleteCampaign handles DELETE /campaigns/:id
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.campaignService.DeleteCampaign(c.Request.Context(), id); err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Campaign deleted")
}

// SendCampaign handles POST /campaigns/:id/send
func (h *CampaignHandler) SendCampaign(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	report, err := h.campaignService.SendCampaign(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, report, sentMessage("Campaign", report))
}

// TestSend handles POST /campaigns/test/send
func (h *CampaignHandler) TestSend(c *gin.Context) {
	var req models.TestSendRequest
	if !bind(c, &req) {
		return
	}
	report, err := h.campaignService.TestSend(c.Request.Context(), &req)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, report, sentMessage("Test email", report))
}

// CampaignStats handles GET /campaigns/:id/stats
func (h *CampaignHandler) CampaignStats(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	stats, err := h.campaignService.CampaignStats(c.Request.Context(), id)
	if err != nil {
		h.errs.Write(c, err)
		return
	}
	respond(c, http.StatusOK, stats, "")
}
