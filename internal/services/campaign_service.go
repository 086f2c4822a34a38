package services

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/metrics"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/utils"
	"github.com/ArowuTest/leadflow-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type campaignService struct {
	campaigns  repositories.CampaignRepository
	segments   repositories.SegmentRepository
	events     repositories.EventRepository
	audience   SegmentService
	dispatcher *Dispatcher
	log        *zap.Logger
	now        func() time.Time
}

// NewCampaignService creates a new CampaignService implementation
func NewCampaignService(repos *repositories.Repositories, audience SegmentService, dispatcher *Dispatcher, log *zap.Logger) CampaignService {
	return &campaignService{
		campaigns:  repos.Campaigns,
		segments:   repos.Segments,
		events:     repos.Events,
		audience:   audience,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// validate checks the editable fields of c
func (s *campaignService) validate(ctx context.Context, c *models.Campaign) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Subject = strings.TrimSpace(c.Subject)
	switch {
	case c.Name == "":
		return validationError("name is required")
	case c.Subject == "":
		return validationError("subject is required")
	case strings.TrimSpace(c.HTMLContent) == "":
		return validationError("htmlContent is required")
	}
	if c.FromEmail != "" {
		c.FromEmail = utils.NormalizeEmail(c.FromEmail)
		if !utils.ValidEmail(c.FromEmail) {
			return validationError("invalid fromEmail %q", c.FromEmail)
		}
	}

	switch c.Status {
	case "":
		c.Status = models.CampaignDraft
	case models.CampaignDraft:
	case models.CampaignScheduled:
		if c.ScheduledAt == nil {
			return validationError("scheduledAt is required for scheduled campaigns")
		}
	default:
		return validationError("status must be draft or scheduled")
	}

	if c.SegmentID != nil {
		if _, err := s.segments.FindByID(ctx, *c.SegmentID); err != nil {
			return storeError(err, "segment")
		}
	}
	return nil
}

// ListCampaigns returns one page of campaigns
func (s *campaignService) ListCampaigns(ctx context.Context, status models.CampaignStatus, page, limit int) ([]*models.Campaign, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, validationError("invalid status %q", status)
	}
	campaigns, err := s.campaigns.FindAll(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.campaigns.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// GetCampaign returns a campaign by id
func (s *campaignService) GetCampaign(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	c, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "campaign")
	}
	return c, nil
}

// CreateCampaign stores a new draft or scheduled campaign
func (s *campaignService) CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	if err := s.validate(ctx, campaign); err != nil {
		return nil, err
	}
	campaign.ID = primitive.NilObjectID
	campaign.SentAt = nil
	campaign.RecipientCount = 0
	campaign.Stats = models.CampaignStats{}

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, storeError(err, "campaign")
	}
	return campaign, nil
}

// UpdateCampaign edits a campaign that has not been sent
func (s *campaignService) UpdateCampaign(ctx context.Context, id primitive.ObjectID, input *models.Campaign) (*models.Campaign, error) {
	existing, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "campaign")
	}
	if existing.Status == models.CampaignSent || existing.Status == models.CampaignSending {
		return nil, validationError("campaign has already been sent and can no longer be edited")
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Subject = input.Subject
	existing.Preheader = input.Preheader
	existing.HTMLContent = input.HTMLContent
	existing.FromName = input.FromName
	existing.FromEmail = input.FromEmail
	existing.Variants = input.Variants
	existing.SegmentID = input.SegmentID
	existing.Status = input.Status
	existing.ScheduledAt = input.ScheduledAt

	if err := s.campaigns.Update(ctx, existing); err != nil {
		return nil, storeError(err, "campaign")
	}
	return existing, nil
}

// DeleteCampaign deletes a campaign
func (s *campaignService) DeleteCampaign(ctx context.Context, id primitive.ObjectID) error {
	return storeError(s.campaigns.Delete(ctx, id), "campaign")
}

// SendCampaign resolves the audience, mails every recipient and records the outcome.
// Individual failures are counted, never fatal.
func (s *campaignService) SendCampaign(ctx context.Context, id primitive.ObjectID) (*models.DispatchReport, error) {
	campaign, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "campaign")
	}
	if campaign.Status == models.CampaignSent {
		return nil, validationError("campaign has already been sent")
	}

	recipients, err := s.audience.Recipients(ctx, campaign.SegmentID)
	if err != nil {
		return nil, err
	}

	// a dropped client connection must not abandon a half-sent campaign
	ctx = context.WithoutCancel(ctx)

	// campaign content goes out as stored, without merge tags
	targets := make([]recipient, 0, len(recipients))
	for _, c := range recipients {
		targets = append(targets, recipient{ID: c.ID.Hex(), Email: c.Email})
	}

	timer := metrics.NewTimer()
	report := s.dispatcher.send(ctx, sendCampaign, mailer.Message{
		FromEmail:   campaign.FromEmail,
		FromName:    campaign.FromName,
		Subject:     campaign.Subject,
		Preheader:   campaign.Preheader,
		HTMLContent: campaign.HTMLContent,
		Tags:        map[string]string{"campaign_id": campaign.ID.Hex()},
	}, targets)
	elapsed := timer.ObserveDuration(metrics.DispatchDuration)

	if err := s.campaigns.MarkSent(ctx, campaign.ID, s.now(), report.Attempted, report.Succeeded); err != nil {
		return nil, err
	}

	s.log.Info("campaign dispatched",
		zap.String("campaignId", campaign.ID.Hex()),
		zap.Int("recipients", report.Attempted),
		zap.Int("sent", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", elapsed),
	)
	return report, nil
}

// TestSend mails content to the given addresses. Invalid addresses are reported, not fatal.
func (s *campaignService) TestSend(ctx context.Context, req *models.TestSendRequest) (*models.DispatchReport, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.HTMLContent) == "" {
		return nil, validationError("subject and htmlContent are required")
	}
	if len(req.Emails) == 0 {
		return nil, validationError("at least one email is required")
	}

	var targets []recipient
	var invalid []models.BulkFailure
	for _, raw := range req.Emails {
		email := utils.NormalizeEmail(raw)
		if !utils.ValidEmail(email) {
			invalid = append(invalid, models.BulkFailure{Email: raw, Error: "invalid email"})
			continue
		}
		targets = append(targets, recipient{Email: email, Vars: map[string]interface{}{"email": email}})
	}

	report := s.dispatcher.send(ctx, sendTest, mailer.Message{Subject: req.Subject, HTMLContent: req.HTMLContent}, targets)
	report.Attempted += len(invalid)
	report.Failed += len(invalid)
	report.Result.Failed = append(report.Result.Failed, invalid...)
	return report, nil
}

// CampaignStats recomputes engagement counters from the event log
func (s *campaignService) CampaignStats(ctx context.Context, id primitive.ObjectID) (*models.CampaignStatsView, error) {
	if _, err := s.campaigns.FindByID(ctx, id); err != nil {
		return nil, storeError(err, "campaign")
	}
	counts, err := s.events.CampaignEngagement(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.campaigns.SetEngagement(ctx, id, counts); err != nil {
		return nil, storeError(err, "campaign")
	}
	campaign, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "campaign")
	}
	view := models.NewCampaignStatsView(campaign.Stats)
	return &view, nil
}
