package memory

import (
	"context"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository is an in-memory campaign store
type CampaignRepository struct {
	rows *table[models.Campaign]
}

// NewCampaignRepository creates an empty CampaignRepository
func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{rows: newTable(
		func(c *models.Campaign) *models.Campaign {
			out := *c
			out.Variants = append([]models.CampaignVariant(nil), c.Variants...)
			return &out
		},
		func(c *models.Campaign) (time.Time, primitive.ObjectID) { return c.CreatedAt, c.ID },
	)}
}

func campaignStatus(status models.CampaignStatus) func(*models.Campaign) bool {
	if status == "" {
		return nil
	}
	return func(c *models.Campaign) bool { return c.Status == status }
}

// Create inserts a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	r.rows.insert(campaign.ID, campaign)
	return nil
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	return r.rows.get(id)
}

// FindAll returns one page of campaigns, newest first
func (r *CampaignRepository) FindAll(ctx context.Context, status models.CampaignStatus, page, limit int) ([]*models.Campaign, error) {
	return paginate(r.rows.find(campaignStatus(status)), page, limit), nil
}

// Count counts campaigns, optionally by status
func (r *CampaignRepository) Count(ctx context.Context, status models.CampaignStatus) (int64, error) {
	return r.rows.count(campaignStatus(status)), nil
}

// Update replaces a campaign
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	return r.rows.replace(campaign.ID, campaign)
}

// Delete deletes a campaign
func (r *CampaignRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.rows.remove(id)
}

// MarkSent records the outcome of a dispatch
func (r *CampaignRepository) MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time, recipientCount, sent int) error {
	return r.rows.update(id, func(c *models.Campaign) {
		c.Status = models.CampaignSent
		c.SentAt = &sentAt
		c.RecipientCount = recipientCount
		c.Stats.Sent = sent
		c.UpdatedAt = time.Now()
	})
}

// SetEngagement overwrites the engagement counters
func (r *CampaignRepository) SetEngagement(ctx context.Context, id primitive.ObjectID, counts models.EngagementCounts) error {
	return r.rows.update(id, func(c *models.Campaign) {
		c.Stats.Opens = counts.Opens
		c.Stats.UniqueOpens = counts.UniqueOpens
		c.Stats.Clicks = counts.Clicks
		c.Stats.UniqueClicks = counts.UniqueClicks
		c.Stats.Unsubscribes = counts.Unsubscribes
	})
}

// SumStats totals the stats block across all campaigns
func (r *CampaignRepository) SumStats(ctx context.Context) (models.CampaignStats, error) {
	var total models.CampaignStats
	for _, c := range r.rows.find(nil) {
		s := c.Stats
		total.Sent += s.Sent
		total.Delivered += s.Delivered
		total.Opens += s.Opens
		total.UniqueOpens += s.UniqueOpens
		total.Clicks += s.Clicks
		total.UniqueClicks += s.UniqueClicks
		total.Bounces += s.Bounces
		total.Unsubscribes += s.Unsubscribes
		total.Conversions += s.Conversions
		total.Revenue += s.Revenue
	}
	return total, nil
}
