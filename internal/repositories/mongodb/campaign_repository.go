package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository implements the repositories.CampaignRepository interface
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection(campaignsCollection),
	}
}

func statusFilter(status string) bson.M {
	if status == "" {
		return bson.M{}
	}
	return bson.M{"status": status}
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&campaign); err != nil {
		return nil, translate(err)
	}
	return &campaign, nil
}

// FindAll finds campaigns with pagination, newest first
func (r *CampaignRepository) FindAll(ctx context.Context, status models.CampaignStatus, page, limit int) ([]*models.Campaign, error) {
	opts := pageOptions(page, limit, bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, statusFilter(string(status)), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}

	// Ensure an empty slice is returned instead of nil if no campaigns found
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}

	return campaigns, nil
}

// Count counts campaigns, optionally by status
func (r *CampaignRepository) Count(ctx context.Context, status models.CampaignStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, statusFilter(string(status)))
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	_, err := r.collection.InsertOne(ctx, campaign)
	return translate(err)
}

// Update updates a campaign
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": campaign.ID}, campaign)
	if err != nil {
		return translate(err)
	}
	return mustMatch(res.MatchedCount)
}

// Delete deletes a campaign
func (r *CampaignRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mustMatch(res.DeletedCount)
}

// MarkSent records the outcome of a dispatch
func (r *CampaignRepository) MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time, recipientCount, sent int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":         models.CampaignSent,
		"sentAt":         sentAt,
		"recipientCount": recipientCount,
		"stats.sent":     sent,
		"updatedAt":      time.Now(),
	}})
	if err != nil {
		return err
	}
	return mustMatch(res.MatchedCount)
}

// SetEngagement overwrites the engagement counters recomputed from the event log
func (r *CampaignRepository) SetEngagement(ctx context.Context, id primitive.ObjectID, counts models.EngagementCounts) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"stats.opens":        counts.Opens,
		"stats.uniqueOpens":  counts.UniqueOpens,
		"stats.clicks":       counts.Clicks,
		"stats.uniqueClicks": counts.UniqueClicks,
		"stats.unsubscribes": counts.Unsubscribes,
	}})
	if err != nil {
		return err
	}
	return mustMatch(res.MatchedCount)
}

// SumStats totals the stats block across all campaigns
func (r *CampaignRepository) SumStats(ctx context.Context) (models.CampaignStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"sent":         bson.M{"$sum": "$stats.sent"},
			"delivered":    bson.M{"$sum": "$stats.delivered"},
			"opens":        bson.M{"$sum": "$stats.opens"},
			"uniqueOpens":  bson.M{"$sum": "$stats.uniqueOpens"},
			"clicks":       bson.M{"$sum": "$stats.clicks"},
			"uniqueClicks": bson.M{"$sum": "$stats.uniqueClicks"},
			"bounces":      bson.M{"$sum": "$stats.bounces"},
			"unsubscribes": bson.M{"$sum": "$stats.unsubscribes"},
			"conversions":  bson.M{"$sum": "$stats.conversions"},
			"revenue":      bson.M{"$sum": "$stats.revenue"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.CampaignStats{}, err
	}
	defer cursor.Close(ctx)

	var totals []models.CampaignStats
	if err := cursor.All(ctx, &totals); err != nil {
		return models.CampaignStats{}, err
	}
	if len(totals) == 0 {
		return models.CampaignStats{}, nil
	}
	return totals[0], nil
}
