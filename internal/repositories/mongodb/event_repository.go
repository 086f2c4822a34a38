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

var _ repositories.EventRepository = (*EventRepository)(nil)

// EventRepository is the append-only event log. Expiry is left to the TTL index on expiresAt.
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection(eventsCollection),
	}
}

// Create appends an event, stamping creation and expiry when unset
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.ExpiresAt.IsZero() {
		event.ExpiresAt = event.CreatedAt.Add(event.Type.Retention())
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// DeleteByContact removes every event of a contact
func (r *EventRepository) DeleteByContact(ctx context.Context, contactID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"contactId": contactID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByType counts events per type since the given time
func (r *EventRepository) CountByType(ctx context.Context, since time.Time) (map[models.EventType]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": "$type", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  models.EventType `bson:"_id"`
		Count int64            `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.EventType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// DailyCounts buckets events of the given types by UTC day since the given time
func (r *EventRepository) DailyCounts(ctx context.Context, since time.Time, types []models.EventType) ([]models.DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": since},
			"type":      bson.M{"$in": types},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"date": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
				"type": "$type",
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "date": "$_id.date", "type": "$_id.type", "count": 1}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}, {Key: "type", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []models.DailyCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []models.DailyCount{}
	}
	return counts, nil
}

// lookupName joins one referenced document and keeps a single field from it
func lookupName(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{"from": from, "localField": localField, "foreignField": "_id", "as": as}}},
		{{Key: "$unwind", Value: bson.M{"path": "$" + as, "preserveNullAndEmptyArrays": true}}},
	}
}

// Recent returns the newest events joined with contact, campaign and page names
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]*models.EventView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
	pipeline = append(pipeline, lookupName(contactsCollection, "contactId", "contact")...)
	pipeline = append(pipeline, lookupName(campaignsCollection, "campaignId", "campaign")...)
	pipeline = append(pipeline, lookupName(landingPagesCollection, "landingPageId", "page")...)
	pipeline = append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.M{
			"contactEmail": "$contact.email",
			"contactName": bson.M{"$trim": bson.M{"input": bson.M{"$concat": bson.A{
				bson.M{"$ifNull": bson.A{"$contact.firstName", ""}}, " ",
				bson.M{"$ifNull": bson.A{"$contact.lastName", ""}},
			}}}},
			"campaignName":    "$campaign.name",
			"landingPageName": "$page.name",
		}}},
		bson.D{{Key: "$project", Value: bson.M{"contact": 0, "campaign": 0, "page": 0}}},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.EventView
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.EventView{}
	}
	return events, nil
}

// engagementPipeline groups a campaign's events by type. Unique counts are
// distinct contacts; events without a contact count toward totals only.
func engagementPipeline(campaignID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"campaignId": campaignID,
			"type": bson.M{"$in": []models.EventType{
				models.EventEmailOpen, models.EventEmailClick, models.EventUnsubscribe,
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$type",
			"count":    bson.M{"$sum": 1},
			"contacts": bson.M{"$addToSet": "$contactId"},
		}}},
		{{Key: "$project", Value: bson.M{
			"count": 1,
			"unique": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$contacts",
				"cond":  bson.M{"$ne": bson.A{"$$this", nil}},
			}}},
		}}},
	}
}

// CampaignEngagement counts opens, clicks and unsubscribes for a campaign
func (r *EventRepository) CampaignEngagement(ctx context.Context, campaignID primitive.ObjectID) (models.EngagementCounts, error) {
	pipeline := engagementPipeline(campaignID)

	var counts models.EngagementCounts
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type   models.EventType `bson:"_id"`
		Count  int              `bson:"count"`
		Unique int              `bson:"unique"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return counts, err
	}

	for _, row := range rows {
		switch row.Type {
		case models.EventEmailOpen:
			counts.Opens, counts.UniqueOpens = row.Count, row.Unique
		case models.EventEmailClick:
			counts.Clicks, counts.UniqueClicks = row.Count, row.Unique
		case models.EventUnsubscribe:
			counts.Unsubscribes = row.Count
		}
	}
	return counts, nil
}
