package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.LandingPageRepository = (*LandingPageRepository)(nil)

// LandingPageRepository handles MongoDB operations for landing pages
type LandingPageRepository struct {
	collection *mongo.Collection
}

// NewLandingPageRepository creates a new LandingPageRepository
func NewLandingPageRepository(db *mongo.Database) *LandingPageRepository {
	return &LandingPageRepository{
		collection: db.Collection(landingPagesCollection),
	}
}

// Create inserts a new landing page
func (r *LandingPageRepository) Create(ctx context.Context, page *models.LandingPage) error {
	page.ID = primitive.NewObjectID()
	page.CreatedAt = time.Now()
	page.UpdatedAt = page.CreatedAt
	_, err := r.collection.InsertOne(ctx, page)
	return translate(err)
}

// FindByID finds a landing page by ID
func (r *LandingPageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.LandingPage, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindBySlug finds a landing page by slug
func (r *LandingPageRepository) FindBySlug(ctx context.Context, slug string) (*models.LandingPage, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *LandingPageRepository) findOne(ctx context.Context, filter bson.M) (*models.LandingPage, error) {
	var page models.LandingPage
	if err := r.collection.FindOne(ctx, filter).Decode(&page); err != nil {
		return nil, translate(err)
	}
	return &page, nil
}

// FindAll returns one page of landing pages, newest first
func (r *LandingPageRepository) FindAll(ctx context.Context, status models.LandingPageStatus, page, limit int) ([]*models.LandingPage, error) {
	opts := pageOptions(page, limit, bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, statusFilter(string(status)), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pages []*models.LandingPage
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []*models.LandingPage{}
	}
	return pages, nil
}

// Count counts landing pages, optionally by status
func (r *LandingPageRepository) Count(ctx context.Context, status models.LandingPageStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, statusFilter(string(status)))
}

// Update replaces a landing page, leaving the stats counters untouched
func (r *LandingPageRepository) Update(ctx context.Context, page *models.LandingPage) error {
	page.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": page.ID}, bson.M{"$set": bson.M{
		"name":        page.Name,
		"slug":        page.Slug,
		"title":       page.Title,
		"description": page.Description,
		"content":     page.Content,
		"styling":     page.Styling,
		"seo":         page.SEO,
		"form":        page.Form,
		"status":      page.Status,
		"publishedAt": page.PublishedAt,
		"updatedAt":   page.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	return mustMatch(res.MatchedCount)
}

// Delete deletes a landing page
func (r *LandingPageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mustMatch(res.DeletedCount)
}

// IncrementVisits counts one public view
func (r *LandingPageRepository) IncrementVisits(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stats.visits": 1}})
	if err != nil {
		return err
	}
	return mustMatch(res.MatchedCount)
}

// IncrementSubmissions counts one form submission and returns the resulting stats
func (r *LandingPageRepository) IncrementSubmissions(ctx context.Context, id primitive.ObjectID) (*models.LandingPageStats, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"stats": 1})

	var page models.LandingPage
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stats.submissions": 1}}, opts).Decode(&page)
	if err != nil {
		return nil, translate(err)
	}
	return &page.Stats, nil
}

// SetConversionRate stores the recomputed conversion rate
func (r *LandingPageRepository) SetConversionRate(ctx context.Context, id primitive.ObjectID, rate float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"stats.conversionRate": rate}})
	return err
}

// SumStats totals visits and submissions across all pages
func (r *LandingPageRepository) SumStats(ctx context.Context) (models.LandingPageStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"visits":      bson.M{"$sum": "$stats.visits"},
			"submissions": bson.M{"$sum": "$stats.submissions"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.LandingPageStats{}, err
	}
	defer cursor.Close(ctx)

	var totals []models.LandingPageStats
	if err := cursor.All(ctx, &totals); err != nil {
		return models.LandingPageStats{}, err
	}
	if len(totals) == 0 {
		return models.LandingPageStats{}, nil
	}
	return totals[0], nil
}
