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

var _ repositories.SegmentRepository = (*SegmentRepository)(nil)

// SegmentRepository handles MongoDB operations for segments
type SegmentRepository struct {
	collection *mongo.Collection
}

// NewSegmentRepository creates a new SegmentRepository
func NewSegmentRepository(db *mongo.Database) *SegmentRepository {
	return &SegmentRepository{
		collection: db.Collection(segmentsCollection),
	}
}

// Create inserts a new segment
func (r *SegmentRepository) Create(ctx context.Context, segment *models.Segment) error {
	segment.ID = primitive.NewObjectID()
	segment.CreatedAt = time.Now()
	segment.UpdatedAt = segment.CreatedAt
	if segment.Rules == nil {
		segment.Rules = []models.SegmentRule{}
	}
	_, err := r.collection.InsertOne(ctx, segment)
	return translate(err)
}

// FindByID finds a segment by ID
func (r *SegmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Segment, error) {
	var segment models.Segment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&segment); err != nil {
		return nil, translate(err)
	}
	return &segment, nil
}

// FindAll returns one page of segments, newest first
func (r *SegmentRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Segment, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

// FindActiveDynamic returns every active dynamic segment
func (r *SegmentRepository) FindActiveDynamic(ctx context.Context) ([]*models.Segment, error) {
	return r.find(ctx, bson.M{"type": models.SegmentDynamic, "isActive": true}, 1, 0)
}

func (r *SegmentRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Segment, error) {
	cursor, err := r.collection.Find(ctx, filter, pageOptions(page, limit, bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var segments []*models.Segment
	if err := cursor.All(ctx, &segments); err != nil {
		return nil, err
	}
	if segments == nil {
		segments = []*models.Segment{}
	}
	return segments, nil
}

// Count counts all segments
func (r *SegmentRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Update replaces a segment
func (r *SegmentRepository) Update(ctx context.Context, segment *models.Segment) error {
	segment.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": segment.ID}, segment)
	if err != nil {
		return translate(err)
	}
	return mustMatch(res.MatchedCount)
}

// SetContactCount refreshes the cached contact count
func (r *SegmentRepository) SetContactCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"contactCount": count}})
	return err
}

// Delete deletes a segment
func (r *SegmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mustMatch(res.DeletedCount)
}
