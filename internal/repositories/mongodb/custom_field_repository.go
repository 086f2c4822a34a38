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

var _ repositories.CustomFieldRepository = (*CustomFieldRepository)(nil)

// CustomFieldRepository handles MongoDB operations for custom field definitions
type CustomFieldRepository struct {
	collection *mongo.Collection
}

// NewCustomFieldRepository creates a new CustomFieldRepository
func NewCustomFieldRepository(db *mongo.Database) *CustomFieldRepository {
	return &CustomFieldRepository{
		collection: db.Collection(customFieldsCollection),
	}
}

// Create inserts a new field definition
func (r *CustomFieldRepository) Create(ctx context.Context, field *models.CustomField) error {
	field.ID = primitive.NewObjectID()
	field.CreatedAt = time.Now()
	field.UpdatedAt = field.CreatedAt
	_, err := r.collection.InsertOne(ctx, field)
	return translate(err)
}

// FindByID finds a field definition by ID
func (r *CustomFieldRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CustomField, error) {
	var field models.CustomField
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&field); err != nil {
		return nil, translate(err)
	}
	return &field, nil
}

// FindAll returns every field definition ordered by key
func (r *CustomFieldRepository) FindAll(ctx context.Context) ([]*models.CustomField, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, pageOptions(1, 0, bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fields []*models.CustomField
	if err := cursor.All(ctx, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []*models.CustomField{}
	}
	return fields, nil
}

// Update replaces a field definition
func (r *CustomFieldRepository) Update(ctx context.Context, field *models.CustomField) error {
	field.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": field.ID}, field)
	if err != nil {
		return translate(err)
	}
	return mustMatch(res.MatchedCount)
}

// Delete removes a field definition. Contact values and rules keep referencing the key.
func (r *CustomFieldRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mustMatch(res.DeletedCount)
}
