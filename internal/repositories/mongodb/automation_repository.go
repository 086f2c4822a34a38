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

var _ repositories.AutomationRepository = (*AutomationRepository)(nil)

// AutomationRepository handles MongoDB operations for automations
type AutomationRepository struct {
	collection *mongo.Collection
}

// NewAutomationRepository creates a new AutomationRepository
func NewAutomationRepository(db *mongo.Database) *AutomationRepository {
	return &AutomationRepository{
		collection: db.Collection(automationsCollection),
	}
}

// Create inserts a new automation
func (r *AutomationRepository) Create(ctx context.Context, automation *models.Automation) error {
	automation.ID = primitive.NewObjectID()
	automation.CreatedAt = time.Now()
	automation.UpdatedAt = automation.CreatedAt
	_, err := r.collection.InsertOne(ctx, automation)
	return translate(err)
}

// FindByID finds an automation by ID
func (r *AutomationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Automation, error) {
	var automation models.Automation
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&automation); err != nil {
		return nil, translate(err)
	}
	return &automation, nil
}

// FindAll returns one page of automations, newest first
func (r *AutomationRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Automation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, pageOptions(page, limit, bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var automations []*models.Automation
	if err := cursor.All(ctx, &automations); err != nil {
		return nil, err
	}
	if automations == nil {
		automations = []*models.Automation{}
	}
	return automations, nil
}

// Count counts all automations
func (r *AutomationRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Update replaces an automation
func (r *AutomationRepository) Update(ctx context.Context, automation *models.Automation) error {
	automation.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": automation.ID}, automation)
	if err != nil {
		return translate(err)
	}
	return mustMatch(res.MatchedCount)
}

// Delete deletes an automation
func (r *AutomationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mustMatch(res.DeletedCount)
}
