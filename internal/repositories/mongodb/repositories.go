package mongodb

import (
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewRepositories wires every MongoDB repository against db
func NewRepositories(db *mongo.Database, evaluator segment.Evaluator) *repositories.Repositories {
	return &repositories.Repositories{
		Contacts:     NewContactRepository(db, evaluator),
		Segments:     NewSegmentRepository(db),
		Campaigns:    NewCampaignRepository(db),
		LandingPages: NewLandingPageRepository(db),
		Events:       NewEventRepository(db),
		AdminUsers:   NewAdminUserRepository(db),
		CustomFields: NewCustomFieldRepository(db),
		Automations:  NewAutomationRepository(db),
	}
}
