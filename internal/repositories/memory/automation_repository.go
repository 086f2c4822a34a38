package memory

import (
	"context"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.AutomationRepository = (*AutomationRepository)(nil)

// AutomationRepository is an in-memory automation store
type AutomationRepository struct {
	rows *table[models.Automation]
}

// NewAutomationRepository creates an empty AutomationRepository
func NewAutomationRepository() *AutomationRepository {
	return &AutomationRepository{rows: newTable(
		func(a *models.Automation) *models.Automation {
			out := *a
			out.Actions = append([]models.AutomationAction(nil), a.Actions...)
			return &out
		},
		func(a *models.Automation) (time.Time, primitive.ObjectID) { return a.CreatedAt, a.ID },
	)}
}

// Create inserts a new automation
func (r *AutomationRepository) Create(ctx context.Context, automation *models.Automation) error {
	automation.ID = primitive.NewObjectID()
	automation.CreatedAt = time.Now()
	automation.UpdatedAt = automation.CreatedAt
	r.rows.insert(automation.ID, automation)
	return nil
}

// FindByID finds an automation by ID
func (r *AutomationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Automation, error) {
	return r.rows.get(id)
}

// FindAll returns one page of automations, newest first
func (r *AutomationRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Automation, error) {
	return paginate(r.rows.find(nil), page, limit), nil
}

// Count counts all automations
func (r *AutomationRepository) Count(ctx context.Context) (int64, error) {
	return r.rows.count(nil), nil
}

// Update replaces an automation
func (r *AutomationRepository) Update(ctx context.Context, automation *models.Automation) error {
	automation.UpdatedAt = time.Now()
	return r.rows.replace(automation.ID, automation)
}

// Delete deletes an automation
func (r *AutomationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.rows.remove(id)
}
