package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.CustomFieldRepository = (*CustomFieldRepository)(nil)

// CustomFieldRepository is an in-memory store of field definitions with a unique key index
type CustomFieldRepository struct {
	keyMu sync.Mutex
	rows  *table[models.CustomField]
}

// NewCustomFieldRepository creates an empty CustomFieldRepository
func NewCustomFieldRepository() *CustomFieldRepository {
	return &CustomFieldRepository{rows: newTable(
		func(f *models.CustomField) *models.CustomField {
			out := *f
			out.Options = append([]string(nil), f.Options...)
			return &out
		},
		func(f *models.CustomField) (time.Time, primitive.ObjectID) { return f.CreatedAt, f.ID },
	)}
}

func (r *CustomFieldRepository) keyTaken(key string, except primitive.ObjectID) bool {
	_, err := r.rows.first(func(f *models.CustomField) bool { return f.Key == key && f.ID != except })
	return err == nil
}

// Create inserts a new field definition
func (r *CustomFieldRepository) Create(ctx context.Context, field *models.CustomField) error {
	r.keyMu.Lock()
	defer r.keyMu.Unlock()

	if r.keyTaken(field.Key, primitive.NilObjectID) {
		return repositories.ErrDuplicateKey
	}
	field.ID = primitive.NewObjectID()
	field.CreatedAt = time.Now()
	field.UpdatedAt = field.CreatedAt
	r.rows.insert(field.ID, field)
	return nil
}

// FindByID finds a field definition by ID
func (r *CustomFieldRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CustomField, error) {
	return r.rows.get(id)
}

// FindAll returns every field definition ordered by key
func (r *CustomFieldRepository) FindAll(ctx context.Context) ([]*models.CustomField, error) {
	fields := r.rows.find(nil)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields, nil
}

// Update replaces a field definition
func (r *CustomFieldRepository) Update(ctx context.Context, field *models.CustomField) error {
	r.keyMu.Lock()
	defer r.keyMu.Unlock()

	if r.keyTaken(field.Key, field.ID) {
		return repositories.ErrDuplicateKey
	}
	field.UpdatedAt = time.Now()
	return r.rows.replace(field.ID, field)
}

// Delete removes a field definition
func (r *CustomFieldRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.rows.remove(id)
}
