package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fieldKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type customFieldService struct {
	fields repositories.CustomFieldRepository
}

// NewCustomFieldService creates a new CustomFieldService implementation
func NewCustomFieldService(fields repositories.CustomFieldRepository) CustomFieldService {
	return &customFieldService{fields: fields}
}

func normalizeField(f *models.CustomField) error {
	f.Key = strings.ToLower(strings.TrimSpace(f.Key))
	f.Label = strings.TrimSpace(f.Label)
	if !fieldKeyPattern.MatchString(f.Key) {
		return validationError("key must start with a letter and contain only a-z, 0-9 and _")
	}
	if f.Label == "" {
		f.Label = f.Key
	}
	if f.Type == "" {
		f.Type = models.FieldText
	}
	if !f.Type.Valid() {
		return validationError("invalid field type %q", f.Type)
	}
	return nil
}

// ListFields returns every definition ordered by key
func (s *customFieldService) ListFields(ctx context.Context) ([]*models.CustomField, error) {
	return s.fields.FindAll(ctx)
}

// GetField returns a definition by id
func (s *customFieldService) GetField(ctx context.Context, id primitive.ObjectID) (*models.CustomField, error) {
	f, err := s.fields.FindByID(ctx, id)
	return f, storeError(err, "custom field")
}

// CreateField stores a definition; keys are unique
func (s *customFieldService) CreateField(ctx context.Context, field *models.CustomField) (*models.CustomField, error) {
	if err := normalizeField(field); err != nil {
		return nil, err
	}
	field.ID = primitive.NilObjectID
	if err := s.fields.Create(ctx, field); err != nil {
		return nil, storeError(err, "custom field "+field.Key)
	}
	return field, nil
}

// UpdateField replaces a definition. Contacts keep values stored under the old key.
func (s *customFieldService) UpdateField(ctx context.Context, id primitive.ObjectID, field *models.CustomField) (*models.CustomField, error) {
	existing, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "custom field")
	}
	if err := normalizeField(field); err != nil {
		return nil, err
	}
	field.ID = existing.ID
	field.CreatedAt = existing.CreatedAt
	if err := s.fields.Update(ctx, field); err != nil {
		return nil, storeError(err, "custom field "+field.Key)
	}
	return field, nil
}

// DeleteField deletes a definition. Segment rules that reference the key are left as they are.
func (s *customFieldService) DeleteField(ctx context.Context, id primitive.ObjectID) error {
	return storeError(s.fields.Delete(ctx, id), "custom field")
}
