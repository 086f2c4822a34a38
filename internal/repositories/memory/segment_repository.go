package memory

import (
	"context"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.SegmentRepository = (*SegmentRepository)(nil)

// SegmentRepository is an in-memory segment store
type SegmentRepository struct {
	rows *table[models.Segment]
}

// NewSegmentRepository creates an empty SegmentRepository
func NewSegmentRepository() *SegmentRepository {
	return &SegmentRepository{rows: newTable(
		func(s *models.Segment) *models.Segment {
			out := *s
			out.Rules = append([]models.SegmentRule{}, s.Rules...)
			return &out
		},
		func(s *models.Segment) (time.Time, primitive.ObjectID) { return s.CreatedAt, s.ID },
	)}
}

// Create inserts a new segment
func (r *SegmentRepository) Create(ctx context.Context, segment *models.Segment) error {
	segment.ID = primitive.NewObjectID()
	segment.CreatedAt = time.Now()
	segment.UpdatedAt = segment.CreatedAt
	if segment.Rules == nil {
		segment.Rules = []models.SegmentRule{}
	}
	r.rows.insert(segment.ID, segment)
	return nil
}

// FindByID finds a segment by ID
func (r *SegmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Segment, error) {
	return r.rows.get(id)
}

// FindAll returns one page of segments, newest first
func (r *SegmentRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Segment, error) {
	return paginate(r.rows.find(nil), page, limit), nil
}

// FindActiveDynamic returns every active dynamic segment
func (r *SegmentRepository) FindActiveDynamic(ctx context.Context) ([]*models.Segment, error) {
	return r.rows.find(func(s *models.Segment) bool {
		return s.Type == models.SegmentDynamic && s.IsActive
	}), nil
}

// Count counts all segments
func (r *SegmentRepository) Count(ctx context.Context) (int64, error) {
	return r.rows.count(nil), nil
}

// Update replaces a segment
func (r *SegmentRepository) Update(ctx context.Context, segment *models.Segment) error {
	segment.UpdatedAt = time.Now()
	return r.rows.replace(segment.ID, segment)
}

// SetContactCount refreshes the cached contact count
func (r *SegmentRepository) SetContactCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	err := r.rows.update(id, func(s *models.Segment) { s.ContactCount = count })
	if err == repositories.ErrNotFound {
		return nil
	}
	return err
}

// Delete deletes a segment
func (r *SegmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.rows.remove(id)
}
