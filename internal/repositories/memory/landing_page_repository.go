package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.LandingPageRepository = (*LandingPageRepository)(nil)

// LandingPageRepository is an in-memory landing page store with a unique slug index
type LandingPageRepository struct {
	slugMu sync.Mutex
	rows   *table[models.LandingPage]
}

// NewLandingPageRepository creates an empty LandingPageRepository
func NewLandingPageRepository() *LandingPageRepository {
	return &LandingPageRepository{rows: newTable(
		func(p *models.LandingPage) *models.LandingPage {
			out := *p
			out.Form.Fields = append([]models.PageFormField(nil), p.Form.Fields...)
			out.Form.Tags = append([]string(nil), p.Form.Tags...)
			out.SEO.Keywords = append([]string(nil), p.SEO.Keywords...)
			if p.Styling != nil {
				out.Styling = models.CustomFields{}
				for k, v := range p.Styling {
					out.Styling[k] = v
				}
			}
			return &out
		},
		func(p *models.LandingPage) (time.Time, primitive.ObjectID) { return p.CreatedAt, p.ID },
	)}
}

func (r *LandingPageRepository) slugTaken(slug string, except primitive.ObjectID) bool {
	_, err := r.rows.first(func(p *models.LandingPage) bool { return p.Slug == slug && p.ID != except })
	return err == nil
}

// Create inserts a new landing page
func (r *LandingPageRepository) Create(ctx context.Context, page *models.LandingPage) error {
	r.slugMu.Lock()
	defer r.slugMu.Unlock()

	if r.slugTaken(page.Slug, primitive.NilObjectID) {
		return repositories.ErrDuplicateKey
	}
	page.ID = primitive.NewObjectID()
	page.CreatedAt = time.Now()
	page.UpdatedAt = page.CreatedAt
	r.rows.insert(page.ID, page)
	return nil
}

// FindByID finds a landing page by ID
func (r *LandingPageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.LandingPage, error) {
	return r.rows.get(id)
}

// FindBySlug finds a landing page by slug
func (r *LandingPageRepository) FindBySlug(ctx context.Context, slug string) (*models.LandingPage, error) {
	return r.rows.first(func(p *models.LandingPage) bool { return p.Slug == slug })
}

func pageStatus(status models.LandingPageStatus) func(*models.LandingPage) bool {
	if status == "" {
		return nil
	}
	return func(p *models.LandingPage) bool { return p.Status == status }
}

// FindAll returns one page of landing pages, newest first
func (r *LandingPageRepository) FindAll(ctx context.Context, status models.LandingPageStatus, page, limit int) ([]*models.LandingPage, error) {
	return paginate(r.rows.find(pageStatus(status)), page, limit), nil
}

// Count counts landing pages, optionally by status
func (r *LandingPageRepository) Count(ctx context.Context, status models.LandingPageStatus) (int64, error) {
	return r.rows.count(pageStatus(status)), nil
}

// Update replaces everything but the stats counters
func (r *LandingPageRepository) Update(ctx context.Context, page *models.LandingPage) error {
	r.slugMu.Lock()
	defer r.slugMu.Unlock()

	if r.slugTaken(page.Slug, page.ID) {
		return repositories.ErrDuplicateKey
	}
	page.UpdatedAt = time.Now()
	updated := r.rows.clone(page)
	return r.rows.update(page.ID, func(p *models.LandingPage) {
		stats, created := p.Stats, p.CreatedAt
		*p = *updated
		p.Stats, p.CreatedAt = stats, created
	})
}

// Delete deletes a landing page
func (r *LandingPageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.rows.remove(id)
}

// IncrementVisits counts one public view
func (r *LandingPageRepository) IncrementVisits(ctx context.Context, id primitive.ObjectID) error {
	return r.rows.update(id, func(p *models.LandingPage) { p.Stats.Visits++ })
}

// IncrementSubmissions counts one submission and returns the resulting stats
func (r *LandingPageRepository) IncrementSubmissions(ctx context.Context, id primitive.ObjectID) (*models.LandingPageStats, error) {
	var stats models.LandingPageStats
	err := r.rows.update(id, func(p *models.LandingPage) {
		p.Stats.Submissions++
		stats = p.Stats
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetConversionRate stores the recomputed conversion rate
func (r *LandingPageRepository) SetConversionRate(ctx context.Context, id primitive.ObjectID, rate float64) error {
	err := r.rows.update(id, func(p *models.LandingPage) { p.Stats.ConversionRate = rate })
	if err == repositories.ErrNotFound {
		return nil
	}
	return err
}

// SumStats totals visits and submissions across all pages
func (r *LandingPageRepository) SumStats(ctx context.Context) (models.LandingPageStats, error) {
	var total models.LandingPageStats
	for _, p := range r.rows.find(nil) {
		total.Visits += p.Stats.Visits
		total.Submissions += p.Stats.Submissions
	}
	return total, nil
}
