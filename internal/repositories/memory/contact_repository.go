package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.ContactRepository = (*ContactRepository)(nil)

// ContactRepository is an in-memory contact store with a unique email index
type ContactRepository struct {
	mu        sync.RWMutex
	byID      map[primitive.ObjectID]*models.Contact
	byEmail   map[string]primitive.ObjectID
	evaluator segment.Evaluator
}

// NewContactRepository creates an empty ContactRepository
func NewContactRepository(evaluator segment.Evaluator) *ContactRepository {
	return &ContactRepository{
		byID:      map[primitive.ObjectID]*models.Contact{},
		byEmail:   map[string]primitive.ObjectID{},
		evaluator: evaluator,
	}
}

func cloneContact(c *models.Contact) *models.Contact {
	out := *c
	out.Tags = append([]string{}, c.Tags...)
	out.Segments = append([]primitive.ObjectID{}, c.Segments...)
	if c.CustomFields != nil {
		out.CustomFields = make(models.CustomFields, len(c.CustomFields))
		for k, v := range c.CustomFields {
			out.CustomFields[k] = v
		}
	}
	return &out
}

func (r *ContactRepository) matches(c *models.Contact, q repositories.ContactQuery) bool {
	if len(q.Rules) > 0 && !r.evaluator.Matches(c, q.Rules) {
		return false
	}
	if q.Status != "" && c.Status != q.Status {
		return false
	}
	if q.SegmentID != nil && !hasID(c.Segments, *q.SegmentID) {
		return false
	}
	if q.Tag != "" && !hasString(c.Tags, q.Tag) {
		return false
	}
	if q.IDs != nil && !hasID(q.IDs, c.ID) {
		return false
	}
	if q.Search != "" && !containsFold(c.Email, q.Search) &&
		!containsFold(c.FirstName, q.Search) && !containsFold(c.LastName, q.Search) {
		return false
	}
	return true
}

func hasID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func hasString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// Create inserts a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[contact.Email]; exists {
		return repositories.ErrDuplicateKey
	}
	now := time.Now()
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	if contact.Segments == nil {
		contact.Segments = []primitive.ObjectID{}
	}
	r.byID[contact.ID] = cloneContact(contact)
	r.byEmail[contact.Email] = contact.ID
	return nil
}

// FindByID finds a contact by ID
func (r *ContactRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneContact(c), nil
}

// FindByEmail finds a contact by email
func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneContact(r.byID[id]), nil
}

func (r *ContactRepository) selectAll(q repositories.ContactQuery) []*models.Contact {
	out := []*models.Contact{}
	for _, c := range r.byID {
		if r.matches(c, q) {
			out = append(out, cloneContact(c))
		}
	}
	newestFirst(out, func(c *models.Contact) (time.Time, primitive.ObjectID) { return c.CreatedAt, c.ID })
	return out
}

// Find returns one page of matching contacts, newest first
func (r *ContactRepository) Find(ctx context.Context, q repositories.ContactQuery, page, limit int) ([]*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.selectAll(q), page, limit), nil
}

// Count counts matching contacts
func (r *ContactRepository) Count(ctx context.Context, q repositories.ContactQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, c := range r.byID {
		if r.matches(c, q) {
			n++
		}
	}
	return n, nil
}

// Update merges patch into the stored contact
func (r *ContactRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ContactPatch) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	patch.Apply(c)
	c.UpdatedAt = time.Now()
	return cloneContact(c), nil
}

// Upsert finds or creates the contact for email and merges patch into it
func (r *ContactRepository) Upsert(ctx context.Context, email string, patch models.ContactPatch) (*models.Contact, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	created := false
	id, ok := r.byEmail[email]
	if !ok {
		c := &models.Contact{
			ID:        primitive.NewObjectID(),
			Email:     email,
			Status:    models.ContactSubscribed,
			Tags:      []string{},
			Segments:  []primitive.ObjectID{},
			CreatedAt: now,
		}
		r.byID[c.ID] = c
		r.byEmail[email] = c.ID
		id = c.ID
		created = true
	}

	c := r.byID[id]
	patch.Apply(c)
	c.UpdatedAt = now
	return cloneContact(c), created, nil
}

// Delete removes a contact
func (r *ContactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(r.byEmail, c.Email)
	delete(r.byID, id)
	return nil
}

// AddTags adds tags without duplicates
func (r *ContactRepository) AddTags(ctx context.Context, id primitive.ObjectID, tags []string) error {
	return r.mutate(id, func(c *models.Contact) {
		for _, t := range tags {
			if !hasString(c.Tags, t) {
				c.Tags = append(c.Tags, t)
			}
		}
	})
}

// RemoveTags removes tags
func (r *ContactRepository) RemoveTags(ctx context.Context, id primitive.ObjectID, tags []string) error {
	return r.mutate(id, func(c *models.Contact) {
		kept := c.Tags[:0]
		for _, t := range c.Tags {
			if !hasString(tags, t) {
				kept = append(kept, t)
			}
		}
		c.Tags = kept
	})
}

func (r *ContactRepository) mutate(id primitive.ObjectID, fn func(*models.Contact)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(c)
	c.UpdatedAt = time.Now()
	return nil
}

// Touch records contact activity
func (r *ContactRepository) Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byID[id]; ok {
		c.LastActivity = at
	}
	return nil
}

// SetSegmentMembers makes contactIDs the exact static membership of segmentID
func (r *ContactRepository) SetSegmentMembers(ctx context.Context, segmentID primitive.ObjectID, contactIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.byID {
		member := hasID(contactIDs, id)
		switch {
		case member && !hasID(c.Segments, segmentID):
			c.Segments = append(c.Segments, segmentID)
		case !member:
			c.Segments = withoutID(c.Segments, segmentID)
		}
	}
	return nil
}

// RemoveSegment pulls segmentID from every contact
func (r *ContactRepository) RemoveSegment(ctx context.Context, segmentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.byID {
		c.Segments = withoutID(c.Segments, segmentID)
	}
	return nil
}

func withoutID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// CountCreatedByWeek buckets contacts created since the given time by ISO week
func (r *ContactRepository) CountCreatedByWeek(ctx context.Context, since time.Time) ([]models.WeeklyCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buckets := map[[2]int]int64{}
	for _, c := range r.byID {
		if c.CreatedAt.Before(since) {
			continue
		}
		year, week := c.CreatedAt.UTC().ISOWeek()
		buckets[[2]int{year, week}]++
	}

	weeks := make([]models.WeeklyCount, 0, len(buckets))
	for k, n := range buckets {
		weeks = append(weeks, models.WeeklyCount{Year: k[0], Week: k[1], Count: n})
	}
	sortWeeks(weeks)
	return weeks, nil
}
