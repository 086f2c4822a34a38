package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.EventRepository = (*EventRepository)(nil)

// EventRepository is an in-memory event log. Expired events are hidden from reads.
type EventRepository struct {
	rows      *table[models.Event]
	contacts  repositories.ContactRepository
	campaigns repositories.CampaignRepository
	pages     repositories.LandingPageRepository
	now       func() time.Time
}

// NewEventRepository creates an empty EventRepository that joins names from the given stores
func NewEventRepository(contacts repositories.ContactRepository, campaigns repositories.CampaignRepository, pages repositories.LandingPageRepository) *EventRepository {
	return &EventRepository{
		rows: newTable(shallow[models.Event],
			func(e *models.Event) (time.Time, primitive.ObjectID) { return e.CreatedAt, e.ID }),
		contacts:  contacts,
		campaigns: campaigns,
		pages:     pages,
		now:       time.Now,
	}
}

func (r *EventRepository) live(since time.Time, extra func(*models.Event) bool) []*models.Event {
	now := r.now()
	return r.rows.find(func(e *models.Event) bool {
		if !e.ExpiresAt.IsZero() && !e.ExpiresAt.After(now) {
			return false
		}
		if e.CreatedAt.Before(since) {
			return false
		}
		return extra == nil || extra(e)
	})
}

// Create appends an event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}
	if event.ExpiresAt.IsZero() {
		event.ExpiresAt = event.CreatedAt.Add(event.Type.Retention())
	}
	r.rows.insert(event.ID, event)
	return nil
}

// DeleteByContact removes every event of a contact
func (r *EventRepository) DeleteByContact(ctx context.Context, contactID primitive.ObjectID) (int64, error) {
	var n int64
	for _, e := range r.rows.find(func(e *models.Event) bool { return e.ContactID != nil && *e.ContactID == contactID }) {
		if err := r.rows.remove(e.ID); err == nil {
			n++
		}
	}
	return n, nil
}

// CountByType counts events per type since the given time
func (r *EventRepository) CountByType(ctx context.Context, since time.Time) (map[models.EventType]int64, error) {
	counts := map[models.EventType]int64{}
	for _, e := range r.live(since, nil) {
		counts[e.Type]++
	}
	return counts, nil
}

// DailyCounts buckets events of the given types by UTC day
func (r *EventRepository) DailyCounts(ctx context.Context, since time.Time, types []models.EventType) ([]models.DailyCount, error) {
	wanted := map[models.EventType]bool{}
	for _, t := range types {
		wanted[t] = true
	}

	buckets := map[models.DailyCount]int64{}
	for _, e := range r.live(since, func(e *models.Event) bool { return wanted[e.Type] }) {
		buckets[models.DailyCount{Date: e.CreatedAt.UTC().Format("2006-01-02"), Type: e.Type}]++
	}

	out := make([]models.DailyCount, 0, len(buckets))
	for k, n := range buckets {
		k.Count = n
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// Recent returns the newest events joined with display names
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]*models.EventView, error) {
	events := paginate(r.live(time.Time{}, nil), 1, limit)
	views := make([]*models.EventView, 0, len(events))
	for _, e := range events {
		v := &models.EventView{Event: *e}
		if e.ContactID != nil {
			if c, err := r.contacts.FindByID(ctx, *e.ContactID); err == nil {
				v.ContactEmail = c.Email
				v.ContactName = strings.TrimSpace(c.FirstName + " " + c.LastName)
			}
		}
		if e.CampaignID != nil {
			if c, err := r.campaigns.FindByID(ctx, *e.CampaignID); err == nil {
				v.CampaignName = c.Name
			}
		}
		if e.LandingPageID != nil {
			if p, err := r.pages.FindByID(ctx, *e.LandingPageID); err == nil {
				v.LandingPageName = p.Name
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// CampaignEngagement counts opens, clicks and unsubscribes for a campaign
func (r *EventRepository) CampaignEngagement(ctx context.Context, campaignID primitive.ObjectID) (models.EngagementCounts, error) {
	var counts models.EngagementCounts
	opened := map[primitive.ObjectID]bool{}
	clicked := map[primitive.ObjectID]bool{}

	events := r.live(time.Time{}, func(e *models.Event) bool {
		return e.CampaignID != nil && *e.CampaignID == campaignID
	})
	for _, e := range events {
		switch e.Type {
		case models.EventEmailOpen:
			counts.Opens++
			if e.ContactID != nil {
				opened[*e.ContactID] = true
			}
		case models.EventEmailClick:
			counts.Clicks++
			if e.ContactID != nil {
				clicked[*e.ContactID] = true
			}
		case models.EventUnsubscribe:
			counts.Unsubscribes++
		}
	}
	counts.UniqueOpens = len(opened)
	counts.UniqueClicks = len(clicked)
	return counts, nil
}
