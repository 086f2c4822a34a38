package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors returned by every store implementation
var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// ContactQuery selects contacts. All set criteria must hold.
type ContactQuery struct {
	Rules     []models.SegmentRule // evaluated by segment.Evaluator
	Status    models.ContactStatus
	SegmentID *primitive.ObjectID // static membership
	Search    string              // email, first or last name, case-insensitive
	Tag       string
	IDs       []primitive.ObjectID
}

// ContactRepository defines the interface for contact data operations.
// A limit of 0 in Find means no limit.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error)
	FindByEmail(ctx context.Context, email string) (*models.Contact, error)
	Find(ctx context.Context, query ContactQuery, page, limit int) ([]*models.Contact, error)
	Count(ctx context.Context, query ContactQuery) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ContactPatch) (*models.Contact, error)
	Upsert(ctx context.Context, email string, patch models.ContactPatch) (*models.Contact, bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddTags(ctx context.Context, id primitive.ObjectID, tags []string) error
	RemoveTags(ctx context.Context, id primitive.ObjectID, tags []string) error
	Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error
	SetSegmentMembers(ctx context.Context, segmentID primitive.ObjectID, contactIDs []primitive.ObjectID) error
	RemoveSegment(ctx context.Context, segmentID primitive.ObjectID) error
	CountCreatedByWeek(ctx context.Context, since time.Time) ([]models.WeeklyCount, error)
}

// SegmentRepository defines the interface for segment data operations
type SegmentRepository interface {
	Create(ctx context.Context, segment *models.Segment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Segment, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Segment, error)
	FindActiveDynamic(ctx context.Context) ([]*models.Segment, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, segment *models.Segment) error
	SetContactCount(ctx context.Context, id primitive.ObjectID, count int64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CampaignRepository defines the interface for campaign data operations.
// An empty status matches every campaign.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	FindAll(ctx context.Context, status models.CampaignStatus, page, limit int) ([]*models.Campaign, error)
	Count(ctx context.Context, status models.CampaignStatus) (int64, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time, recipientCount, sent int) error
	SetEngagement(ctx context.Context, id primitive.ObjectID, counts models.EngagementCounts) error
	SumStats(ctx context.Context) (models.CampaignStats, error)
}

// LandingPageRepository defines the interface for landing page data operations.
// An empty status matches every page.
type LandingPageRepository interface {
	Create(ctx context.Context, page *models.LandingPage) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.LandingPage, error)
	FindBySlug(ctx context.Context, slug string) (*models.LandingPage, error)
	FindAll(ctx context.Context, status models.LandingPageStatus, page, limit int) ([]*models.LandingPage, error)
	Count(ctx context.Context, status models.LandingPageStatus) (int64, error)
	Update(ctx context.Context, page *models.LandingPage) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementVisits(ctx context.Context, id primitive.ObjectID) error
	IncrementSubmissions(ctx context.Context, id primitive.ObjectID) (*models.LandingPageStats, error)
	SetConversionRate(ctx context.Context, id primitive.ObjectID, rate float64) error
	SumStats(ctx context.Context) (models.LandingPageStats, error)
}

// EventRepository defines the interface for the append-only event log
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	DeleteByContact(ctx context.Context, contactID primitive.ObjectID) (int64, error)
	CountByType(ctx context.Context, since time.Time) (map[models.EventType]int64, error)
	DailyCounts(ctx context.Context, since time.Time, types []models.EventType) ([]models.DailyCount, error)
	Recent(ctx context.Context, limit int) ([]*models.EventView, error)
	CampaignEngagement(ctx context.Context, campaignID primitive.ObjectID) (models.EngagementCounts, error)
}

// AdminUserRepository defines the interface for operator accounts
type AdminUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	EnsureByEmail(ctx context.Context, user *models.AdminUser) (bool, error)
	SetLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// CustomFieldRepository defines the interface for custom field definitions
type CustomFieldRepository interface {
	Create(ctx context.Context, field *models.CustomField) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CustomField, error)
	FindAll(ctx context.Context) ([]*models.CustomField, error)
	Update(ctx context.Context, field *models.CustomField) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AutomationRepository defines the interface for stored automations
type AutomationRepository interface {
	Create(ctx context.Context, automation *models.Automation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Automation, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Automation, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, automation *models.Automation) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Repositories bundles one implementation of every store
type Repositories struct {
	Contacts     ContactRepository
	Segments     SegmentRepository
	Campaigns    CampaignRepository
	LandingPages LandingPageRepository
	Events       EventRepository
	AdminUsers   AdminUserRepository
	CustomFields CustomFieldRepository
	Automations  AutomationRepository
}
