package services

import (
	"context"
	"io"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactService defines the interface for contact operations
type ContactService interface {
	// ListContacts returns one page of contacts matching filter plus the total count
	ListContacts(ctx context.Context, filter models.ContactFilter, page, limit int) ([]*models.Contact, int64, error)

	// GetContact returns a contact with the active segments it currently belongs to
	GetContact(ctx context.Context, id primitive.ObjectID) (*models.ContactDetail, error)

	CreateContact(ctx context.Context, input *models.ContactInput) (*models.Contact, error)
	UpdateContact(ctx context.Context, id primitive.ObjectID, patch models.ContactPatch) (*models.Contact, error)

	// DeleteContact removes the contact and its event log entries
	DeleteContact(ctx context.Context, id primitive.ObjectID) error

	// BulkTag adds or removes tags on every listed contact independently
	BulkTag(ctx context.Context, req *models.BulkTagRequest) (*models.BulkResult, error)

	// SendEmail mails every listed contact with merge tags rendered per contact
	SendEmail(ctx context.Context, req *models.SendEmailRequest) (*models.DispatchReport, error)

	// ImportContacts upserts the rows of a CSV file
	ImportContacts(ctx context.Context, r io.Reader) (*models.ImportReport, error)
}

// SegmentService defines the interface for segment operations
type SegmentService interface {
	ListSegments(ctx context.Context, page, limit int) ([]*models.Segment, int64, error)
	GetSegment(ctx context.Context, id primitive.ObjectID) (*models.Segment, error)
	CreateSegment(ctx context.Context, input *models.SegmentInput) (*models.Segment, error)
	UpdateSegment(ctx context.Context, id primitive.ObjectID, input *models.SegmentInput) (*models.Segment, error)
	DeleteSegment(ctx context.Context, id primitive.ObjectID) error

	// Preview evaluates rules without saving anything
	Preview(ctx context.Context, req *models.PreviewRequest) (*models.PreviewResult, error)

	// SegmentContacts returns one page of the segment's current members
	SegmentContacts(ctx context.Context, id primitive.ObjectID, page, limit int) ([]*models.Contact, int64, error)

	// Recipients resolves the subscribed members of a segment, or every
	// subscribed contact when segmentID is nil
	Recipients(ctx context.Context, segmentID *primitive.ObjectID) ([]*models.Contact, error)
}

// CampaignService defines the interface for campaign operations
type CampaignService interface {
	ListCampaigns(ctx context.Context, status models.CampaignStatus, page, limit int) ([]*models.Campaign, int64, error)
	GetCampaign(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id primitive.ObjectID, campaign *models.Campaign) (*models.Campaign, error)
	DeleteCampaign(ctx context.Context, id primitive.ObjectID) error

	// SendCampaign dispatches the campaign to its recipients and marks it sent
	SendCampaign(ctx context.Context, id primitive.ObjectID) (*models.DispatchReport, error)

	// TestSend mails draft content to arbitrary addresses
	TestSend(ctx context.Context, req *models.TestSendRequest) (*models.DispatchReport, error)

	// CampaignStats recomputes engagement from the event log and persists it
	CampaignStats(ctx context.Context, id primitive.ObjectID) (*models.CampaignStatsView, error)
}

// LandingPageService defines the interface for landing page operations
type LandingPageService interface {
	ListPages(ctx context.Context, status models.LandingPageStatus, page, limit int) ([]*models.LandingPage, int64, error)
	GetPage(ctx context.Context, id primitive.ObjectID) (*models.LandingPage, error)
	CreatePage(ctx context.Context, page *models.LandingPage) (*models.LandingPage, error)
	UpdatePage(ctx context.Context, id primitive.ObjectID, page *models.LandingPage) (*models.LandingPage, error)
	DeletePage(ctx context.Context, id primitive.ObjectID) error

	// ViewPublished serves a published page by slug and counts the visit
	ViewPublished(ctx context.Context, slug string, meta models.RequestMeta) (*models.LandingPage, error)

	// Submit converts a public form post into a contact upsert and a form_submit event
	Submit(ctx context.Context, id primitive.ObjectID, sub *models.Submission, meta models.RequestMeta) (*models.SubmissionResult, error)
}

// AnalyticsService defines the interface for read-only roll-ups
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	Reports(ctx context.Context) (*models.ReportStats, error)
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Me(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)

	// EnsureAdmin creates the operator account when it does not exist yet
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

// CustomFieldService defines the interface for custom field definitions
type CustomFieldService interface {
	ListFields(ctx context.Context) ([]*models.CustomField, error)
	GetField(ctx context.Context, id primitive.ObjectID) (*models.CustomField, error)
	CreateField(ctx context.Context, field *models.CustomField) (*models.CustomField, error)
	UpdateField(ctx context.Context, id primitive.ObjectID, field *models.CustomField) (*models.CustomField, error)
	DeleteField(ctx context.Context, id primitive.ObjectID) error
}

// AutomationService defines the interface for stored automations
type AutomationService interface {
	ListAutomations(ctx context.Context, page, limit int) ([]*models.Automation, int64, error)
	GetAutomation(ctx context.Context, id primitive.ObjectID) (*models.Automation, error)
	CreateAutomation(ctx context.Context, automation *models.Automation) (*models.Automation, error)
	UpdateAutomation(ctx context.Context, id primitive.ObjectID, automation *models.Automation) (*models.Automation, error)
	DeleteAutomation(ctx context.Context, id primitive.ObjectID) error
}
