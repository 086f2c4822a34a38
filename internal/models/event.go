package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType is the kind of contact interaction
type EventType string

const (
	EventEmailOpen   EventType = "email_open"
	EventEmailClick  EventType = "email_click"
	EventFormSubmit  EventType = "form_submit"
	EventPageView    EventType = "page_view"
	EventUnsubscribe EventType = "unsubscribe"
)

// Valid reports whether the type is one of the known values
func (t EventType) Valid() bool {
	switch t {
	case EventEmailOpen, EventEmailClick, EventFormSubmit, EventPageView, EventUnsubscribe:
		return true
	}
	return false
}

// Retention windows. Expiry itself is done by the store's TTL index on expiresAt.
const (
	ContactEventRetention  = 365 * 24 * time.Hour
	PageAnalyticsRetention = 90 * 24 * time.Hour
)

// Retention returns how long events of this type are kept
func (t EventType) Retention() time.Duration {
	if t == EventPageView {
		return PageAnalyticsRetention
	}
	return ContactEventRetention
}

// Event is an immutable fact about a contact interaction
type Event struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	ContactID     *primitive.ObjectID `bson:"contactId,omitempty" json:"contactId,omitempty"`
	Type          EventType           `bson:"type" json:"type"`
	CampaignID    *primitive.ObjectID `bson:"campaignId,omitempty" json:"campaignId,omitempty"`
	LandingPageID *primitive.ObjectID `bson:"landingPageId,omitempty" json:"landingPageId,omitempty"`
	Metadata      RequestMeta         `bson:"metadata" json:"metadata"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	ExpiresAt     time.Time           `bson:"expiresAt" json:"-"`
}

// RequestMeta is what we know about the requester
type RequestMeta struct {
	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Country   string `bson:"country,omitempty" json:"country,omitempty"`
	Device    string `bson:"device,omitempty" json:"device,omitempty"`
}

// NewEvent stamps creation and expiry times
func NewEvent(t EventType, meta RequestMeta, now time.Time) *Event {
	return &Event{
		Type:      t,
		Metadata:  meta,
		CreatedAt: now,
		ExpiresAt: now.Add(t.Retention()),
	}
}

// EventView is an event joined with display names
type EventView struct {
	Event           `bson:",inline"`
	ContactEmail    string `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	ContactName     string `bson:"contactName,omitempty" json:"contactName,omitempty"`
	CampaignName    string `bson:"campaignName,omitempty" json:"campaignName,omitempty"`
	LandingPageName string `bson:"landingPageName,omitempty" json:"landingPageName,omitempty"`
}

// DailyCount is an event count for one day and type
type DailyCount struct {
	Date  string    `bson:"date" json:"date"`
	Type  EventType `bson:"type" json:"type"`
	Count int64     `bson:"count" json:"count"`
}

// DashboardStats is the analytics dashboard payload
type DashboardStats struct {
	Totals       DashboardTotals `json:"totals"`
	Daily        []DailyPoint    `json:"daily"`
	RecentEvents []*EventView    `json:"recentEvents"`
}

// DashboardTotals aggregates across all campaigns and pages
type DashboardTotals struct {
	Contacts           int64   `json:"contacts"`
	SubscribedContacts int64   `json:"subscribedContacts"`
	Campaigns          int64   `json:"campaigns"`
	LandingPages       int64   `json:"landingPages"`
	EmailsSent         int64   `json:"emailsSent"`
	UniqueOpens        int64   `json:"uniqueOpens"`
	UniqueClicks       int64   `json:"uniqueClicks"`
	OpenRate           float64 `json:"openRate"`
	ClickRate          float64 `json:"clickRate"`
	Visits             int64   `json:"visits"`
	Submissions        int64   `json:"submissions"`
	ConversionRate     float64 `json:"conversionRate"`
}

// DailyPoint is one day of the dashboard chart
type DailyPoint struct {
	Date        string `json:"date"`
	Opens       int64  `json:"opens"`
	Clicks      int64  `json:"clicks"`
	Submissions int64  `json:"submissions"`
}

// ReportStats is the analytics reports payload
type ReportStats struct {
	Funnel        Funnel        `json:"funnel"`
	Campaigns     []CampaignRow `json:"campaigns"`
	LandingPages  []PageRow     `json:"landingPages"`
	ContactGrowth []WeekPoint   `json:"contactGrowth"`
}

// Funnel counts events by stage over the report window
type Funnel struct {
	PageViews   int64 `json:"pageViews"`
	FormSubmits int64 `json:"formSubmits"`
	EmailOpens  int64 `json:"emailOpens"`
	EmailClicks int64 `json:"emailClicks"`
}

// CampaignRow is one line of the campaign report table
type CampaignRow struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    CampaignStatus `json:"status"`
	Sent      int            `json:"sent"`
	OpenRate  float64        `json:"openRate"`
	ClickRate float64        `json:"clickRate"`
	SentAt    *time.Time     `json:"sentAt,omitempty"`
}

// PageRow is one line of the landing page report table
type PageRow struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Status         LandingPageStatus `json:"status"`
	Visits         int64             `json:"visits"`
	Submissions    int64             `json:"submissions"`
	ConversionRate float64           `json:"conversionRate"`
}

// WeekPoint is a new-contact count for one ISO week, labelled YYYY-Www
type WeekPoint struct {
	Week  string `json:"week"`
	Count int64  `json:"count"`
}
