package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
)

// Valid reports whether the status is one of the known values
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignSending, CampaignSent:
		return true
	}
	return false
}

// Campaign represents an email broadcast
type Campaign struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Subject        string              `bson:"subject" json:"subject"`
	Preheader      string              `bson:"preheader,omitempty" json:"preheader,omitempty"`
	HTMLContent    string              `bson:"htmlContent" json:"htmlContent"`
	FromName       string              `bson:"fromName,omitempty" json:"fromName,omitempty"`
	FromEmail      string              `bson:"fromEmail,omitempty" json:"fromEmail,omitempty"`
	Variants       []CampaignVariant   `bson:"variants,omitempty" json:"variants,omitempty"`
	SegmentID      *primitive.ObjectID `bson:"segmentId,omitempty" json:"segmentId,omitempty"`
	Status         CampaignStatus      `bson:"status" json:"status"`
	ScheduledAt    *time.Time          `bson:"scheduledAt,omitempty" json:"scheduledAt,omitempty"`
	SentAt         *time.Time          `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	RecipientCount int                 `bson:"recipientCount" json:"recipientCount"`
	Stats          CampaignStats       `bson:"stats" json:"stats"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// CampaignVariant is an A/B content variant. The dispatcher sends the main content only.
type CampaignVariant struct {
	Name        string  `bson:"name" json:"name"`
	Subject     string  `bson:"subject" json:"subject"`
	HTMLContent string  `bson:"htmlContent" json:"htmlContent"`
	Weight      float64 `bson:"weight" json:"weight"`
}

// CampaignStats holds delivery and engagement counters
type CampaignStats struct {
	Sent         int     `bson:"sent" json:"sent"`
	Delivered    int     `bson:"delivered" json:"delivered"`
	Opens        int     `bson:"opens" json:"opens"`
	UniqueOpens  int     `bson:"uniqueOpens" json:"uniqueOpens"`
	Clicks       int     `bson:"clicks" json:"clicks"`
	UniqueClicks int     `bson:"uniqueClicks" json:"uniqueClicks"`
	Bounces      int     `bson:"bounces" json:"bounces"`
	Unsubscribes int     `bson:"unsubscribes" json:"unsubscribes"`
	Conversions  int     `bson:"conversions" json:"conversions"`
	Revenue      float64 `bson:"revenue" json:"revenue"`
}

// OpenRate is uniqueOpens/sent as a percentage, 0 when nothing was sent
func (s CampaignStats) OpenRate() float64 {
	return Percentage(int64(s.UniqueOpens), int64(s.Sent))
}

// ClickRate is uniqueClicks/sent as a percentage, 0 when nothing was sent
func (s CampaignStats) ClickRate() float64 {
	return Percentage(int64(s.UniqueClicks), int64(s.Sent))
}

// CampaignStatsView is the stats block plus derived rates
type CampaignStatsView struct {
	CampaignStats
	OpenRate float64 `json:"openRate"`
	CTR      float64 `json:"ctr"`
}

// NewCampaignStatsView derives the rates for s
func NewCampaignStatsView(s CampaignStats) CampaignStatsView {
	return CampaignStatsView{CampaignStats: s, OpenRate: s.OpenRate(), CTR: s.ClickRate()}
}

// EngagementCounts is what the event log says about one campaign
type EngagementCounts struct {
	Opens        int
	UniqueOpens  int
	Clicks       int
	UniqueClicks int
	Unsubscribes int
}

// Percentage returns part/total*100 clamped to [0,100]; 0 when total is 0
func Percentage(part, total int64) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	p := float64(part) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}

// TestSendRequest sends draft content to arbitrary addresses
type TestSendRequest struct {
	Emails      []string `json:"emails" binding:"required"`
	Subject     string   `json:"subject" binding:"required"`
	HTMLContent string   `json:"htmlContent" binding:"required"`
}
