package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactStatus is the subscription state of a contact
type ContactStatus string

const (
	ContactSubscribed   ContactStatus = "subscribed"
	ContactUnsubscribed ContactStatus = "unsubscribed"
	ContactBounced      ContactStatus = "bounced"
)

// Valid reports whether the status is one of the known values
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactSubscribed, ContactUnsubscribed, ContactBounced:
		return true
	}
	return false
}

// Contact is the canonical record for one email address
type Contact struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string               `bson:"email" json:"email"`
	FirstName    string               `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string               `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Tags         []string             `bson:"tags" json:"tags"`
	Country      string               `bson:"country,omitempty" json:"country,omitempty"`
	City         string               `bson:"city,omitempty" json:"city,omitempty"`
	Score        float64              `bson:"score" json:"score"`
	CustomFields CustomFields         `bson:"customFields,omitempty" json:"customFields,omitempty"`
	Status       ContactStatus        `bson:"status" json:"status"`
	Segments     []primitive.ObjectID `bson:"segments" json:"segments"`
	LastActivity time.Time            `bson:"lastActivity,omitempty" json:"lastActivity,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ContactPatch carries a partial contact update. Nil fields are left untouched,
// custom fields are merged key by key.
type ContactPatch struct {
	FirstName    *string        `json:"firstName,omitempty"`
	LastName     *string        `json:"lastName,omitempty"`
	Country      *string        `json:"country,omitempty"`
	City         *string        `json:"city,omitempty"`
	Score        *float64       `json:"score,omitempty"`
	Status       *ContactStatus `json:"status,omitempty"`
	Tags         *[]string      `json:"tags,omitempty"`
	CustomFields CustomFields   `json:"customFields,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ContactPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Country == nil && p.City == nil &&
		p.Score == nil && p.Status == nil && p.Tags == nil && len(p.CustomFields) == 0
}

// Apply merges the patch into c in place
func (p ContactPatch) Apply(c *Contact) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Country != nil {
		c.Country = *p.Country
	}
	if p.City != nil {
		c.City = *p.City
	}
	if p.Score != nil {
		c.Score = *p.Score
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, (*p.Tags)...)
	}
	if len(p.CustomFields) > 0 {
		if c.CustomFields == nil {
			c.CustomFields = CustomFields{}
		}
		for k, v := range p.CustomFields {
			c.CustomFields[k] = v
		}
	}
}

// SegmentRef names a segment a contact belongs to
type SegmentRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Type SegmentType        `json:"type"`
}

// ContactDetail is a contact plus the segments it currently belongs to
type ContactDetail struct {
	*Contact
	MatchingSegments []SegmentRef `json:"matchingSegments"`
}

// WeeklyCount is a count bucketed by ISO week
type WeeklyCount struct {
	Year  int   `bson:"year" json:"year"`
	Week  int   `bson:"week" json:"week"`
	Count int64 `bson:"count" json:"count"`
}

// ContactInput is the create body for a contact
type ContactInput struct {
	Email string `json:"email" binding:"required"`
	ContactPatch
}

// ContactFilter narrows a contact listing
type ContactFilter struct {
	Search    string
	Status    ContactStatus
	Tag       string
	SegmentID *primitive.ObjectID
}

// Bulk tag actions
const (
	TagActionAdd    = "add"
	TagActionRemove = "remove"
)

// BulkTagRequest adds or removes tags on many contacts
type BulkTagRequest struct {
	ContactIDs []string `json:"contactIds" binding:"required"`
	Tags       []string `json:"tags" binding:"required"`
	Action     string   `json:"action" binding:"required"`
}

// SendEmailRequest mails a list of contacts directly
type SendEmailRequest struct {
	ContactIDs  []string `json:"contactIds" binding:"required"`
	Subject     string   `json:"subject" binding:"required"`
	HTMLContent string   `json:"htmlContent" binding:"required"`
}
