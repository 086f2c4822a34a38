package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LandingPageStatus is the publication state of a landing page
type LandingPageStatus string

const (
	PageDraft     LandingPageStatus = "draft"
	PagePublished LandingPageStatus = "published"
	PageArchived  LandingPageStatus = "archived"
)

// Valid reports whether the status is one of the known values
func (s LandingPageStatus) Valid() bool {
	switch s {
	case PageDraft, PagePublished, PageArchived:
		return true
	}
	return false
}

// LandingPage is a publicly hosted lead-capture page
type LandingPage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Content     PageContent        `bson:"content" json:"content"`
	Styling     CustomFields       `bson:"styling,omitempty" json:"styling,omitempty"`
	SEO         PageSEO            `bson:"seo" json:"seo"`
	Form        PageForm           `bson:"form" json:"form"`
	Status      LandingPageStatus  `bson:"status" json:"status"`
	Stats       LandingPageStats   `bson:"stats" json:"stats"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PageContent is the visible copy of a landing page
type PageContent struct {
	Headline    string `bson:"headline" json:"headline"`
	Subheadline string `bson:"subheadline,omitempty" json:"subheadline,omitempty"`
	Body        string `bson:"body,omitempty" json:"body,omitempty"`
	CTAText     string `bson:"ctaText,omitempty" json:"ctaText,omitempty"`
	ImageURL    string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// PageSEO holds search metadata
type PageSEO struct {
	MetaTitle       string   `bson:"metaTitle,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string   `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	Keywords        []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// PageForm describes the capture form
type PageForm struct {
	Fields         []PageFormField `bson:"fields" json:"fields"`
	SuccessMessage string          `bson:"successMessage" json:"successMessage"`
	RedirectURL    string          `bson:"redirectUrl,omitempty" json:"redirectUrl,omitempty"`
	Tags           []string        `bson:"tags,omitempty" json:"tags,omitempty"`
}

// PageFormField is one input of the capture form
type PageFormField struct {
	Name     string `bson:"name" json:"name"`
	Label    string `bson:"label" json:"label"`
	Type     string `bson:"type" json:"type"`
	Required bool   `bson:"required" json:"required"`
}

// LandingPageStats holds traffic counters
type LandingPageStats struct {
	Visits         int64   `bson:"visits" json:"visits"`
	Submissions    int64   `bson:"submissions" json:"submissions"`
	ConversionRate float64 `bson:"conversionRate" json:"conversionRate"`
	BounceRate     float64 `bson:"bounceRate" json:"bounceRate"`
	AvgTimeOnPage  float64 `bson:"avgTimeOnPage" json:"avgTimeOnPage"`
}

// DefaultSuccessMessage is shown when a page has none configured
const DefaultSuccessMessage = "Thank you! Your information has been received."

// Submission is a public form post against a landing page
type Submission struct {
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Source       string       `json:"source"`
	CustomFields CustomFields `json:"customFields"`
}

// SubmissionResult is returned to the public page after a submission
type SubmissionResult struct {
	Message     string   `json:"message"`
	RedirectURL string   `json:"redirectUrl,omitempty"`
	Contact     *Contact `json:"contact"`
}
