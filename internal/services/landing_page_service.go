package services

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/metrics"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type landingPageService struct {
	pages    repositories.LandingPageRepository
	contacts repositories.ContactRepository
	events   repositories.EventRepository
	log      *zap.Logger
	now      func() time.Time
}

// NewLandingPageService creates a new LandingPageService implementation
func NewLandingPageService(repos *repositories.Repositories, log *zap.Logger) LandingPageService {
	return &landingPageService{
		pages:    repos.LandingPages,
		contacts: repos.Contacts,
		events:   repos.Events,
		log:      log,
		now:      time.Now,
	}
}

// normalizePage validates p and fills defaults. Slugs are lower-cased and every
// character outside [a-z0-9-] becomes '-'.
func normalizePage(p *models.LandingPage) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return validationError("name is required")
	}
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = p.Name
	}
	p.Slug = utils.SanitizeSlug(p.Slug)
	if strings.Trim(p.Slug, "-") == "" {
		return validationError("slug must contain at least one letter or digit")
	}
	if p.Title == "" {
		p.Title = p.Name
	}
	if p.Status == "" {
		p.Status = models.PageDraft
	}
	if !p.Status.Valid() {
		return validationError("invalid status %q", p.Status)
	}
	if p.Form.SuccessMessage == "" {
		p.Form.SuccessMessage = models.DefaultSuccessMessage
	}
	if p.Form.Fields == nil {
		p.Form.Fields = []models.PageFormField{}
	}
	return nil
}

// ListPages returns one page of landing pages
func (s *landingPageService) ListPages(ctx context.Context, status models.LandingPageStatus, page, limit int) ([]*models.LandingPage, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, validationError("invalid status %q", status)
	}
	pages, err := s.pages.FindAll(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.pages.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

// GetPage returns a landing page by id
func (s *landingPageService) GetPage(ctx context.Context, id primitive.ObjectID) (*models.LandingPage, error) {
	p, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "landing page")
	}
	return p, nil
}

// CreatePage stores a landing page with fresh stats
func (s *landingPageService) CreatePage(ctx context.Context, page *models.LandingPage) (*models.LandingPage, error) {
	if err := normalizePage(page); err != nil {
		return nil, err
	}
	page.ID = primitive.NilObjectID
	page.Stats = models.LandingPageStats{}
	page.PublishedAt = nil
	if page.Status == models.PagePublished {
		now := s.now()
		page.PublishedAt = &now
	}

	if err := s.pages.Create(ctx, page); err != nil {
		return nil, storeError(err, "landing page with slug "+page.Slug)
	}
	return page, nil
}

// UpdatePage replaces the page definition. Stats are never touched.
func (s *landingPageService) UpdatePage(ctx context.Context, id primitive.ObjectID, page *models.LandingPage) (*models.LandingPage, error) {
	existing, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "landing page")
	}
	if err := normalizePage(page); err != nil {
		return nil, err
	}

	page.ID = existing.ID
	page.CreatedAt = existing.CreatedAt
	page.Stats = existing.Stats
	page.PublishedAt = existing.PublishedAt
	if page.Status == models.PagePublished && existing.Status != models.PagePublished {
		now := s.now()
		page.PublishedAt = &now
	}

	if err := s.pages.Update(ctx, page); err != nil {
		return nil, storeError(err, "landing page with slug "+page.Slug)
	}
	return page, nil
}

// DeletePage deletes a landing page
func (s *landingPageService) DeletePage(ctx context.Context, id primitive.ObjectID) error {
	return storeError(s.pages.Delete(ctx, id), "landing page")
}

// ViewPublished returns a published page and records the visit
func (s *landingPageService) ViewPublished(ctx context.Context, slug string, meta models.RequestMeta) (*models.LandingPage, error) {
	page, err := s.pages.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, storeError(err, "landing page")
	}
	if page.Status != models.PagePublished {
		return nil, storeError(repositories.ErrNotFound, "landing page")
	}

	if err := s.pages.IncrementVisits(ctx, page.ID); err != nil {
		return nil, storeError(err, "landing page")
	}
	page.Stats.Visits++

	event := models.NewEvent(models.EventPageView, withDevice(meta), s.now())
	event.LandingPageID = &page.ID
	if err := s.events.Create(ctx, event); err != nil {
		s.log.Warn("failed to record page view", zap.String("slug", page.Slug), zap.Error(err))
	}
	metrics.PageViews.Inc()
	return page, nil
}

func withDevice(meta models.RequestMeta) models.RequestMeta {
	if meta.Device == "" {
		meta.Device = utils.DeviceClass(meta.UserAgent)
	}
	return meta
}

// checkRequired enforces the page's required form fields
func checkRequired(form models.PageForm, sub *models.Submission) error {
	for _, f := range form.Fields {
		if !f.Required {
			continue
		}
		var present bool
		switch f.Name {
		case "email":
			present = sub.Email != ""
		case "firstName":
			present = strings.TrimSpace(sub.FirstName) != ""
		case "lastName":
			present = strings.TrimSpace(sub.LastName) != ""
		default:
			v, ok := sub.CustomFields[f.Name]
			present = ok && v.String() != ""
		}
		if !present {
			label := f.Label
			if label == "" {
				label = f.Name
			}
			return validationError("%s is required", label)
		}
	}
	return nil
}

// Submit merges the submission into the contact store, records a form_submit
// event and recomputes the page's conversion rate
func (s *landingPageService) Submit(ctx context.Context, id primitive.ObjectID, sub *models.Submission, meta models.RequestMeta) (*models.SubmissionResult, error) {
	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "landing page")
	}
	if page.Status != models.PagePublished {
		return nil, storeError(repositories.ErrNotFound, "landing page")
	}

	email := utils.NormalizeEmail(sub.Email)
	if !utils.ValidEmail(email) {
		return nil, validationError("a valid email is required")
	}
	if err := checkRequired(page.Form, sub); err != nil {
		return nil, err
	}
	if err := validateFieldKeys(sub.CustomFields); err != nil {
		return nil, err
	}

	var patch models.ContactPatch
	if first := strings.TrimSpace(sub.FirstName); first != "" {
		patch.FirstName = &first
	}
	if last := strings.TrimSpace(sub.LastName); last != "" {
		patch.LastName = &last
	}
	if len(sub.CustomFields) > 0 || sub.Source != "" {
		patch.CustomFields = models.CustomFields{}
		for k, v := range sub.CustomFields {
			patch.CustomFields[k] = v
		}
		if src := strings.TrimSpace(sub.Source); src != "" {
			patch.CustomFields["source"] = models.StringValue(src)
		}
	}

	contact, created, err := s.contacts.Upsert(ctx, email, patch)
	if err != nil {
		return nil, storeError(err, "contact")
	}
	if len(page.Form.Tags) > 0 {
		if err := s.contacts.AddTags(ctx, contact.ID, page.Form.Tags); err != nil {
			s.log.Warn("failed to tag contact", zap.String("contactId", contact.ID.Hex()), zap.Error(err))
		}
	}

	now := s.now()
	event := models.NewEvent(models.EventFormSubmit, withDevice(meta), now)
	event.ContactID = &contact.ID
	event.LandingPageID = &page.ID
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	if err := s.contacts.Touch(ctx, contact.ID, now); err != nil {
		s.log.Debug("touch failed", zap.String("contactId", contact.ID.Hex()), zap.Error(err))
	}

	stats, err := s.pages.IncrementSubmissions(ctx, page.ID)
	if err != nil {
		return nil, storeError(err, "landing page")
	}
	rate := models.Percentage(stats.Submissions, stats.Visits)
	if err := s.pages.SetConversionRate(ctx, page.ID, rate); err != nil {
		return nil, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.FormSubmissions.WithLabelValues(outcome).Inc()

	if refreshed, err := s.contacts.FindByID(ctx, contact.ID); err == nil {
		contact = refreshed
	}

	message := page.Form.SuccessMessage
	if message == "" {
		message = models.DefaultSuccessMessage
	}
	return &models.SubmissionResult{
		Message:     message,
		RedirectURL: page.Form.RedirectURL,
		Contact:     contact,
	}, nil
}
