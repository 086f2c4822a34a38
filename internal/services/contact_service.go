package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/metrics"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"github.com/ArowuTest/leadflow-backend/internal/utils"
	"github.com/ArowuTest/leadflow-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type contactService struct {
	contacts   repositories.ContactRepository
	segments   repositories.SegmentRepository
	events     repositories.EventRepository
	evaluator  segment.Evaluator
	importer   *utils.ContactImporter
	dispatcher *Dispatcher
	log        *zap.Logger
}

// NewContactService creates a new ContactService implementation
func NewContactService(repos *repositories.Repositories, evaluator segment.Evaluator, dispatcher *Dispatcher, log *zap.Logger) ContactService {
	return &contactService{
		contacts:   repos.Contacts,
		segments:   repos.Segments,
		events:     repos.Events,
		evaluator:  evaluator,
		importer:   utils.NewContactImporter(repos.Contacts),
		dispatcher: dispatcher,
		log:        log,
	}
}

func validatePatch(patch *models.ContactPatch) error {
	if patch.Score != nil && (*patch.Score < 0 || *patch.Score > 100) {
		return validationError("score must be between 0 and 100")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return validationError("invalid status %q", *patch.Status)
	}
	if patch.Tags != nil {
		tags := make([]string, 0, len(*patch.Tags))
		for _, t := range *patch.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		patch.Tags = &tags
	}
	return validateFieldKeys(patch.CustomFields)
}

// validateFieldKeys rejects custom field keys the store would read as paths
func validateFieldKeys(fields models.CustomFields) error {
	for k := range fields {
		if !utils.ValidFieldKey(k) {
			return validationError("invalid custom field key %q: use letters, digits and _", k)
		}
	}
	return nil
}

// ListContacts returns one page of contacts
func (s *contactService) ListContacts(ctx context.Context, filter models.ContactFilter, page, limit int) ([]*models.Contact, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, validationError("invalid status %q", filter.Status)
	}
	q := repositories.ContactQuery{
		Status:    filter.Status,
		Search:    strings.TrimSpace(filter.Search),
		Tag:       strings.TrimSpace(filter.Tag),
		SegmentID: filter.SegmentID,
	}

	contacts, err := s.contacts.Find(ctx, q, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contacts.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// GetContact returns a contact and the segments it belongs to
func (s *contactService) GetContact(ctx context.Context, id primitive.ObjectID) (*models.ContactDetail, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "contact")
	}

	detail := &models.ContactDetail{Contact: contact, MatchingSegments: []models.SegmentRef{}}

	dynamic, err := s.segments.FindActiveDynamic(ctx)
	if err != nil {
		return nil, err
	}
	for _, seg := range dynamic {
		if s.evaluator.Matches(contact, seg.Rules) {
			detail.MatchingSegments = append(detail.MatchingSegments, models.SegmentRef{ID: seg.ID, Name: seg.Name, Type: seg.Type})
		}
	}
	for _, segID := range contact.Segments {
		seg, err := s.segments.FindByID(ctx, segID)
		if err != nil {
			continue
		}
		detail.MatchingSegments = append(detail.MatchingSegments, models.SegmentRef{ID: seg.ID, Name: seg.Name, Type: seg.Type})
	}
	return detail, nil
}

// CreateContact stores a new contact. Email is normalised and must be unique.
func (s *contactService) CreateContact(ctx context.Context, input *models.ContactInput) (*models.Contact, error) {
	email := utils.NormalizeEmail(input.Email)
	if !utils.ValidEmail(email) {
		return nil, validationError("invalid email %q", input.Email)
	}
	if err := validatePatch(&input.ContactPatch); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Email:    email,
		Status:   models.ContactSubscribed,
		Tags:     []string{},
		Segments: []primitive.ObjectID{},
	}
	input.ContactPatch.Apply(contact)

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, storeError(err, fmt.Sprintf("contact with email %s", email))
	}
	return contact, nil
}

// UpdateContact applies patch as targeted field updates
func (s *contactService) UpdateContact(ctx context.Context, id primitive.ObjectID, patch models.ContactPatch) (*models.Contact, error) {
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		contact, err := s.contacts.FindByID(ctx, id)
		return contact, storeError(err, "contact")
	}
	contact, err := s.contacts.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "contact")
	}
	return contact, nil
}

// DeleteContact removes a contact and cascades to its events
func (s *contactService) DeleteContact(ctx context.Context, id primitive.ObjectID) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		return storeError(err, "contact")
	}
	removed, err := s.events.DeleteByContact(ctx, id)
	if err != nil {
		return fmt.Errorf("contact deleted but its events were not: %w", err)
	}
	s.log.Info("contact deleted", zap.String("contactId", id.Hex()), zap.Int64("eventsRemoved", removed))
	return nil
}

// BulkTag adds or removes tags contact by contact
func (s *contactService) BulkTag(ctx context.Context, req *models.BulkTagRequest) (*models.BulkResult, error) {
	if req.Action != models.TagActionAdd && req.Action != models.TagActionRemove {
		return nil, validationError("action must be %q or %q", models.TagActionAdd, models.TagActionRemove)
	}
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil, validationError("at least one tag is required")
	}
	if len(req.ContactIDs) == 0 {
		return nil, validationError("at least one contact is required")
	}

	result := models.NewBulkResult()
	for _, raw := range req.ContactIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			result.Failed = append(result.Failed, models.BulkFailure{ID: raw, Error: "invalid contact id"})
			continue
		}
		if req.Action == models.TagActionAdd {
			err = s.contacts.AddTags(ctx, id, tags)
		} else {
			err = s.contacts.RemoveTags(ctx, id, tags)
		}
		if err != nil {
			result.Failed = append(result.Failed, models.BulkFailure{ID: raw, Error: storeError(err, "contact").Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, raw)
	}
	return result, nil
}

// SendEmail mails the listed contacts. Unknown ids are reported as failures.
func (s *contactService) SendEmail(ctx context.Context, req *models.SendEmailRequest) (*models.DispatchReport, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.HTMLContent) == "" {
		return nil, validationError("subject and htmlContent are required")
	}
	if len(req.ContactIDs) == 0 {
		return nil, validationError("at least one contact is required")
	}

	var recipients []recipient
	var missing []models.BulkFailure
	for _, raw := range req.ContactIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			missing = append(missing, models.BulkFailure{ID: raw, Error: "invalid contact id"})
			continue
		}
		contact, err := s.contacts.FindByID(ctx, id)
		if err != nil {
			missing = append(missing, models.BulkFailure{ID: raw, Error: storeError(err, "contact").Error()})
			continue
		}
		recipients = append(recipients, contactRecipient(contact))
	}

	report := s.dispatcher.send(ctx, sendBulk, mailer.Message{Subject: req.Subject, HTMLContent: req.HTMLContent}, recipients)
	report.Attempted += len(missing)
	report.Failed += len(missing)
	report.Result.Failed = append(report.Result.Failed, missing...)

	s.touchDelivered(ctx, recipients, report.Result.Succeeded)
	return report, nil
}

// ImportContacts upserts CSV rows
func (s *contactService) ImportContacts(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	report, err := s.importer.Import(ctx, r)
	if err != nil {
		return nil, validationError("%v", err)
	}
	metrics.ContactsImported.WithLabelValues("created").Add(float64(report.Created))
	metrics.ContactsImported.WithLabelValues("updated").Add(float64(report.Updated))
	metrics.ContactsImported.WithLabelValues("failed").Add(float64(len(report.Failed)))

	s.log.Info("contacts imported",
		zap.Int("rows", report.TotalRows),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// touchDelivered bumps lastActivity on contacts that were mailed successfully
func (s *contactService) touchDelivered(ctx context.Context, recipients []recipient, delivered []string) {
	ok := make(map[string]bool, len(delivered))
	for _, email := range delivered {
		ok[email] = true
	}
	now := time.Now()
	for _, rcpt := range recipients {
		if !ok[rcpt.Email] {
			continue
		}
		id, err := primitive.ObjectIDFromHex(rcpt.ID)
		if err != nil {
			continue
		}
		if err := s.contacts.Touch(ctx, id, now); err != nil {
			s.log.Debug("touch failed", zap.String("contactId", rcpt.ID), zap.Error(err))
		}
	}
}
