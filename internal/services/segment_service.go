package services

import (
	"context"
	"strings"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Preview sizes
const (
	defaultPreviewLimit = 10
	maxPreviewLimit     = 100
)

type segmentService struct {
	segments repositories.SegmentRepository
	contacts repositories.ContactRepository
	log      *zap.Logger
}

// NewSegmentService creates a new SegmentService implementation
func NewSegmentService(repos *repositories.Repositories, log *zap.Logger) SegmentService {
	return &segmentService{segments: repos.Segments, contacts: repos.Contacts, log: log}
}

// normalizeRules validates and cleans rules in place
func normalizeRules(rules []models.SegmentRule) error {
	for i := range rules {
		r := &rules[i]
		r.Field = strings.TrimSpace(r.Field)
		r.Operator = strings.TrimSpace(r.Operator)
		r.Logic = models.Logic(strings.ToUpper(strings.TrimSpace(string(r.Logic))))
		if r.Field == "" || r.Operator == "" {
			return validationError("rule %d: field and operator are required", i+1)
		}
		if r.Logic != "" && r.Logic != models.LogicAnd && r.Logic != models.LogicOr {
			return validationError("rule %d: logic must be AND or OR", i+1)
		}
	}
	return nil
}

// warnUnknown logs operators the evaluator will ignore
func (s *segmentService) warnUnknown(rules []models.SegmentRule, segmentName string) {
	if unknown := segment.UnknownOperators(rules); len(unknown) > 0 {
		s.log.Warn("segment rules use unknown operators; those rules match everything",
			zap.String("segment", segmentName),
			zap.Strings("operators", unknown),
		)
	}
}

// memberQuery selects a segment's members
func memberQuery(seg *models.Segment) repositories.ContactQuery {
	if seg.Type == models.SegmentStatic {
		id := seg.ID
		return repositories.ContactQuery{SegmentID: &id}
	}
	return repositories.ContactQuery{Rules: seg.Rules}
}

func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := primitive.ObjectIDFromHex(r)
		if err != nil {
			return nil, validationError("invalid contact id %q", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *segmentService) applyInput(seg *models.Segment, input *models.SegmentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return validationError("name is required")
	}
	segType := input.Type
	if segType == "" {
		segType = models.SegmentDynamic
	}
	if segType != models.SegmentDynamic && segType != models.SegmentStatic {
		return validationError("type must be dynamic or static")
	}
	rules := append([]models.SegmentRule{}, input.Rules...)
	if err := normalizeRules(rules); err != nil {
		return err
	}

	seg.Name = strings.TrimSpace(input.Name)
	seg.Description = input.Description
	seg.Type = segType
	seg.Rules = rules
	if input.IsActive != nil {
		seg.IsActive = *input.IsActive
	}
	return nil
}

// refreshCount recomputes the cached member count
func (s *segmentService) refreshCount(ctx context.Context, seg *models.Segment) error {
	count, err := s.contacts.Count(ctx, memberQuery(seg))
	if err != nil {
		return err
	}
	seg.ContactCount = count
	return s.segments.SetContactCount(ctx, seg.ID, count)
}

// ListSegments returns one page of segments
func (s *segmentService) ListSegments(ctx context.Context, page, limit int) ([]*models.Segment, int64, error) {
	segments, err := s.segments.FindAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.segments.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return segments, total, nil
}

// GetSegment returns a segment by id
func (s *segmentService) GetSegment(ctx context.Context, id primitive.ObjectID) (*models.Segment, error) {
	seg, err := s.segments.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "segment")
	}
	return seg, nil
}

// CreateSegment stores a segment, writes static membership and caches the count
func (s *segmentService) CreateSegment(ctx context.Context, input *models.SegmentInput) (*models.Segment, error) {
	seg := &models.Segment{IsActive: true}
	if err := s.applyInput(seg, input); err != nil {
		return nil, err
	}
	members, err := parseIDs(input.ContactIDs)
	if err != nil {
		return nil, err
	}
	s.warnUnknown(seg.Rules, seg.Name)

	if err := s.segments.Create(ctx, seg); err != nil {
		return nil, storeError(err, "segment")
	}
	if seg.Type == models.SegmentStatic && len(members) > 0 {
		if err := s.contacts.SetSegmentMembers(ctx, seg.ID, members); err != nil {
			return nil, err
		}
	}
	if err := s.refreshCount(ctx, seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// UpdateSegment replaces the segment definition and refreshes its count
func (s *segmentService) UpdateSegment(ctx context.Context, id primitive.ObjectID, input *models.SegmentInput) (*models.Segment, error) {
	seg, err := s.segments.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "segment")
	}
	wasStatic := seg.Type == models.SegmentStatic

	if err := s.applyInput(seg, input); err != nil {
		return nil, err
	}
	members, err := parseIDs(input.ContactIDs)
	if err != nil {
		return nil, err
	}
	s.warnUnknown(seg.Rules, seg.Name)

	if err := s.segments.Update(ctx, seg); err != nil {
		return nil, storeError(err, "segment")
	}

	switch {
	case seg.Type == models.SegmentStatic && input.ContactIDs != nil:
		err = s.contacts.SetSegmentMembers(ctx, seg.ID, members)
	case seg.Type == models.SegmentDynamic && wasStatic:
		err = s.contacts.RemoveSegment(ctx, seg.ID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.refreshCount(ctx, seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// DeleteSegment deletes a segment and pulls it from every contact
func (s *segmentService) DeleteSegment(ctx context.Context, id primitive.ObjectID) error {
	if err := s.segments.Delete(ctx, id); err != nil {
		return storeError(err, "segment")
	}
	return s.contacts.RemoveSegment(ctx, id)
}

// Preview evaluates rules against the contact store
func (s *segmentService) Preview(ctx context.Context, req *models.PreviewRequest) (*models.PreviewResult, error) {
	rules := append([]models.SegmentRule{}, req.Rules...)
	if err := normalizeRules(rules); err != nil {
		return nil, err
	}
	s.warnUnknown(rules, "preview")

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPreviewLimit
	}
	if limit > maxPreviewLimit {
		limit = maxPreviewLimit
	}

	q := repositories.ContactQuery{Rules: rules}
	contacts, err := s.contacts.Find(ctx, q, 1, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.contacts.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	return &models.PreviewResult{Contacts: contacts, Total: total}, nil
}

// SegmentContacts returns one page of a segment's members
func (s *segmentService) SegmentContacts(ctx context.Context, id primitive.ObjectID, page, limit int) ([]*models.Contact, int64, error) {
	seg, err := s.segments.FindByID(ctx, id)
	if err != nil {
		return nil, 0, storeError(err, "segment")
	}
	q := memberQuery(seg)
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

// Recipients resolves the subscribed audience of a campaign
func (s *segmentService) Recipients(ctx context.Context, segmentID *primitive.ObjectID) ([]*models.Contact, error) {
	q := repositories.ContactQuery{}
	if segmentID != nil {
		seg, err := s.segments.FindByID(ctx, *segmentID)
		if err != nil {
			return nil, storeError(err, "segment")
		}
		s.warnUnknown(seg.Rules, seg.Name)
		q = memberQuery(seg)
	}
	q.Status = models.ContactSubscribed
	return s.contacts.Find(ctx, q, 1, 0)
}
