package services

import (
	"context"
	"strings"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type automationService struct {
	automations repositories.AutomationRepository
}

// NewAutomationService creates a new AutomationService implementation
func NewAutomationService(automations repositories.AutomationRepository) AutomationService {
	return &automationService{automations: automations}
}

func validateAutomation(a *models.Automation) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return validationError("name is required")
	}
	if !models.ValidTrigger(a.Trigger.Type) {
		return validationError("invalid trigger type %q", a.Trigger.Type)
	}
	if a.Trigger.Type == models.TriggerSegmentEntry && a.Trigger.SegmentID == nil {
		return validationError("segment_entry triggers need a segmentId")
	}
	if a.Trigger.Type == models.TriggerFormSubmit && a.Trigger.LandingPageID == nil {
		return validationError("form_submit triggers need a landingPageId")
	}
	if len(a.Actions) == 0 {
		return validationError("at least one action is required")
	}
	for i, action := range a.Actions {
		if !models.ValidAction(action.Type) {
			return validationError("action %d: invalid type %q", i+1, action.Type)
		}
		if action.DelayMinutes < 0 {
			return validationError("action %d: delayMinutes cannot be negative", i+1)
		}
	}
	return nil
}

// ListAutomations returns one page of automations
func (s *automationService) ListAutomations(ctx context.Context, page, limit int) ([]*models.Automation, int64, error) {
	items, err := s.automations.FindAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.automations.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetAutomation returns an automation by id
func (s *automationService) GetAutomation(ctx context.Context, id primitive.ObjectID) (*models.Automation, error) {
	a, err := s.automations.FindByID(ctx, id)
	return a, storeError(err, "automation")
}

// CreateAutomation stores an automation
func (s *automationService) CreateAutomation(ctx context.Context, automation *models.Automation) (*models.Automation, error) {
	if err := validateAutomation(automation); err != nil {
		return nil, err
	}
	automation.ID = primitive.NilObjectID
	if err := s.automations.Create(ctx, automation); err != nil {
		return nil, storeError(err, "automation")
	}
	return automation, nil
}

// UpdateAutomation replaces an automation
func (s *automationService) UpdateAutomation(ctx context.Context, id primitive.ObjectID, automation *models.Automation) (*models.Automation, error) {
	existing, err := s.automations.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "automation")
	}
	if err := validateAutomation(automation); err != nil {
		return nil, err
	}
	automation.ID = existing.ID
	automation.CreatedAt = existing.CreatedAt
	if err := s.automations.Update(ctx, automation); err != nil {
		return nil, storeError(err, "automation")
	}
	return automation, nil
}

// DeleteAutomation deletes an automation
func (s *automationService) DeleteAutomation(ctx context.Context, id primitive.ObjectID) error {
	return storeError(s.automations.Delete(ctx, id), "automation")
}
