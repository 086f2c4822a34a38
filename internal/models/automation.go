package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Automation trigger types
const (
	TriggerSegmentEntry = "segment_entry"
	TriggerFormSubmit   = "form_submit"
	TriggerEmailOpen    = "email_open"
	TriggerEmailClick   = "email_click"
	TriggerDate         = "date"
)

// Automation action types
const (
	ActionSendEmail = "send_email"
	ActionAddTag    = "add_tag"
	ActionRemoveTag = "remove_tag"
	ActionWait      = "wait"
)

// Automation is a stored trigger/action workflow. Nothing executes it yet.
type Automation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Trigger     AutomationTrigger  `bson:"trigger" json:"trigger"`
	Actions     []AutomationAction `bson:"actions" json:"actions"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AutomationTrigger starts an automation
type AutomationTrigger struct {
	Type          string              `bson:"type" json:"type"`
	SegmentID     *primitive.ObjectID `bson:"segmentId,omitempty" json:"segmentId,omitempty"`
	LandingPageID *primitive.ObjectID `bson:"landingPageId,omitempty" json:"landingPageId,omitempty"`
}

// AutomationAction is one step of an automation
type AutomationAction struct {
	Type         string       `bson:"type" json:"type"`
	Config       CustomFields `bson:"config,omitempty" json:"config,omitempty"`
	DelayMinutes int          `bson:"delayMinutes" json:"delayMinutes"`
}

// ValidTrigger reports whether t is a known trigger type
func ValidTrigger(t string) bool {
	switch t {
	case TriggerSegmentEntry, TriggerFormSubmit, TriggerEmailOpen, TriggerEmailClick, TriggerDate:
		return true
	}
	return false
}

// ValidAction reports whether t is a known action type
func ValidAction(t string) bool {
	switch t {
	case ActionSendEmail, ActionAddTag, ActionRemoveTag, ActionWait:
		return true
	}
	return false
}
