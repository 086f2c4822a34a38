package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SegmentType distinguishes rule-driven from fixed segments
type SegmentType string

const (
	SegmentDynamic SegmentType = "dynamic"
	SegmentStatic  SegmentType = "static"
)

// Logic joins the rules of a segment
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Rule operators understood by the evaluator
const (
	OpContains = "contiene"
	OpEquals   = "es"
	OpGTE      = "mayor"
	OpLTE      = "menor"
	OpAfter    = "despues"
)

// SegmentRule is one user-authored field/operator/value condition
type SegmentRule struct {
	Field    string `bson:"field" json:"field" binding:"required"`
	Operator string `bson:"operator" json:"operator" binding:"required"`
	Value    string `bson:"value" json:"value"`
	Logic    Logic  `bson:"logic,omitempty" json:"logic,omitempty"`
}

// Segment is a named subset of contacts
type Segment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Type         SegmentType        `bson:"type" json:"type"`
	Rules        []SegmentRule      `bson:"rules" json:"rules"`
	ContactCount int64              `bson:"contactCount" json:"contactCount"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SegmentInput is the create/update body. ContactIDs set static membership.
type SegmentInput struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Type        SegmentType   `json:"type"`
	Rules       []SegmentRule `json:"rules"`
	ContactIDs  []string      `json:"contactIds"`
	IsActive    *bool         `json:"isActive"`
}

// PreviewRequest asks which contacts a rule list would match
type PreviewRequest struct {
	Rules []SegmentRule `json:"rules"`
	Limit int           `json:"limit"`
}

// PreviewResult is a sample of matched contacts plus the full count
type PreviewResult struct {
	Contacts []*Contact `json:"contacts"`
	Total    int64      `json:"total"`
}
