package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomFieldType is the declared type of a custom field
type CustomFieldType string

const (
	FieldText    CustomFieldType = "text"
	FieldNumber  CustomFieldType = "number"
	FieldBoolean CustomFieldType = "boolean"
	FieldDate    CustomFieldType = "date"
)

// Valid reports whether the type is one of the known values
func (t CustomFieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldBoolean, FieldDate:
		return true
	}
	return false
}

// CustomField is a schema definition for a key in Contact.CustomFields.
// Segment rules reference keys by name with no integrity check.
type CustomField struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key       string             `bson:"key" json:"key"`
	Label     string             `bson:"label" json:"label"`
	Type      CustomFieldType    `bson:"type" json:"type"`
	Options   []string           `bson:"options,omitempty" json:"options,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
