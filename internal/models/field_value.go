package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldKind is the variant held by a FieldValue
type FieldKind string

const (
	KindNone   FieldKind = ""
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
	KindBool   FieldKind = "boolean"
	KindDate   FieldKind = "date"
)

// FieldValue is a custom-field value restricted to string, number, boolean or date.
// It is stored and serialised as the native value so store queries work on it directly.
type FieldValue struct {
	Kind FieldKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

func StringValue(s string) FieldValue { return FieldValue{Kind: KindString, Str: s} }
func NumberValue(n float64) FieldValue { return FieldValue{Kind: KindNumber, Num: n} }
func BoolValue(b bool) FieldValue { return FieldValue{Kind: KindBool, Bool: b} }
func DateValue(t time.Time) FieldValue { return FieldValue{Kind: KindDate, Time: t.UTC()} }
func (v FieldValue) IsZero() bool { return v.Kind == KindNone }

// String renders the value for display and merge tags
func (v FieldValue) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// Interface returns the native Go value
func (v FieldValue) Interface() interface{} {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Time
	default:
		return nil
	}
}

// InferFieldValue types a raw text value (CSV cells, form inputs).
// Only "true"/"false" and plain numbers are promoted; everything else stays a string.
func InferFieldValue(raw string) FieldValue {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberValue(n)
	}
	return StringValue(s)
}

// MarshalBSONValue stores the native value
func (v FieldValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch v.Kind {
	case KindDate:
		return bson.MarshalValue(primitive.NewDateTimeFromTime(v.Time))
	default:
		return bson.MarshalValue(v.Interface())
	}
}

// UnmarshalBSONValue decodes native values; unsupported types decode to the zero value
func (v *FieldValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*v = StringValue(raw.StringValue())
	case bsontype.Double:
		*v = NumberValue(raw.Double())
	case bsontype.Int32:
		*v = NumberValue(float64(raw.Int32()))
	case bsontype.Int64:
		*v = NumberValue(float64(raw.Int64()))
	case bsontype.Boolean:
		*v = BoolValue(raw.Boolean())
	case bsontype.DateTime:
		*v = DateValue(raw.Time())
	default:
		*v = FieldValue{}
	}
	return nil
}

// MarshalJSON writes the native value
func (v FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts strings, numbers, booleans and null
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = FieldValue{}
	case string:
		*v = StringValue(x)
	case float64:
		*v = NumberValue(x)
	case bool:
		*v = BoolValue(x)
	default:
		return fmt.Errorf("unsupported custom field value %s", string(data))
	}
	return nil
}

// CustomFields maps a custom-field key to its value
type CustomFields map[string]FieldValue
