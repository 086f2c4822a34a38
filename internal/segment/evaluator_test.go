package segment

import (
	"testing"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func rule(field, op, value string) models.SegmentRule {
	return models.SegmentRule{Field: field, Operator: op, Value: value}
}

func testContacts() []*models.Contact {
	return []*models.Contact{
		{
			Email: "a@x.com", FirstName: "Ana", Country: "ES", Tags: []string{"new", "vip"}, Score: 80,
			Status: models.ContactSubscribed, CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			CustomFields: models.CustomFields{"plan": models.StringValue("pro"), "seats": models.NumberValue(10)},
		},
		{
			Email: "b@x.com", FirstName: "Bob", Country: "US", Tags: []string{"newsletter"}, Score: 20,
			Status: models.ContactSubscribed, CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			CustomFields: models.CustomFields{"plan": models.StringValue("free"), "trial": models.BoolValue(true)},
		},
		{
			Email: "c@y.com", FirstName: "Cleo", Country: "ES", Tags: []string{"old"}, Score: 55,
			Status: models.ContactUnsubscribed, CreatedAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func matchingEmails(e Evaluator, rules []models.SegmentRule) []string {
	var out []string
	for _, c := range testContacts() {
		if e.Matches(c, rules) {
			out = append(out, c.Email)
		}
	}
	return out
}

func TestFlatEvaluator_Filter(t *testing.T) {
	e := NewFlatEvaluator()

	tests := []struct {
		name  string
		rules []models.SegmentRule
		want  bson.M
	}{
		{
			name:  "empty rules match everything",
			rules: nil,
			want:  bson.M{},
		},
		{
			name:  "contains is a quoted case-insensitive regex",
			rules: []models.SegmentRule{rule("tags", models.OpContains, "new+")},
			want:  bson.M{"tags": primitive.Regex{Pattern: `new\+`, Options: "i"}},
		},
		{
			name:  "greater or equal coerces to number",
			rules: []models.SegmentRule{rule("score", models.OpGTE, "50")},
			want:  bson.M{"score": bson.M{"$gte": 50.0}},
		},
		{
			name:  "less or equal coerces to number",
			rules: []models.SegmentRule{rule("score", models.OpLTE, "50")},
			want:  bson.M{"score": bson.M{"$lte": 50.0}},
		},
		{
			name:  "malformed number matches nothing",
			rules: []models.SegmentRule{rule("score", models.OpGTE, "lots")},
			want:  matchNothing,
		},
		{
			name:  "malformed date matches nothing",
			rules: []models.SegmentRule{rule("createdAt", models.OpAfter, "someday")},
			want:  matchNothing,
		},
		{
			name:  "after parses the date",
			rules: []models.SegmentRule{rule("createdAt", models.OpAfter, "2024-01-01")},
			want:  bson.M{"createdAt": bson.M{"$gte": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
		},
		{
			name:  "unknown field is a custom field",
			rules: []models.SegmentRule{rule("plan", models.OpEquals, "pro")},
			want:  bson.M{"customFields.plan": bson.M{"$in": []interface{}{"pro"}}},
		},
		{
			name:  "custom equality includes typed candidates",
			rules: []models.SegmentRule{rule("customFields.seats", models.OpEquals, "1")},
			want:  bson.M{"customFields.seats": bson.M{"$in": []interface{}{"1", 1.0, true}}},
		},
		{
			name:  "email equality is normalised",
			rules: []models.SegmentRule{rule("email", models.OpEquals, " A@X.com")},
			want:  bson.M{"email": "a@x.com"},
		},
		{
			name:  "unknown operator adds no constraint",
			rules: []models.SegmentRule{rule("country", "empieza", "E")},
			want:  bson.M{},
		},
		{
			name: "first rule logic wins",
			rules: []models.SegmentRule{
				{Field: "country", Operator: models.OpEquals, Value: "ES", Logic: models.LogicOr},
				{Field: "city", Operator: models.OpEquals, Value: "Madrid", Logic: models.LogicAnd},
			},
			want: bson.M{"$or": []bson.M{{"country": "ES"}, {"city": "Madrid"}}},
		},
		{
			name: "missing logic defaults to AND",
			rules: []models.SegmentRule{
				rule("country", models.OpEquals, "ES"),
				{Field: "city", Operator: models.OpEquals, Value: "Madrid", Logic: models.LogicOr},
			},
			want: bson.M{"$and": []bson.M{{"country": "ES"}, {"city": "Madrid"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Filter(tt.rules))
		})
	}
}

func TestFlatEvaluator_Matches(t *testing.T) {
	e := NewFlatEvaluator()

	tests := []struct {
		name  string
		rules []models.SegmentRule
		want  []string
	}{
		{"empty rules", nil, []string{"a@x.com", "b@x.com", "c@y.com"}},
		{"tag contains", []models.SegmentRule{rule("tags", models.OpContains, "NEW")}, []string{"a@x.com", "b@x.com"}},
		{"score range", []models.SegmentRule{rule("score", models.OpGTE, "50"), rule("score", models.OpLTE, "60")}, []string{"c@y.com"}},
		{"custom field equality", []models.SegmentRule{rule("plan", models.OpEquals, "pro")}, []string{"a@x.com"}},
		{"custom numeric field", []models.SegmentRule{rule("seats", models.OpGTE, "5")}, []string{"a@x.com"}},
		{"custom bool field", []models.SegmentRule{rule("trial", models.OpEquals, "true")}, []string{"b@x.com"}},
		{"created after", []models.SegmentRule{rule("createdAt", models.OpAfter, "2024-01-01")}, []string{"a@x.com", "c@y.com"}},
		{"malformed number", []models.SegmentRule{rule("score", models.OpGTE, "abc")}, nil},
		{"unknown operator only", []models.SegmentRule{rule("score", "entre", "1")}, []string{"a@x.com", "b@x.com", "c@y.com"}},
		{
			"or across rules",
			[]models.SegmentRule{
				{Field: "country", Operator: models.OpEquals, Value: "US", Logic: models.LogicOr},
				rule("tags", models.OpEquals, "old"),
			},
			[]string{"b@x.com", "c@y.com"},
		},
		{
			"malformed clause inside OR keeps the rest usable",
			[]models.SegmentRule{
				{Field: "score", Operator: models.OpGTE, Value: "x", Logic: models.LogicOr},
				rule("country", models.OpEquals, "US"),
			},
			[]string{"b@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchingEmails(e, tt.rules))
		})
	}
}

func TestFlatEvaluator_EqualsWithAndIsIntersection(t *testing.T) {
	e := NewFlatEvaluator()
	byCountry := []models.SegmentRule{rule("country", models.OpEquals, "ES")}
	byStatus := []models.SegmentRule{rule("status", models.OpEquals, "subscribed")}
	both := append(append([]models.SegmentRule{}, byCountry...), byStatus...)

	var intersection []string
	status := map[string]bool{}
	for _, email := range matchingEmails(e, byStatus) {
		status[email] = true
	}
	for _, email := range matchingEmails(e, byCountry) {
		if status[email] {
			intersection = append(intersection, email)
		}
	}

	assert.Equal(t, intersection, matchingEmails(e, both))
	assert.Equal(t, []string{"a@x.com"}, intersection)
}

func TestFlatEvaluator_SingleRuleIgnoresLogic(t *testing.T) {
	e := NewFlatEvaluator()
	for _, logic := range []models.Logic{"", models.LogicAnd, models.LogicOr, "xor"} {
		r := []models.SegmentRule{{Field: "country", Operator: models.OpEquals, Value: "ES", Logic: logic}}
		assert.Equal(t, []string{"a@x.com", "c@y.com"}, matchingEmails(e, r), "logic %q", logic)
		assert.Equal(t, bson.M{"country": "ES"}, e.Filter(r))
	}
}

func TestUnknownOperators(t *testing.T) {
	rules := []models.SegmentRule{rule("a", models.OpEquals, "1"), rule("b", "igual", "2")}
	assert.Equal(t, []string{"igual"}, UnknownOperators(rules))
	assert.Empty(t, UnknownOperators(rules[:1]))
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "tags", FieldPath("tags"))
	assert.Equal(t, "customFields.plan", FieldPath("plan"))
	assert.Equal(t, "customFields.plan", FieldPath("customFields.plan"))
}
