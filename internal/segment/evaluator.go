// Package segment turns segment rule lists into contact filters.
package segment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Evaluator compiles rule lists. Filter produces a store query, Matches applies
// the same semantics to a single in-memory contact.
type Evaluator interface {
	Filter(rules []models.SegmentRule) bson.M
	Matches(contact *models.Contact, rules []models.SegmentRule) bool
}

// FlatEvaluator combines every rule with one boolean operator, taken from the
// first rule's logic (AND when unset). Grouping is not supported.
type FlatEvaluator struct{}

// NewFlatEvaluator creates a new FlatEvaluator
func NewFlatEvaluator() *FlatEvaluator {
	return &FlatEvaluator{}
}

// matchNothing is the clause used for values that cannot be coerced
var matchNothing = bson.M{"_id": bson.M{"$exists": false}}

var knownFields = map[string]bool{
	"email":        true,
	"firstName":    true,
	"lastName":     true,
	"tags":         true,
	"country":      true,
	"city":         true,
	"score":        true,
	"status":       true,
	"createdAt":    true,
	"updatedAt":    true,
	"lastActivity": true,
}

const customPrefix = "customFields."

// FieldPath maps a rule field to its document path. Unknown names are custom fields.
func FieldPath(field string) string {
	if knownFields[field] || strings.HasPrefix(field, customPrefix) {
		return field
	}
	return customPrefix + field
}

// KnownOperator reports whether op constrains anything
func KnownOperator(op string) bool {
	switch op {
	case models.OpContains, models.OpEquals, models.OpGTE, models.OpLTE, models.OpAfter:
		return true
	}
	return false
}

// UnknownOperators lists the operators in rules that will be ignored
func UnknownOperators(rules []models.SegmentRule) []string {
	var unknown []string
	for _, r := range rules {
		if !KnownOperator(r.Operator) {
			unknown = append(unknown, r.Operator)
		}
	}
	return unknown
}

func combinesWithOr(rules []models.SegmentRule) bool {
	return len(rules) > 0 && strings.EqualFold(string(rules[0].Logic), string(models.LogicOr))
}

// Filter returns a query matching the contacts selected by rules.
// An empty rule list matches everything.
func (e *FlatEvaluator) Filter(rules []models.SegmentRule) bson.M {
	clauses := make([]bson.M, 0, len(rules))
	for _, r := range rules {
		if clause := ruleFilter(r); clause != nil {
			clauses = append(clauses, clause)
		}
	}

	switch {
	case len(clauses) == 0:
		return bson.M{}
	case len(clauses) == 1:
		return clauses[0]
	case combinesWithOr(rules):
		return bson.M{"$or": clauses}
	default:
		return bson.M{"$and": clauses}
	}
}

func ruleFilter(r models.SegmentRule) bson.M {
	path := FieldPath(r.Field)

	switch r.Operator {
	case models.OpContains:
		return bson.M{path: primitive.Regex{Pattern: regexp.QuoteMeta(r.Value), Options: "i"}}

	case models.OpEquals:
		switch {
		case path == "email":
			return bson.M{path: utils.NormalizeEmail(r.Value)}
		case path == "score":
			if n, err := parseNumber(r.Value); err == nil {
				return bson.M{path: n}
			}
			return matchNothing
		case strings.HasPrefix(path, customPrefix):
			return bson.M{path: bson.M{"$in": equalCandidates(r.Value)}}
		default:
			return bson.M{path: r.Value}
		}

	case models.OpGTE, models.OpLTE:
		n, err := parseNumber(r.Value)
		if err != nil {
			return matchNothing
		}
		op := "$gte"
		if r.Operator == models.OpLTE {
			op = "$lte"
		}
		return bson.M{path: bson.M{op: n}}

	case models.OpAfter:
		t, err := utils.ParseDate(r.Value)
		if err != nil {
			return matchNothing
		}
		return bson.M{path: bson.M{"$gte": t}}
	}

	return nil
}

// equalCandidates is every stored form a typed custom field may take for value
func equalCandidates(value string) []interface{} {
	candidates := []interface{}{value}
	if n, err := parseNumber(value); err == nil {
		candidates = append(candidates, n)
	}
	if b, err := strconv.ParseBool(value); err == nil {
		candidates = append(candidates, b)
	}
	return candidates
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Matches reports whether contact is selected by rules
func (e *FlatEvaluator) Matches(contact *models.Contact, rules []models.SegmentRule) bool {
	or := combinesWithOr(rules)
	constrained := false
	for _, r := range rules {
		if !KnownOperator(r.Operator) {
			continue
		}
		constrained = true
		ok := ruleMatches(contact, r)
		if or && ok {
			return true
		}
		if !or && !ok {
			return false
		}
	}
	return !constrained || !or
}

func ruleMatches(c *models.Contact, r models.SegmentRule) bool {
	values := fieldValues(c, FieldPath(r.Field))

	switch r.Operator {
	case models.OpContains:
		needle := strings.ToLower(r.Value)
		for _, v := range values {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}

	case models.OpEquals:
		want := r.Value
		if r.Field == "email" {
			want = utils.NormalizeEmail(want)
		}
		n, numErr := parseNumber(want)
		b, boolErr := strconv.ParseBool(want)
		for _, v := range values {
			switch x := v.(type) {
			case string:
				if x == want {
					return true
				}
			case float64:
				if numErr == nil && x == n {
					return true
				}
			case bool:
				if boolErr == nil && strings.HasPrefix(FieldPath(r.Field), customPrefix) && x == b {
					return true
				}
			}
		}

	case models.OpGTE, models.OpLTE:
		n, err := parseNumber(r.Value)
		if err != nil {
			return false
		}
		for _, v := range values {
			x, ok := v.(float64)
			if !ok {
				continue
			}
			if (r.Operator == models.OpGTE && x >= n) || (r.Operator == models.OpLTE && x <= n) {
				return true
			}
		}

	case models.OpAfter:
		t, err := utils.ParseDate(r.Value)
		if err != nil {
			return false
		}
		for _, v := range values {
			if x, ok := v.(time.Time); ok && !x.Before(t) {
				return true
			}
		}
	}

	return false
}

// fieldValues returns the stored values at path. Arrays yield one value per element,
// zero times and unset custom fields yield nothing.
func fieldValues(c *models.Contact, path string) []interface{} {
	str := func(s string) []interface{} {
		if s == "" {
			return nil
		}
		return []interface{}{s}
	}
	tm := func(t time.Time) []interface{} {
		if t.IsZero() {
			return nil
		}
		return []interface{}{t}
	}

	switch path {
	case "email":
		return []interface{}{c.Email}
	case "firstName":
		return str(c.FirstName)
	case "lastName":
		return str(c.LastName)
	case "country":
		return str(c.Country)
	case "city":
		return str(c.City)
	case "status":
		return []interface{}{string(c.Status)}
	case "score":
		return []interface{}{c.Score}
	case "tags":
		out := make([]interface{}, 0, len(c.Tags))
		for _, t := range c.Tags {
			out = append(out, t)
		}
		return out
	case "createdAt":
		return tm(c.CreatedAt)
	case "updatedAt":
		return tm(c.UpdatedAt)
	case "lastActivity":
		return tm(c.LastActivity)
	}

	key := strings.TrimPrefix(path, customPrefix)
	v, ok := c.CustomFields[key]
	if !ok || v.IsZero() {
		return nil
	}
	return []interface{}{v.Interface()}
}
