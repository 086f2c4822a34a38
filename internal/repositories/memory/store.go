// Package memory keeps every repository in process memory. It backs the
// service tests and the `memory` storage driver for local runs.
package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewRepositories returns a fresh in-memory store
func NewRepositories(evaluator segment.Evaluator) *repositories.Repositories {
	contacts := NewContactRepository(evaluator)
	campaigns := NewCampaignRepository()
	pages := NewLandingPageRepository()
	return &repositories.Repositories{
		Contacts:     contacts,
		Segments:     NewSegmentRepository(),
		Campaigns:    campaigns,
		LandingPages: pages,
		Events:       NewEventRepository(contacts, campaigns, pages),
		AdminUsers:   NewAdminUserRepository(),
		CustomFields: NewCustomFieldRepository(),
		Automations:  NewAutomationRepository(),
	}
}

// paginate slices items the way skip/limit does. A limit of 0 keeps everything.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// newestFirst orders by creation time descending, then by id descending
func newestFirst[T any](items []T, key func(T) (time.Time, primitive.ObjectID)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi.Hex() > idj.Hex()
	})
}

func sortWeeks(weeks []models.WeeklyCount) {
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Year != weeks[j].Year {
			return weeks[i].Year < weeks[j].Year
		}
		return weeks[i].Week < weeks[j].Week
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
