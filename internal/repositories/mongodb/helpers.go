package mongodb

import (
	"errors"
	"fmt"

	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	contactsCollection     = "contacts"
	segmentsCollection     = "segments"
	campaignsCollection    = "campaigns"
	landingPagesCollection = "landing_pages"
	eventsCollection       = "events"
	adminUsersCollection   = "admin_users"
	customFieldsCollection = "custom_fields"
	automationsCollection  = "automations"
)

// translate maps driver errors onto the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicateKey, err)
	default:
		return err
	}
}

// pageOptions builds skip/limit/sort options. A limit of 0 returns everything.
func pageOptions(page, limit int, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}
	return opts
}

// mustMatch returns ErrNotFound when an update or delete touched nothing
func mustMatch(matched int64) error {
	if matched == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
