package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ContactRepository implements the interface
var _ repositories.ContactRepository = (*ContactRepository)(nil)

// ContactRepository handles MongoDB operations for contacts
type ContactRepository struct {
	collection *mongo.Collection
	evaluator  segment.Evaluator
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *mongo.Database, evaluator segment.Evaluator) *ContactRepository {
	return &ContactRepository{
		collection: db.Collection(contactsCollection),
		evaluator:  evaluator,
	}
}

// filter compiles a ContactQuery into a single bson filter
func (r *ContactRepository) filter(q repositories.ContactQuery) bson.M {
	clauses := []bson.M{}
	if len(q.Rules) > 0 {
		if f := r.evaluator.Filter(q.Rules); len(f) > 0 {
			clauses = append(clauses, f)
		}
	}
	if q.Status != "" {
		clauses = append(clauses, bson.M{"status": q.Status})
	}
	if q.SegmentID != nil {
		clauses = append(clauses, bson.M{"segments": *q.SegmentID})
	}
	if q.Tag != "" {
		clauses = append(clauses, bson.M{"tags": q.Tag})
	}
	if q.IDs != nil {
		clauses = append(clauses, bson.M{"_id": bson.M{"$in": q.IDs}})
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"email": re}, {"firstName": re}, {"lastName": re},
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// Create inserts a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	now := time.Now()
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	if contact.Segments == nil {
		contact.Segments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, contact)
	return translate(err)
}

// FindByID finds a contact by ID
func (r *ContactRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contact); err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

// FindByEmail finds a contact by its normalised email
func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&contact); err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

// Find returns one page of contacts matching q, newest first
func (r *ContactRepository) Find(ctx context.Context, q repositories.ContactQuery, page, limit int) ([]*models.Contact, error) {
	opts := pageOptions(page, limit, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, r.filter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []*models.Contact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return contacts, nil
}

// Count counts contacts matching q
func (r *ContactRepository) Count(ctx context.Context, q repositories.ContactQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, r.filter(q))
}

// patchSet flattens a patch into $set keys. Custom fields are set key by key.
func patchSet(patch models.ContactPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.FirstName != nil {
		set["firstName"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["lastName"] = *patch.LastName
	}
	if patch.Country != nil {
		set["country"] = *patch.Country
	}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.Score != nil {
		set["score"] = *patch.Score
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	for k, v := range patch.CustomFields {
		set["customFields."+k] = v
	}
	return set
}

// Update applies a targeted $set and returns the updated contact
func (r *ContactRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ContactPatch) (*models.Contact, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var contact models.Contact
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patchSet(patch, time.Now())}, opts).Decode(&contact)
	if err != nil {
		return nil, translate(err)
	}
	return &contact, nil
}

// Upsert finds or creates the contact for email and merges patch into it in one
// atomic update. The boolean reports whether the document was created.
func (r *ContactRepository) Upsert(ctx context.Context, email string, patch models.ContactPatch) (*models.Contact, bool, error) {
	contact, created, err := r.upsertOnce(ctx, email, patch)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		// a concurrent insert won the race on the unique index; the retry updates it
		contact, created, err = r.upsertOnce(ctx, email, patch)
	}
	return contact, created, err
}

func (r *ContactRepository) upsertOnce(ctx context.Context, email string, patch models.ContactPatch) (*models.Contact, bool, error) {
	now := time.Now()
	set := patchSet(patch, now)

	onInsert := bson.M{
		"email":     email,
		"status":    models.ContactSubscribed,
		"tags":      []string{},
		"segments":  []primitive.ObjectID{},
		"score":     0.0,
		"createdAt": now,
	}
	for k := range set {
		delete(onInsert, k)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": set, "$setOnInsert": onInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, false, translate(err)
	}

	contact, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	return contact, res.UpsertedCount > 0, nil
}

// Delete removes a contact
func (r *ContactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	return mustMatch(res.DeletedCount)
}

// AddTags adds tags without duplicating existing ones
func (r *ContactRepository) AddTags(ctx context.Context, id primitive.ObjectID, tags []string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"tags": bson.M{"$each": tags}},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	return mustMatch(res.MatchedCount)
}

// RemoveTags pulls tags from a contact
func (r *ContactRepository) RemoveTags(ctx context.Context, id primitive.ObjectID, tags []string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"tags": bson.M{"$in": tags}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	return mustMatch(res.MatchedCount)
}

// Touch records contact activity
func (r *ContactRepository) Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastActivity": at}})
	return err
}

// SetSegmentMembers makes contactIDs the exact static membership of segmentID
func (r *ContactRepository) SetSegmentMembers(ctx context.Context, segmentID primitive.ObjectID, contactIDs []primitive.ObjectID) error {
	if contactIDs == nil {
		contactIDs = []primitive.ObjectID{}
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"segments": segmentID, "_id": bson.M{"$nin": contactIDs}},
		bson.M{"$pull": bson.M{"segments": segmentID}},
	)
	if err != nil {
		return err
	}
	if len(contactIDs) == 0 {
		return nil
	}
	_, err = r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": contactIDs}},
		bson.M{"$addToSet": bson.M{"segments": segmentID}},
	)
	return err
}

// RemoveSegment pulls segmentID from every contact
func (r *ContactRepository) RemoveSegment(ctx context.Context, segmentID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"segments": segmentID},
		bson.M{"$pull": bson.M{"segments": segmentID}},
	)
	return err
}

// CountCreatedByWeek buckets contacts created since the given time by ISO week
func (r *ContactRepository) CountCreatedByWeek(ctx context.Context, since time.Time) ([]models.WeeklyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year": bson.M{"$isoWeekYear": "$createdAt"},
				"week": bson.M{"$isoWeek": "$createdAt"},
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{"_id": 0, "year": "$_id.year", "week": "$_id.week", "count": 1}}},
		{{Key: "$sort", Value: bson.D{{Key: "year", Value: 1}, {Key: "week", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var weeks []models.WeeklyCount
	if err := cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	if weeks == nil {
		weeks = []models.WeeklyCount{}
	}
	return weeks, nil
}
