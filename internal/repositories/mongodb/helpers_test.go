package mongodb

import (
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), repositories.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translate(dup), repositories.ErrDuplicateKey)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(3, 20, bson.D{{Key: "createdAt", Value: -1}})
	assert.Equal(t, int64(40), *opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)

	all := pageOptions(1, 0, nil)
	assert.Nil(t, all.Skip)
	assert.Nil(t, all.Limit)
}

func TestContactFilter(t *testing.T) {
	r := &ContactRepository{evaluator: segment.NewFlatEvaluator()}
	segID := primitive.NewObjectID()

	assert.Equal(t, bson.M{}, r.filter(repositories.ContactQuery{}))
	assert.Equal(t, bson.M{"status": models.ContactSubscribed}, r.filter(repositories.ContactQuery{Status: models.ContactSubscribed}))

	got := r.filter(repositories.ContactQuery{
		Rules:     []models.SegmentRule{{Field: "country", Operator: models.OpEquals, Value: "ES"}},
		Status:    models.ContactSubscribed,
		SegmentID: &segID,
	})
	assert.Equal(t, bson.M{"$and": []bson.M{
		{"country": "ES"},
		{"status": models.ContactSubscribed},
		{"segments": segID},
	}}, got)
}

func TestPatchSet(t *testing.T) {
	name := "Ada"
	set := patchSet(models.ContactPatch{
		FirstName:    &name,
		CustomFields: models.CustomFields{"source": models.StringValue("landing")},
	}, time.Now())

	assert.Equal(t, "Ada", set["firstName"])
	assert.Equal(t, models.StringValue("landing"), set["customFields.source"])
	assert.NotContains(t, set, "lastName")
	assert.NotContains(t, set, "customFields")
}

func TestIndexSpecs_EventTTL(t *testing.T) {
	for _, spec := range indexSpecs() {
		if spec.collection != eventsCollection {
			continue
		}
		ttl := spec.models[0]
		assert.Equal(t, bson.D{{Key: "expiresAt", Value: 1}}, ttl.Keys)
		assert.Equal(t, int32(0), *ttl.Options.ExpireAfterSeconds)
		return
	}
	t.Fatal("events collection has no index spec")
}

func TestEngagementPipeline_UniqueSkipsAnonymousEvents(t *testing.T) {
	id := primitive.NewObjectID()
	pipeline := engagementPipeline(id)
	assert.Len(t, pipeline, 3)

	match := pipeline[0][0].Value.(bson.M)
	assert.Equal(t, id, match["campaignId"])

	project := pipeline[2][0].Value.(bson.M)
	unique := project["unique"].(bson.M)["$size"].(bson.M)["$filter"].(bson.M)
	assert.Equal(t, "$contacts", unique["input"])
	assert.Equal(t, bson.M{"$ne": bson.A{"$$this", nil}}, unique["cond"])
}
