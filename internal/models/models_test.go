package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name        string
		part, total int64
		want        float64
	}{
		{"zero total", 1, 0, 0},
		{"zero part", 0, 10, 0},
		{"half", 5, 10, 50},
		{"clamped", 3, 2, 100},
		{"negative total", 1, -4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.part, tt.total)
			assert.False(t, math.IsNaN(got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCampaignStats_RatesWithNoSends(t *testing.T) {
	view := NewCampaignStatsView(CampaignStats{UniqueOpens: 4, UniqueClicks: 2})
	assert.Equal(t, 0.0, view.OpenRate)
	assert.Equal(t, 0.0, view.CTR)

	view = NewCampaignStatsView(CampaignStats{Sent: 8, UniqueOpens: 4, UniqueClicks: 2})
	assert.Equal(t, 50.0, view.OpenRate)
	assert.Equal(t, 25.0, view.CTR)
}

func TestInferFieldValue(t *testing.T) {
	assert.Equal(t, BoolValue(true), InferFieldValue("TRUE"))
	assert.Equal(t, NumberValue(42.5), InferFieldValue(" 42.5 "))
	assert.Equal(t, StringValue("berlin"), InferFieldValue("berlin"))
}

func TestFieldValue_JSON(t *testing.T) {
	fields := CustomFields{}
	err := json.Unmarshal([]byte(`{"plan":"pro","seats":3,"trial":false,"gone":null}`), &fields)
	require.NoError(t, err)
	assert.Equal(t, StringValue("pro"), fields["plan"])
	assert.Equal(t, NumberValue(3), fields["seats"])
	assert.Equal(t, BoolValue(false), fields["trial"])
	assert.True(t, fields["gone"].IsZero())

	err = json.Unmarshal([]byte(`{"nested":{"a":1}}`), &fields)
	assert.Error(t, err)
}

func TestFieldValue_BSONStoresNativeValues(t *testing.T) {
	when := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	doc := struct {
		Fields CustomFields `bson:"fields"`
	}{Fields: CustomFields{"plan": StringValue("pro"), "seats": NumberValue(3), "since": DateValue(when)}}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	assert.Equal(t, "pro", bson.Raw(raw).Lookup("fields", "plan").StringValue())
	assert.Equal(t, 3.0, bson.Raw(raw).Lookup("fields", "seats").Double())

	var back struct {
		Fields CustomFields `bson:"fields"`
	}
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, doc.Fields["plan"], back.Fields["plan"])
	assert.True(t, back.Fields["since"].Time.Equal(when))
}

func TestContactPatch_Apply(t *testing.T) {
	c := &Contact{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		CustomFields: CustomFields{"source": StringValue("csv"), "plan": StringValue("free")},
	}
	first := "Augusta"
	ContactPatch{
		FirstName:    &first,
		CustomFields: CustomFields{"plan": StringValue("pro")},
	}.Apply(c)

	assert.Equal(t, "Augusta", c.FirstName)
	assert.Equal(t, "Lovelace", c.LastName)
	assert.Equal(t, StringValue("csv"), c.CustomFields["source"])
	assert.Equal(t, StringValue("pro"), c.CustomFields["plan"])
	assert.True(t, ContactPatch{}.IsEmpty())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 41)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 0, NewPagination(1, 0, 5).Pages)
}

func TestEventRetention(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now.Add(90*24*time.Hour), NewEvent(EventPageView, RequestMeta{}, now).ExpiresAt)
	assert.Equal(t, now.Add(365*24*time.Hour), NewEvent(EventFormSubmit, RequestMeta{}, now).ExpiresAt)
}
