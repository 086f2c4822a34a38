package utils_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories/memory"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"github.com/ArowuTest/leadflow-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactsCSV = "\ufeffE-mail,First Name,last_name,Score,Tags,Company Size,Plan Start\n" +
	"Ada@Example.com,Ada,Lovelace,80,vip;new,250,2024-03-01\n" +
	"not-an-email,Bob,,,,,\n" +
	",,,,,,\n" +
	"grace@example.com,Grace,,120,,,\n" +
	"linus@example.com,Linus,,,a|b,,\n"

func TestParseContacts(t *testing.T) {
	rows, failed, err := utils.ParseContacts(strings.NewReader(contactsCSV))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	ada := rows[0]
	assert.Equal(t, 2, ada.Line)
	assert.Equal(t, "ada@example.com", ada.Email)
	assert.Equal(t, "Ada", *ada.Patch.FirstName)
	assert.Equal(t, "Lovelace", *ada.Patch.LastName)
	assert.Equal(t, 80.0, *ada.Patch.Score)
	assert.Nil(t, ada.Patch.City)
	assert.Equal(t, []string{"vip", "new"}, ada.Tags)
	assert.Equal(t, models.NumberValue(250), ada.Patch.CustomFields["company_size"])
	assert.Equal(t, models.StringValue("2024-03-01"), ada.Patch.CustomFields["plan_start"])

	assert.Equal(t, []string{"a", "b"}, rows[1].Tags)

	require.Len(t, failed, 2)
	assert.Equal(t, 3, failed[0].Row)
	assert.Contains(t, failed[0].Error, "invalid email")
	assert.Equal(t, 5, failed[1].Row)
	assert.Contains(t, failed[1].Error, "invalid score")
}

func TestParseContacts_DottedHeadersBecomeFlatKeys(t *testing.T) {
	rows, failed, err := utils.ParseContacts(strings.NewReader("email,Plan.Tier,$set\nada@example.com,gold,x\n"))
	require.NoError(t, err)
	require.Empty(t, failed)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StringValue("gold"), rows[0].Patch.CustomFields["plan_tier"])
	assert.Equal(t, models.StringValue("x"), rows[0].Patch.CustomFields["set"])
}

func TestParseContacts_MissingEmailColumn(t *testing.T) {
	_, _, err := utils.ParseContacts(strings.NewReader("name,city\nAda,London\n"))
	assert.EqualError(t, err, "email column not found in CSV")
}

func TestContactImporter_Import(t *testing.T) {
	repos := memory.NewRepositories(segment.NewFlatEvaluator())
	ctx := context.Background()

	_, _, err := repos.Contacts.Upsert(ctx, "linus@example.com", models.ContactPatch{Tags: &[]string{"old"}})
	require.NoError(t, err)

	report, err := utils.NewContactImporter(repos.Contacts).Import(ctx, strings.NewReader(contactsCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalRows)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Len(t, report.Failed, 2)

	linus, err := repos.Contacts.FindByEmail(ctx, "linus@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old", "a", "b"}, linus.Tags)
	assert.Equal(t, "Linus", linus.FirstName)
}
