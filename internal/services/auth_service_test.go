package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories/memory"
	"github.com/ArowuTest/leadflow-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestAuthService_EnsureAdminAndLogin(t *testing.T) {
	ctx := context.Background()
	users := memory.NewAdminUserRepository()
	tokens := jwt.NewTokenService("test-secret", time.Hour)
	auth := NewAuthService(users, tokens, zap.NewNop())

	created, err := auth.EnsureAdmin(ctx, "Admin@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = auth.EnsureAdmin(ctx, "admin@example.com", "another-pass")
	require.NoError(t, err)
	assert.False(t, created)

	resp, err := auth.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	require.NotNil(t, resp.User.LastLogin)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.Hex(), claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	me, err := auth.Me(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", me.Email)

	_, err = auth.Login(ctx, &models.LoginRequest{Email: "admin@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Me(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_EnsureAdminValidation(t *testing.T) {
	auth := NewAuthService(memory.NewAdminUserRepository(), jwt.NewTokenService("k", 0), zap.NewNop())

	_, err := auth.EnsureAdmin(context.Background(), "not-an-email", "long-enough")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.EnsureAdmin(context.Background(), "a@x.com", "short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCustomFieldService(t *testing.T) {
	ctx := context.Background()
	fields := NewCustomFieldService(memory.NewCustomFieldRepository())

	f, err := fields.CreateField(ctx, &models.CustomField{Key: " Company_Size ", Label: "Company size"})
	require.NoError(t, err)
	assert.Equal(t, "company_size", f.Key)
	assert.Equal(t, models.FieldText, f.Type)

	_, err = fields.CreateField(ctx, &models.CustomField{Key: "company_size", Label: "Again"})
	assert.ErrorIs(t, err, ErrDuplicate)

	tests := []struct {
		name  string
		field models.CustomField
	}{
		{"leading digit", models.CustomField{Key: "1st", Label: "x"}},
		{"dash", models.CustomField{Key: "a-b", Label: "x"}},
		{"bad type", models.CustomField{Key: "ok", Label: "x", Type: "color"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := tt.field
			_, err := fields.CreateField(ctx, &field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	updated, err := fields.UpdateField(ctx, f.ID, &models.CustomField{Key: "company_size", Label: "Size", Type: models.FieldNumber})
	require.NoError(t, err)
	assert.Equal(t, models.FieldNumber, updated.Type)

	all, err := fields.ListFields(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, fields.DeleteField(ctx, f.ID))
	_, err = fields.GetField(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAutomationService(t *testing.T) {
	ctx := context.Background()
	automations := NewAutomationService(memory.NewAutomationRepository())
	segID := primitive.NewObjectID()

	tests := []struct {
		name       string
		automation models.Automation
		wantErr    bool
	}{
		{
			name: "welcome series",
			automation: models.Automation{
				Name:    "Welcome",
				Trigger: models.AutomationTrigger{Type: models.TriggerSegmentEntry, SegmentID: &segID},
				Actions: []models.AutomationAction{
					{Type: models.ActionWait, DelayMinutes: 60},
					{Type: models.ActionSendEmail},
				},
			},
		},
		{
			name:       "unknown trigger",
			automation: models.Automation{Name: "x", Trigger: models.AutomationTrigger{Type: "webhook"}, Actions: []models.AutomationAction{{Type: models.ActionAddTag}}},
			wantErr:    true,
		},
		{
			name:       "segment trigger without segment",
			automation: models.Automation{Name: "x", Trigger: models.AutomationTrigger{Type: models.TriggerSegmentEntry}, Actions: []models.AutomationAction{{Type: models.ActionAddTag}}},
			wantErr:    true,
		},
		{
			name:       "no actions",
			automation: models.Automation{Name: "x", Trigger: models.AutomationTrigger{Type: models.TriggerDate}},
			wantErr:    true,
		},
		{
			name:       "negative delay",
			automation: models.Automation{Name: "x", Trigger: models.AutomationTrigger{Type: models.TriggerDate}, Actions: []models.AutomationAction{{Type: models.ActionWait, DelayMinutes: -1}}},
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.automation
			got, err := automations.CreateAutomation(ctx, &a)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.False(t, got.ID.IsZero())
		})
	}

	list, total, err := automations.ListAutomations(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}
