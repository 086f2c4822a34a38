package app

import (
	"context"
	"testing"

	"github.com/ArowuTest/leadflow-backend/internal/config"
	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/pkg/jwt"
	"github.com/ArowuTest/leadflow-backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverMemory},
		Mail:     config.MailConfig{Provider: config.MailMock, FromEmail: "news@leadflow.local", FromName: "LeadFlow"},
		Dispatch: config.DispatchConfig{Concurrency: 2},
		Admin:    config.AdminConfig{Email: "admin@leadflow.local", Password: "change-me-please"},
	}
}

func TestMemoryStackSeedsAdminOnce(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	log := zap.NewNop()

	storage, err := OpenStorage(ctx, cfg, log)
	require.NoError(t, err)
	assert.NoError(t, storage.Ping(ctx))
	assert.NoError(t, storage.EnsureIndexes(ctx))
	defer storage.Close(ctx)

	sender, err := NewSender(ctx, cfg, log)
	require.NoError(t, err)
	assert.IsType(t, &mailer.MockSender{}, sender)

	svc := NewServices(cfg, storage.Repos, sender, jwt.NewTokenService("secret", 0), log)
	require.NoError(t, SeedAdmin(ctx, cfg, svc.Auth, log))
	require.NoError(t, SeedAdmin(ctx, cfg, svc.Auth, log))

	resp, err := svc.Auth.Login(ctx, &models.LoginRequest{Email: cfg.Admin.Email, Password: cfg.Admin.Password})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
}

func TestSeedAdminSkipsWithoutPassword(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Admin.Password = ""

	storage, err := OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	svc := NewServices(cfg, storage.Repos, mailer.NewMockSender(zap.NewNop()), jwt.NewTokenService("secret", 0), zap.NewNop())

	require.NoError(t, SeedAdmin(ctx, cfg, svc.Auth, zap.NewNop()))
	_, err = storage.Repos.AdminUsers.FindByEmail(ctx, cfg.Admin.Email)
	assert.Error(t, err)
}
