// Package app assembles stores, senders and services from configuration.
// Both the API server and the admin CLI build on it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/config"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/leadflow-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/leadflow-backend/internal/segment"
	"github.com/ArowuTest/leadflow-backend/internal/services"
	"github.com/ArowuTest/leadflow-backend/pkg/mailer"
	"github.com/ArowuTest/leadflow-backend/pkg/mongodb"
	"go.uber.org/zap"
)

// Storage is the store connection built once at start and passed everywhere
type Storage struct {
	Repos  *repositories.Repositories
	client *mongodb.Client
}

// OpenStorage connects the configured storage driver. For mongodb the
// indexes are ensured before returning.
func OpenStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Storage, error) {
	evaluator := segment.NewFlatEvaluator()

	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		return &Storage{Repos: memory.NewRepositories(evaluator)}, nil
	}

	timeout := time.Duration(cfg.MongoDB.TimeoutSeconds) * time.Second
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := mongorepo.EnsureIndexes(ctx, client.Database()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDB.Database))

	return &Storage{
		Repos:  mongorepo.NewRepositories(client.Database(), evaluator),
		client: client,
	}, nil
}

// Ping checks the store connection. The memory store is always reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx)
}

// EnsureIndexes re-applies the MongoDB indexes. A no-op for the memory store.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return mongorepo.EnsureIndexes(ctx, s.client.Database())
}

// Close releases the store connection
func (s *Storage) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// NewSender builds the configured outbound email transport
func NewSender(ctx context.Context, cfg *config.Config, log *zap.Logger) (mailer.Sender, error) {
	switch cfg.Mail.Provider {
	case config.MailSES:
		ses := cfg.Mail.SES
		sender, err := mailer.NewSESSender(ctx, ses.Region, ses.AccessKey, ses.SecretKey, log)
		if err != nil {
			return nil, fmt.Errorf("failed to configure SES: %w", err)
		}
		return sender, nil
	default:
		log.Warn("using mock mail sender; no email leaves this process")
		return mailer.NewMockSender(log), nil
	}
}

// Services bundles every business service
type Services struct {
	Contacts     services.ContactService
	Segments     services.SegmentService
	Campaigns    services.CampaignService
	LandingPages services.LandingPageService
	Analytics    services.AnalyticsService
	Auth         services.AuthService
	CustomFields services.CustomFieldService
	Automations  services.AutomationService
}

// NewServices wires the services against repos
func NewServices(cfg *config.Config, repos *repositories.Repositories, sender mailer.Sender, tokens services.TokenIssuer, log *zap.Logger) *Services {
	dispatcher := services.NewDispatcher(sender, services.MailSettings{
		FromEmail:   cfg.Mail.FromEmail,
		FromName:    cfg.Mail.FromName,
		Concurrency: cfg.Dispatch.Concurrency,
	}, log.Named("dispatcher"))
	segments := services.NewSegmentService(repos, log.Named("segments"))

	return &Services{
		Contacts:     services.NewContactService(repos, segment.NewFlatEvaluator(), dispatcher, log.Named("contacts")),
		Segments:     segments,
		Campaigns:    services.NewCampaignService(repos, segments, dispatcher, log.Named("campaigns")),
		LandingPages: services.NewLandingPageService(repos, log.Named("landing_pages")),
		Analytics:    services.NewAnalyticsService(repos),
		Auth:         services.NewAuthService(repos.AdminUsers, tokens, log.Named("auth")),
		CustomFields: services.NewCustomFieldService(repos.CustomFields),
		Automations:  services.NewAutomationService(repos.Automations),
	}
}

// SeedAdmin ensures the configured operator account exists
func SeedAdmin(ctx context.Context, cfg *config.Config, auth services.AuthService, log *zap.Logger) error {
	if cfg.Admin.Password == "" {
		log.Info("admin password not configured; skipping admin seeding")
		return nil
	}
	_, err := auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	return err
}
