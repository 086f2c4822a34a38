package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/leadflow-backend/api/routes"
	"github.com/ArowuTest/leadflow-backend/internal/app"
	"github.com/ArowuTest/leadflow-backend/internal/config"
	"github.com/ArowuTest/leadflow-backend/internal/handlers"
	"github.com/ArowuTest/leadflow-backend/internal/logger"
	"github.com/ArowuTest/leadflow-backend/internal/middleware"
	"github.com/ArowuTest/leadflow-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not configured yet
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Server.Environment, cfg.LogLevel)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	storage, err := app.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storage.Close(ctx); err != nil {
			log.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	sender, err := app.NewSender(ctx, cfg, log)
	if err != nil {
		return err
	}

	tokens := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	svc := app.NewServices(cfg, storage.Repos, sender, tokens, log)
	if err := app.SeedAdmin(ctx, cfg, svc.Auth, log); err != nil {
		return err
	}

	checks := map[string]handlers.Check{"storage": storage.Ping}
	var limiter *middleware.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimit.SubmissionsPerMinute, time.Minute, log.Named("ratelimit"))
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn("redis not configured; public submissions are not rate limited")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	errs := handlers.NewErrorWriter(log.Named("http"), cfg.IsProduction())
	router := routes.SetupRouter(routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Production:     cfg.IsProduction(),
		Tokens:         tokens,
		RateLimiter:    limiter,
		Logger:         log.Named("http"),
	}, routes.HandlerDependencies{
		AuthHandler:        handlers.NewAuthHandler(svc.Auth, errs),
		ContactHandler:     handlers.NewContactHandler(svc.Contacts, errs),
		SegmentHandler:     handlers.NewSegmentHandler(svc.Segments, errs),
		CampaignHandler:    handlers.NewCampaignHandler(svc.Campaigns, errs),
		LandingPageHandler: handlers.NewLandingPageHandler(svc.LandingPages, errs, log.Named("http")),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(svc.Analytics, errs),
		CustomFieldHandler: handlers.NewCustomFieldHandler(svc.CustomFields, errs),
		AutomationHandler:  handlers.NewAutomationHandler(svc.Automations, errs),
		HealthHandler:      handlers.NewHealthHandler(checks),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exiting")
	return nil
}
