package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/app"
	"github.com/ArowuTest/leadflow-backend/internal/config"
	"github.com/ArowuTest/leadflow-backend/internal/logger"
	"github.com/ArowuTest/leadflow-backend/pkg/jwt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "leadflow-admin",
	Short: "Operator tasks for the LeadFlow backend",
	Long: `Operator tasks run against the configured store.

Configuration is read the same way as the API server: config.yaml,
.env and environment variables (MONGODB_URI, ADMIN_EMAIL, ...).`,
	SilenceUsage: true,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Ensure the configured admin account exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStack(cmd.Context(), func(ctx context.Context, env *stack) error {
			if env.cfg.Admin.Password == "" {
				return fmt.Errorf("ADMIN_PASSWORD is required to seed the admin account")
			}
			created, err := env.services.Auth.EnsureAdmin(ctx, env.cfg.Admin.Email, env.cfg.Admin.Password)
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("Admin %s created\n", env.cfg.Admin.Email)
			} else {
				fmt.Printf("Admin %s already exists\n", env.cfg.Admin.Email)
			}
			return nil
		})
	},
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create or update the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStack(cmd.Context(), func(ctx context.Context, env *stack) error {
			if err := env.storage.EnsureIndexes(ctx); err != nil {
				return err
			}
			fmt.Println("Indexes are up to date")
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import-contacts <file.csv>",
	Short: "Upsert contacts from a CSV file",
	Long: `Upsert contacts from a CSV file.

The header row must contain an email column. first name, last name,
country, city, score, status and tags columns are recognised under their
common spellings; every other column becomes a custom field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()

		return withStack(cmd.Context(), func(ctx context.Context, env *stack) error {
			report, err := env.services.Contacts.ImportContacts(ctx, file)
			if err != nil {
				return err
			}
			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(report)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Minute, "Give up after this long")
	rootCmd.AddCommand(seedCmd, indexesCmd, importCmd)
}

// stack is everything a command needs, built from configuration
type stack struct {
	cfg      *config.Config
	storage  *app.Storage
	services *app.Services
}

// withStack loads configuration, connects the store and runs fn
func withStack(parent context.Context, fn func(ctx context.Context, env *stack) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(cfg.Server.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	timeout, _ := rootCmd.PersistentFlags().GetDuration("timeout")
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("storage driver is memory; changes are discarded when the command exits")
	}
	storage, err := app.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(context.Background()); err != nil {
			log.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	sender, err := app.NewSender(ctx, cfg, log)
	if err != nil {
		return err
	}
	tokens := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)

	return fn(ctx, &stack{
		cfg:      cfg,
		storage:  storage,
		services: app.NewServices(cfg, storage.Repos, sender, tokens, log),
	})
}
