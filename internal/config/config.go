package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Mail      MailConfig
	Dispatch  DispatchConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	Environment    string
}

// StorageConfig selects the repository implementation: mongodb or memory
type StorageConfig struct {
	Driver string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string
	Database       string
	TimeoutSeconds int
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// RedisConfig holds the rate limiter's redis connection. An empty Addr disables rate limiting.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MailConfig holds outbound email configuration
type MailConfig struct {
	Provider  string
	FromEmail string
	FromName  string
	SES       SESConfig
}

// SESConfig holds Amazon SES credentials
type SESConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// DispatchConfig bounds campaign fan-out
type DispatchConfig struct {
	Concurrency int
}

// RateLimitConfig bounds public form submissions per client IP
type RateLimitConfig struct {
	SubmissionsPerMinute int
}

// AdminConfig is the operator account ensured by seeding
type AdminConfig struct {
	Email    string
	Password string
}

// Storage drivers
const (
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// Mail providers
const (
	MailMock = "mock"
	MailSES  = "ses"
)

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from environment variables and config files.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" && c.IsProduction() {
		return errors.New("jwt secret is required in production")
	}
	if c.Dispatch.Concurrency < 1 {
		return fmt.Errorf("dispatch concurrency must be at least 1, got %d", c.Dispatch.Concurrency)
	}
	switch c.Storage.Driver {
	case DriverMongoDB, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Mail.Provider {
	case MailMock, MailSES:
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("Server.Environment", "development")
	v.SetDefault("Storage.Driver", DriverMongoDB)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "leadflow")
	v.SetDefault("MongoDB.TimeoutSeconds", 10)
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Redis.Addr", "")
	v.SetDefault("Redis.Password", "")
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Mail.Provider", MailMock)
	v.SetDefault("Mail.FromEmail", "no-reply@leadflow.local")
	v.SetDefault("Mail.FromName", "LeadFlow")
	v.SetDefault("Mail.SES.Region", "us-east-1")
	v.SetDefault("Mail.SES.AccessKey", "")
	v.SetDefault("Mail.SES.SecretKey", "")
	v.SetDefault("Dispatch.Concurrency", 10)
	v.SetDefault("RateLimit.SubmissionsPerMinute", 30)
	v.SetDefault("Admin.Email", "admin@leadflow.local")
	v.SetDefault("Admin.Password", "")
	v.SetDefault("LogLevel", "info")
}
