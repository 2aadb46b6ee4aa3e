package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration.
type Config struct {
	Env     string
	AppPort string

	// DatabaseURL selects the backing store. When empty the sqlite file at
	// SQLitePath is used.
	DatabaseURL string
	SQLitePath  string

	BcryptCost int

	// RabbitMQ lifecycle events are disabled when RabbitMQURL is empty.
	RabbitMQURL   string
	RabbitMQQueue string

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins string
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables on top of defaults.
// A nil viper instance means a fresh one.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "app.db")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "task_events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.AutomaticEnv()

	cfg := &Config{
		Env:                v.GetString("APP_ENV"),
		AppPort:            v.GetString("APP_PORT"),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		BcryptCost:         v.GetInt("BCRYPT_COST"),
		RabbitMQURL:        strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		RabbitMQQueue:      v.GetString("RABBITMQ_QUEUE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}
	if cfg.SQLitePath == "" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("either DATABASE_URL or SQLITE_PATH must be set")
	}
	if cfg.RabbitMQURL != "" && cfg.RabbitMQQueue == "" {
		return nil, fmt.Errorf("RABBITMQ_QUEUE must be set when RABBITMQ_URL is set")
	}
	return cfg, nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// String returns a representation of the config with credentials masked.
func (c *Config) String() string {
	db := "sqlite:" + c.SQLitePath
	if c.DatabaseURL != "" {
		db = maskURL(c.DatabaseURL)
	}
	mq := "disabled"
	if c.RabbitMQURL != "" {
		mq = maskURL(c.RabbitMQURL)
	}
	return fmt.Sprintf("Config{Env: %s, Port: %s, DB: %s, RabbitMQ: %s, LogLevel: %s}", c.Env, c.AppPort, db, mq, c.LogLevel)
}

func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "***"
	}
	return u.Redacted()
}
