package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapi/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "app.db", cfg.SQLitePath)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "task_events", cfg.RabbitMQQueue)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DATABASE_URL", "postgres://tasks:secret@db:5432/tasks?sslmode=disable")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://tasks:secret@db:5432/tasks?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_RejectsBadBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "99")

	_, err := config.Load(viper.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestConfig_StringMasksCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://tasks:secret@db:5432/tasks")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "secret")
	assert.NotContains(t, s, "guest:guest")
	assert.Contains(t, s, "db:5432")
}
