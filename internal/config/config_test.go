package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cadence")
	t.Setenv("RABBITMQ_URL", "amqp://localhost")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 1, cfg.RabbitMQPrefetch)
	assert.Equal(t, 365, cfg.StreakLookbackDays)
	assert.Equal(t, 168, cfg.DLQRetentionHours)
	assert.False(t, cfg.OTELEnabled)
	assert.Empty(t, cfg.BadgeCatalogPath)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RABBITMQ_URL", "amqp://localhost")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresRabbitMQURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cadence")
	t.Setenv("RABBITMQ_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveLookback(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cadence")
	t.Setenv("RABBITMQ_URL", "amqp://localhost")
	t.Setenv("STREAK_LOOKBACK_DAYS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cadence")
	t.Setenv("RABBITMQ_URL", "amqp://localhost")
	t.Setenv("STREAK_LOOKBACK_DAYS", "90")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OIDC_ISSUER", "https://auth.example.com")
	t.Setenv("BADGE_CATALOG_PATH", "/etc/cadence/badges.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.StreakLookbackDays)
	assert.True(t, cfg.OTELEnabled)
	assert.Equal(t, "https://auth.example.com", cfg.OIDCIssuer)
	assert.Equal(t, "/etc/cadence/badges.yaml", cfg.BadgeCatalogPath)
}
