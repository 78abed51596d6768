package config_test

import (
	"testing"
	"time"

	"github.com/nguyentranbao-ct/product-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, 3, cfg.Database.ConnectRetries)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "development")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("EVENTS_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)
}

func TestLoadBootstrapNeedsPassword(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("BOOTSTRAP_ENABLED", "true")
	t.Setenv("BOOTSTRAP_PASSWORD", "123")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestReconnectBudget(t *testing.T) {
	d := config.DatabaseConfig{ConnectTimeout: 5 * time.Second, ConnectRetries: 3, ConnectRetryDelay: 2 * time.Second}
	assert.Equal(t, 19*time.Second, d.ReconnectBudget())

	d.ConnectRetries = 0
	assert.Equal(t, 5*time.Second, d.ReconnectBudget())
}
