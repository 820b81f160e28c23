package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/YayaHook/internal/pkg/env"
)

func withEnv(t *testing.T, vals map[string]string) {
	t.Helper()
	prev := env.Env
	env.Env = vals
	t.Cleanup(func() { env.Env = prev })
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("YAYA_WEBHOOK_SECRET", "")
	t.Setenv("SECRET_KEY", "")
	withEnv(t, map[string]string{})

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadDefaults(t *testing.T) {
	withEnv(t, map[string]string{"YAYA_WEBHOOK_SECRET": " s3cret "})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.WebhookSecret)
	assert.Equal(t, 300*time.Second, cfg.ReplayWindow)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
}

func TestLoadFallsBackToSecretKey(t *testing.T) {
	t.Setenv("YAYA_WEBHOOK_SECRET", "")
	withEnv(t, map[string]string{"SECRET_KEY": "legacy"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.WebhookSecret)
}

func TestLoadOverrides(t *testing.T) {
	withEnv(t, map[string]string{
		"YAYA_WEBHOOK_SECRET":   "x",
		"WEBHOOK_REPLAY_WINDOW": "60",
		"WEBHOOK_TIMEOUT":       "2s",
		"WEBHOOK_RATE_LIMIT":    "10",
		"DB_HOST":               "db",
		"DB_NAME":               "hooks",
		"DB_USER":               "u",
		"DB_PASSWORD":           "p",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.ReplayWindow)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, "u:p@tcp(db:3306)/hooks?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.DSN())
	assert.Equal(t, "mysql://u:p@tcp(db:3306)/hooks?multiStatements=true", cfg.Database.MigrateURL())
}

func TestLoadRejectsNonPositiveWindow(t *testing.T) {
	withEnv(t, map[string]string{"YAYA_WEBHOOK_SECRET": "x", "WEBHOOK_REPLAY_WINDOW": "-5s"})

	_, err := Load()
	assert.Error(t, err)
}
