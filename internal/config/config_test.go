package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
}

func TestLoadConfigMemoryDriver(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "jwt_secret", "jwt")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "jwt", cfg.JWTSecret)
	assert.Empty(t, cfg.DBPassword)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 50, cfg.OutboxBatchSize)
	assert.Equal(t, 5*time.Second, cfg.StartLockTTL)
	assert.Equal(t, "token", cfg.AuthCookieName)
	assert.Equal(t, uint(120), cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigPostgresDriver(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "jwt_secret", "jwt")
	writeSecret(t, dir, "db_password", "pg-pass")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "battle")
	t.Setenv("DB_NAME", "battles")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	db := cfg.Database()
	assert.Equal(t, "db", db.Host)
	assert.Equal(t, "5432", db.Port)
	assert.Equal(t, "pg-pass", db.Password)
	assert.Equal(t, 5*time.Minute, db.MaxIdleTime)
}

func TestLoadConfigMissingSecret(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{StorageDriver: StorageMemory, OutboxBatchSize: 1, OutboxPollInterval: time.Second, StartLockTTL: time.Second, RateLimitPerMinute: 10}
	require.NoError(t, base.Validate())

	pg := base
	pg.StorageDriver = StoragePostgres
	assert.Error(t, pg.Validate())

	unknown := base
	unknown.StorageDriver = "mongo"
	assert.Error(t, unknown.Validate())

	badBatch := base
	badBatch.OutboxBatchSize = 0
	assert.Error(t, badBatch.Validate())

	noRate := base
	noRate.RateLimitPerMinute = 0
	assert.Error(t, noRate.Validate())
}
