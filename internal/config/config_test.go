package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CLIENT_ID", "client-id")
	t.Setenv("CLIENT_SECRET", "client-secret")
	t.Setenv("REDIRECT_URL", "http://localhost:8080/api/v1/auth/oauth/callback/google")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, RecordStoreSheets, cfg.RecordStore.Type)
	assert.Equal(t, "Employee Sign-In", cfg.RecordStore.SpreadsheetTitle)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "text", cfg.Webhook.Format)
	assert.Len(t, cfg.OAuth2Google.Scopes, 2)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.Empty(t, cfg.Employees)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("EMPLOYEES", "Alice, Bob ,,Carol")
	t.Setenv("RECORD_STORE", "MEMORY")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, cfg.Employees)
	assert.Equal(t, RecordStoreMemory, cfg.RecordStore.Type)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoad_MissingClientID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLIENT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLIENT_ID is required")
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid APP_PORT")
}

func TestValidate_PostgresRequiresPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RECORD_STORE", "postgres")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD is required")
}

func TestValidate_UnknownBackends(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_STORE", "memcached")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported SESSION_STORE")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", cfg.DatabaseURL())
}

func TestValidate_WebhookAndShareTarget(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEBHOOK_URL", "hooks.example.com/x")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_URL")

	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/x")
	t.Setenv("SHEETS_SHARE_WITH", "not-an-email")

	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHEETS_SHARE_WITH")
}

func TestValidate_SMTP(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "portal@example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_TO")

	t.Setenv("SMTP_TO", "hr@example.com, lead@example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"hr@example.com", "lead@example.com"}, cfg.SMTP.To)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestUsesPostgres(t *testing.T) {
	cfg := &Config{
		RecordStore: RecordStoreConfig{Type: RecordStoreMemory},
		Session:     SessionConfig{Store: SessionStoreMemory},
	}
	assert.False(t, cfg.UsesPostgres())

	cfg.Session.Store = SessionStorePostgres
	assert.True(t, cfg.UsesPostgres())
}
