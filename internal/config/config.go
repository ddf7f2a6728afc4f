package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/validator"
	"github.com/joho/godotenv"
)

// Record store backends
const (
	RecordStoreSheets   = "sheets"
	RecordStorePostgres = "postgres"
	RecordStoreMemory   = "memory"
)

// Session store backends
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Session      SessionConfig
	OAuth2Google OAuth2GoogleConfig
	RecordStore  RecordStoreConfig
	Webhook      WebhookConfig
	SMTP         SMTPConfig
	Employees    []string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	FrontendURL    string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// JWTConfig holds the signing secret for session cookies
type JWTConfig struct {
	Secret string
}

type SessionConfig struct {
	Store           string
	TTL             time.Duration
	CleanupInterval time.Duration
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
}

type RecordStoreConfig struct {
	Type             string
	SpreadsheetID    string
	SpreadsheetTitle string
	SheetName        string
	ShareWith        string
}

type WebhookConfig struct {
	URL         string
	Format      string
	Timeout     time.Duration
	WorkerCount int
	QueueSize   int
}

// SMTPConfig configures the attendance email sink. An empty Host disables it.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	To       []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Local"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timesheet"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		Prefix:   getEnv("REDIS_PREFIX", "timesheet"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Session configuration
	sessionTTL, err := getEnvDuration("SESSION_TTL", "12h")
	if err != nil {
		return nil, err
	}
	cleanupInterval, err := getEnvDuration("SESSION_CLEANUP_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}

	config.Session = SessionConfig{
		Store:           strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		TTL:             sessionTTL,
		CleanupInterval: cleanupInterval,
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
		AuthURL:      getEnv("OAUTH_AUTH_URL", ""),
		TokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
	}
	if len(config.OAuth2Google.Scopes) == 0 {
		config.OAuth2Google.Scopes = []string{
			"https://www.googleapis.com/auth/drive",
			"https://www.googleapis.com/auth/spreadsheets",
		}
	}

	config.RecordStore = RecordStoreConfig{
		Type:             strings.ToLower(getEnv("RECORD_STORE", RecordStoreSheets)),
		SpreadsheetID:    getEnv("SHEETS_SPREADSHEET_ID", ""),
		SpreadsheetTitle: getEnv("SHEETS_SPREADSHEET_TITLE", "Employee Sign-In"),
		SheetName:        getEnv("SHEETS_SHEET_NAME", "Sheet1"),
		ShareWith:        getEnv("SHEETS_SHARE_WITH", ""),
	}

	// Webhook configuration
	webhookTimeout, err := getEnvDuration("WEBHOOK_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	webhookWorkers, err := strconv.Atoi(getEnv("WEBHOOK_WORKERS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_WORKERS: %w", err)
	}
	webhookQueue, err := strconv.Atoi(getEnv("WEBHOOK_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_QUEUE_SIZE: %w", err)
	}

	config.Webhook = WebhookConfig{
		URL:         getEnv("WEBHOOK_URL", ""),
		Format:      strings.ToLower(getEnv("WEBHOOK_FORMAT", "text")),
		Timeout:     webhookTimeout,
		WorkerCount: webhookWorkers,
		QueueSize:   webhookQueue,
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "Timesheet Portal"),
		To:       getEnvSlice("SMTP_TO"),
	}

	config.Employees = getEnvSlice("EMPLOYEES")

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.OAuth2Google.ClientID == "" {
		return fmt.Errorf("CLIENT_ID is required")
	}
	if c.OAuth2Google.ClientSecret == "" {
		return fmt.Errorf("CLIENT_SECRET is required")
	}
	if c.OAuth2Google.RedirectURL == "" {
		return fmt.Errorf("REDIRECT_URL is required")
	}

	switch c.RecordStore.Type {
	case RecordStoreSheets:
		if c.RecordStore.SpreadsheetID == "" && c.RecordStore.SpreadsheetTitle == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID or SHEETS_SPREADSHEET_TITLE is required")
		}
		if c.RecordStore.ShareWith != "" && !validator.IsValidEmail(c.RecordStore.ShareWith) {
			return fmt.Errorf("SHEETS_SHARE_WITH must be an email address")
		}
	case RecordStorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case RecordStoreMemory:
	default:
		return fmt.Errorf("unsupported RECORD_STORE: %s", c.RecordStore.Type)
	}

	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	case SessionStorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE: %s", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Webhook.URL != "" && !validator.IsValidHTTPURL(c.Webhook.URL) {
		return fmt.Errorf("WEBHOOK_URL must be an http(s) URL")
	}
	if c.Webhook.Format != "text" && c.Webhook.Format != "json" {
		return fmt.Errorf("WEBHOOK_FORMAT must be one of: text, json")
	}

	if c.SMTP.Host != "" {
		if !validator.IsValidEmail(c.SMTP.From) {
			return fmt.Errorf("SMTP_FROM must be an email address")
		}
		if len(c.SMTP.To) == 0 {
			return fmt.Errorf("SMTP_TO is required when SMTP_HOST is set")
		}
		for _, to := range c.SMTP.To {
			if !validator.IsValidEmail(to) {
				return fmt.Errorf("SMTP_TO contains an invalid address: %s", to)
			}
		}
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// UsesPostgres reports whether any backend needs the database.
func (c *Config) UsesPostgres() bool {
	return c.RecordStore.Type == RecordStorePostgres || c.Session.Store == SessionStorePostgres
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", c.App.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

// LogLevel maps LOG_LEVEL to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
