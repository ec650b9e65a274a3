package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret   string
	JWTExpiry   time.Duration
	CORSOrigins []string

	// Rate limiting for auth and waitlist endpoints
	RateLimitPerMinute int
	RateLimitBurst     int

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Notifications (HH:MM, UTC)
	SchedulerEnabled    bool
	CheckInReminderTime string
	StreakCheckTime     string
	DeadlineWarningTime string

	// Observability (optional)
	SentryDSN       string
	MetricsUser     string
	MetricsPassword string

	// Storage (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces)
	S3Region               string
	S3Bucket               string
	S3AccessKey            string
	S3SecretKey            string
	S3Endpoint             string
	S3PresignExpiryPublic  time.Duration
	S3PresignExpiryPrivate time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "One Goal"),
		AppEnv:       envString("APP_ENV", "development"),
		AppURL:       envString("APP_URL", "http://localhost:8090"),
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "hello@example.com"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/onegoal.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:   envString("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:   envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		CORSOrigins: envList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 10),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 5),

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Notifications
		SchedulerEnabled:    envBool("SCHEDULER_ENABLED", true),
		CheckInReminderTime: envString("CHECKIN_REMINDER_TIME", "20:00"),
		StreakCheckTime:     envString("STREAK_CHECK_TIME", "23:00"),
		DeadlineWarningTime: envString("DEADLINE_WARNING_TIME", "09:00"),

		// Observability
		SentryDSN:       envString("SENTRY_DSN", ""),
		MetricsUser:     envString("METRICS_USER", ""),
		MetricsPassword: envString("METRICS_PASSWORD", ""),

		// Storage (leave S3_BUCKET empty to disable export snapshots)
		S3Region:               envString("S3_REGION", "us-east-1"),
		S3Bucket:               envString("S3_BUCKET", ""),
		S3AccessKey:            envString("S3_ACCESS_KEY", ""),
		S3SecretKey:            envString("S3_SECRET_KEY", ""),
		S3Endpoint:             envString("S3_ENDPOINT", ""),
		S3PresignExpiryPublic:  envDuration("S3_PRESIGN_EXPIRY_PUBLIC", 168*time.Hour),
		S3PresignExpiryPrivate: envDuration("S3_PRESIGN_EXPIRY_PRIVATE", 1*time.Hour),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction exits when a production deployment is missing a service
// that development replaces with a fallback.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.JWTSecret == defaultJWTSecret {
		slog.Error("production deployment requires a JWT_SECRET")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated value, dropping blanks.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Sanitized returns a copy holding only fields safe to put in the request context.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		SupportEmail: c.SupportEmail,

		EmailFrom: c.EmailFrom,

		GoogleClientID: c.GoogleClientID,
	}
}
