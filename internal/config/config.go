package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	ContactEmail string
	ContentPath  string

	// Database: sqlite (default), postgres or mongo
	DBDriver      string
	DBConnection  string
	MongoURI      string
	MongoDatabase string

	// Security
	JWTSecret        string
	SessionMaxAge    time.Duration
	SessionUpdateAge time.Duration
	AuthRateLimit    int
	AuthRateWindow   time.Duration
	TrustProxy       bool // take client IPs from X-Forwarded-For

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability
	SentryDSN      string
	MetricsEnabled bool

	// Storage (S3-compatible). Avatar uploads are disabled without a bucket.
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3PublicURL string
}

type loader struct {
	missing []string
}

// Load reads the environment, optionally seeded from .env. Every missing
// required key is reported in a single error.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	l := &loader{}
	cfg := &Config{
		AppName:      envString("APP_NAME", "Portfolio"),
		AppEnv:       l.envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:       strings.TrimSuffix(l.envRequired("APP_URL"), "/"),
		Port:         envString("PORT", "8090"),
		ContactEmail: envString("CONTACT_EMAIL", "hello@example.com"),
		ContentPath:  envString("CONTENT_PATH", "content"),

		DBDriver:      envString("DB_DRIVER", "sqlite"),
		DBConnection:  envString("DB_CONNECTION", "./data/portfolio.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		MongoDatabase: envString("MONGODB_DATABASE", "portfolio"),

		JWTSecret:        l.envRequired("JWT_SECRET"),
		SessionMaxAge:    envDuration("SESSION_MAX_AGE", 720*time.Hour),   // 30 days
		SessionUpdateAge: envDuration("SESSION_UPDATE_AGE", 24*time.Hour), // rolling refresh
		AuthRateLimit:    envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:   envDuration("AUTH_RATE_WINDOW", time.Minute),
		TrustProxy:       envBool("TRUST_PROXY", false),

		GoogleClientID:     l.envRequired("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: l.envRequired("GOOGLE_CLIENT_SECRET"),
		GitHubClientID:     l.envRequired("GITHUB_CLIENT_ID"),
		GitHubClientSecret: l.envRequired("GITHUB_CLIENT_SECRET"),

		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
	}

	if cfg.DBDriver == "mongo" {
		cfg.MongoURI = l.envRequired("MONGODB_URI")
	}
	if cfg.IsProduction() && cfg.ResendAPIKey == "" {
		l.missing = append(l.missing, "RESEND_API_KEY")
	}

	if len(l.missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(l.missing, ", "))
	}
	return cfg, nil
}

func (l *loader) envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	l.missing = append(l.missing, key)
	return ""
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

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SecureCookies is true when the app is served over TLS.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.AppURL, "https://")
}

func (c *Config) AvatarUploadsEnabled() bool {
	return c.S3Bucket != ""
}

// Sanitized returns a copy with only public fields. Safe to put in the
// request context and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		ContactEmail: c.ContactEmail,

		GoogleClientID: c.GoogleClientID,
		GitHubClientID: c.GitHubClientID,

		S3Bucket:    c.S3Bucket,
		S3Endpoint:  c.S3Endpoint,
		S3PublicURL: c.S3PublicURL,
	}
}
