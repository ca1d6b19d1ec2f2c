package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// API client
	APIBaseURL        string        // Absolute URL or path prefix resolved against AppURL
	ClientTimeout     time.Duration // 0 = transport default
	AppScheme         string        // Deep-link scheme of the mobile app
	PasswordMinLength int
	ShowTokenCopy     bool

	// Dev proxy
	ProxyEnabled   bool
	BackendBaseURL string

	// Mock backend
	MockEnabled bool
	MockDelay   time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	appEnv := envRequired("APP_ENV") // Required: 'development' or 'production'
	isDev := appEnv == "development"
	port := envString("PORT", "8090")

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "El Arca"),
		AppEnv:  appEnv,
		AppURL:  envString("APP_URL", "http://localhost:"+port),
		Port:    port,

		// API client
		APIBaseURL:        envString("API_BASE_URL", ""),
		ClientTimeout:     envDuration("CLIENT_TIMEOUT", 0),
		AppScheme:         envString("APP_SCHEME", "ElArcaApp"),
		PasswordMinLength: envInt("PASSWORD_MIN_LENGTH", 8),
		ShowTokenCopy:     envBool("SHOW_TOKEN_COPY", true),

		// Dev proxy (development only by default)
		ProxyEnabled:   envBool("PROXY_ENABLED", isDev),
		BackendBaseURL: envString("BACKEND_BASE_URL", "http://localhost:8080"),

		// Mock backend (development only by default)
		MockEnabled: envBool("MOCK_ENABLED", isDev),
		MockDelay:   envDuration("MOCK_DELAY", 800*time.Millisecond),

		// Email (RESEND_API_KEY only needed when the mock backend sends real mail)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// The mock backend is served by this app, so the client can reach it by path
	if cfg.APIBaseURL == "" && cfg.MockEnabled {
		cfg.APIBaseURL = "/api"
	}
	if cfg.APIBaseURL == "" {
		slog.Warn("API_BASE_URL is not set, reset requests will fail until it is configured")
	}

	// Production: validate required settings
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures settings that have development fallbacks are
// explicitly configured for production deployments.
func validateProduction(cfg *Config) {
	if cfg.APIBaseURL == "" {
		slog.Error("production deployment requires API_BASE_URL")
		os.Exit(1)
	}
	if cfg.MockEnabled && cfg.ResendAPIKey == "" {
		slog.Error("mock backend in production requires RESEND_API_KEY",
			"hint", "set MOCK_ENABLED=false or APP_ENV=development")
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
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:           c.AppName,
		AppEnv:            c.AppEnv,
		AppURL:            c.AppURL,
		Port:              c.Port,
		APIBaseURL:        c.APIBaseURL,
		AppScheme:         c.AppScheme,
		PasswordMinLength: c.PasswordMinLength,
		ShowTokenCopy:     c.ShowTokenCopy,
		ProxyEnabled:      c.ProxyEnabled,
		MockEnabled:       c.MockEnabled,
		EmailFrom:         c.EmailFrom,
	}
}
