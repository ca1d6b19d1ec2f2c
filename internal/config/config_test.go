package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_BOOL", "false")
	t.Setenv("CFG_BAD_BOOL", "maybe")
	t.Setenv("CFG_INT", "12")
	t.Setenv("CFG_NEG_INT", "-3")
	t.Setenv("CFG_DURATION", "250ms")
	t.Setenv("CFG_BAD_DURATION", "soon")

	require.False(t, envBool("CFG_BOOL", true))
	require.True(t, envBool("CFG_BAD_BOOL", true))
	require.True(t, envBool("CFG_UNSET", true))
	require.Equal(t, 12, envInt("CFG_INT", 8))
	require.Equal(t, 8, envInt("CFG_NEG_INT", 8))
	require.Equal(t, 250*time.Millisecond, envDuration("CFG_DURATION", time.Second))
	require.Equal(t, time.Second, envDuration("CFG_BAD_DURATION", time.Second))
	require.Equal(t, "fallback", envString("CFG_UNSET", "fallback"))
}

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "9000")
	t.Setenv("APP_URL", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("MOCK_ENABLED", "")
	t.Setenv("PROXY_ENABLED", "")

	cfg := Load()

	require.True(t, cfg.IsDevelopment())
	require.Equal(t, "http://localhost:9000", cfg.AppURL)
	require.True(t, cfg.MockEnabled)
	require.True(t, cfg.ProxyEnabled)
	require.Equal(t, "/api", cfg.APIBaseURL)
	require.Equal(t, 8, cfg.PasswordMinLength)
	require.Equal(t, "ElArcaApp", cfg.AppScheme)
	require.Equal(t, 800*time.Millisecond, cfg.MockDelay)
}

func TestLoad_ProductionDisablesDevBackends(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("MOCK_ENABLED", "")
	t.Setenv("PROXY_ENABLED", "")

	cfg := Load()

	require.True(t, cfg.IsProduction())
	require.False(t, cfg.MockEnabled)
	require.False(t, cfg.ProxyEnabled)
	require.Equal(t, "https://api.example.com", cfg.APIBaseURL)
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{AppName: "El Arca", ResendAPIKey: "re_secret", SentryDSN: "https://key@sentry.io/1"}

	safe := cfg.Sanitized()
	require.Equal(t, "El Arca", safe.AppName)
	require.Empty(t, safe.ResendAPIKey)
	require.Empty(t, safe.SentryDSN)
}
