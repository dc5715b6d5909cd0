package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, DriverMemory, cfg.Backend.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Backend.MockLatency)
	assert.Equal(t, "create-products-from-ai", cfg.Backend.BulkFunction)
	assert.Equal(t, "gemini-2.5-flash", cfg.GenAI.Model)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.Empty(t, cfg.Events.Brokers)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Empty(t, cfg.Ops.Addr)
	assert.Equal(t, "default", cfg.UI.Sort)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
environment: production
backend:
  driver: supabase
  url: https://example.supabase.co
  anon_key: anon
  timeout: 5s
storage:
  driver: redis
  redis_addr: redis:6379
events:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
ops:
  addr: ":9090"
`)

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, DriverSupabase, cfg.Backend.Driver)
	assert.Equal(t, "https://example.supabase.co", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, ":9090", cfg.Ops.Addr)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	t.Setenv(configFileEnvName, path)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	t.Setenv("STOREFRONT_LOG_LEVEL", "error")
	t.Setenv("STOREFRONT_BACKEND_MOCK_LATENCY", "0s")
	t.Setenv("STOREFRONT_EVENTS_BROKERS", "a:9092,b:9092")

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.Backend.MockLatency)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.Brokers)
}

func TestLoad_GeminiKeyAliases(t *testing.T) {
	t.Run("GeminiAPIKey", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini-key")
		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, "gemini-key", cfg.GenAI.APIKey)
	})

	t.Run("APIKey", func(t *testing.T) {
		t.Setenv("API_KEY", "plain-key")
		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, "plain-key", cfg.GenAI.APIKey)
	})

	t.Run("PrefixedWins", func(t *testing.T) {
		t.Setenv("STOREFRONT_GENAI_API_KEY", "prefixed")
		t.Setenv("GEMINI_API_KEY", "gemini-key")
		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, "prefixed", cfg.GenAI.APIKey)
	})
}

func TestLoad_FlagsWin(t *testing.T) {
	t.Setenv("STOREFRONT_LOG_LEVEL", "error")

	t.Setenv("STOREFRONT_UI_SORT", "name-asc")

	cfg, err := Load([]string{"--log-level", "debug", "--ops-addr", ":9100", "--sort", "price-desc"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.Ops.Addr)
	assert.Equal(t, "price-desc", cfg.UI.Sort)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
		require.Error(t, err)
	})

	t.Run("SupabaseWithoutURL", func(t *testing.T) {
		_, err := Load([]string{"--backend", "supabase"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend.url")
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		_, err := Load([]string{"--backend", "sqlite"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend driver")
	})

	t.Run("UnknownSort", func(t *testing.T) {
		_, err := Load([]string{"--sort", "newest"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ui.sort")
		assert.Contains(t, err.Error(), "unknown sort key: newest")
	})

	t.Run("UnknownFlag", func(t *testing.T) {
		_, err := Load([]string{"--nope"})
		require.Error(t, err)
	})
}
