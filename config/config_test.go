package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "BIND_ADDRESS", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_PATH", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
		"SUMMARY_TTL", "JWT_SECRET", "ADMIN_USER", "ADMIN_PASSWORD_HASH", "AI_API_KEY",
		"OPENROUTER_API_KEY", "AI_BASE_URL", "AI_MODEL", "AI_TIMEOUT", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	// Keep a developer's .env out of the test.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SummaryTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisHost)
	assert.Nil(t, InitRedis(cfg))

	aiCfg := cfg.AI()
	assert.Empty(t, aiCfg.APIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", aiCfg.BaseURL)
	assert.Equal(t, "google/gemini-2.5-flash-lite", aiCfg.Model)
	assert.Equal(t, 20*time.Second, aiCfg.Timeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/cms.db")
	t.Setenv("SUMMARY_TTL", "90m")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("OPENROUTER_API_KEY", "legacy-key")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file:/tmp/cms.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.DSN())
	assert.Equal(t, 90*time.Minute, cfg.SummaryTTL)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, "legacy-key", cfg.AIAPIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	t.Setenv("AI_API_KEY", "primary-key")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.AIAPIKey)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
db_driver: sqlite
redis_host: cache
summary_ttl: 1h
admin_user: editor
cors_origins:
  - https://cms.example
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7100", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "cache", cfg.RedisHost)
	assert.Equal(t, time.Hour, cfg.SummaryTTL)
	assert.Equal(t, "editor", cfg.AdminUser)
	assert.Equal(t, []string{"https://cms.example"}, cfg.CORSOrigins)
	assert.NotNil(t, InitRedis(cfg))
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AI_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestInitDBSQLite(t *testing.T) {
	cfg := defaults()
	cfg.DBDriver = DriverSQLite
	cfg.DBPath = filepath.Join(t.TempDir(), "cms.db")

	db, err := InitDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.NoError(t, sqlDB.Ping())
}
