package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/beingshakil/keyword-planner-tool/internal/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8001", cfg.Server.Port)
	assert.Equal(t, 70.0, cfg.Search.DefaultThreshold)
	assert.Equal(t, 1000, cfg.Search.BatchSize)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "kwp.yaml")
	yaml := `
server:
  port: "9000"
  allowed_origins: ["https://planner.example.com"]
search:
  default_threshold: 80
storage:
  driver: postgres
  dsn: postgres://kwp@localhost/kwp?sslmode=disable
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://planner.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 80.0, cfg.Search.DefaultThreshold)
	// untouched keys keep defaults
	assert.Equal(t, 100, cfg.Search.DefaultPageSize)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kwp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7777\"\n"), 0o644))
	t.Setenv(ConfigPathEnv, path)
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Server.Port)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kwp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestEnvOverrides(t *testing.T) {
	t.Run("all overrides", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("KWP_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("KWP_DEFAULT_THRESHOLD", "55.5")
		t.Setenv("KWP_DB_DRIVER", "mysql")
		t.Setenv("KWP_DB_DSN", "kwp:secret@tcp(localhost:3306)/kwp?parseTime=true")
		t.Setenv("KWP_LOG_LEVEL", "warn")
		t.Setenv("KWP_LOG_DEVELOPMENT", "true")
		t.Setenv("KWP_MAX_UPLOAD_BYTES", "1024")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, 55.5, cfg.Search.DefaultThreshold)
		assert.Equal(t, "mysql", cfg.Storage.Driver)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.True(t, cfg.Logging.Development)
		assert.Equal(t, int64(1024), cfg.Server.MaxUploadBytes)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("malformed threshold", func(t *testing.T) {
		t.Setenv("KWP_DEFAULT_THRESHOLD", "high")
		err := DefaultConfig().applyEnvOverrides()
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"threshold above 100", func(c *Config) { c.Search.DefaultThreshold = 101 }},
		{"zero batch", func(c *Config) { c.Search.BatchSize = 0 }},
		{"page size above max", func(c *Config) { c.Search.DefaultPageSize = 5000 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "oracle" }},
		{"empty dsn", func(c *Config) { c.Storage.DSN = "" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
		})
	}
}
