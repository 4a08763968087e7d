package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/beingshakil/keyword-planner-tool/internal/errors"
)

// ConfigPathEnv names the environment variable holding the YAML config path
const ConfigPathEnv = "KWP_CONFIG"

// Config holds the keyword planner configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Search  SearchConfig  `yaml:"search"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// SearchConfig configures keyword search.
type SearchConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold"`
	DefaultPageSize  int     `yaml:"default_page_size"`
	MaxPageSize      int     `yaml:"max_page_size"`
	BatchSize        int     `yaml:"batch_size"`
}

// StorageConfig configures the saved-list database.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres, mysql
	DSN    string `yaml:"dsn"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// ValidDrivers lists the supported storage drivers.
var ValidDrivers = []string{"sqlite", "postgres", "mysql"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8001",
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			MaxUploadBytes: 100 << 20,
		},
		Search: SearchConfig{
			DefaultThreshold: 70,
			DefaultPageSize:  100,
			MaxPageSize:      1000,
			BatchSize:        1000,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:keyword_planner.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (a
// missing file is fine), then a .env file, then environment overrides.
// An empty path falls back to $KWP_CONFIG.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// .env only fills variables that are not already set
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &apperrors.AppError{Code: apperrors.CodeConfigInvalid, Message: "failed to parse config", Cause: err}
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if origins := os.Getenv("KWP_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if v := os.Getenv("KWP_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperrors.ConfigInvalid("KWP_MAX_UPLOAD_BYTES must be an integer")
		}
		c.Server.MaxUploadBytes = n
	}

	if v := os.Getenv("KWP_DEFAULT_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.ConfigInvalid("KWP_DEFAULT_THRESHOLD must be a number")
		}
		c.Search.DefaultThreshold = f
	}

	if driver := os.Getenv("KWP_DB_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if dsn := os.Getenv("KWP_DB_DSN"); dsn != "" {
		c.Storage.DSN = dsn
	}

	if level := os.Getenv("KWP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if dev := os.Getenv("KWP_LOG_DEVELOPMENT"); dev != "" {
		b, err := strconv.ParseBool(dev)
		if err != nil {
			return apperrors.ConfigInvalid("KWP_LOG_DEVELOPMENT must be a boolean")
		}
		c.Logging.Development = b
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return apperrors.ConfigInvalid("server port not configured (set PORT)")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return apperrors.ConfigInvalid("max_upload_bytes must be positive")
	}
	if c.Search.DefaultThreshold < 0 || c.Search.DefaultThreshold > 100 {
		return apperrors.ConfigInvalid(fmt.Sprintf("default threshold %v outside 0..100", c.Search.DefaultThreshold))
	}
	if c.Search.DefaultPageSize <= 0 || c.Search.MaxPageSize <= 0 || c.Search.BatchSize <= 0 {
		return apperrors.ConfigInvalid("search page sizes and batch size must be positive")
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return apperrors.ConfigInvalid("default page size exceeds max page size")
	}

	validDriver := false
	for _, d := range ValidDrivers {
		if c.Storage.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return apperrors.ConfigInvalid(fmt.Sprintf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidDrivers))
	}
	if c.Storage.DSN == "" {
		return apperrors.ConfigInvalid("storage DSN not configured (set KWP_DB_DSN)")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.ConfigInvalid(fmt.Sprintf("invalid log level: %s", c.Logging.Level))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
