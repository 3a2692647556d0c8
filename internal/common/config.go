package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Oracle      OracleConfig    `toml:"oracle"`
	Portfolio   PortfolioConfig `toml:"portfolio"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds configuration for the two storage backends plus the
// raw artifact directory and the search index path.
type StorageConfig struct {
	Address   string `toml:"address"`   // SurrealDB RPC address (session snapshots)
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	UserDB    string `toml:"userdb_path"` // SQLite file (user + catalog rows)
	IndexPath string `toml:"index_path"`  // bleve catalog index directory
	DataPath  string `toml:"data_path"`   // raw artifacts (charts)
}

// OracleConfig holds market-data collaborator boundary settings.
type OracleConfig struct {
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`    // per-call timeout, duration string
}

// GetTimeout parses and returns the per-call timeout duration
func (c *OracleConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// PortfolioConfig holds portfolio defaults.
type PortfolioConfig struct {
	StartingFunds float64 `toml:"starting_funds"`
}

// SchedulerConfig holds the background price refresh settings.
type SchedulerConfig struct {
	RefreshInterval string `toml:"refresh_interval"`
}

// GetRefreshInterval parses and returns the refresh interval
func (c *SchedulerConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "folio",
			Database:  "folio",
			Username:  "root",
			Password:  "root",
			UserDB:    "data/folio.db",
			IndexPath: "data/catalog.bleve",
			DataPath:  "data/artifacts",
		},
		Oracle: OracleConfig{
			RateLimit: 5,
			Timeout:   "30s",
		},
		Portfolio: PortfolioConfig{
			StartingFunds: 0,
		},
		Scheduler: SchedulerConfig{
			RefreshInterval: "15m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("FOLIO_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("FOLIO_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("FOLIO_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}
	if path := os.Getenv("FOLIO_USERDB_PATH"); path != "" {
		config.Storage.UserDB = path
	}
	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.DataPath = path
	}

	if funds := os.Getenv("FOLIO_STARTING_FUNDS"); funds != "" {
		if f, err := strconv.ParseFloat(funds, 64); err == nil && f >= 0 {
			config.Portfolio.StartingFunds = f
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
