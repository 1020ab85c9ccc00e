package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/sibyl/pkg/database"
	"github.com/JaimeStill/sibyl/pkg/search"
	"github.com/pelletier/go-toml/v2"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSibylEnv             = "SIBYL_ENV"
	EnvSibylShutdownTimeout = "SIBYL_SHUTDOWN_TIMEOUT"
	EnvSibylVersion         = "SIBYL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SIBYL_DB_HOST",
	Port:            "SIBYL_DB_PORT",
	Name:            "SIBYL_DB_NAME",
	User:            "SIBYL_DB_USER",
	Password:        "SIBYL_DB_PASSWORD",
	SSLMode:         "SIBYL_DB_SSL_MODE",
	MaxOpenConns:    "SIBYL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SIBYL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SIBYL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SIBYL_DB_CONN_TIMEOUT",
}

var searchEnv = &search.Env{
	APIKey:     "SIBYL_SEARCH_API_KEY",
	BaseURL:    "SIBYL_SEARCH_BASE_URL",
	Depth:      "SIBYL_SEARCH_DEPTH",
	MaxResults: "SIBYL_SEARCH_MAX_RESULTS",
	Timeout:    "SIBYL_SEARCH_TIMEOUT",
}

// Config is the root configuration for the Sibyl service.
type Config struct {
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Search          search.Config        `toml:"search"`
	API             APIConfig            `toml:"api"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the SIBYL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSibylEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Agent.Merge(&overlay.Agent)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Search.Merge(&overlay.Search)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Search.Finalize(searchEnv); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSibylShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSibylVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSibylEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
