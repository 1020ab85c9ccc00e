package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/sibyl/pkg/middleware"
	"github.com/JaimeStill/sibyl/pkg/pagination"
)

const (
	EnvAPIBasePath       = "SIBYL_API_BASE_PATH"
	EnvAPIRequestTimeout = "SIBYL_API_REQUEST_TIMEOUT"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SIBYL_CORS_ENABLED",
	Origins:          "SIBYL_CORS_ORIGINS",
	AllowedMethods:   "SIBYL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SIBYL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "SIBYL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SIBYL_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SIBYL_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SIBYL_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, workflow timeout, CORS, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	RequestTimeout string                `toml:"request_timeout"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *APIConfig) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "60s"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIRequestTimeout); v != "" {
		c.RequestTimeout = v
	}
}

func (c *APIConfig) validate() error {
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	return nil
}
