// Package config loads playlistmix settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. PLAYLISTMIX_HTTP_PORT.
const Prefix = "PLAYLISTMIX"

// Config holds every setting of the CLI and the HTTP API.
type Config struct {
	// YouTube Data API key used for search and metadata reads.
	YouTubeAPIKey string `envconfig:"YOUTUBE_API_KEY"`

	// OAuth client used to refresh stored user tokens.
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`

	// ConfigDir holds stored tokens. Defaults to ~/.config/playlistmix.
	ConfigDir string `envconfig:"CONFIG_DIR"`

	// APIURL overrides the YouTube endpoint, for tests and proxies.
	APIURL string `envconfig:"API_URL"`

	HTTPPort       int           `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	MaxResults     int64         `envconfig:"MAX_RESULTS" default:"50"`
}

// Load reads the optional dotenv files (".env" when none are given) and
// then the environment. Variables already set in the environment win over
// the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return New()
}

// New creates a Config from environment variables only.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.ConfigDir = filepath.Join(home, ".config", "playlistmix")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid %s_HTTP_PORT: %d", Prefix, c.HTTPPort)
	}
	if c.MaxResults < 1 || c.MaxResults > 50 {
		return fmt.Errorf("invalid %s_MAX_RESULTS: %d (must be 1-50)", Prefix, c.MaxResults)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid %s_REQUEST_TIMEOUT: %s", Prefix, c.RequestTimeout)
	}
	return nil
}

// HTTPAddr returns the listen address of the HTTP API.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// HasAPIKey reports whether searches can run.
func (c *Config) HasAPIKey() bool {
	return c.YouTubeAPIKey != ""
}

// HasOAuthClient reports whether expired user tokens can be refreshed.
func (c *Config) HasOAuthClient() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 4:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
