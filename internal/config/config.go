// Package config loads blogfeed settings from a YAML file with
// environment variable overrides.
package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/Sternrassler/blogfeed/pkg/blogapi"
	"github.com/Sternrassler/blogfeed/pkg/feed"
	"github.com/Sternrassler/blogfeed/pkg/logging"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Environment variables that override file settings.
const (
	EnvAPIURL    = "BLOGFEED_API_URL"
	EnvViewerID  = "BLOGFEED_VIEWER_ID"
	EnvToken     = "BLOGFEED_TOKEN"
	EnvRedisURL  = "REDIS_URL"
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogPretty = "LOG_PRETTY"
)

// LogConfig selects the zerolog level and console output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// FeedConfig sizes feed pages and sets how long a feed stays fresh.
type FeedConfig struct {
	PageSize   int    `yaml:"page_size"`
	StaleAfter string `yaml:"stale_after"`
}

// RetryConfig controls retries of failed API requests.
type RetryConfig struct {
	MaxAttempts    int    `yaml:"max_attempts"`
	InitialBackoff string `yaml:"initial_backoff"`
}

// Config is the merged result of defaults, the config file and the environment.
type Config struct {
	APIURL    string      `yaml:"api_url"`
	ViewerID  string      `yaml:"viewer_id"`
	Token     string      `yaml:"token,omitempty"`
	UserAgent string      `yaml:"user_agent"`
	Timeout   string      `yaml:"timeout"`
	RedisURL  string      `yaml:"redis_url"`
	Port      string      `yaml:"port"`
	Log       LogConfig   `yaml:"log"`
	Feed      FeedConfig  `yaml:"feed"`
	Retry     RetryConfig `yaml:"retry"`
}

// DefaultConfigPath is config.yaml under the user's XDG config directory.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "blogfeed", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads path on top of the embedded defaults and applies environment
// overrides. An empty path means DefaultConfigPath; a missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Unmarshal over the defaults so absent keys keep their value.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, EnvAPIURL)
	set(&c.ViewerID, EnvViewerID)
	set(&c.Token, EnvToken)
	set(&c.RedisURL, EnvRedisURL)
	set(&c.Port, EnvPort)
	set(&c.Log.Level, EnvLogLevel)

	if v := getenv(EnvLogPretty); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.Pretty = b
		}
	}
}

// Validate checks values that would otherwise fail deep inside a client.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Feed.PageSize < 1 {
		return fmt.Errorf("feed.page_size must be >= 1 (got %d)", c.Feed.PageSize)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	for name, v := range map[string]string{
		"timeout":               c.Timeout,
		"feed.stale_after":      c.Feed.StaleAfter,
		"retry.initial_backoff": c.Retry.InitialBackoff,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return fmt.Errorf("%s: invalid duration %q", name, v)
		}
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// FeedSettings converts the feed section for feed.New.
func (c *Config) FeedSettings() feed.Config {
	cfg := feed.DefaultConfig()
	if c.Feed.PageSize > 0 {
		cfg.PageSize = c.Feed.PageSize
	}
	cfg.StaleAfter = parseDuration(c.Feed.StaleAfter, feed.DefaultStaleAfter)
	return cfg
}

// ClientSettings converts the API settings for blogapi.New. The Redis
// client is attached by the caller.
func (c *Config) ClientSettings() blogapi.Config {
	cfg := blogapi.DefaultConfig(c.APIURL, c.ViewerID)
	cfg.Token = c.Token
	if c.UserAgent != "" {
		cfg.UserAgent = c.UserAgent
	}
	cfg.Timeout = parseDuration(c.Timeout, cfg.Timeout)
	if c.Retry.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.Retry.MaxAttempts
	}
	cfg.Retry.InitialBackoff = parseDuration(c.Retry.InitialBackoff, cfg.Retry.InitialBackoff)
	return cfg
}

// LogSettings converts the log section for logging.Setup.
func (c *Config) LogSettings() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}
