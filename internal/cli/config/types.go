// Package config provides configuration management for the nlnotebook CLI.
//
// Values are layered from built-in defaults, an nlnotebook.yaml file,
// NLNOTEBOOK_ environment variables and explicitly set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/nlnotebook/internal/notebook"
)

// Config holds all CLI configuration options.
type Config struct {
	QueryAPI     QueryAPIConfig      `koanf:"query_api" yaml:"query_api"`
	Auth         AuthConfig          `koanf:"auth" yaml:"auth"`
	UI           UIConfig            `koanf:"ui" yaml:"ui"`
	History      HistoryConfig       `koanf:"history" yaml:"history"`
	LogLevel     string              `koanf:"log_level" yaml:"log_level"`
	LogFormat    string              `koanf:"log_format" yaml:"log_format"`
	OutputFormat string              `koanf:"output" yaml:"output"`
	Verbose      bool                `koanf:"verbose" yaml:"verbose,omitempty"`
	Notebooks    []notebook.Notebook `koanf:"notebooks" yaml:"notebooks,omitempty"`
}

// QueryAPIConfig locates the remote natural-language-to-SQL service.
type QueryAPIConfig struct {
	URL     string        `koanf:"url" yaml:"url"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
}

// AuthConfig locates the external auth provider.
type AuthConfig struct {
	BaseURL     string `koanf:"base_url" yaml:"base_url"`
	CallbackURL string `koanf:"callback_url" yaml:"callback_url"`
}

// UIConfig holds configuration for the web server.
type UIConfig struct {
	Port          int    `koanf:"port" yaml:"port"`
	AutoOpen      bool   `koanf:"auto_open" yaml:"auto_open"`
	Watch         bool   `koanf:"watch" yaml:"watch"`
	StaticDir     string `koanf:"static_dir" yaml:"static_dir,omitempty"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret,omitempty"`
}

// HistoryConfig controls per-notebook query histories.
type HistoryConfig struct {
	Capacity       int           `koanf:"capacity" yaml:"capacity"`
	MalformedReply string        `koanf:"malformed_reply" yaml:"malformed_reply"`
	Concurrent     string        `koanf:"concurrent" yaml:"concurrent"`
	SessionTTL     time.Duration `koanf:"session_ttl" yaml:"session_ttl"`
}

// Default configuration values.
const (
	DefaultQueryURL       = "http://localhost:5000/query"
	DefaultAuthBaseURL    = "http://localhost:3000/api/auth"
	DefaultCallbackURL    = "/dashboard"
	DefaultPort           = 8765
	DefaultMalformedReply = "propagate"
	DefaultConcurrent     = "race"
	DefaultSessionTTL     = 24 * time.Hour
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultSessionSecret  = "nlnotebook-dev-secret-change-in-production" //nolint:gosec
)

// ConfigFileNames are searched in order in the working directory.
var ConfigFileNames = []string{"nlnotebook.yaml", "nlnotebook.yml"}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		QueryAPI: QueryAPIConfig{URL: DefaultQueryURL},
		Auth: AuthConfig{
			BaseURL:     DefaultAuthBaseURL,
			CallbackURL: DefaultCallbackURL,
		},
		UI: UIConfig{
			Port:     DefaultPort,
			AutoOpen: true,
			Watch:    false,
		},
		History: HistoryConfig{
			MalformedReply: DefaultMalformedReply,
			Concurrent:     DefaultConcurrent,
			SessionTTL:     DefaultSessionTTL,
		},
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		OutputFormat: DefaultOutput,
		Notebooks:    notebook.Samples(),
	}
}

// GetSessionSecret returns the cookie signing secret, falling back to a
// development value.
func (c *Config) GetSessionSecret() string {
	if c.UI.SessionSecret != "" {
		return c.UI.SessionSecret
	}
	return DefaultSessionSecret
}
