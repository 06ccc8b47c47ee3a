package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/leapstack-labs/nlnotebook/internal/history"
	"github.com/leapstack-labs/nlnotebook/internal/submit"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := validateHTTPURL("query_api.url", c.QueryAPI.URL); err != nil {
		errs = append(errs, err)
	}
	if err := validateHTTPURL("auth.base_url", c.Auth.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.QueryAPI.Timeout < 0 {
		errs = append(errs, fmt.Errorf("query_api.timeout must not be negative"))
	}
	if c.UI.Port < 1 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port %d is out of range (1-65535)", c.UI.Port))
	}
	if c.History.Capacity < 0 {
		errs = append(errs, fmt.Errorf("history.capacity must not be negative"))
	}
	if _, err := history.ParsePolicy(c.History.MalformedReply); err != nil {
		errs = append(errs, fmt.Errorf("history.malformed_reply: %w", err))
	}
	if _, err := submit.ParseGuard(c.History.Concurrent); err != nil {
		errs = append(errs, fmt.Errorf("history.concurrent: %w", err))
	}
	if c.History.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("history.session_ttl must not be negative"))
	}

	switch strings.ToLower(c.OutputFormat) {
	case "", "auto", "text", "table", "markdown", "md", "json":
	default:
		errs = append(errs, fmt.Errorf("output %q is not one of auto, text, markdown, json", c.OutputFormat))
	}

	return errors.Join(errs...)
}

func validateHTTPURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", key, raw)
	}
	return nil
}
