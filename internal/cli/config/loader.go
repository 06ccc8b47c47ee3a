package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/nlnotebook/internal/notebook"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// EnvPrefix is the prefix of environment variables read into the config.
// A double underscore separates nesting levels: NLNOTEBOOK_QUERY_API__URL.
const EnvPrefix = "NLNOTEBOOK_"

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"query-url":    "query_api.url",
	"timeout":      "query_api.timeout",
	"auth-url":     "auth.base_url",
	"port":         "ui.port",
	"watch":        "ui.watch",
	"static-dir":   "ui.static_dir",
	"capacity":     "history.capacity",
	"malformed":    "history.malformed_reply",
	"concurrent":   "history.concurrent",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"output":       "output",
	"verbose":      "verbose",
	"session-ttl":  "history.session_ttl",
	"callback-url": "auth.callback_url",
}

var (
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile returns the config file to use.
// Priority: explicit path > nlnotebook.yaml > nlnotebook.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"query_api.url":           d.QueryAPI.URL,
		"query_api.timeout":       d.QueryAPI.Timeout,
		"auth.base_url":           d.Auth.BaseURL,
		"auth.callback_url":       d.Auth.CallbackURL,
		"ui.port":                 d.UI.Port,
		"ui.auto_open":            d.UI.AutoOpen,
		"ui.watch":                d.UI.Watch,
		"history.capacity":        d.History.Capacity,
		"history.malformed_reply": d.History.MalformedReply,
		"history.concurrent":      d.History.Concurrent,
		"history.session_ttl":     d.History.SessionTTL,
		"log_level":               d.LogLevel,
		"log_format":              d.LogFormat,
		"output":                  d.OutputFormat,
		"verbose":                 false,
	}
}

// ResetConfig forgets the last loaded config. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables
	// Transform: NLNOTEBOOK_QUERY_API__URL -> query_api.url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Decode
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(cfg.Notebooks) == 0 {
		cfg.Notebooks = notebook.Samples()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the last loaded configuration, or the defaults.
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		return Default()
	}
	return currentConfig
}

// NewLogger builds the process logger from a level and format name.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log_format %q (expected text or json)", format)
	}
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// Timeout returns the configured query timeout, zero meaning none.
func (c *Config) Timeout() time.Duration {
	if c.QueryAPI.Timeout < 0 {
		return 0
	}
	return c.QueryAPI.Timeout
}
