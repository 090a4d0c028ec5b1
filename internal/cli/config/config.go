// Package config loads sqleaner configuration from file, environment
// variables, and command-line flags.
package config

import (
	"context"
	"io"
	"log/slog"
)

// Config holds all CLI configuration options.
type Config struct {
	// Policy is "lenient" or "strict"; see the engine package.
	Policy  string `koanf:"policy"`
	Verbose bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultPolicy = "lenient"
)

// configKey is used to store the loaded config in a command context.
type configKey struct{}

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// WithConfig stores the config in the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from the context, falling back to
// defaults so commands remain usable without the root command's setup.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	return &Config{Policy: DefaultPolicy}
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Discard logger as safe fallback
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
