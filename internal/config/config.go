// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads server configuration from defaults, an optional YAML
// file, and command-line flags, in that order of precedence (flags win).
// The database URL additionally honors the DATABASE_URL environment variable,
// which overrides all other sources so credentials stay out of files.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultHTTPAddr    = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultSessionTTL  = time.Hour
	DefaultBcryptCost  = 12
	DefaultLogFormat   = "json"
)

// bcrypt's supported cost range.
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// HTTPConfig configures the application HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig configures the observability server. An empty Addr disables
// it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// SessionConfig configures session issuance.
type SessionConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// PasswordConfig configures password hashing.
type PasswordConfig struct {
	Cost int `koanf:"cost"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// Config is the full server configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Session  SessionConfig  `koanf:"session"`
	Password PasswordConfig `koanf:"password"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
}

// Default returns the configuration used when no file or flags are given.
// The database URL has no default; it must come from a source.
func Default() *Config {
	return &Config{
		HTTP:     HTTPConfig{Addr: DefaultHTTPAddr},
		Metrics:  MetricsConfig{Addr: DefaultMetricsAddr},
		Session:  SessionConfig{TTL: DefaultSessionTTL},
		Password: PasswordConfig{Cost: DefaultBcryptCost},
		Log:      LogConfig{Format: DefaultLogFormat},
	}
}

// Validate checks the configuration for values no component can run with.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http.addr is required")
	}
	if c.Session.TTL <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("ttl", c.Session.TTL.String()).
			Errorf("session.ttl must be positive")
	}
	if c.Password.Cost < minBcryptCost || c.Password.Cost > maxBcryptCost {
		return oops.Code("CONFIG_INVALID").
			With("cost", c.Password.Cost).
			Errorf("password.cost must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be 'json' or 'text'")
	}
	return nil
}

// BindFlags registers the config-backed flags on the given flag set. Flag
// names mirror the koanf key paths so posflag can map them directly.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("http.addr", DefaultHTTPAddr, "application HTTP listen address")
	flags.String("metrics.addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.Duration("session.ttl", DefaultSessionTTL, "absolute session lifetime")
	flags.Int("password.cost", DefaultBcryptCost, "bcrypt cost factor")
	flags.String("log.format", DefaultLogFormat, "log format (json or text)")
}

// Load builds the configuration. path names an optional YAML file; flags may
// be nil. Precedence, lowest to highest: defaults, file, changed flags,
// DATABASE_URL.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		// posflag skips unchanged flags whose keys the file already set.
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
