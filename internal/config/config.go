// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package config loads layered Pollwise configuration.
//
// Sources are applied in order, each overriding the previous one: built-in
// defaults, an optional YAML file, then command-line flags that were set
// explicitly. The database URL and JWT secret fall back to the
// DATABASE_URL and POLLWISE_JWT_SECRET environment variables when no other
// source provides them.
package config

import (
	"net/url"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/pollwise/pollwise/internal/auth"
)

// Environment variables consulted for secrets.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "POLLWISE_JWT_SECRET"
)

// Default values.
const (
	DefaultHTTPAddr        = ":5050"
	DefaultMetricsAddr     = "127.0.0.1:9100"
	DefaultLogFormat       = "json"
	DefaultBcryptCost      = 12
	DefaultErrorLogTimeout = 2 * time.Second
)

// Config is the complete runtime configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	ErrorLog ErrorLogConfig `koanf:"errorlog"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig configures the observability listener.
// An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures log output.
type LogConfig struct {
	Format string `koanf:"format"`
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig configures password hashing and access tokens.
type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	Hasher     string        `koanf:"hasher"`
	BcryptCost int           `koanf:"bcrypt_cost"`
}

// ErrorLogConfig configures the server fault sink.
type ErrorLogConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func defaults() map[string]any {
	return map[string]any{
		"http.addr":        DefaultHTTPAddr,
		"metrics.addr":     DefaultMetricsAddr,
		"log.format":       DefaultLogFormat,
		"database.url":     "",
		"auth.jwt_secret":  "",
		"auth.token_ttl":   auth.DefaultTokenTTL,
		"auth.hasher":      auth.HasherArgon2id,
		"auth.bcrypt_cost": DefaultBcryptCost,
		"errorlog.timeout": DefaultErrorLogTimeout,
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"hasher":       "auth.hasher",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http-addr", DefaultHTTPAddr, "API listen address")
	fs.String("metrics-addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("log-format", DefaultLogFormat, "log format (json or text)")
	fs.String("hasher", auth.HasherArgon2id, "password hasher (argon2id or bcrypt)")
}

// Loader loads configuration. Getenv defaults to os.Getenv.
type Loader struct {
	Getenv func(string) string
}

// Load reads configuration from path (skipped when empty) and flags
// (skipped when nil), then fills secrets from the environment.
// The result is not validated.
func (l Loader) Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = getenv(EnvDatabaseURL)
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = getenv(EnvJWTSecret)
	}
	return &cfg, nil
}

// Load is Loader{}.Load.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	return Loader{}.Load(path, flags)
}

// Validate checks the settings the API server depends on.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").With("key", "http.addr").Errorf("http.addr is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("key", "log.format").
			Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	switch c.Auth.Hasher {
	case auth.HasherArgon2id, auth.HasherBcrypt:
	default:
		return oops.Code("CONFIG_INVALID").
			With("key", "auth.hasher").
			Errorf("auth.hasher must be %q or %q, got %q", auth.HasherArgon2id, auth.HasherBcrypt, c.Auth.Hasher)
	}
	if len(c.Auth.JWTSecret) < auth.MinJWTSecretSize {
		return oops.Code("CONFIG_INVALID").
			With("key", "auth.jwt_secret").
			Errorf("auth.jwt_secret or %s must be at least %d bytes", EnvJWTSecret, auth.MinJWTSecretSize)
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "auth.token_ttl").Errorf("auth.token_ttl must be positive")
	}
	if c.ErrorLog.Timeout <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "errorlog.timeout").Errorf("errorlog.timeout must be positive")
	}
	return nil
}

// ValidateDatabase checks only what the database tooling commands need.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			With("key", "database.url").
			Errorf("database.url or %s is required", EnvDatabaseURL)
	}
	return nil
}

// Redacted returns a copy of c that is safe to log.
func (c Config) Redacted() Config {
	if c.Auth.JWTSecret != "" {
		c.Auth.JWTSecret = "REDACTED"
	}
	if c.Database.URL != "" {
		c.Database.URL = redactURL(c.Database.URL)
	}
	return c
}

// redactURL hides the password of a connection URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "REDACTED"
	}
	return u.Redacted()
}
