package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/restify/pkg/logger"
)

// Session store kinds.
const (
	storeMemory   = "memory"
	storeFile     = "file"
	storeRedis    = "redis"
	storePostgres = "postgres"
)

var (
	ErrReadConfig   = errors.New("restify: failed to read config")
	ErrParseConfig  = errors.New("restify: failed to parse config")
	ErrInvalidStore = errors.New("restify: unknown session store")
	ErrMissingURL   = errors.New("restify: session store needs a connection url")
	ErrInvalidEnv   = errors.New("restify: invalid environment override")
)

type Config struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowOrigin     string        `yaml:"allow_origin"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`

	Log     LogConfig           `yaml:"log"`
	Sentry  logger.SentryConfig `yaml:"sentry"`
	Session SessionConfig       `yaml:"session"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`
}

type LogConfig struct {
	Level  string        `yaml:"level"`
	Format logger.Format `yaml:"format"`
}

type SessionConfig struct {
	// Store is one of memory, file, redis or postgres.
	Store  string `yaml:"store"`
	Dir    string `yaml:"dir"`
	MaxAge int    `yaml:"max_age"`
	Secure bool   `yaml:"secure"`

	// SweepSchedule is a cron expression; empty disables sweeping.
	SweepSchedule string        `yaml:"sweep_schedule"`
	SweepIdle     time.Duration `yaml:"sweep_idle"`
}

func defaultConfig() Config {
	return Config{
		Address:         ":8080",
		ShutdownTimeout: 30 * time.Second,
		AllowOrigin:     "*",
		MaxBodyBytes:    10 << 20,
		RequestTimeout:  30 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: logger.FormatJSON,
		},
		Sentry: logger.SentryConfig{
			Environment: "development",
		},
		Session: SessionConfig{
			Store:         storeMemory,
			Dir:           os.TempDir(),
			SweepSchedule: "@every 10m",
			SweepIdle:     24 * time.Hour,
		},
	}
}

// loadConfig reads the YAML file at path on top of the defaults, then
// applies environment overrides. An empty path skips the file.
func loadConfig(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Join(ErrReadConfig, err)
		}
		if err := decodeConfig(bytes.NewReader(raw), &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(ErrParseConfig, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"RESTIFY_ADDRESS":       &cfg.Address,
		"RESTIFY_ALLOW_ORIGIN":  &cfg.AllowOrigin,
		"RESTIFY_LOG_LEVEL":     &cfg.Log.Level,
		"RESTIFY_SESSION_STORE": &cfg.Session.Store,
		"RESTIFY_SESSION_DIR":   &cfg.Session.Dir,
		"REDIS_URL":             &cfg.RedisURL,
		"DATABASE_URL":          &cfg.DatabaseURL,
		"SENTRY_DSN":            &cfg.Sentry.DSN,
		"SENTRY_ENVIRONMENT":    &cfg.Sentry.Environment,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("RESTIFY_SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Join(ErrInvalidEnv, fmt.Errorf("RESTIFY_SHUTDOWN_TIMEOUT: %w", err))
		}
		cfg.ShutdownTimeout = d
	}
	if v, ok := lookup("RESTIFY_MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Join(ErrInvalidEnv, fmt.Errorf("RESTIFY_MAX_BODY_BYTES: %w", err))
		}
		cfg.MaxBodyBytes = n
	}
	return nil
}

func (c Config) validate() error {
	switch c.Session.Store {
	case storeMemory, storeFile:
		return nil
	case storeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: %s", ErrMissingURL, storeRedis)
		}
		return nil
	case storePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: %s", ErrMissingURL, storePostgres)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStore, c.Session.Store)
	}
}

// level maps the configured name to a slog level; unknown names mean info.
func (c LogConfig) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
