package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/skillcoach/internal/logging"
	"github.com/abhisek/skillcoach/internal/store"
)

// Config holds all application configuration.
type Config struct {
	// User identifies whose responses are recorded and reported.
	User string `yaml:"user"`

	// LogMode selects the logger: "dev", "prod" or "off".
	LogMode string `yaml:"log_mode"`

	// LogFile receives log output when logging is on (stderr if empty).
	LogFile string `yaml:"log_file"`

	// RosterPath is the roster JSON file.
	RosterPath string `yaml:"roster"`

	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
}

// StoreConfig selects the response store backend.
type StoreConfig struct {
	// Backend is one of "sqlite", "file", "redis" or "memory".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file or the JSONL directory.
	Path string `yaml:"path"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	Prefix      string        `yaml:"prefix"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// SessionConfig tunes the live session driver.
type SessionConfig struct {
	// TickInterval is how often the driver polls the scheduler. Default: 1s.
	TickInterval time.Duration `yaml:"tick_interval"`

	// ResponseTimeout is how long a presented skill waits for an answer before
	// it is recorded as no-response. Zero waits until the next skill is due.
	ResponseTimeout time.Duration `yaml:"response_timeout"`
}

// DefaultConfig returns a Config with sensible defaults. Paths are filled in
// from dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		User:       "student",
		LogMode:    logging.ModeOff,
		RosterPath: filepath.Join(dataDir, "roster.json"),
		Store: StoreConfig{
			Backend: store.BackendSQLite,
			Path:    filepath.Join(dataDir, "skillcoach.db"),
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				Prefix:      store.DefaultRedisPrefix,
				DialTimeout: 5 * time.Second,
			},
		},
		Session: SessionConfig{
			TickInterval:    time.Second,
			ResponseTimeout: 2 * time.Minute,
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg. A missing file is not an error.
func LoadFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from SKILLCOACH_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("SKILLCOACH_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("SKILLCOACH_LOG"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("SKILLCOACH_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SKILLCOACH_ROSTER"); v != "" {
		cfg.RosterPath = v
	}
	if v := os.Getenv("SKILLCOACH_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("SKILLCOACH_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("SKILLCOACH_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("SKILLCOACH_REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if v := os.Getenv("SKILLCOACH_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SKILLCOACH_REDIS_DB: %w", err)
		}
		cfg.Store.Redis.DB = n
	}
	if v := os.Getenv("SKILLCOACH_RESPONSE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SKILLCOACH_RESPONSE_TIMEOUT: %w", err)
		}
		cfg.Session.ResponseTimeout = d
	}
	return nil
}

// Load resolves configuration: defaults, then the YAML file, then environment.
// An explicit configPath must exist; otherwise SKILLCOACH_CONFIG or
// <dataDir>/config.yaml is read if present.
func Load(configPath string) (Config, error) {
	dataDir, err := store.DefaultDataDir()
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig(dataDir)

	path := configPath
	if path == "" {
		path = os.Getenv("SKILLCOACH_CONFIG")
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
	} else {
		path = filepath.Join(dataDir, "config.yaml")
	}

	if err := LoadFile(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.User == "" {
		return errors.New("user is required")
	}
	switch c.Store.Backend {
	case store.BackendSQLite, store.BackendFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis backend")
		}
	case store.BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Session.TickInterval <= 0 {
		return errors.New("session.tick_interval must be positive")
	}
	if c.Session.ResponseTimeout < 0 {
		return errors.New("session.response_timeout must not be negative")
	}
	return nil
}

// StoreOptions converts the store section for store.New.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Path:    c.Store.Path,
		Redis: store.RedisOptions{
			Addr:        c.Store.Redis.Addr,
			Password:    c.Store.Redis.Password,
			DB:          c.Store.Redis.DB,
			Prefix:      c.Store.Redis.Prefix,
			DialTimeout: c.Store.Redis.DialTimeout,
		},
	}
}
