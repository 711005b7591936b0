package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ErrStorageUnavailable is returned when the backend has not been initialized
// (or has been closed). Callers keep the in-memory session going and tell the
// user history will not be retained.
var ErrStorageUnavailable = errors.New("response storage unavailable")

// ErrInvalidRecord is returned by Save for records missing required fields.
var ErrInvalidRecord = errors.New("invalid response record")

// ResponseStore persists append-only response records.
type ResponseStore interface {
	// Init prepares the backend. It must be called before Save or QueryByDate.
	Init(ctx context.Context) error

	// Save appends a record. Records are never overwritten.
	Save(ctx context.Context, rec Record) error

	// QueryByDate returns the user's records for date, ordered by timestamp.
	// Backends return read failures as errors. Callers that must fail closed
	// to an empty day, as progress.Loader does, handle that themselves.
	QueryByDate(ctx context.Context, userID, date string) ([]Record, error)

	// PurgeUser irreversibly deletes every record for userID.
	PurgeUser(ctx context.Context, userID string) error

	// Close releases the backend. Later calls return ErrStorageUnavailable.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Path is the SQLite DSN/file for "sqlite" or the directory for "file".
	Path string

	Redis RedisOptions
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// New constructs (but does not initialize) the backend named in opts.
func New(opts Options, log *zap.Logger) (ResponseStore, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("file backend: path is required")
		}
		return NewFile(opts.Path, log), nil
	case "", BackendSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite backend: path is required")
		}
		return NewSQLite(opts.Path, log), nil
	case BackendRedis:
		if opts.Redis.Addr == "" {
			return nil, fmt.Errorf("redis backend: address is required")
		}
		return NewRedis(opts.Redis, log), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// Open constructs and initializes the backend named in opts.
func Open(ctx context.Context, opts Options, log *zap.Logger) (ResponseStore, error) {
	s, err := New(opts, log)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("init %s store: %w", opts.Backend, err)
	}
	return s, nil
}

// DefaultDataDir resolves the data directory in priority order:
// 1. $XDG_DATA_HOME/skillcoach
// 2. ~/.local/share/skillcoach
func DefaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "skillcoach"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
