package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/logging"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLite stores records in an embedded SQLite database.
type SQLite struct {
	dsn string
	log *zap.Logger

	mu sync.RWMutex
	db *sql.DB
}

var _ ResponseStore = (*SQLite)(nil)

// NewSQLite returns a store for the database at dsn. Init opens it.
func NewSQLite(dsn string, log *zap.Logger) *SQLite {
	return &SQLite{dsn: dsn, log: logging.OrNop(log)}
}

// Init opens the database, applies pragmas and creates the schema.
func (s *SQLite) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them all in effect.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	s.log.Debug("sqlite store ready", zap.String("dsn", s.dsn))
	return nil
}

func (s *SQLite) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrStorageUnavailable
	}
	return s.db, nil
}

func (s *SQLite) Save(ctx context.Context, rec Record) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	db, err := s.handle()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO responses (userId, sessionDate, skillId, skillName, response, "timestamp")
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.SessionDate, rec.SkillID, rec.SkillName, string(rec.Response), rec.TimestampMs,
	)
	if err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (s *SQLite) QueryByDate(ctx context.Context, userID, date string) ([]Record, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT userId, sessionDate, skillId, skillName, response, "timestamp"
		 FROM responses
		 WHERE userId = ? AND sessionDate = ?
		 ORDER BY "timestamp" ASC, id ASC`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var resp string
		if err := rows.Scan(&r.UserID, &r.SessionDate, &r.SkillID, &r.SkillName, &resp, &r.TimestampMs); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.Response = Response(resp)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return out, nil
}

func (s *SQLite) PurgeUser(ctx context.Context, userID string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM responses WHERE userId = ?`, userID)
	if err != nil {
		return fmt.Errorf("purge responses: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.log.Info("purged responses", zap.String("user_id", userID), zap.Int64("rows", n))
	}
	return nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
