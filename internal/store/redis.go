package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/logging"
)

// DefaultRedisPrefix namespaces every key the redis backend writes.
const DefaultRedisPrefix = "skillcoach"

// Redis stores each user/date as a list of JSON records, plus a per-user set
// of the list keys so PurgeUser can find them.
type Redis struct {
	opts RedisOptions
	log  *zap.Logger

	mu  sync.RWMutex
	rdb *goredis.Client

	// afterPurgeRead runs between the index read and the delete. Tests only.
	afterPurgeRead func()
}

var _ ResponseStore = (*Redis)(nil)

// NewRedis returns a store for the server in opts. Init connects.
func NewRedis(opts RedisOptions, log *zap.Logger) *Redis {
	if opts.Prefix == "" {
		opts.Prefix = DefaultRedisPrefix
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	return &Redis{opts: opts, log: logging.OrNop(log)}
}

func (r *Redis) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rdb != nil {
		return nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        r.opts.Addr,
		Password:    r.opts.Password,
		DB:          r.opts.DB,
		DialTimeout: r.opts.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, r.opts.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping: %w", err)
	}

	r.rdb = rdb
	r.log.Debug("redis store ready", zap.String("addr", r.opts.Addr), zap.String("prefix", r.opts.Prefix))
	return nil
}

func (r *Redis) client() (*goredis.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.rdb == nil {
		return nil, ErrStorageUnavailable
	}
	return r.rdb, nil
}

func (r *Redis) dayKey(userID, date string) string {
	return fmt.Sprintf("%s:responses:%s:%s", r.opts.Prefix, userID, date)
}

func (r *Redis) indexKey(userID string) string {
	return fmt.Sprintf("%s:days:%s", r.opts.Prefix, userID)
}

func (r *Redis) Save(ctx context.Context, rec Record) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	rdb, err := r.client()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	dayKey := r.dayKey(rec.UserID, rec.SessionDate)
	_, err = rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.RPush(ctx, dayKey, payload)
		p.SAdd(ctx, r.indexKey(rec.UserID), dayKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (r *Redis) QueryByDate(ctx context.Context, userID, date string) ([]Record, error) {
	rdb, err := r.client()
	if err != nil {
		return nil, err
	}
	raw, err := rdb.LRange(ctx, r.dayKey(userID, date), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}

	out := make([]Record, 0, len(raw))
	for i, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			r.log.Warn("skipping corrupt response entry",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	// List order is append order; concurrent writers may interleave.
	SortByTimestamp(out)
	return out, nil
}

// maxPurgeAttempts bounds retries when a concurrent Save touches the index.
const maxPurgeAttempts = 10

// PurgeUser deletes the index and every day list it names. The index is
// watched, so a Save that adds a day between the read and the delete aborts
// the transaction and the purge retries with the new key set.
func (r *Redis) PurgeUser(ctx context.Context, userID string) error {
	rdb, err := r.client()
	if err != nil {
		return err
	}
	idx := r.indexKey(userID)

	var days int
	purge := func(tx *goredis.Tx) error {
		keys, err := tx.SMembers(ctx, idx).Result()
		if err != nil {
			return fmt.Errorf("list response keys: %w", err)
		}
		if r.afterPurgeRead != nil {
			r.afterPurgeRead()
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Del(ctx, append(keys, idx)...)
			return nil
		})
		days = len(keys)
		return err
	}

	for attempt := 1; attempt <= maxPurgeAttempts; attempt++ {
		err := rdb.Watch(ctx, purge, idx)
		if err == nil {
			r.log.Info("purged responses", zap.String("user_id", userID), zap.Int("days", days))
			return nil
		}
		if !errors.Is(err, goredis.TxFailedErr) {
			return fmt.Errorf("purge responses: %w", err)
		}
		r.log.Debug("purge raced a save; retrying", zap.String("user_id", userID), zap.Int("attempt", attempt))
	}
	return fmt.Errorf("purge responses: %w", goredis.TxFailedErr)
}

func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rdb == nil {
		return nil
	}
	err := r.rdb.Close()
	r.rdb = nil
	return err
}
