package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/skillcoach/internal/logging"
)

// File stores records as JSON Lines, one append-only file per user.
type File struct {
	dir string
	log *zap.Logger

	mu    sync.Mutex
	ready bool
}

var _ ResponseStore = (*File)(nil)

// NewFile returns a store rooted at dir. Init creates the directory.
func NewFile(dir string, log *zap.Logger) *File {
	return &File{dir: dir, log: logging.OrNop(log)}
}

func (f *File) Init(_ context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f.mu.Lock()
	f.ready = true
	f.mu.Unlock()
	return nil
}

// userPath encodes the user id so arbitrary ids map to safe file names.
func (f *File) userPath(userID string) string {
	return filepath.Join(f.dir, base64.RawURLEncoding.EncodeToString([]byte(userID))+".jsonl")
}

func (f *File) Save(_ context.Context, rec Record) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return ErrStorageUnavailable
	}

	fh, err := os.OpenFile(f.userPath(rec.UserID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open response log: %w", err)
	}
	defer fh.Close()

	if _, err := fh.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append response: %w", err)
	}
	if err := fh.Sync(); err != nil {
		return fmt.Errorf("sync response log: %w", err)
	}
	return nil
}

func (f *File) QueryByDate(_ context.Context, userID, date string) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return nil, ErrStorageUnavailable
	}

	fh, err := os.Open(f.userPath(userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open response log: %w", err)
	}
	defer fh.Close()

	var out []Record
	rd := bufio.NewReader(fh)
	lineNo := 0
	for {
		// ReadBytes has no line length cap, so one oversized record cannot
		// hide the rest of the log.
		line, readErr := rd.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			line = bytes.TrimRight(line, "\r\n")
		}
		if len(line) > 0 {
			var r Record
			if err := json.Unmarshal(line, &r); err != nil {
				// A torn final write can leave a partial line.
				f.log.Warn("skipping corrupt response line",
					zap.String("user_id", userID),
					zap.Int("line", lineNo),
					zap.Error(err))
			} else if r.SessionDate == date {
				out = append(out, r)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read response log: %w", readErr)
		}
	}
	SortByTimestamp(out)
	return out, nil
}

func (f *File) PurgeUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return ErrStorageUnavailable
	}
	if err := os.Remove(f.userPath(userID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove response log: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	f.ready = false
	f.mu.Unlock()
	return nil
}
