package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCase struct {
	name string
	new  func(t *testing.T) ResponseStore
}

func backends() []backendCase {
	return []backendCase{
		{"memory", func(t *testing.T) ResponseStore {
			return NewMemory()
		}},
		{"file", func(t *testing.T) ResponseStore {
			return NewFile(filepath.Join(t.TempDir(), "responses"), nil)
		}},
		{"sqlite", func(t *testing.T) ResponseStore {
			return NewSQLite(filepath.Join(t.TempDir(), "skillcoach.db"), nil)
		}},
		{"redis", func(t *testing.T) ResponseStore {
			mr := miniredis.RunT(t)
			return NewRedis(RedisOptions{Addr: mr.Addr()}, nil)
		}},
	}
}

func openBackend(t *testing.T, bc backendCase) ResponseStore {
	t.Helper()
	s := bc.new(t)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(user, date, skill string, resp Response, ts int64) Record {
	return Record{
		UserID:      user,
		SessionDate: date,
		SkillID:     skill,
		SkillName:   "Skill " + skill,
		Response:    resp,
		TimestampMs: ts,
	}
}

func TestBackends_SaveBeforeInit(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := bc.new(t)
			err := s.Save(context.Background(), rec("u1", "2025-03-10", "s1", ResponseYes, 1))
			assert.ErrorIs(t, err, ErrStorageUnavailable)

			_, err = s.QueryByDate(context.Background(), "u1", "2025-03-10")
			assert.ErrorIs(t, err, ErrStorageUnavailable)
		})
	}
}

func TestBackends_SaveAfterClose(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := bc.new(t)
			require.NoError(t, s.Init(context.Background()))
			require.NoError(t, s.Close())

			err := s.Save(context.Background(), rec("u1", "2025-03-10", "s1", ResponseYes, 1))
			assert.ErrorIs(t, err, ErrStorageUnavailable)
		})
	}
}

func TestBackends_RoundTripOrderedByTimestamp(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := openBackend(t, bc)
			ctx := context.Background()

			// Saved out of timestamp order.
			require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseNo, 300)))
			require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s2", ResponseYes, 100)))
			require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseNone, 200)))
			require.NoError(t, s.Save(ctx, rec("u1", "2025-03-11", "s1", ResponseYes, 400)))
			require.NoError(t, s.Save(ctx, rec("u2", "2025-03-10", "s1", ResponseYes, 50)))

			got, err := s.QueryByDate(ctx, "u1", "2025-03-10")
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, int64(100), got[0].TimestampMs)
			assert.Equal(t, int64(200), got[1].TimestampMs)
			assert.Equal(t, int64(300), got[2].TimestampMs)
			assert.Equal(t, rec("u1", "2025-03-10", "s1", ResponseNone, 200), got[1])
		})
	}
}

func TestBackends_DuplicateRecordsKept(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := openBackend(t, bc)
			ctx := context.Background()
			r := rec("u1", "2025-03-10", "s1", ResponseYes, 100)
			require.NoError(t, s.Save(ctx, r))
			require.NoError(t, s.Save(ctx, r))

			got, err := s.QueryByDate(ctx, "u1", "2025-03-10")
			require.NoError(t, err)
			assert.Len(t, got, 2, "appends never overwrite")
		})
	}
}

func TestBackends_EmptyQuery(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := openBackend(t, bc)
			got, err := s.QueryByDate(context.Background(), "nobody", "2025-03-10")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestBackends_PurgeUser(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := openBackend(t, bc)
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseYes, 1)))
			require.NoError(t, s.Save(ctx, rec("u1", "2025-03-11", "s1", ResponseYes, 2)))
			require.NoError(t, s.Save(ctx, rec("u2", "2025-03-10", "s1", ResponseNo, 3)))

			require.NoError(t, s.PurgeUser(ctx, "u1"))
			require.NoError(t, s.PurgeUser(ctx, "never-existed"))

			for _, d := range []string{"2025-03-10", "2025-03-11"} {
				got, err := s.QueryByDate(ctx, "u1", d)
				require.NoError(t, err)
				assert.Empty(t, got)
			}
			got, err := s.QueryByDate(ctx, "u2", "2025-03-10")
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestBackends_RejectInvalidRecord(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := openBackend(t, bc)
			err := s.Save(context.Background(), rec("", "2025-03-10", "s1", ResponseYes, 1))
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestBackends_ConcurrentUsers(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s := openBackend(t, bc)
			ctx := context.Background()

			var wg sync.WaitGroup
			errs := make(chan error, 40)
			for u := 0; u < 4; u++ {
				wg.Add(1)
				go func(u int) {
					defer wg.Done()
					for i := 0; i < 10; i++ {
						user := fmt.Sprintf("user-%d", u)
						errs <- s.Save(ctx, rec(user, "2025-03-10", fmt.Sprintf("s%d", i), ResponseYes, int64(i)))
					}
				}(u)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			for u := 0; u < 4; u++ {
				got, err := s.QueryByDate(ctx, fmt.Sprintf("user-%d", u), "2025-03-10")
				require.NoError(t, err)
				assert.Len(t, got, 10)
			}
		})
	}
}

func TestFile_SkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	s := NewFile(dir, nil)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseYes, 1)))

	fh, err := os.OpenFile(s.userPath("u1"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = fh.WriteString(`{"userId":"u1","sessionDa`)
	require.NoError(t, err)
	require.NoError(t, fh.Close())

	got, err := s.QueryByDate(ctx, "u1", "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFile_LongRecordDoesNotHideOtherDays(t *testing.T) {
	s := NewFile(t.TempDir(), nil)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseYes, 1)))

	long := rec("u1", "2025-03-11", "s2", ResponseNo, 2)
	long.SkillName = strings.Repeat("x", 70000)
	require.NoError(t, s.Save(ctx, long))

	got, err := s.QueryByDate(ctx, "u1", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SkillID)

	got, err = s.QueryByDate(ctx, "u1", "2025-03-11")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].SkillName, 70000)
}

func TestFile_UserIDsMapToSafeNames(t *testing.T) {
	s := NewFile(t.TempDir(), nil)
	p := s.userPath("../../etc/passwd")
	assert.Equal(t, s.dir, filepath.Dir(p))
}

func TestSQLite_PragmasApplied(t *testing.T) {
	s := NewSQLite(filepath.Join(t.TempDir(), "p.db"), nil)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestSQLite_RejectsUnknownResponseAtSchemaLevel(t *testing.T) {
	s := NewSQLite(filepath.Join(t.TempDir(), "c.db"), nil)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })

	_, err := s.db.Exec(`INSERT INTO responses (userId, sessionDate, skillId, response, "timestamp")
		VALUES ('u', '2025-03-10', 's', 'maybe', 1)`)
	assert.Error(t, err)
}

func TestSQLite_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.db")
	ctx := context.Background()

	s := NewSQLite(path, nil)
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseYes, 1)))
	require.NoError(t, s.Close())

	s2 := NewSQLite(path, nil)
	require.NoError(t, s2.Init(ctx))
	t.Cleanup(func() { s2.Close() })
	got, err := s2.QueryByDate(ctx, "u1", "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRedis_InitFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	s := NewRedis(RedisOptions{Addr: addr, DialTimeout: 200 * time.Millisecond}, nil)
	err := s.Init(context.Background())
	require.Error(t, err)

	err = s.Save(context.Background(), rec("u1", "2025-03-10", "s1", ResponseYes, 1))
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

func TestRedis_KeyLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedis(RedisOptions{Addr: mr.Addr(), Prefix: "test"}, nil)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseYes, 1)))
	assert.True(t, mr.Exists("test:responses:u1:2025-03-10"))
	members, err := mr.SMembers("test:days:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"test:responses:u1:2025-03-10"}, members)
}

func TestRedis_PurgeRetriesWhenSaveAddsDay(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedis(RedisOptions{Addr: mr.Addr(), Prefix: "test"}, nil)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Save(ctx, rec("u1", "2025-03-10", "s1", ResponseYes, 1)))

	reads := 0
	s.afterPurgeRead = func() {
		reads++
		if reads == 1 {
			require.NoError(t, s.Save(ctx, rec("u1", "2025-03-11", "s1", ResponseNo, 2)))
		}
	}
	require.NoError(t, s.PurgeUser(ctx, "u1"))

	assert.Equal(t, 2, reads, "the racing save forces a second read")
	assert.Empty(t, mr.Keys())
}

func TestNewAndOpen(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"memory", Options{Backend: BackendMemory}, false},
		{"file", Options{Backend: BackendFile, Path: t.TempDir()}, false},
		{"sqlite", Options{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "x.db")}, false},
		{"default is sqlite", Options{Path: filepath.Join(t.TempDir(), "y.db")}, false},
		{"file without path", Options{Backend: BackendFile}, true},
		{"sqlite without path", Options{Backend: BackendSQLite}, true},
		{"redis without addr", Options{Backend: BackendRedis}, true},
		{"unknown", Options{Backend: "cassandra"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.opts, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}
