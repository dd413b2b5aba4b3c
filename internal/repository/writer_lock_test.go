package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"child-survey/internal/domain"
)

type mockRedisLocker struct {
	free     []bool
	setErr   error
	calls    int
	lastKey  string
	lastTTL  time.Duration
	tokens   []interface{}
	released []interface{}
	script   string
}

func (m *mockRedisLocker) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.calls++
	m.lastKey = key
	m.lastTTL = expiration
	m.tokens = append(m.tokens, value)
	cmd := redis.NewBoolCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	ok := false
	if len(m.free) > 0 {
		ok = m.free[0]
		m.free = m.free[1:]
	}
	cmd.SetVal(ok)
	return cmd
}

func (m *mockRedisLocker) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.script = script
	m.released = append(m.released, args...)
	cmd := redis.NewCmd(ctx)
	cmd.SetVal(int64(1))
	return cmd
}

func TestRedisWriterLockAcquireAndRelease(t *testing.T) {
	mock := &mockRedisLocker{free: []bool{true}}
	l := newRedisWriterLock(mock, "survey:lock", 3*time.Second, 0)

	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected lock, got %v", err)
	}
	if mock.lastKey != "survey:lock" || mock.lastTTL != 3*time.Second {
		t.Fatalf("unexpected SET NX args: key=%s ttl=%v", mock.lastKey, mock.lastTTL)
	}

	release()
	if mock.script != redisLockReleaseScript {
		t.Fatalf("expected compare-and-delete script on release")
	}
	if len(mock.released) != 1 || mock.released[0] != mock.tokens[0] {
		t.Fatalf("expected release with the acquired token, got %v vs %v", mock.released, mock.tokens)
	}
}

func TestRedisWriterLockContention(t *testing.T) {
	t.Run("fail fast without wait", func(t *testing.T) {
		mock := &mockRedisLocker{free: []bool{false}}
		l := newRedisWriterLock(mock, "", 0, 0)
		_, err := l.Acquire(context.Background())
		if !errors.Is(err, domain.ErrStoreLocked) {
			t.Fatalf("expected ErrStoreLocked, got %v", err)
		}
		if mock.lastKey != "childsurvey:store:lock" || mock.lastTTL != 5*time.Second {
			t.Fatalf("expected defaults, got key=%s ttl=%v", mock.lastKey, mock.lastTTL)
		}
	})

	t.Run("retry until free", func(t *testing.T) {
		mock := &mockRedisLocker{free: []bool{false, false, true}}
		l := newRedisWriterLock(mock, "k", time.Second, time.Second)
		l.retry = time.Millisecond
		if _, err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("expected lock after retries, got %v", err)
		}
		if mock.calls != 3 {
			t.Fatalf("expected 3 attempts, got %d", mock.calls)
		}
	})

	t.Run("redis error is unavailable", func(t *testing.T) {
		mock := &mockRedisLocker{setErr: errors.New("connection refused")}
		l := newRedisWriterLock(mock, "k", time.Second, 0)
		_, err := l.Acquire(context.Background())
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			t.Fatalf("expected ErrStoreUnavailable, got %v", err)
		}
	})
}

func TestNewRedisWriterLockNilClient(t *testing.T) {
	lock := NewRedisWriterLock(nil, "k", time.Second, 0)
	if lock == nil {
		t.Fatalf("expected a usable lock for nil client")
	}
	release, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	release()

	repo := newTestCSVRepo(t, filepath.Join(t.TempDir(), "s.csv"), CSVOptions{Lock: lock})
	if _, err := repo.Append(context.Background(), sampleRecord("A")); err != nil {
		t.Fatalf("append with nil-client lock: %v", err)
	}
}
