package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"child-survey/internal/domain"
)

// WriterLock serializa escritores entre procesos. Acquire devuelve la funcion de liberacion.
type WriterLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}

type noopWriterLock struct{}

// NewNoopWriterLock sirve cuando un solo proceso escribe el archivo.
func NewNoopWriterLock() WriterLock { return noopWriterLock{} }

func (noopWriterLock) Acquire(context.Context) (func(), error) { return func() {}, nil }

const redisLockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLocker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisWriterLock es un lock de corta vida con SET NX PX y token propio.
type RedisWriterLock struct {
	client redisLocker
	key    string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisWriterLock crea el lock sobre key. wait es cuanto se reintenta antes de devolver
// ErrStoreLocked; cero falla a la primera. Sin cliente devuelve el lock de un solo proceso.
func NewRedisWriterLock(client *redis.Client, key string, ttl, wait time.Duration) WriterLock {
	if client == nil {
		return NewNoopWriterLock()
	}
	return newRedisWriterLock(client, key, ttl, wait)
}

func newRedisWriterLock(client redisLocker, key string, ttl, wait time.Duration) *RedisWriterLock {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if key == "" {
		key = "childsurvey:store:lock"
	}
	return &RedisWriterLock{
		client: client,
		key:    key,
		ttl:    ttl,
		wait:   wait,
		retry:  50 * time.Millisecond,
	}
}

func (l *RedisWriterLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: redis lock: %v", domain.ErrStoreUnavailable, err)
		}
		if ok {
			return func() { l.release(token) }, nil
		}
		if !time.Now().Before(deadline) {
			return nil, domain.ErrStoreLocked
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisWriterLock) release(token string) {
	// el contexto de la peticion puede estar cancelado; la liberacion va aparte
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = l.client.Eval(ctx, redisLockReleaseScript, []string{l.key}, token).Err()
}
