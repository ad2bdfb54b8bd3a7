package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another holder owns the key.
var ErrLocked = errors.New("lock is held by another process")

// Locker acquires short-lived exclusive locks keyed by name.
type Locker interface {
	// Acquire takes the lock for ttl. The returned release func is safe to call once the work is done.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// Nop never blocks. It is used when redis is disabled; the database unique
// constraints still reject duplicate writers.
type Nop struct{}

// Acquire always succeeds.
func (Nop) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript pushes the expiry forward only while the key still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis implements Locker with SET NX PX. A held lock is extended every third of
// its ttl until released, so a long cinema transaction keeps it. If redis becomes
// unreachable the lock expires and the database unique constraints remain the
// only guard against a second writer.
type Redis struct {
	client redis.Cmdable
	prefix string
}

// NewRedis wraps an existing redis client.
func NewRedis(client redis.Cmdable, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Acquire sets the key if absent. ErrLocked is returned when it is already held.
// The returned release func stops the refresh and deletes the key; calling it
// more than once is harmless.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	fullKey := r.prefix + key
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", fullKey, ErrLocked)
	}

	refreshCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.keepAlive(refreshCtx, fullKey, token, ttl)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			<-done

			// Use a fresh context: the caller's may already be cancelled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, r.client, []string{fullKey}, token).Err()
		})
	}, nil
}

// keepAlive extends the lock until ctx is cancelled or the token no longer owns key.
func (r *Redis) keepAlive(ctx context.Context, key, token string, ttl time.Duration) {
	interval := ttl / 3
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			extended, err := extendScript.Run(ctx, r.client, []string{key}, token, ttl.Milliseconds()).Int64()
			if err != nil {
				// Transient; the next tick retries while the key has not expired.
				continue
			}
			if extended == 0 {
				return
			}
		}
	}
}

// New builds a Locker from configuration. A disabled config yields Nop.
// An unreachable redis is reported as an error so callers can decide to fall back.
func New(ctx context.Context, cfg Config) (Locker, error) {
	if !cfg.Enabled {
		return Nop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedis(client, "showtimes:lock:"), nil
}
