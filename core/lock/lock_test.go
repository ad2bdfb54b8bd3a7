package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis serves the commands the lock issues. Any other command panics.
type fakeRedis struct {
	redis.Cmdable

	mu      sync.Mutex
	owner   string
	extends int
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)
	if f.owner != "" {
		cmd.SetVal(false)
		return cmd
	}
	f.owner = value.(string)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeRedis) EvalSha(ctx context.Context, sha string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewCmd(ctx)
	if args[0].(string) != f.owner {
		cmd.SetVal(int64(0))
		return cmd
	}
	switch sha {
	case extendScript.Hash():
		f.extends++
	case releaseScript.Hash():
		f.owner = ""
	}
	cmd.SetVal(int64(1))
	return cmd
}

func (f *fakeRedis) state() (string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owner, f.extends
}

func TestRedis_Acquire(t *testing.T) {
	client := &fakeRedis{}
	locker := NewRedis(client, "test:")

	release, err := locker.Acquire(context.Background(), "Lux", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), "Lux", time.Minute)
	assert.True(t, errors.Is(err, ErrLocked))
	assert.ErrorContains(t, err, "test:Lux")

	release()
	owner, _ := client.state()
	assert.Empty(t, owner)
	assert.NotPanics(t, release)

	release, err = locker.Acquire(context.Background(), "Lux", time.Minute)
	require.NoError(t, err)
	release()
}

func TestRedis_HeldLockIsExtended(t *testing.T) {
	client := &fakeRedis{}
	locker := NewRedis(client, "test:")

	release, err := locker.Acquire(context.Background(), "Lux", 30*time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, extends := client.state()
		return extends >= 2
	}, time.Second, 5*time.Millisecond)

	release()
	_, extendsAtRelease := client.state()
	time.Sleep(50 * time.Millisecond)
	_, extendsLater := client.state()
	assert.Equal(t, extendsAtRelease, extendsLater)
}

func TestNop(t *testing.T) {
	release, err := Nop{}.Acquire(context.Background(), "cinema:Lux", time.Second)
	require.NoError(t, err)
	assert.NotPanics(t, release)
}

func TestNew(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		l, err := New(context.Background(), Config{})
		require.NoError(t, err)
		assert.IsType(t, Nop{}, l)
	})

	t.Run("Unreachable", func(t *testing.T) {
		l, err := New(context.Background(), Config{Enabled: true, Addr: "127.0.0.1:1"})
		assert.Nil(t, l)
		assert.ErrorContains(t, err, "failed to connect to redis")
	})
}
