package redis_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/internal/testutil"
	"github.com/Ramsey-B/fern/pkg/redis"
)

func getTestClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	host, port := testutil.StartRedis(t)

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	client, err := redis.NewClient(context.Background(), redis.Config{Host: host, Port: port}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestLocker(t *testing.T) {
	client := getTestClient(t)
	ctx := context.Background()

	t.Run("second holder waits then gives up", func(t *testing.T) {
		locker := redis.NewLocker(client, "fern:lock:", time.Second, 50*time.Millisecond)
		first, err := locker.TryAcquire(ctx, "config:a")
		require.NoError(t, err)

		_, err = locker.TryAcquire(ctx, "config:a")
		assert.ErrorIs(t, err, redis.ErrLockNotAcquired)

		require.NoError(t, first.Release(ctx))
		assert.ErrorIs(t, first.Release(ctx), redis.ErrLockNotHeld)

		again, err := locker.TryAcquire(ctx, "config:a")
		require.NoError(t, err)
		require.NoError(t, again.Release(ctx))
	})

	t.Run("with lock serializes holders", func(t *testing.T) {
		locker := redis.NewLocker(client, "fern:lock:", 5*time.Second, 5*time.Second)

		var inside, maxInside int32
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := locker.WithLock(ctx, "config:b", func(context.Context) error {
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), maxInside)
	})

	t.Run("with lock returns fn error and releases", func(t *testing.T) {
		locker := redis.NewLocker(client, "fern:lock:", time.Second, 50*time.Millisecond)
		boom := errors.New("boom")
		assert.ErrorIs(t, locker.WithLock(ctx, "config:c", func(context.Context) error { return boom }), boom)
		assert.NoError(t, locker.WithLock(ctx, "config:c", func(context.Context) error { return nil }))
	})
}
