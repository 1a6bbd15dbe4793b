package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("lock not acquired")
	ErrLockNotHeld     = errors.New("lock not held")
)

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Lock is a held distributed lock. Only the owner token can release it.
type Lock struct {
	client *Client
	key    string
	value  string
}

// Locker hands out SET NX locks under a key prefix.
type Locker struct {
	client    *Client
	keyPrefix string
	ttl       time.Duration
	wait      time.Duration
}

// NewLocker creates a Locker. ttl bounds how long a crashed holder blocks others and
// wait bounds how long Lock waits for a busy key.
func NewLocker(client *Client, keyPrefix string, ttl, wait time.Duration) *Locker {
	if keyPrefix == "" {
		keyPrefix = "lock:"
	}
	return &Locker{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		wait:      wait,
	}
}

func (l *Locker) acquire(ctx context.Context, key string) (*Lock, error) {
	lockKey := l.keyPrefix + key
	lockValue := uuid.New().String()

	ok, err := l.client.rdb.SetNX(ctx, lockKey, lockValue, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	l.client.logger.WithContext(ctx).Debugf("Acquired lock: %s", lockKey)
	return &Lock{client: l.client, key: lockKey, value: lockValue}, nil
}

// TryAcquire retries with capped exponential backoff until the wait elapses.
func (l *Locker) TryAcquire(ctx context.Context, key string) (*Lock, error) {
	deadline := time.Now().Add(l.wait)
	backoff := 10 * time.Millisecond

	for {
		lock, err := l.acquire(ctx, key)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > 500*time.Millisecond {
				backoff = 500 * time.Millisecond
			}
		}
	}
}

func (lock *Lock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, lock.client.rdb, []string{lock.key}, lock.value).Int64()
	if err != nil {
		return err
	}
	if result == 0 {
		return ErrLockNotHeld
	}

	lock.client.logger.WithContext(ctx).Debugf("Released lock: %s", lock.key)
	return nil
}

// WithLock runs fn while holding key.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := l.TryAcquire(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			l.client.logger.WithContext(ctx).WithError(err).Warnf("Failed to release lock: %s", lock.key)
		}
	}()

	return fn(ctx)
}
