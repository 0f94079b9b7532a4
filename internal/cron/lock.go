package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 10 * time.Minute

// Lock gates a sweep run so only one worker replica executes it at a time.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock holds a lease in Redis under an environment-scoped key. Each
// process carries a fixed owner token so a replica never deletes a lease it
// lost to the TTL.
type RedisLock struct {
	store lockStore
	key   string
	ttl   time.Duration
	owner string
	held  bool
}

// NewRedisLock builds a lease keyed by key. A non-positive ttl falls back to
// ten minutes, long enough to cover a full reconcile sweep.
func NewRedisLock(store lockStore, key string, ttl time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, errors.New("redis store required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{
		store: store,
		key:   key,
		ttl:   ttl,
		owner: uuid.NewString(),
	}, nil
}

// Acquire attempts to take the lease. It reports false without error when
// another replica holds it.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	taken, err := l.store.SetNX(ctx, l.key, l.owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", l.key, err)
	}
	l.held = taken
	return taken, nil
}

// Release drops the lease if this process still owns it. A lease that expired
// and was re-acquired elsewhere is left alone.
func (l *RedisLock) Release(ctx context.Context) error {
	if !l.held {
		return nil
	}
	l.held = false
	current, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read lease %s: %w", l.key, err)
	}
	if current != l.owner {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release lease %s: %w", l.key, err)
	}
	return nil
}
