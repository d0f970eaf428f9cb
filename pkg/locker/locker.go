// Package locker provides distributed locks so that only one catalog instance
// runs a given job (provider sync, manual re-sync) at a time.
package locker

import (
	"context"
	"errors"
	"time"
)

// ErrNotHeld is returned by Extend when this instance does not own the lock.
var ErrNotHeld = errors.New("lock not held by this instance")

// DistributedLocker provides named locks shared across instances.
// Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false, nil when another
	// instance holds it. The lock expires after ttl unless released or extended.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Extend resets the expiry of a lock owned by this instance.
	Extend(ctx context.Context, key string) error

	// Release gives up the lock. Releasing a lock this instance does not own
	// is a no-op.
	Release(ctx context.Context, key string) error
}

// WithLock runs fn while holding key. ran is false when the lock was taken by
// another instance, in which case fn is not called. The lock is extended every
// half ttl until fn returns.
func WithLock(ctx context.Context, l DistributedLocker, key string, ttl time.Duration, fn func(ctx context.Context) error) (ran bool, err error) {
	acquired, err := l.Acquire(ctx, key, ttl)
	if err != nil || !acquired {
		return false, err
	}
	defer func() {
		if relErr := l.Release(context.WithoutCancel(ctx), key); relErr != nil && err == nil {
			err = relErr
		}
	}()

	stop := make(chan struct{})
	done := make(chan struct{})
	go heartbeat(ctx, l, key, ttl/2, stop, done)
	defer func() {
		close(stop)
		<-done
	}()

	return true, fn(ctx)
}

func heartbeat(ctx context.Context, l DistributedLocker, key string, every time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.Extend(ctx, key); err != nil {
				return
			}
		}
	}
}
