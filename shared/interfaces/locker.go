package interfaces

import (
	"context"
	"time"
)

// Locker - короткоживущая распределенная блокировка.
type Locker interface {
	// TryLock returns a release token or models.ErrLockNotAcquired.
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Unlock releases the lock only if token still owns it.
	Unlock(ctx context.Context, key, token string) error
}
