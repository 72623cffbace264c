package memory

import (
	"context"
	"sync"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

var _ interfaces.Locker = (*Locker)(nil)

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// Locker - процессная замена Redis-блокировки.
type Locker struct {
	mu    sync.Mutex
	locks map[string]lockEntry
	now   func() time.Time
}

// NewLocker создает блокировку.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]lockEntry), now: time.Now}
}

func (l *Locker) TryLock(_ context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.locks[key]; ok && now.Before(e.expiresAt) {
		return "", models.ErrLockNotAcquired
	}
	token := uuid.NewString()
	l.locks[key] = lockEntry{token: token, expiresAt: now.Add(ttl)}
	return token, nil
}

func (l *Locker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.locks[key]; ok && e.token == token {
		delete(l.locks, key)
	}
	return nil
}
