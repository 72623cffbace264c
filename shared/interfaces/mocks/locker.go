package mocks

import (
	"context"
	"time"

	"monster-clicker/shared/interfaces"

	"github.com/stretchr/testify/mock"
)

// Mock Locker
type Locker struct {
	mock.Mock
}

var _ interfaces.Locker = (*Locker)(nil)

func (m *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *Locker) Unlock(ctx context.Context, key, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}
