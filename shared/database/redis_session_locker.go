package database

import (
	"context"
	"fmt"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ interfaces.Locker = (*redisLocker)(nil)

// Удаляем ключ, только если он все еще принадлежит владельцу токена
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`)

type redisLocker struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisLocker создает распределенную блокировку на Redis. Ключи получают префикс prefix.
func NewRedisLocker(client *redis.Client, prefix string, logger *zap.Logger) interfaces.Locker {
	return &redisLocker{
		client: client,
		prefix: prefix,
		logger: logger.Named("RedisLocker"),
	}
}

func (l *redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		l.logger.Error("Failed to acquire lock", zap.String("key", fullKey), zap.Error(err))
		return "", fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
	}
	if !ok {
		l.logger.Debug("Lock is held by another request", zap.String("key", fullKey))
		return "", models.ErrLockNotAcquired
	}
	return token, nil
}

func (l *redisLocker) Unlock(ctx context.Context, key, token string) error {
	fullKey := l.prefix + key

	released, err := releaseLockScript.Run(ctx, l.client, []string{fullKey}, token).Int()
	if err != nil {
		l.logger.Error("Failed to release lock", zap.String("key", fullKey), zap.Error(err))
		return fmt.Errorf("failed to release lock %s: %w", fullKey, err)
	}
	if released == 0 {
		// TTL истек, и ключ уже может принадлежать другому запросу
		l.logger.Warn("Lock was not owned on release", zap.String("key", fullKey))
	}
	return nil
}
