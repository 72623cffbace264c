package handler

import (
	"net/http"
	"time"

	sharedMiddleware "monster-clicker/shared/middleware"
	"monster-clicker/shared/models"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRateLimiter ограничивает число запросов игрока в минуту. Счетчики живут
// в Redis, а без клиента в памяти процесса.
func NewRateLimiter(client *redis.Client, perMinute uint, logger *zap.Logger) gin.HandlerFunc {
	var store ratelimit.Store
	if client != nil {
		store = ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        time.Minute,
			Limit:       perMinute,
		})
	} else {
		store = ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  time.Minute,
			Limit: perMinute,
		})
	}

	log := logger.Named("RateLimiter")
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			log.Warn("Rate limit exceeded",
				zap.String("key", rateLimitKey(c)),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path))
			requestErrorsTotal.WithLabelValues("429").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "Too many requests"})
		},
		KeyFunc: rateLimitKey,
	})
}

// rateLimitKey - ID игрока после auth middleware, иначе IP клиента.
func rateLimitKey(c *gin.Context) string {
	if playerID, ok := sharedMiddleware.UserIDFromGin(c); ok {
		return "player:" + playerID.String()
	}
	return "ip:" + c.ClientIP()
}
