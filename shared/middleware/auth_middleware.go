package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"monster-clicker/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultAuthCookie - cookie с токеном, которую ставит сервис авторизации.
const DefaultAuthCookie = "token"

const userIDKey = models.UserContextKey

// TokenVerifier проверяет строку токена и возвращает claims.
// Ошибки могут быть models.ErrTokenInvalid, models.ErrTokenExpired, models.ErrTokenMalformed.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// GinAuthMiddleware проверяет JWT из заголовка Authorization (Bearer) или из cookie
// и кладет UserID и роли в контекст gin и в контекст запроса.
func GinAuthMiddleware(verifier TokenVerifier, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultAuthCookie
	}
	logger = logger.Named("AuthMiddleware")

	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))

		tokenString, ok := extractToken(c, cookieName)
		if !ok {
			log.Debug("Auth token missing")
			abortUnauthorized(c, "Unauthorized: Missing token")
			return
		}

		claims, err := verifier(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrTokenExpired):
				abortUnauthorized(c, "Unauthorized: Token expired")
			case errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenInvalid):
				abortUnauthorized(c, "Unauthorized: Invalid token")
			default:
				log.Error("Unexpected token verification error", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
			}
			log.Warn("Token verification failed", zap.Error(err))
			return
		}

		c.Set(string(models.UserContextKey), claims.UserID)
		c.Set(string(models.RolesContextKey), claims.Roles)
		ctx := context.WithValue(c.Request.Context(), models.UserContextKey, claims.UserID)
		ctx = context.WithValue(ctx, models.RolesContextKey, claims.Roles)
		c.Request = c.Request.WithContext(ctx)

		log.Debug("User authorized", zap.Stringer("userID", claims.UserID))
		c.Next()
	}
}

// UserIDFromGin возвращает UserID, положенный GinAuthMiddleware.
func UserIDFromGin(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(string(models.UserContextKey))
	if !ok {
		return models.GetUserIDFromContext(c.Request.Context())
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func extractToken(c *gin.Context, cookieName string) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1]), true
		}
		return "", false
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: msg})
}
