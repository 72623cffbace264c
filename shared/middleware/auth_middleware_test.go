package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"monster-clicker/shared/authutils"
	"monster-clicker/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	verifier, err := authutils.NewJWTVerifier(testSecret, zap.NewNop())
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", GinAuthMiddleware(verifier.VerifyToken, "", zap.NewNop()), func(c *gin.Context) {
		id, ok := UserIDFromGin(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		roles, _ := c.Request.Context().Value(models.RolesContextKey).([]string)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "roles": roles})
	})
	return router
}

func TestGinAuthMiddlewareAcceptsAnyRole(t *testing.T) {
	router := newAuthRouter(t)

	for name, roles := range map[string][]string{
		"player":   {models.RoleUser},
		"no roles": nil,
	} {
		t.Run(name, func(t *testing.T) {
			userID := uuid.New()
			token, err := authutils.SignToken(testSecret, userID, roles, time.Hour)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), userID.String())
		})
	}
}

func TestGinAuthMiddlewareRejects(t *testing.T) {
	router := newAuthRouter(t)

	expired, err := authutils.SignToken(testSecret, uuid.New(), []string{models.RoleUser}, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", "Unauthorized: Missing token"},
		{"garbage", "Bearer not-a-jwt", "Unauthorized: Invalid token"},
		{"expired", "Bearer " + expired, "Unauthorized: Token expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}
