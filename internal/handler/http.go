// Package handler содержит HTTP API сервиса боев.
package handler

import (
	"net/http"

	"monster-clicker/internal/service"
	sharedMiddleware "monster-clicker/shared/middleware"
	"monster-clicker/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BattleHandler обрабатывает HTTP запросы боев и профиля игрока.
type BattleHandler struct {
	service service.BattleService
	logger  *zap.Logger
}

// NewBattleHandler создает новый BattleHandler.
func NewBattleHandler(s service.BattleService, logger *zap.Logger) *BattleHandler {
	return &BattleHandler{
		service: s,
		logger:  logger.Named("BattleHandler"),
	}
}

// RegisterRoutes регистрирует маршруты. authMiddleware защищает все /api маршруты,
// battleMiddleware (например, rate limiter) применяется к /api/battle после него.
func (h *BattleHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc, battleMiddleware ...gin.HandlerFunc) {
	router.GET("/health", h.health)
	router.HEAD("/health", h.health)

	api := router.Group("/api", authMiddleware)

	battleGroup := api.Group("/battle", battleMiddleware...)
	{
		battleGroup.POST("/start", h.startBattle)
		battleGroup.POST("/begin", h.beginBattle)
		battleGroup.POST("/complete", h.completeBattle)
		battleGroup.POST("/death", h.reportDeath)
		battleGroup.POST("/loot", h.selectLoot)
		battleGroup.GET("/active", h.getActiveBattle)
		battleGroup.GET("/history", h.listHistory)
	}

	playerGroup := api.Group("/player")
	{
		playerGroup.GET("/stats", h.getPlayerStats)
		playerGroup.PUT("/challenge", h.setChallenge)
		playerGroup.DELETE("/challenge", h.clearChallenge)
	}
}

func (h *BattleHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Вспомогательные функции --- //

// playerIDFromContext извлекает ID игрока, установленный auth middleware.
func (h *BattleHandler) playerIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	playerID, ok := sharedMiddleware.UserIDFromGin(c)
	if !ok {
		h.logger.Error("User ID missing in context after auth middleware", zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return uuid.Nil, false
	}
	return playerID, true
}

// parseSessionID разбирает sessionId из тела запроса.
func parseSessionID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, models.ErrInvalidInput
	}
	return id, nil
}

// bindJSON разбирает тело запроса и отвечает 400 при ошибке.
func (h *BattleHandler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.rejectBody(c, err)
		return false
	}
	return true
}

func (h *BattleHandler) rejectBody(c *gin.Context, err error) {
	h.logger.Debug("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	requestErrorsTotal.WithLabelValues("400").Inc()
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
}
