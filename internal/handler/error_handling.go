package handler

import (
	"errors"
	"net/http"
	"strconv"

	"monster-clicker/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Сообщения, которые клиент сравнивает по тексту.
const (
	msgInsufficientClicks = "Insufficient clicks to defeat monster"
	msgInternal           = "Internal server error"
)

func (h *BattleHandler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, models.ErrInsufficientClicks):
		statusCode = http.StatusBadRequest
		message = msgInsufficientClicks
	case errors.Is(err, models.ErrSessionAlreadyCompleted):
		statusCode = http.StatusBadRequest
		message = "Battle session already completed"
	case errors.Is(err, models.ErrLootNotAvailable):
		statusCode = http.StatusBadRequest
		message = "No loot available for this session"
	case errors.Is(err, models.ErrZoneLocked):
		statusCode = http.StatusForbidden
		message = "Zone is locked"
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrPlayerNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, models.ErrBattleStartInProgress):
		statusCode = http.StatusConflict
		message = "Battle start already in progress"
	case errors.Is(err, models.ErrLootAlreadySelected):
		statusCode = http.StatusConflict
		message = "Loot already selected"
	default:
		h.logger.Error("Unhandled internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = msgInternal
	}

	requestErrorsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Error: message})
}
