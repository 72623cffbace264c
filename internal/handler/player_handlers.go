package handler

import (
	"net/http"

	"monster-clicker/shared/models"

	"github.com/gin-gonic/gin"
)

func (h *BattleHandler) getPlayerStats(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	stats, err := h.service.GetPlayerStats(c.Request.Context(), playerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *BattleHandler) setChallenge(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	var challenge models.ChallengeConfig
	// validate-теги проверяет сервис, gin их не знает
	if !h.bindJSON(c, &challenge) {
		return
	}
	if err := h.service.SetChallenge(c.Request.Context(), playerID, &challenge); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *BattleHandler) clearChallenge(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	if err := h.service.ClearChallenge(c.Request.Context(), playerID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
