package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"monster-clicker/internal/battle"
	"monster-clicker/internal/service"
	"monster-clicker/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgHPCheat        = "Cheating detected: you could not have survived this battle. Gold and streak have been lost."
	msgClickRateCheat = "Cheating detected: clicking too fast. The monster has grown stronger."
	msgDeath          = "You have been defeated. Your win streak has been reset."
)

func (h *BattleHandler) startBattle(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	var req startBattleRequest
	// Пустое тело допустимо: зона по умолчанию
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.rejectBody(c, err)
		return
	}

	result, err := h.service.StartBattle(c.Request.Context(), playerID, service.StartBattleParams{
		Biome: req.Biome,
		Tier:  req.Tier,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, startBattleResponse{
		Session:      result.Session,
		Monster:      result.Monster,
		IsNewSession: result.IsNewSession,
	})
}

func (h *BattleHandler) beginBattle(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	var req sessionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sessionID, err := parseSessionID(req.SessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	session, err := h.service.BeginBattle(c.Request.Context(), playerID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: session})
}

func (h *BattleHandler) completeBattle(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	var req completeBattleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sessionID, err := parseSessionID(req.SessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	result, err := h.service.CompleteBattle(c.Request.Context(), playerID, service.CompleteBattleParams{
		SessionID:  sessionID,
		ClickCount: *req.ClickCount,
		UsedItems:  req.UsedItems,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	switch result.Outcome {
	case battle.OutcomeHPCheat:
		cheatResponsesTotal.WithLabelValues("hp").Inc()
		c.JSON(http.StatusOK, hpCheatResponse{
			HPCheatDetected: true,
			Message:         msgHPCheat,
			ExpectedDamage:  result.Verdict.ExpectedDamage,
			TotalHealing:    result.Verdict.TotalHealing,
			ExpectedHP:      result.Verdict.ExpectedHP,
			GoldLost:        result.GoldLost,
			StreakLost:      result.StreakLost,
		})
	case battle.OutcomeClickRateCheat:
		cheatResponsesTotal.WithLabelValues("click_rate").Inc()
		c.JSON(http.StatusOK, clickRateCheatResponse{
			CheatingDetected:  true,
			Message:           msgClickRateCheat,
			NewClicksRequired: result.NewClicksRequired,
			ClickRate:         battle.FormatRate(result.Verdict.ClickRate),
		})
	default:
		resp := victoryResponse{
			Success:     true,
			Monster:     result.Monster,
			Session:     result.Session,
			LootOptions: result.LootOptions,
			Stats: battleStats{
				TimeElapsed: battle.FormatRate(result.Verdict.TimeInSeconds),
				ClickRate:   battle.FormatRate(result.Verdict.ClickRate),
			},
		}
		if result.UnlockedZone != nil {
			key := result.UnlockedZone.Key()
			resp.UnlockedZone = &key
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (h *BattleHandler) reportDeath(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	var req sessionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sessionID, err := parseSessionID(req.SessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.service.ReportDeath(c.Request.Context(), playerID, sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: msgDeath})
}

func (h *BattleHandler) selectLoot(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	var req selectLootRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sessionID, err := parseSessionID(req.SessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	selection, err := h.service.SelectLoot(c.Request.Context(), playerID, sessionID, req.LootID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, selectLootResponse{
		Success:        true,
		SelectedLootID: selection.SelectedLootID,
		Item:           selection.Item,
		Empowered:      selection.Empowered,
		BonusPower:     selection.BonusPower,
	})
}

func (h *BattleHandler) getActiveBattle(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	active, err := h.service.GetActiveBattle(c.Request.Context(), playerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activeBattleResponse{Session: active.Session, Monster: active.Monster})
}

func (h *BattleHandler) listHistory(c *gin.Context) {
	playerID, ok := h.playerIDFromContext(c)
	if !ok {
		return
	}
	limit := service.DefaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			h.logger.Debug("Invalid history limit", zap.String("limit", limitStr))
			h.handleServiceError(c, models.ErrInvalidInput)
			return
		}
		limit = parsed
	}

	page, err := h.service.ListHistory(c.Request.Context(), playerID, c.Query("cursor"), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	history := page.Items
	if history == nil {
		history = []models.BattleHistory{}
	}
	c.JSON(http.StatusOK, historyResponse{History: history, NextCursor: page.NextCursor})
}
