package handler

import (
	"monster-clicker/internal/content"
	"monster-clicker/shared/models"
)

// --- Запросы ---

type startBattleRequest struct {
	Biome *string `json:"biome"`
	Tier  *int    `json:"tier"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

type completeBattleRequest struct {
	SessionID  string            `json:"sessionId" binding:"required"`
	ClickCount *int              `json:"clickCount" binding:"required"`
	UsedItems  []models.UsedItem `json:"usedItems"`
}

type selectLootRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	LootID    string `json:"lootId" binding:"required"`
}

// --- Ответы ---

type startBattleResponse struct {
	Session      *models.BattleSession `json:"session"`
	Monster      *models.Monster       `json:"monster"`
	IsNewSession bool                  `json:"isNewSession"`
}

type sessionResponse struct {
	Session *models.BattleSession `json:"session"`
}

type activeBattleResponse struct {
	Session *models.BattleSession `json:"session"`
	Monster *models.Monster       `json:"monster"`
}

type hpCheatResponse struct {
	HPCheatDetected bool   `json:"hpCheatDetected"`
	Message         string `json:"message"`
	ExpectedDamage  int    `json:"expectedDamage"`
	TotalHealing    int    `json:"totalHealing"`
	ExpectedHP      int    `json:"expectedHP"`
	GoldLost        int64  `json:"goldLost"`
	StreakLost      int    `json:"streakLost"`
}

type clickRateCheatResponse struct {
	CheatingDetected  bool   `json:"cheatingDetected"`
	Message           string `json:"message"`
	NewClicksRequired int    `json:"newClicksRequired"`
	ClickRate         string `json:"clickRate"`
}

type battleStats struct {
	TimeElapsed string `json:"timeElapsed"`
	ClickRate   string `json:"clickRate"`
}

type victoryResponse struct {
	Success      bool                  `json:"success"`
	Monster      *models.Monster       `json:"monster"`
	Session      *models.BattleSession `json:"session"`
	LootOptions  []content.LootItem    `json:"lootOptions"`
	Stats        battleStats           `json:"stats"`
	UnlockedZone *string               `json:"unlockedZone,omitempty"`
}

type selectLootResponse struct {
	Success        bool              `json:"success"`
	SelectedLootID string            `json:"selectedLootId"`
	Item           *content.LootItem `json:"item,omitempty"`
	Empowered      bool              `json:"empowered"`
	BonusPower     int               `json:"bonusPower,omitempty"`
}

type historyResponse struct {
	History    []models.BattleHistory `json:"history"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}
