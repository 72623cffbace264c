package models

import (
	"time"

	"github.com/google/uuid"
)

// LootSkipped - значение selectedLootId, когда игрок отказался от награды.
const LootSkipped = "SKIPPED"

// LootOptionsCount - сколько вариантов награды предлагается после победы.
const LootOptionsCount = 5

// SessionOutcome - терминальный исход сессии.
type SessionOutcome string

const (
	OutcomeNone    SessionOutcome = ""
	OutcomeVictory SessionOutcome = "victory"
	OutcomeDeath   SessionOutcome = "death"
	OutcomeHPCheat SessionOutcome = "hp_cheat"
)

// UsedItem - использованный в бою расходник.
type UsedItem struct {
	LootTableID string `json:"lootTableId"`
}

// BattleSession - одна попытка игрока победить конкретного монстра.
type BattleSession struct {
	ID                    uuid.UUID        `json:"id" db:"id"`
	PlayerID              uuid.UUID        `json:"playerId" db:"player_id"`
	MonsterID             uuid.UUID        `json:"monsterId" db:"monster_id"`
	Biome                 Biome            `json:"biome" db:"biome"`
	Tier                  int              `json:"tier" db:"tier"`
	ClickCount            int              `json:"clickCount" db:"click_count"`
	StartedAt             time.Time        `json:"startedAt" db:"started_at"`
	ActualBattleStartedAt *time.Time       `json:"actualBattleStartedAt,omitempty" db:"actual_battle_started_at"`
	IsDefeated            bool             `json:"isDefeated" db:"is_defeated"`
	CompletedAt           *time.Time       `json:"completedAt,omitempty" db:"completed_at"`
	Outcome               SessionOutcome   `json:"outcome,omitempty" db:"outcome"`
	LootOptions           []string         `json:"lootOptions,omitempty" db:"loot_options"`
	UsedItems             []UsedItem       `json:"usedItems,omitempty" db:"used_items"`
	SelectedLootID        *string          `json:"selectedLootId,omitempty" db:"selected_loot_id"`
	Challenge             *ChallengeConfig `json:"challenge,omitempty" db:"challenge"`
}

// Zone возвращает зону сессии.
func (s *BattleSession) Zone() Zone {
	return Zone{Biome: s.Biome, Tier: s.Tier}
}

// IsActive - сессия еще не завершена ни одним из терминальных путей.
func (s *BattleSession) IsActive() bool {
	return !s.IsDefeated && s.CompletedAt == nil
}

// BattleStart - точка отсчета времени боя. actualBattleStartedAt исключает
// время, проведенное на стартовом экране.
func (s *BattleSession) BattleStart() time.Time {
	if s.ActualBattleStartedAt != nil {
		return *s.ActualBattleStartedAt
	}
	return s.StartedAt
}

// HasLootOption сообщает, входит ли id в предложенные варианты.
func (s *BattleSession) HasLootOption(id string) bool {
	for _, opt := range s.LootOptions {
		if opt == id {
			return true
		}
	}
	return false
}

// Clone возвращает глубокую копию.
func (s BattleSession) Clone() BattleSession {
	s.LootOptions = append([]string(nil), s.LootOptions...)
	s.UsedItems = append([]UsedItem(nil), s.UsedItems...)
	if s.ActualBattleStartedAt != nil {
		t := *s.ActualBattleStartedAt
		s.ActualBattleStartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		s.CompletedAt = &t
	}
	if s.SelectedLootID != nil {
		v := *s.SelectedLootID
		s.SelectedLootID = &v
	}
	s.Challenge = s.Challenge.Clone()
	return s
}

// SessionCompletion - данные решающей записи о завершении сессии.
// Запись применяется только если сессия еще активна.
type SessionCompletion struct {
	SessionID   uuid.UUID
	Outcome     SessionOutcome
	ClickCount  *int // nil - clickCount не меняется
	CompletedAt time.Time
	LootOptions []string
	UsedItems   []UsedItem
}

// BattleHistory - производная запись о завершенном бою.
type BattleHistory struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	SessionID       uuid.UUID      `json:"sessionId" db:"session_id"`
	PlayerID        uuid.UUID      `json:"playerId" db:"player_id"`
	MonsterName     string         `json:"monsterName" db:"monster_name"`
	Biome           string         `json:"biome" db:"biome"`
	Tier            int            `json:"tier" db:"tier"`
	Outcome         SessionOutcome `json:"outcome" db:"outcome"`
	ClickCount      int            `json:"clickCount" db:"click_count"`
	DurationSeconds float64        `json:"durationSeconds" db:"duration_seconds"`
	IsBoss          bool           `json:"isBoss" db:"is_boss"`
	IsCorrupted     bool           `json:"isCorrupted" db:"is_corrupted"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}

// HistoryCursor - позиция в истории боев (keyset по created_at, id).
type HistoryCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}
