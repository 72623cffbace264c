package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMaxHealth = 100
	// CheatGoldPenaltyRate - доля золота, теряемая при обнаружении HP-чита.
	CheatGoldPenaltyRate = 0.10
)

// BattleRecord - счетчики боев и серии побед игрока.
type BattleRecord struct {
	BattlesWon        int          `json:"battlesWon"`
	BattlesLost       int          `json:"battlesLost"`
	CheatDetections   int          `json:"cheatDetections"`
	BattlesWonStreak  int          `json:"battlesWonStreak"` // legacy, глобальная серия
	BattlesWonStreaks StreakMatrix `json:"battlesWonStreaks"`
}

// PlayerStats - долгоживущее состояние игрока.
type PlayerStats struct {
	PlayerID        uuid.UUID        `json:"playerId"`
	MaxHealth       int              `json:"maxHealth"`
	CurrentHealth   int              `json:"currentHealth"` // значение клиента, сервер ему не доверяет
	Coins           int64            `json:"coins"`
	Level           int              `json:"level"`
	Experience      int64            `json:"experience"`
	Stats           BattleRecord     `json:"stats"`
	UnlockedZones   []string         `json:"unlockedZones"`
	ActiveChallenge *ChallengeConfig `json:"activeChallenge,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// NewPlayerStats создает статистику нового игрока с открытой стартовой зоной.
func NewPlayerStats(playerID uuid.UUID, now time.Time) *PlayerStats {
	return &PlayerStats{
		PlayerID:      playerID,
		MaxHealth:     DefaultMaxHealth,
		CurrentHealth: DefaultMaxHealth,
		Level:         1,
		UnlockedZones: []string{DefaultZone.Key()},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsZoneUnlocked сообщает, может ли игрок сражаться в зоне.
func (p *PlayerStats) IsZoneUnlocked(z Zone) bool {
	key := z.Key()
	for _, k := range p.UnlockedZones {
		if k == key {
			return true
		}
	}
	return false
}

// UnlockZone добавляет зону во множество открытых. false - зона уже была открыта.
func (p *PlayerStats) UnlockZone(z Zone) bool {
	if p.IsZoneUnlocked(z) {
		return false
	}
	p.UnlockedZones = append(p.UnlockedZones, z.Key())
	return true
}

// ZoneStreak возвращает текущую серию побед в зоне.
func (p *PlayerStats) ZoneStreak(z Zone) int {
	return p.Stats.BattlesWonStreaks.Get(z)
}

// RecordVictory увеличивает серии и счетчик побед.
func (p *PlayerStats) RecordVictory(z Zone) {
	p.Stats.BattlesWon++
	p.Stats.BattlesWonStreak++
	p.Stats.BattlesWonStreaks.Increment(z)
}

// RecordLoss обнуляет серии и возвращает потерянную серию зоны.
func (p *PlayerStats) RecordLoss(z Zone) int {
	p.Stats.BattlesLost++
	p.Stats.BattlesWonStreak = 0
	return p.Stats.BattlesWonStreaks.Reset(z)
}

// ApplyCheatPenalty списывает 10% золота (не ниже нуля), обнуляет серии
// и возвращает потерянное золото и серию зоны.
func (p *PlayerStats) ApplyCheatPenalty(z Zone) (goldLost int64, streakLost int) {
	goldLost = int64(math.Round(float64(p.Coins) * CheatGoldPenaltyRate))
	if goldLost < 0 {
		goldLost = 0
	}
	if goldLost > p.Coins {
		goldLost = p.Coins
	}
	p.Coins -= goldLost
	p.Stats.CheatDetections++
	streakLost = p.RecordLoss(z)
	return goldLost, streakLost
}

// Clone возвращает глубокую копию.
func (p PlayerStats) Clone() PlayerStats {
	p.UnlockedZones = append([]string(nil), p.UnlockedZones...)
	p.ActiveChallenge = p.ActiveChallenge.Clone()
	return p
}
