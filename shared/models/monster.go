package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// BuffType - процедурный бафф монстра.
type BuffType string

const (
	BuffShield       BuffType = "shield"
	BuffArmor        BuffType = "armor"
	BuffRage         BuffType = "rage"
	BuffSwiftness    BuffType = "swiftness"
	BuffRegeneration BuffType = "regeneration"
	BuffThorns       BuffType = "thorns"
)

// MonsterBuff - примененный к монстру бафф.
type MonsterBuff struct {
	Type      BuffType `json:"type"`
	Magnitude float64  `json:"magnitude"`
}

// SpecialAttack - особая атака босса (отрисовывается клиентом).
type SpecialAttack struct {
	Name            string  `json:"name"`
	Damage          int     `json:"damage"`
	IntervalSeconds float64 `json:"intervalSeconds"`
}

// Monster создается вместе с сессией боя (1:1).
// После создания меняется только через ApplyCheatPenalty.
type Monster struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	TemplateID         string          `json:"templateId" db:"template_id"`
	Name               string          `json:"name" db:"name"`
	Biome              Biome           `json:"biome" db:"biome"`
	Tier               int             `json:"tier" db:"tier"`
	ClicksRequired     int             `json:"clicksRequired" db:"clicks_required"`
	AttackDamage       float64         `json:"attackDamage" db:"attack_damage"`
	IsBoss             bool            `json:"isBoss" db:"is_boss"`
	IsCorrupted        bool            `json:"isCorrupted" db:"is_corrupted"`
	Buffs              []MonsterBuff   `json:"buffs" db:"buffs"`
	SpecialAttacks     []SpecialAttack `json:"specialAttacks" db:"special_attacks"`
	EscapeTimerSeconds int             `json:"escapeTimerSeconds" db:"escape_timer_seconds"`
	LootTableID        string          `json:"lootTableId" db:"loot_table_id"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
}

// Zone возвращает зону монстра.
func (m *Monster) Zone() Zone {
	return Zone{Biome: m.Biome, Tier: m.Tier}
}

// HasBuff сообщает, есть ли у монстра бафф данного типа.
func (m *Monster) HasBuff(t BuffType) bool {
	for _, b := range m.Buffs {
		if b.Type == t {
			return true
		}
	}
	return false
}

// MaxClicksRequired - потолок штрафа, совпадает с диапазоном колонки INT.
const MaxClicksRequired = math.MaxInt32

// ApplyCheatPenalty удваивает clicksRequired после обнаружения слишком быстрых кликов,
// не выходя за MaxClicksRequired. Возвращает новое требование.
func (m *Monster) ApplyCheatPenalty() int {
	if m.ClicksRequired > MaxClicksRequired/2 {
		m.ClicksRequired = MaxClicksRequired
	} else {
		m.ClicksRequired *= 2
	}
	return m.ClicksRequired
}

// Clone возвращает глубокую копию.
func (m Monster) Clone() Monster {
	m.Buffs = append([]MonsterBuff(nil), m.Buffs...)
	m.SpecialAttacks = append([]SpecialAttack(nil), m.SpecialAttacks...)
	return m
}
