package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Типы событий, публикуемых через outbox.
const (
	EventBattleCompleted = "battle.completed"
	EventLootSelected    = "loot.selected"
)

// OutboxEvent записывается в той же транзакции, что и изменение состояния,
// и публикуется в брокер отдельным воркером.
type OutboxEvent struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	EventType   string          `json:"eventType" db:"event_type"`
	Payload     json.RawMessage `json:"payload" db:"payload"`
	Attempts    int             `json:"attempts" db:"attempts"`
	LastError   *string         `json:"lastError,omitempty" db:"last_error"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty" db:"published_at"`
	// ClaimedUntil - до этого момента событие принадлежит забравшему его релею.
	ClaimedUntil *time.Time `json:"-" db:"claimed_until"`
}

// NewOutboxEvent маршалит payload и создает событие.
func NewOutboxEvent(eventType string, payload any, now time.Time) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   data,
		CreatedAt: now,
	}, nil
}

// BattleCompletedPayload - событие о терминальном исходе боя.
type BattleCompletedPayload struct {
	SessionID   uuid.UUID      `json:"sessionId"`
	PlayerID    uuid.UUID      `json:"playerId"`
	Zone        string         `json:"zone"`
	Outcome     SessionOutcome `json:"outcome"`
	ClickCount  int            `json:"clickCount"`
	GoldLost    int64          `json:"goldLost,omitempty"`
	StreakLost  int            `json:"streakLost,omitempty"`
	LootOptions []string       `json:"lootOptions,omitempty"`
	CompletedAt time.Time      `json:"completedAt"`
}

// LootSelectedPayload - запрос к ledger-сервису на регистрацию владения предметом.
type LootSelectedPayload struct {
	SessionID  uuid.UUID `json:"sessionId"`
	PlayerID   uuid.UUID `json:"playerId"`
	LootItemID string    `json:"lootItemId"`
	Empowered  bool      `json:"empowered"`
	BonusPower int       `json:"bonusPower,omitempty"`
	SelectedAt time.Time `json:"selectedAt"`
}
