package interfaces

import (
	"context"
	"time"

	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

// BattleSessionRepository - хранилище сессий боя и истории.
//
//go:generate mockery --name BattleSessionRepository --output ./mocks --outpkg mocks --case=underscore
type BattleSessionRepository interface {
	// Create сохраняет новую сессию.
	// Returns models.ErrActiveSessionExists if the player already has an active session.
	Create(ctx context.Context, querier DBTX, session *models.BattleSession) error

	// GetByID returns models.ErrNotFound if the session does not exist.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.BattleSession, error)

	// GetActiveByPlayer returns models.ErrNotFound if the player has no active session.
	GetActiveByPlayer(ctx context.Context, querier DBTX, playerID uuid.UUID) (*models.BattleSession, error)

	// MarkBattleStarted stamps actualBattleStartedAt once. Returns false if it was already set.
	// Returns models.ErrSessionAlreadyCompleted if the session is no longer active.
	MarkBattleStarted(ctx context.Context, querier DBTX, id uuid.UUID, at time.Time) (bool, error)

	// Complete applies the terminal write only if the session is still active
	// (is_defeated = false AND completed_at IS NULL).
	// Returns models.ErrSessionAlreadyCompleted when nothing was updated.
	Complete(ctx context.Context, querier DBTX, completion models.SessionCompletion) error

	// SelectLoot sets selectedLootId only if it is still empty.
	// Returns models.ErrLootAlreadySelected when nothing was updated.
	SelectLoot(ctx context.Context, querier DBTX, id uuid.UUID, lootID string) error

	// InsertHistory stores a derived history record.
	InsertHistory(ctx context.Context, querier DBTX, record *models.BattleHistory) error

	// ListHistory returns history records of a player, newest first.
	// A non-nil before returns only records strictly older than the cursor.
	ListHistory(ctx context.Context, querier DBTX, playerID uuid.UUID, before *models.HistoryCursor, limit int) ([]models.BattleHistory, error)
}
