package interfaces

import (
	"context"

	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

// PlayerStatsRepository - хранилище статистики игроков.
//
//go:generate mockery --name PlayerStatsRepository --output ./mocks --outpkg mocks --case=underscore
type PlayerStatsRepository interface {
	// GetByPlayerID returns models.ErrPlayerNotFound if there are no stats yet.
	GetByPlayerID(ctx context.Context, querier DBTX, playerID uuid.UUID) (*models.PlayerStats, error)

	// GetForUpdate locks the row until the end of the transaction.
	GetForUpdate(ctx context.Context, querier DBTX, playerID uuid.UUID) (*models.PlayerStats, error)

	// CreateIfAbsent inserts default stats; an existing row is left untouched.
	CreateIfAbsent(ctx context.Context, querier DBTX, stats *models.PlayerStats) error

	// Save overwrites coins, health, progress counters and streaks.
	Save(ctx context.Context, querier DBTX, stats *models.PlayerStats) error

	// UnlockZone adds zoneKey to unlockedZones with set semantics. Returns false if it was already present.
	UnlockZone(ctx context.Context, querier DBTX, playerID uuid.UUID, zoneKey string) (bool, error)

	// SetChallenge stores (or clears with nil) the player's challenge configuration.
	SetChallenge(ctx context.Context, querier DBTX, playerID uuid.UUID, challenge *models.ChallengeConfig) error
}
