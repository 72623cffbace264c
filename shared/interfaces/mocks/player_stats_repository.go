package mocks

import (
	"context"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock PlayerStatsRepository
type PlayerStatsRepository struct {
	mock.Mock
}

var _ interfaces.PlayerStatsRepository = (*PlayerStatsRepository)(nil)

func (m *PlayerStatsRepository) GetByPlayerID(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID) (*models.PlayerStats, error) {
	args := m.Called(ctx, querier, playerID)
	stats, _ := args.Get(0).(*models.PlayerStats)
	return stats, args.Error(1)
}

func (m *PlayerStatsRepository) GetForUpdate(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID) (*models.PlayerStats, error) {
	args := m.Called(ctx, querier, playerID)
	stats, _ := args.Get(0).(*models.PlayerStats)
	return stats, args.Error(1)
}

func (m *PlayerStatsRepository) CreateIfAbsent(ctx context.Context, querier interfaces.DBTX, stats *models.PlayerStats) error {
	args := m.Called(ctx, querier, stats)
	return args.Error(0)
}

func (m *PlayerStatsRepository) Save(ctx context.Context, querier interfaces.DBTX, stats *models.PlayerStats) error {
	args := m.Called(ctx, querier, stats)
	return args.Error(0)
}

func (m *PlayerStatsRepository) UnlockZone(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID, zoneKey string) (bool, error) {
	args := m.Called(ctx, querier, playerID, zoneKey)
	return args.Bool(0), args.Error(1)
}

func (m *PlayerStatsRepository) SetChallenge(ctx context.Context, querier interfaces.DBTX, playerID uuid.UUID, challenge *models.ChallengeConfig) error {
	args := m.Called(ctx, querier, playerID, challenge)
	return args.Error(0)
}
