package mocks

import (
	"context"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock OutboxRepository
type OutboxRepository struct {
	mock.Mock
}

var _ interfaces.OutboxRepository = (*OutboxRepository)(nil)

func (m *OutboxRepository) Enqueue(ctx context.Context, querier interfaces.DBTX, event *models.OutboxEvent) error {
	args := m.Called(ctx, querier, event)
	return args.Error(0)
}

func (m *OutboxRepository) FetchPending(ctx context.Context, querier interfaces.DBTX, limit int) ([]models.OutboxEvent, error) {
	args := m.Called(ctx, querier, limit)
	events, _ := args.Get(0).([]models.OutboxEvent)
	return events, args.Error(1)
}

func (m *OutboxRepository) ClaimPending(ctx context.Context, querier interfaces.DBTX, limit int, now time.Time, lease time.Duration) ([]models.OutboxEvent, error) {
	args := m.Called(ctx, querier, limit, now, lease)
	events, _ := args.Get(0).([]models.OutboxEvent)
	return events, args.Error(1)
}

func (m *OutboxRepository) MarkPublished(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, querier, id, at)
	return args.Error(0)
}

func (m *OutboxRepository) MarkFailed(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, reason string) error {
	args := m.Called(ctx, querier, id, reason)
	return args.Error(0)
}
