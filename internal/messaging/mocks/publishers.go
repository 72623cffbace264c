package mocks

import (
	"context"

	"monster-clicker/internal/messaging"
	"monster-clicker/shared/models"

	"github.com/stretchr/testify/mock"
)

// Mock EventPublisher
type EventPublisher struct {
	mock.Mock
}

var _ messaging.EventPublisher = (*EventPublisher)(nil)

func (m *EventPublisher) PublishEvent(ctx context.Context, event models.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
