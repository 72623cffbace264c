package interfaces

import (
	"context"
	"time"

	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

// OutboxRepository хранит события до их публикации в брокер.
type OutboxRepository interface {
	Enqueue(ctx context.Context, querier DBTX, event *models.OutboxEvent) error

	// FetchPending returns up to limit unpublished events, oldest first.
	FetchPending(ctx context.Context, querier DBTX, limit int) ([]models.OutboxEvent, error)

	// ClaimPending leases up to limit unpublished, unclaimed events until now+lease
	// and returns them oldest first. Other relays skip leased events.
	ClaimPending(ctx context.Context, querier DBTX, limit int, now time.Time, lease time.Duration) ([]models.OutboxEvent, error)

	MarkPublished(ctx context.Context, querier DBTX, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, querier DBTX, id uuid.UUID, reason string) error
}
