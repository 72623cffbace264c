package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var _ interfaces.OutboxRepository = (*pgOutboxRepository)(nil)

type pgOutboxRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgOutboxRepository создает репозиторий outbox-событий.
func NewPgOutboxRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.OutboxRepository {
	return &pgOutboxRepository{
		pool:   pool,
		logger: logger.Named("PgOutboxRepo"),
	}
}

const enqueueOutboxQuery = `
INSERT INTO outbox_events (id, event_type, payload, attempts, created_at)
VALUES ($1, $2, $3, 0, $4)`

const fetchPendingOutboxQuery = `
SELECT id, event_type, payload, attempts, last_error, created_at, published_at, claimed_until
FROM outbox_events
WHERE published_at IS NULL
ORDER BY created_at
LIMIT $1`

// SKIP LOCKED позволяет нескольким релеям забирать пачки параллельно
const claimPendingOutboxQuery = `
UPDATE outbox_events SET claimed_until = $2
WHERE id IN (
    SELECT id FROM outbox_events
    WHERE published_at IS NULL AND (claimed_until IS NULL OR claimed_until <= $3)
    ORDER BY created_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED)
RETURNING id, event_type, payload, attempts, last_error, created_at, published_at, claimed_until`

const markOutboxPublishedQuery = `
UPDATE outbox_events SET published_at = $2, last_error = NULL, claimed_until = NULL WHERE id = $1`

const markOutboxFailedQuery = `
UPDATE outbox_events SET attempts = attempts + 1, last_error = $2, claimed_until = NULL WHERE id = $1`

func (r *pgOutboxRepository) Enqueue(ctx context.Context, querier interfaces.DBTX, e *models.OutboxEvent) error {
	_, err := querierOr(r.pool, querier).Exec(ctx, enqueueOutboxQuery, e.ID, e.EventType, []byte(e.Payload), e.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to enqueue outbox event",
			zap.Stringer("eventID", e.ID), zap.String("eventType", e.EventType), zap.Error(err))
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}
	return nil
}

func (r *pgOutboxRepository) FetchPending(ctx context.Context, querier interfaces.DBTX, limit int) ([]models.OutboxEvent, error) {
	events := make([]models.OutboxEvent, 0, limit)
	if err := pgxscan.Select(ctx, querierOr(r.pool, querier), &events, fetchPendingOutboxQuery, limit); err != nil {
		r.logger.Error("Failed to fetch pending outbox events", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch pending outbox events: %w", err)
	}
	return events, nil
}

func (r *pgOutboxRepository) ClaimPending(
	ctx context.Context,
	querier interfaces.DBTX,
	limit int,
	now time.Time,
	lease time.Duration,
) ([]models.OutboxEvent, error) {
	events := make([]models.OutboxEvent, 0, limit)
	err := pgxscan.Select(ctx, querierOr(r.pool, querier), &events, claimPendingOutboxQuery, limit, now.Add(lease), now)
	if err != nil {
		r.logger.Error("Failed to claim pending outbox events", zap.Error(err))
		return nil, fmt.Errorf("failed to claim pending outbox events: %w", err)
	}
	// RETURNING не сохраняет порядок подзапроса
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events, nil
}

func (r *pgOutboxRepository) MarkPublished(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, at time.Time) error {
	if _, err := querierOr(r.pool, querier).Exec(ctx, markOutboxPublishedQuery, id, at); err != nil {
		return fmt.Errorf("failed to mark outbox event %s published: %w", id, err)
	}
	return nil
}

func (r *pgOutboxRepository) MarkFailed(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, reason string) error {
	if _, err := querierOr(r.pool, querier).Exec(ctx, markOutboxFailedQuery, id, reason); err != nil {
		return fmt.Errorf("failed to mark outbox event %s failed: %w", id, err)
	}
	return nil
}
