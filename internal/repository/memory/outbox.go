package memory

import (
	"context"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

var _ interfaces.OutboxRepository = (*outboxRepo)(nil)

type outboxRepo struct {
	s *Store
}

func (r *outboxRepo) Enqueue(_ context.Context, q interfaces.DBTX, e *models.OutboxEvent) error {
	defer r.s.lock(q)()
	r.s.outbox = append(r.s.outbox, *e)
	return nil
}

// FetchPending возвращает события в порядке добавления.
func (r *outboxRepo) FetchPending(_ context.Context, q interfaces.DBTX, limit int) ([]models.OutboxEvent, error) {
	defer r.s.lock(q)()

	out := make([]models.OutboxEvent, 0, limit)
	for _, e := range r.s.outbox {
		if len(out) == limit {
			break
		}
		if e.PublishedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *outboxRepo) ClaimPending(
	_ context.Context,
	q interfaces.DBTX,
	limit int,
	now time.Time,
	lease time.Duration,
) ([]models.OutboxEvent, error) {
	defer r.s.lock(q)()

	until := now.Add(lease)
	out := make([]models.OutboxEvent, 0, limit)
	for i := range r.s.outbox {
		if len(out) == limit {
			break
		}
		e := &r.s.outbox[i]
		if e.PublishedAt != nil || (e.ClaimedUntil != nil && e.ClaimedUntil.After(now)) {
			continue
		}
		claimed := until
		e.ClaimedUntil = &claimed
		out = append(out, *e)
	}
	return out, nil
}

func (r *outboxRepo) MarkPublished(_ context.Context, q interfaces.DBTX, id uuid.UUID, at time.Time) error {
	defer r.s.lock(q)()

	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].PublishedAt = &at
			r.s.outbox[i].LastError = nil
			r.s.outbox[i].ClaimedUntil = nil
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *outboxRepo) MarkFailed(_ context.Context, q interfaces.DBTX, id uuid.UUID, reason string) error {
	defer r.s.lock(q)()

	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Attempts++
			r.s.outbox[i].LastError = &reason
			r.s.outbox[i].ClaimedUntil = nil
			return nil
		}
	}
	return models.ErrNotFound
}
