package memory

import (
	"bytes"
	"context"
	"sort"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

var _ interfaces.BattleSessionRepository = (*sessionRepo)(nil)

type sessionRepo struct {
	s *Store
}

func (r *sessionRepo) Create(_ context.Context, q interfaces.DBTX, session *models.BattleSession) error {
	defer r.s.lock(q)()

	if session.IsActive() {
		for _, existing := range r.s.sessions {
			if existing.PlayerID == session.PlayerID && existing.IsActive() {
				return models.ErrActiveSessionExists
			}
		}
	}
	if _, dup := r.s.sessions[session.ID]; dup {
		return models.ErrConflict
	}
	r.s.sessions[session.ID] = session.Clone()
	return nil
}

func (r *sessionRepo) GetByID(_ context.Context, q interfaces.DBTX, id uuid.UUID) (*models.BattleSession, error) {
	defer r.s.lock(q)()

	s, ok := r.s.sessions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := s.Clone()
	return &cp, nil
}

func (r *sessionRepo) GetActiveByPlayer(_ context.Context, q interfaces.DBTX, playerID uuid.UUID) (*models.BattleSession, error) {
	defer r.s.lock(q)()

	for _, s := range r.s.sessions {
		if s.PlayerID == playerID && s.IsActive() {
			cp := s.Clone()
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *sessionRepo) MarkBattleStarted(_ context.Context, q interfaces.DBTX, id uuid.UUID, at time.Time) (bool, error) {
	defer r.s.lock(q)()

	s, ok := r.s.sessions[id]
	if !ok {
		return false, models.ErrNotFound
	}
	if !s.IsActive() {
		return false, models.ErrSessionAlreadyCompleted
	}
	if s.ActualBattleStartedAt != nil {
		return false, nil
	}
	s.ActualBattleStartedAt = &at
	r.s.sessions[id] = s
	return true, nil
}

func (r *sessionRepo) Complete(_ context.Context, q interfaces.DBTX, c models.SessionCompletion) error {
	defer r.s.lock(q)()

	s, ok := r.s.sessions[c.SessionID]
	if !ok || !s.IsActive() {
		return models.ErrSessionAlreadyCompleted
	}
	completedAt := c.CompletedAt
	s.IsDefeated = true
	s.CompletedAt = &completedAt
	s.Outcome = c.Outcome
	if c.ClickCount != nil {
		s.ClickCount = *c.ClickCount
	}
	s.LootOptions = append([]string(nil), c.LootOptions...)
	s.UsedItems = append([]models.UsedItem(nil), c.UsedItems...)
	r.s.sessions[c.SessionID] = s
	return nil
}

func (r *sessionRepo) SelectLoot(_ context.Context, q interfaces.DBTX, id uuid.UUID, lootID string) error {
	defer r.s.lock(q)()

	s, ok := r.s.sessions[id]
	if !ok {
		return models.ErrNotFound
	}
	if s.SelectedLootID != nil {
		return models.ErrLootAlreadySelected
	}
	s.SelectedLootID = &lootID
	r.s.sessions[id] = s
	return nil
}

func (r *sessionRepo) InsertHistory(_ context.Context, q interfaces.DBTX, record *models.BattleHistory) error {
	defer r.s.lock(q)()

	for _, h := range r.s.history {
		if h.SessionID == record.SessionID {
			return models.ErrConflict
		}
	}
	r.s.history = append(r.s.history, *record)
	return nil
}

func (r *sessionRepo) ListHistory(_ context.Context, q interfaces.DBTX, playerID uuid.UUID, before *models.HistoryCursor, limit int) ([]models.BattleHistory, error) {
	defer r.s.lock(q)()

	out := make([]models.BattleHistory, 0)
	for _, h := range r.s.history {
		if h.PlayerID != playerID {
			continue
		}
		if before != nil && !historyBefore(h, *before) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return historyBefore(out[j], models.HistoryCursor{CreatedAt: out[i].CreatedAt, ID: out[i].ID})
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// historyBefore повторяет сравнение (created_at, id) < (cursor) из PostgreSQL.
func historyBefore(h models.BattleHistory, c models.HistoryCursor) bool {
	if !h.CreatedAt.Equal(c.CreatedAt) {
		return h.CreatedAt.Before(c.CreatedAt)
	}
	return bytes.Compare(h.ID[:], c.ID[:]) < 0
}
