package memory

import (
	"context"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

var _ interfaces.PlayerStatsRepository = (*statsRepo)(nil)

type statsRepo struct {
	s *Store
}

func (r *statsRepo) GetByPlayerID(_ context.Context, q interfaces.DBTX, playerID uuid.UUID) (*models.PlayerStats, error) {
	defer r.s.lock(q)()
	return r.get(playerID)
}

// GetForUpdate: внутри транзакции мьютекс уже держится до ее конца.
func (r *statsRepo) GetForUpdate(_ context.Context, q interfaces.DBTX, playerID uuid.UUID) (*models.PlayerStats, error) {
	defer r.s.lock(q)()
	return r.get(playerID)
}

func (r *statsRepo) get(playerID uuid.UUID) (*models.PlayerStats, error) {
	p, ok := r.s.stats[playerID]
	if !ok {
		return nil, models.ErrPlayerNotFound
	}
	cp := p.Clone()
	return &cp, nil
}

func (r *statsRepo) CreateIfAbsent(_ context.Context, q interfaces.DBTX, stats *models.PlayerStats) error {
	defer r.s.lock(q)()

	if _, ok := r.s.stats[stats.PlayerID]; ok {
		return nil
	}
	r.s.stats[stats.PlayerID] = stats.Clone()
	return nil
}

// Save не трогает unlockedZones и activeChallenge, как и SQL-реализация.
func (r *statsRepo) Save(_ context.Context, q interfaces.DBTX, stats *models.PlayerStats) error {
	defer r.s.lock(q)()

	current, ok := r.s.stats[stats.PlayerID]
	if !ok {
		return models.ErrPlayerNotFound
	}
	updated := stats.Clone()
	updated.UnlockedZones = current.UnlockedZones
	updated.ActiveChallenge = current.ActiveChallenge
	updated.CreatedAt = current.CreatedAt
	r.s.stats[stats.PlayerID] = updated
	return nil
}

func (r *statsRepo) UnlockZone(_ context.Context, q interfaces.DBTX, playerID uuid.UUID, zoneKey string) (bool, error) {
	defer r.s.lock(q)()

	p, ok := r.s.stats[playerID]
	if !ok {
		return false, models.ErrPlayerNotFound
	}
	for _, k := range p.UnlockedZones {
		if k == zoneKey {
			return false, nil
		}
	}
	p.UnlockedZones = append(append([]string(nil), p.UnlockedZones...), zoneKey)
	p.UpdatedAt = time.Now().UTC()
	r.s.stats[playerID] = p
	return true, nil
}

func (r *statsRepo) SetChallenge(_ context.Context, q interfaces.DBTX, playerID uuid.UUID, challenge *models.ChallengeConfig) error {
	defer r.s.lock(q)()

	p, ok := r.s.stats[playerID]
	if !ok {
		return models.ErrPlayerNotFound
	}
	p.ActiveChallenge = challenge.Clone()
	p.UpdatedAt = time.Now().UTC()
	r.s.stats[playerID] = p
	return nil
}
