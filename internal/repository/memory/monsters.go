package memory

import (
	"context"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

var _ interfaces.MonsterRepository = (*monsterRepo)(nil)

type monsterRepo struct {
	s *Store
}

func (r *monsterRepo) Create(_ context.Context, q interfaces.DBTX, m *models.Monster) error {
	defer r.s.lock(q)()

	if _, dup := r.s.monsters[m.ID]; dup {
		return models.ErrConflict
	}
	r.s.monsters[m.ID] = m.Clone()
	return nil
}

func (r *monsterRepo) GetByID(_ context.Context, q interfaces.DBTX, id uuid.UUID) (*models.Monster, error) {
	defer r.s.lock(q)()

	m, ok := r.s.monsters[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := m.Clone()
	return &cp, nil
}

func (r *monsterRepo) UpdateClicksRequired(_ context.Context, q interfaces.DBTX, id uuid.UUID, expected, newValue int) error {
	defer r.s.lock(q)()

	m, ok := r.s.monsters[id]
	if !ok || m.ClicksRequired != expected {
		return models.ErrConflict
	}
	m.ClicksRequired = newValue
	r.s.monsters[id] = m
	return nil
}
