package interfaces

import (
	"context"

	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

// MonsterRepository - хранилище монстров, созданных для сессий.
type MonsterRepository interface {
	Create(ctx context.Context, querier DBTX, monster *models.Monster) error

	// GetByID returns models.ErrNotFound if the monster does not exist.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.Monster, error)

	// UpdateClicksRequired writes newValue only if the stored value still equals expected.
	// Returns models.ErrConflict otherwise.
	UpdateClicksRequired(ctx context.Context, querier DBTX, id uuid.UUID, expected, newValue int) error
}
