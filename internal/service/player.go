package service

import (
	"context"
	"fmt"

	"monster-clicker/shared/models"
	"monster-clicker/shared/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *battleServiceImpl) GetPlayerStats(ctx context.Context, playerID uuid.UUID) (*models.PlayerStats, error) {
	return s.ensureStats(ctx, playerID)
}

// SetChallenge проверяет границы модификаторов и сохраняет конфигурацию.
// Новые сессии копируют ее при создании, активная сессия не меняется.
func (s *battleServiceImpl) SetChallenge(ctx context.Context, playerID uuid.UUID, challenge *models.ChallengeConfig) error {
	if challenge == nil {
		return s.ClearChallenge(ctx, playerID)
	}
	if err := validate.Struct(challenge); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	normalized := challenge.Clone()
	normalized.ForcedBuffs = dedupeBuffs(normalized.ForcedBuffs)

	if _, err := s.ensureStats(ctx, playerID); err != nil {
		return err
	}
	if err := s.stats.SetChallenge(ctx, nil, playerID, normalized); err != nil {
		return err
	}
	s.logger.Info("Challenge configured", zap.Stringer("playerID", playerID), zap.Any("challenge", normalized))
	return nil
}

func (s *battleServiceImpl) ClearChallenge(ctx context.Context, playerID uuid.UUID) error {
	if _, err := s.ensureStats(ctx, playerID); err != nil {
		return err
	}
	return s.stats.SetChallenge(ctx, nil, playerID, nil)
}

// HistoryPage - страница истории боев. NextCursor пуст на последней странице.
type HistoryPage struct {
	Items      []models.BattleHistory
	NextCursor string
}

func (s *battleServiceImpl) ListHistory(ctx context.Context, playerID uuid.UUID, cursor string, limit int) (*HistoryPage, error) {
	SanitizeLimit(&limit, DefaultHistoryLimit, MaxHistoryLimit)

	var before *models.HistoryCursor
	if cursor != "" {
		at, id, err := utils.DecodeCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		before = &models.HistoryCursor{CreatedAt: at, ID: id}
	}

	// Лишняя запись показывает, есть ли следующая страница
	items, err := s.sessions.ListHistory(ctx, nil, playerID, before, limit+1)
	if err != nil {
		return nil, err
	}
	page := &HistoryPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = utils.EncodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

func dedupeBuffs(buffs []models.BuffType) []models.BuffType {
	if len(buffs) == 0 {
		return nil
	}
	seen := make(map[models.BuffType]bool, len(buffs))
	out := buffs[:0]
	for _, b := range buffs {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
