package service

import (
	"context"
	"fmt"

	"monster-clicker/internal/content"
	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// EmpoweredLootChance - шанс усиленного предмета с порченого монстра.
	EmpoweredLootChance = 0.25
	EmpoweredBonusPower = 5
)

// LootSelection - результат выбора награды.
type LootSelection struct {
	SelectedLootID string
	Item           *content.LootItem
	Empowered      bool
	BonusPower     int
}

func (s *battleServiceImpl) SelectLoot(ctx context.Context, playerID, sessionID uuid.UUID, lootID string) (*LootSelection, error) {
	if lootID == "" {
		return nil, fmt.Errorf("%w: lootId is required", models.ErrInvalidInput)
	}
	log := s.logger.With(zap.Stringer("playerID", playerID), zap.Stringer("sessionID", sessionID))

	session, err := s.ownedSession(ctx, nil, playerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Outcome != models.OutcomeVictory || len(session.LootOptions) == 0 {
		return nil, models.ErrLootNotAvailable
	}
	if session.SelectedLootID != nil {
		return nil, models.ErrLootAlreadySelected
	}
	if lootID != models.LootSkipped && !session.HasLootOption(lootID) {
		return nil, fmt.Errorf("%w: loot %q is not one of the offered options", models.ErrInvalidInput, lootID)
	}

	selection := &LootSelection{SelectedLootID: lootID}
	if lootID != models.LootSkipped {
		item, ok := s.content.Item(lootID)
		if !ok {
			return nil, fmt.Errorf("loot item %q missing from content tables", lootID)
		}
		selection.Item = &item

		monster, err := s.monsters.GetByID(ctx, nil, session.MonsterID)
		if err != nil {
			return nil, err
		}
		if monster.IsCorrupted && s.rng.Float64() < EmpoweredLootChance {
			selection.Empowered = true
			selection.BonusPower = EmpoweredBonusPower
		}
	}

	now := s.now()
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		if err := s.sessions.SelectLoot(ctx, tx, sessionID, lootID); err != nil {
			return err
		}
		if lootID == models.LootSkipped {
			return nil
		}
		// Регистрация владения - отдельный шаг ledger-сервиса через outbox
		event, err := models.NewOutboxEvent(models.EventLootSelected, models.LootSelectedPayload{
			SessionID:  sessionID,
			PlayerID:   playerID,
			LootItemID: lootID,
			Empowered:  selection.Empowered,
			BonusPower: selection.BonusPower,
			SelectedAt: now,
		}, now)
		if err != nil {
			return fmt.Errorf("failed to build outbox event: %w", err)
		}
		return s.outbox.Enqueue(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	kind := "selected"
	switch {
	case lootID == models.LootSkipped:
		kind = "skipped"
	case selection.Empowered:
		kind = "empowered"
	}
	lootSelectionsTotal.WithLabelValues(kind).Inc()
	log.Info("Loot selected", zap.String("lootID", lootID), zap.Bool("empowered", selection.Empowered))
	return selection, nil
}
