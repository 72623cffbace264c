package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"monster-clicker/internal/battle"
	"monster-clicker/internal/content"
	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompleteBattleParams - заявка клиента о завершении боя.
type CompleteBattleParams struct {
	SessionID  uuid.UUID
	ClickCount int
	UsedItems  []models.UsedItem
}

// CompletionResult - итог проверки и финализации. Набор заполненных полей
// зависит от Outcome.
type CompletionResult struct {
	Outcome battle.Outcome
	Verdict battle.Verdict

	// legitimate_win
	Session      *models.BattleSession
	Monster      *models.Monster
	LootOptions  []content.LootItem
	UnlockedZone *models.Zone

	// hp_cheat
	GoldLost   int64
	StreakLost int

	// click_rate_cheat
	NewClicksRequired int
}

func (s *battleServiceImpl) CompleteBattle(ctx context.Context, playerID uuid.UUID, params CompleteBattleParams) (*CompletionResult, error) {
	if params.ClickCount < 0 {
		return nil, fmt.Errorf("%w: clickCount must be non-negative", models.ErrInvalidInput)
	}
	log := s.logger.With(zap.Stringer("playerID", playerID), zap.Stringer("sessionID", params.SessionID))

	session, err := s.ownedSession(ctx, nil, playerID, params.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, models.ErrSessionAlreadyCompleted
	}
	monster, err := s.monsters.GetByID(ctx, nil, session.MonsterID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetByPlayerID(ctx, nil, playerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	verdict := battle.Verify(battle.VerifyInput{
		BattleStart:    session.BattleStart(),
		Now:            now,
		ClickCount:     params.ClickCount,
		ClicksRequired: monster.ClicksRequired,
		AttackDamage:   monster.AttackDamage,
		MaxHealth:      stats.MaxHealth,
		Heals:          s.healsFor(params.UsedItems),
	})
	battleOutcomesTotal.WithLabelValues(string(verdict.Outcome)).Inc()

	log.Info("Battle completion verified",
		zap.String("outcome", string(verdict.Outcome)),
		zap.Int("clickCount", params.ClickCount),
		zap.Int("clicksRequired", monster.ClicksRequired),
		zap.Float64("timeInSeconds", verdict.TimeInSeconds),
		zap.String("clickRate", battle.FormatRate(verdict.ClickRate)),
		zap.Int("expectedHP", verdict.ExpectedHP))

	switch verdict.Outcome {
	case battle.OutcomeHPCheat:
		return s.finalizeHPCheat(ctx, session, monster, params, verdict, now)
	case battle.OutcomeClickRateCheat:
		return s.applyClickRatePenalty(ctx, session, monster, verdict)
	case battle.OutcomeIncomplete:
		return nil, models.ErrInsufficientClicks
	default:
		return s.finalizeWin(ctx, session, monster, params, verdict, now)
	}
}

func (s *battleServiceImpl) healsFor(items []models.UsedItem) []int {
	heals := make([]int, 0, len(items))
	for _, item := range items {
		heals = append(heals, s.content.HealingFor(item.LootTableID))
	}
	return heals
}

// finalizeHPCheat завершает сессию без награды и штрафует игрока.
func (s *battleServiceImpl) finalizeHPCheat(
	ctx context.Context,
	session *models.BattleSession,
	monster *models.Monster,
	params CompleteBattleParams,
	verdict battle.Verdict,
	now time.Time,
) (*CompletionResult, error) {
	zone := session.Zone()
	result := &CompletionResult{Outcome: verdict.Outcome, Verdict: verdict}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		// clickCount не сохраняется: заявке клиента не верим
		if err := s.sessions.Complete(ctx, tx, models.SessionCompletion{
			SessionID:   session.ID,
			Outcome:     models.OutcomeHPCheat,
			CompletedAt: now,
		}); err != nil {
			return err
		}

		stats, err := s.stats.GetForUpdate(ctx, tx, session.PlayerID)
		if err != nil {
			return err
		}
		result.GoldLost, result.StreakLost = stats.ApplyCheatPenalty(zone)
		stats.UpdatedAt = now
		if err := s.stats.Save(ctx, tx, stats); err != nil {
			return err
		}

		return s.recordCompletion(ctx, tx, session, monster, models.OutcomeHPCheat, params.ClickCount, verdict.TimeInSeconds, now,
			models.BattleCompletedPayload{GoldLost: result.GoldLost, StreakLost: result.StreakLost})
	})
	if err != nil {
		return nil, s.wrapFinalizeError(err, session.ID)
	}

	s.logger.Warn("HP cheat detected, session forfeited",
		zap.Stringer("playerID", session.PlayerID),
		zap.Stringer("sessionID", session.ID),
		zap.Int64("goldLost", result.GoldLost),
		zap.Int("streakLost", result.StreakLost))
	return result, nil
}

// applyClickRatePenalty удваивает clicksRequired; сессия остается активной.
func (s *battleServiceImpl) applyClickRatePenalty(
	ctx context.Context,
	session *models.BattleSession,
	monster *models.Monster,
	verdict battle.Verdict,
) (*CompletionResult, error) {
	previous := monster.ClicksRequired
	penalized := monster.Clone()
	newRequired := penalized.ApplyCheatPenalty()

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		current, err := s.sessions.GetByID(ctx, tx, session.ID)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			return models.ErrSessionAlreadyCompleted
		}
		return s.monsters.UpdateClicksRequired(ctx, tx, monster.ID, previous, newRequired)
	})
	if errors.Is(err, models.ErrConflict) {
		// Параллельный запрос уже применил штраф: отдаем актуальное значение
		latest, getErr := s.monsters.GetByID(ctx, nil, monster.ID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to reload monster after concurrent penalty: %w", getErr)
		}
		newRequired = latest.ClicksRequired
	} else if err != nil {
		return nil, s.wrapFinalizeError(err, session.ID)
	}

	s.logger.Warn("Click rate cheat detected, clicks required escalated",
		zap.Stringer("playerID", session.PlayerID),
		zap.Stringer("sessionID", session.ID),
		zap.Int("previous", previous),
		zap.Int("newClicksRequired", newRequired))

	return &CompletionResult{
		Outcome:           verdict.Outcome,
		Verdict:           verdict,
		NewClicksRequired: newRequired,
	}, nil
}

// finalizeWin фиксирует победу, варианты лута и серии одной транзакцией,
// затем отдельно открывает следующую зону.
func (s *battleServiceImpl) finalizeWin(
	ctx context.Context,
	session *models.BattleSession,
	monster *models.Monster,
	params CompleteBattleParams,
	verdict battle.Verdict,
	now time.Time,
) (*CompletionResult, error) {
	zone := session.Zone()
	result := &CompletionResult{Outcome: verdict.Outcome, Verdict: verdict, Monster: monster}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		stats, err := s.stats.GetForUpdate(ctx, tx, session.PlayerID)
		if err != nil {
			return err
		}
		// Множитель считается по серии до текущей победы
		quality := battle.LootQualityMultiplier(stats.ZoneStreak(zone))
		options, err := s.content.GenerateLootOptions(monster.LootTableID, models.LootOptionsCount, quality, s.rng)
		if err != nil {
			return fmt.Errorf("failed to generate loot options: %w", err)
		}
		result.LootOptions = options

		clicks := params.ClickCount
		if err := s.sessions.Complete(ctx, tx, models.SessionCompletion{
			SessionID:   session.ID,
			Outcome:     models.OutcomeVictory,
			ClickCount:  &clicks,
			CompletedAt: now,
			LootOptions: content.ItemIDs(options),
			UsedItems:   params.UsedItems,
		}); err != nil {
			return err
		}

		stats.RecordVictory(zone)
		stats.UpdatedAt = now
		if err := s.stats.Save(ctx, tx, stats); err != nil {
			return err
		}

		return s.recordCompletion(ctx, tx, session, monster, models.OutcomeVictory, clicks, verdict.TimeInSeconds, now,
			models.BattleCompletedPayload{LootOptions: content.ItemIDs(options)})
	})
	if err != nil {
		return nil, s.wrapFinalizeError(err, session.ID)
	}

	completed, err := s.sessions.GetByID(ctx, nil, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload completed session: %w", err)
	}
	result.Session = completed
	result.UnlockedZone = s.unlockNextZone(context.WithoutCancel(ctx), session.PlayerID, zone)

	s.logger.Info("Battle won",
		zap.Stringer("playerID", session.PlayerID),
		zap.Stringer("sessionID", session.ID),
		zap.Strings("lootOptions", completed.LootOptions))
	return result, nil
}

// unlockNextZone - побочный эффект после коммита: ошибка логируется и не влияет на ответ.
func (s *battleServiceImpl) unlockNextZone(ctx context.Context, playerID uuid.UUID, zone models.Zone) *models.Zone {
	next, ok := battle.NextZone(zone)
	if !ok {
		return nil
	}
	added, err := s.stats.UnlockZone(ctx, nil, playerID, next.Key())
	if err != nil {
		zoneUnlockFailuresTotal.Inc()
		s.logger.Error("Failed to unlock next zone",
			zap.Stringer("playerID", playerID),
			zap.String("zone", next.Key()),
			zap.Error(err))
		return nil
	}
	if !added {
		return nil
	}
	s.logger.Info("Zone unlocked", zap.Stringer("playerID", playerID), zap.String("zone", next.Key()))
	return &next
}

func (s *battleServiceImpl) ReportDeath(ctx context.Context, playerID, sessionID uuid.UUID) error {
	session, err := s.ownedSession(ctx, nil, playerID, sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive() {
		return models.ErrSessionAlreadyCompleted
	}
	monster, err := s.monsters.GetByID(ctx, nil, session.MonsterID)
	if err != nil {
		return err
	}

	now := s.now()
	zone := session.Zone()
	var streakLost int
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		if err := s.sessions.Complete(ctx, tx, models.SessionCompletion{
			SessionID:   session.ID,
			Outcome:     models.OutcomeDeath,
			CompletedAt: now,
		}); err != nil {
			return err
		}

		stats, err := s.stats.GetForUpdate(ctx, tx, playerID)
		if err != nil {
			return err
		}
		streakLost = stats.RecordLoss(zone)
		stats.UpdatedAt = now
		if err := s.stats.Save(ctx, tx, stats); err != nil {
			return err
		}

		elapsed := now.Sub(session.BattleStart()).Seconds()
		return s.recordCompletion(ctx, tx, session, monster, models.OutcomeDeath, session.ClickCount, elapsed, now,
			models.BattleCompletedPayload{StreakLost: streakLost})
	})
	if err != nil {
		return s.wrapFinalizeError(err, session.ID)
	}

	battleOutcomesTotal.WithLabelValues(string(models.OutcomeDeath)).Inc()
	s.logger.Info("Player died in battle",
		zap.Stringer("playerID", playerID),
		zap.Stringer("sessionID", sessionID),
		zap.Int("streakLost", streakLost))
	return nil
}

// recordCompletion пишет историю и событие battle.completed в той же транзакции.
func (s *battleServiceImpl) recordCompletion(
	ctx context.Context,
	tx interfaces.DBTX,
	session *models.BattleSession,
	monster *models.Monster,
	outcome models.SessionOutcome,
	clickCount int,
	durationSeconds float64,
	now time.Time,
	payload models.BattleCompletedPayload,
) error {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	if err := s.sessions.InsertHistory(ctx, tx, &models.BattleHistory{
		ID:              uuid.New(),
		SessionID:       session.ID,
		PlayerID:        session.PlayerID,
		MonsterName:     monster.Name,
		Biome:           session.Biome.String(),
		Tier:            session.Tier,
		Outcome:         outcome,
		ClickCount:      clickCount,
		DurationSeconds: durationSeconds,
		IsBoss:          monster.IsBoss,
		IsCorrupted:     monster.IsCorrupted,
		CreatedAt:       now,
	}); err != nil {
		return err
	}

	payload.SessionID = session.ID
	payload.PlayerID = session.PlayerID
	payload.Zone = session.Zone().Key()
	payload.Outcome = outcome
	payload.ClickCount = clickCount
	payload.CompletedAt = now
	event, err := models.NewOutboxEvent(models.EventBattleCompleted, payload, now)
	if err != nil {
		return fmt.Errorf("failed to build outbox event: %w", err)
	}
	return s.outbox.Enqueue(ctx, tx, event)
}

// wrapFinalizeError оставляет доменные ошибки как есть, остальные логирует.
func (s *battleServiceImpl) wrapFinalizeError(err error, sessionID uuid.UUID) error {
	switch {
	case errors.Is(err, models.ErrSessionAlreadyCompleted),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrPlayerNotFound):
		return err
	}
	s.logger.Error("Failed to finalize battle session", zap.Stringer("sessionID", sessionID), zap.Error(err))
	return fmt.Errorf("failed to finalize battle session: %w", err)
}
