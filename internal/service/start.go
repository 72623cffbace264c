package service

import (
	"context"
	"errors"
	"fmt"

	"monster-clicker/internal/battle"
	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartBattleParams - запрошенная зона; пустые поля означают forest-1.
type StartBattleParams struct {
	Biome *string
	Tier  *int
}

// StartBattleResult - сессия с монстром. IsNewSession=false, если вернули уже активную.
type StartBattleResult struct {
	Session      *models.BattleSession
	Monster      *models.Monster
	IsNewSession bool
}

// ActiveBattle - текущая активная сессия игрока.
type ActiveBattle struct {
	Session *models.BattleSession
	Monster *models.Monster
}

func startLockKey(playerID uuid.UUID) string {
	return "battle-start:" + playerID.String()
}

// ResolveZone превращает параметры запроса в зону, подставляя значения по умолчанию.
func ResolveZone(params StartBattleParams) (models.Zone, error) {
	zone := models.DefaultZone
	if params.Biome != nil && *params.Biome != "" {
		biome, err := models.ParseBiome(*params.Biome)
		if err != nil {
			return models.Zone{}, err
		}
		zone.Biome = biome
	}
	if params.Tier != nil {
		zone.Tier = *params.Tier
	}
	if err := zone.Validate(); err != nil {
		return models.Zone{}, err
	}
	return zone, nil
}

func (s *battleServiceImpl) StartBattle(ctx context.Context, playerID uuid.UUID, params StartBattleParams) (*StartBattleResult, error) {
	log := s.logger.With(zap.Stringer("playerID", playerID))

	zone, err := ResolveZone(params)
	if err != nil {
		return nil, err
	}

	stats, err := s.ensureStats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player stats: %w", err)
	}

	// Активная сессия возвращается независимо от запрошенной зоны
	if existing, err := s.activeBattle(ctx, playerID); err == nil {
		sessionsStartedTotal.WithLabelValues("resumed").Inc()
		return &StartBattleResult{Session: existing.Session, Monster: existing.Monster}, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if !stats.IsZoneUnlocked(zone) {
		log.Info("Attempt to start battle in locked zone", zap.String("zone", zone.Key()))
		return nil, models.ErrZoneLocked
	}

	key := startLockKey(playerID)
	token, err := s.locker.TryLock(ctx, key, s.startLockTTL)
	switch {
	case errors.Is(err, models.ErrLockNotAcquired):
		// Параллельный старт: отдаем его сессию, если она уже создана
		if existing, err := s.activeBattle(ctx, playerID); err == nil {
			sessionsStartedTotal.WithLabelValues("resumed").Inc()
			return &StartBattleResult{Session: existing.Session, Monster: existing.Monster}, nil
		}
		return nil, models.ErrBattleStartInProgress
	case err != nil:
		// Уникальный индекс все равно не даст создать вторую сессию
		log.Warn("Start lock unavailable, continuing without it", zap.Error(err))
	default:
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
				log.Warn("Failed to release start lock", zap.Error(err))
			}
		}()
	}

	if existing, err := s.activeBattle(ctx, playerID); err == nil {
		sessionsStartedTotal.WithLabelValues("resumed").Inc()
		return &StartBattleResult{Session: existing.Session, Monster: existing.Monster}, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	challenge := stats.ActiveChallenge.Clone()
	monster, err := s.generator.Generate(battle.GenerateParams{
		Zone:      zone,
		WinStreak: stats.ZoneStreak(zone),
		Challenge: challenge,
		Now:       now,
	})
	if err != nil {
		log.Error("Failed to generate monster", zap.String("zone", zone.Key()), zap.Error(err))
		return nil, fmt.Errorf("failed to generate monster: %w", err)
	}

	session := &models.BattleSession{
		ID:        uuid.New(),
		PlayerID:  playerID,
		MonsterID: monster.ID,
		Biome:     zone.Biome,
		Tier:      zone.Tier,
		StartedAt: now,
		Challenge: challenge,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		if err := s.monsters.Create(ctx, tx, monster); err != nil {
			return err
		}
		return s.sessions.Create(ctx, tx, session)
	})
	if errors.Is(err, models.ErrActiveSessionExists) {
		existing, getErr := s.activeBattle(ctx, playerID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to load concurrent session: %w", getErr)
		}
		sessionsStartedTotal.WithLabelValues("resumed").Inc()
		return &StartBattleResult{Session: existing.Session, Monster: existing.Monster}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create battle session: %w", err)
	}

	sessionsStartedTotal.WithLabelValues("new").Inc()
	log.Info("Battle session started",
		zap.Stringer("sessionID", session.ID),
		zap.String("zone", zone.Key()),
		zap.String("monster", monster.TemplateID),
		zap.Int("clicksRequired", monster.ClicksRequired),
		zap.Bool("boss", monster.IsBoss),
		zap.Bool("corrupted", monster.IsCorrupted))

	return &StartBattleResult{Session: session, Monster: monster, IsNewSession: true}, nil
}

func (s *battleServiceImpl) BeginBattle(ctx context.Context, playerID, sessionID uuid.UUID) (*models.BattleSession, error) {
	session, err := s.ownedSession(ctx, nil, playerID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, models.ErrSessionAlreadyCompleted
	}

	marked, err := s.sessions.MarkBattleStarted(ctx, nil, sessionID, s.now())
	if err != nil {
		return nil, err
	}
	if marked {
		s.logger.Debug("Battle began", zap.Stringer("sessionID", sessionID))
	}
	return s.sessions.GetByID(ctx, nil, sessionID)
}

func (s *battleServiceImpl) GetActiveBattle(ctx context.Context, playerID uuid.UUID) (*ActiveBattle, error) {
	return s.activeBattle(ctx, playerID)
}

func (s *battleServiceImpl) activeBattle(ctx context.Context, playerID uuid.UUID) (*ActiveBattle, error) {
	session, err := s.sessions.GetActiveByPlayer(ctx, nil, playerID)
	if err != nil {
		return nil, err
	}
	monster, err := s.monsters.GetByID(ctx, nil, session.MonsterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monster %s for session %s: %w", session.MonsterID, session.ID, err)
	}
	return &ActiveBattle{Session: session, Monster: monster}, nil
}
