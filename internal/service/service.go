// Package service implements the battle lifecycle: session start, outcome
// verification and finalization, loot selection and the player surface.
package service

import (
	"context"
	"time"

	"monster-clicker/internal/battle"
	"monster-clicker/internal/content"
	"monster-clicker/internal/random"
	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultStartLockTTL = 5 * time.Second
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// BattleService определяет бизнес-логику боев.
type BattleService interface {
	StartBattle(ctx context.Context, playerID uuid.UUID, params StartBattleParams) (*StartBattleResult, error)
	BeginBattle(ctx context.Context, playerID, sessionID uuid.UUID) (*models.BattleSession, error)
	CompleteBattle(ctx context.Context, playerID uuid.UUID, params CompleteBattleParams) (*CompletionResult, error)
	ReportDeath(ctx context.Context, playerID, sessionID uuid.UUID) error
	SelectLoot(ctx context.Context, playerID, sessionID uuid.UUID, lootID string) (*LootSelection, error)
	GetActiveBattle(ctx context.Context, playerID uuid.UUID) (*ActiveBattle, error)
	ListHistory(ctx context.Context, playerID uuid.UUID, cursor string, limit int) (*HistoryPage, error)

	GetPlayerStats(ctx context.Context, playerID uuid.UUID) (*models.PlayerStats, error)
	SetChallenge(ctx context.Context, playerID uuid.UUID, challenge *models.ChallengeConfig) error
	ClearChallenge(ctx context.Context, playerID uuid.UUID) error
}

// Dependencies - зависимости BattleService.
type Dependencies struct {
	Tx       interfaces.Transactor
	Sessions interfaces.BattleSessionRepository
	Monsters interfaces.MonsterRepository
	Stats    interfaces.PlayerStatsRepository
	Outbox   interfaces.OutboxRepository
	Locker   interfaces.Locker
	Content  *content.Tables
	RNG      random.Source
	// Clock по умолчанию time.Now
	Clock        func() time.Time
	StartLockTTL time.Duration
	Logger       *zap.Logger
}

type battleServiceImpl struct {
	tx           interfaces.Transactor
	sessions     interfaces.BattleSessionRepository
	monsters     interfaces.MonsterRepository
	stats        interfaces.PlayerStatsRepository
	outbox       interfaces.OutboxRepository
	locker       interfaces.Locker
	content      *content.Tables
	rng          random.Source
	generator    *battle.Generator
	clock        func() time.Time
	startLockTTL time.Duration
	logger       *zap.Logger
}

// NewBattleService создает сервис боев.
func NewBattleService(deps Dependencies) BattleService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	ttl := deps.StartLockTTL
	if ttl <= 0 {
		ttl = DefaultStartLockTTL
	}
	return &battleServiceImpl{
		tx:           deps.Tx,
		sessions:     deps.Sessions,
		monsters:     deps.Monsters,
		stats:        deps.Stats,
		outbox:       deps.Outbox,
		locker:       deps.Locker,
		content:      deps.Content,
		rng:          deps.RNG,
		generator:    battle.NewGenerator(deps.Content, deps.RNG),
		clock:        clock,
		startLockTTL: ttl,
		logger:       deps.Logger.Named("BattleService"),
	}
}

func (s *battleServiceImpl) now() time.Time {
	return s.clock().UTC()
}

// ownedSession загружает сессию игрока. Чужая сессия неотличима от отсутствующей.
func (s *battleServiceImpl) ownedSession(ctx context.Context, querier interfaces.DBTX, playerID, sessionID uuid.UUID) (*models.BattleSession, error) {
	session, err := s.sessions.GetByID(ctx, querier, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PlayerID != playerID {
		s.logger.Warn("Session requested by another player",
			zap.Stringer("sessionID", sessionID),
			zap.Stringer("playerID", playerID))
		return nil, models.ErrNotFound
	}
	return session, nil
}

// ensureStats создает статистику по умолчанию и возвращает актуальную.
func (s *battleServiceImpl) ensureStats(ctx context.Context, playerID uuid.UUID) (*models.PlayerStats, error) {
	if err := s.stats.CreateIfAbsent(ctx, nil, models.NewPlayerStats(playerID, s.now())); err != nil {
		return nil, err
	}
	return s.stats.GetByPlayerID(ctx, nil, playerID)
}

// SanitizeLimit проверяет и корректирует значение limit, устанавливая defaultVal, если оно вне [1, max].
func SanitizeLimit(limit *int, defaultVal, max int) {
	if *limit <= 0 || *limit > max {
		*limit = defaultVal
	}
}
