package service

import (
	"context"
	"testing"
	"time"

	"monster-clicker/internal/content"
	"monster-clicker/internal/repository/memory"
	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// constSource всегда возвращает одно и то же значение.
type constSource struct {
	f float64
}

func (s constSource) Float64() float64 { return s.f }
func (s constSource) IntN(int) int     { return 0 }

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	locker interfaces.Locker
	stats  interfaces.PlayerStatsRepository
	tables *content.Tables
	now    time.Time
	svc    BattleService
}

type fixtureOption func(*fixture, *Dependencies)

func withRNG(f float64) fixtureOption {
	return func(_ *fixture, d *Dependencies) { d.RNG = constSource{f: f} }
}

func withLocker(l interfaces.Locker) fixtureOption {
	return func(fx *fixture, d *Dependencies) {
		fx.locker = l
		d.Locker = l
	}
}

// withStats оборачивает репозиторий статистики хранилища.
func withStats(wrap func(interfaces.PlayerStatsRepository) interfaces.PlayerStatsRepository) fixtureOption {
	return func(fx *fixture, d *Dependencies) {
		fx.stats = wrap(fx.store.PlayerStats())
		d.Stats = fx.stats
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	tables, err := content.Default()
	require.NoError(t, err)

	store := memory.NewStore()
	fx := &fixture{
		store:  store,
		locker: memory.NewLocker(),
		stats:  store.PlayerStats(),
		tables: tables,
		now:    baseTime,
	}
	deps := Dependencies{
		Tx:       store,
		Sessions: store.Sessions(),
		Monsters: store.Monsters(),
		Stats:    fx.stats,
		Outbox:   store.Outbox(),
		Locker:   fx.locker,
		Content:  tables,
		RNG:      constSource{f: 0.99},
		Clock:    func() time.Time { return fx.now },
		Logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(fx, &deps)
	}
	fx.svc = NewBattleService(deps)
	return fx
}

func (fx *fixture) advance(d time.Duration) {
	fx.now = fx.now.Add(d)
}

type seedParams struct {
	zone           models.Zone
	clicksRequired int
	attackDamage   float64
	corrupted      bool
}

// seedBattle создает игрока, монстра с заданными параметрами и активную сессию.
func (fx *fixture) seedBattle(t *testing.T, playerID uuid.UUID, p seedParams) *models.BattleSession {
	t.Helper()
	ctx := context.Background()
	if p.zone == (models.Zone{}) {
		p.zone = models.DefaultZone
	}

	require.NoError(t, fx.store.PlayerStats().CreateIfAbsent(ctx, nil, models.NewPlayerStats(playerID, fx.now)))

	monster := &models.Monster{
		ID:                 uuid.New(),
		TemplateID:         "forest-slime",
		Name:               "Moss Slime",
		Biome:              p.zone.Biome,
		Tier:               p.zone.Tier,
		ClicksRequired:     p.clicksRequired,
		AttackDamage:       p.attackDamage,
		IsCorrupted:        p.corrupted,
		EscapeTimerSeconds: 60,
		LootTableID:        "forest",
		CreatedAt:          fx.now,
	}
	require.NoError(t, fx.store.Monsters().Create(ctx, nil, monster))

	session := &models.BattleSession{
		ID:        uuid.New(),
		PlayerID:  playerID,
		MonsterID: monster.ID,
		Biome:     p.zone.Biome,
		Tier:      p.zone.Tier,
		StartedAt: fx.now,
	}
	require.NoError(t, fx.store.Sessions().Create(ctx, nil, session))
	return session
}

func (fx *fixture) playerStats(t *testing.T, playerID uuid.UUID) *models.PlayerStats {
	t.Helper()
	stats, err := fx.store.PlayerStats().GetByPlayerID(context.Background(), nil, playerID)
	require.NoError(t, err)
	return stats
}

func (fx *fixture) updateStats(t *testing.T, playerID uuid.UUID, fn func(*models.PlayerStats)) {
	t.Helper()
	stats := fx.playerStats(t, playerID)
	fn(stats)
	require.NoError(t, fx.store.PlayerStats().Save(context.Background(), nil, stats))
}

func (fx *fixture) session(t *testing.T, id uuid.UUID) *models.BattleSession {
	t.Helper()
	session, err := fx.store.Sessions().GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return session
}

func (fx *fixture) pendingEvents(t *testing.T) []models.OutboxEvent {
	t.Helper()
	events, err := fx.store.Outbox().FetchPending(context.Background(), nil, 100)
	require.NoError(t, err)
	return events
}
