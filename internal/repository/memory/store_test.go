package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"monster-clicker/shared/interfaces"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(playerID uuid.UUID) *models.BattleSession {
	return &models.BattleSession{
		ID:        uuid.New(),
		PlayerID:  playerID,
		MonsterID: uuid.New(),
		Biome:     models.BiomeForest,
		Tier:      1,
		StartedAt: time.Now().UTC(),
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	playerID := uuid.New()
	require.NoError(t, store.PlayerStats().CreateIfAbsent(ctx, nil, models.NewPlayerStats(playerID, time.Now())))

	boom := errors.New("boom")
	err := store.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		require.NoError(t, store.Sessions().Create(ctx, tx, newSession(playerID)))
		p, err := store.PlayerStats().GetForUpdate(ctx, tx, playerID)
		require.NoError(t, err)
		p.Coins = 999
		require.NoError(t, store.PlayerStats().Save(ctx, tx, p))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Sessions().GetActiveByPlayer(ctx, nil, playerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	p, err := store.PlayerStats().GetByPlayerID(ctx, nil, playerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Coins)
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	playerID := uuid.New()

	assert.Panics(t, func() {
		_ = store.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
			_ = store.Sessions().Create(ctx, tx, newSession(playerID))
			panic("boom")
		})
	})

	_, err := store.Sessions().GetActiveByPlayer(ctx, nil, playerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOneActiveSessionPerPlayer(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	playerID := uuid.New()

	first := newSession(playerID)
	require.NoError(t, store.Sessions().Create(ctx, nil, first))
	assert.ErrorIs(t, store.Sessions().Create(ctx, nil, newSession(playerID)), models.ErrActiveSessionExists)
	require.NoError(t, store.Sessions().Create(ctx, nil, newSession(uuid.New())))

	require.NoError(t, store.Sessions().Complete(ctx, nil, models.SessionCompletion{
		SessionID: first.ID, Outcome: models.OutcomeDeath, CompletedAt: time.Now(),
	}))
	require.NoError(t, store.Sessions().Create(ctx, nil, newSession(playerID)))
}

func TestCompleteIsConditional(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	s := newSession(uuid.New())
	require.NoError(t, store.Sessions().Create(ctx, nil, s))

	clicks := 42
	c := models.SessionCompletion{SessionID: s.ID, Outcome: models.OutcomeVictory, ClickCount: &clicks, CompletedAt: time.Now(), LootOptions: []string{"a"}}
	require.NoError(t, store.Sessions().Complete(ctx, nil, c))
	assert.ErrorIs(t, store.Sessions().Complete(ctx, nil, c), models.ErrSessionAlreadyCompleted)

	got, err := store.Sessions().GetByID(ctx, nil, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.ClickCount)
	assert.True(t, got.IsDefeated)

	require.NoError(t, store.Sessions().SelectLoot(ctx, nil, s.ID, "a"))
	assert.ErrorIs(t, store.Sessions().SelectLoot(ctx, nil, s.ID, "a"), models.ErrLootAlreadySelected)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	s := newSession(uuid.New())
	s.LootOptions = []string{"a"}
	require.NoError(t, store.Sessions().Create(ctx, nil, s))

	got, err := store.Sessions().GetByID(ctx, nil, s.ID)
	require.NoError(t, err)
	got.LootOptions[0] = "mutated"
	got.IsDefeated = true

	again, err := store.Sessions().GetByID(ctx, nil, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.LootOptions[0])
	assert.False(t, again.IsDefeated)
}

func TestPlayerStatsSaveKeepsZones(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	playerID := uuid.New()
	require.NoError(t, store.PlayerStats().CreateIfAbsent(ctx, nil, models.NewPlayerStats(playerID, time.Now())))

	stale, err := store.PlayerStats().GetByPlayerID(ctx, nil, playerID)
	require.NoError(t, err)

	added, err := store.PlayerStats().UnlockZone(ctx, nil, playerID, "forest-2")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = store.PlayerStats().UnlockZone(ctx, nil, playerID, "forest-2")
	require.NoError(t, err)
	assert.False(t, added)

	stale.Coins = 10
	require.NoError(t, store.PlayerStats().Save(ctx, nil, stale))

	got, err := store.PlayerStats().GetByPlayerID(ctx, nil, playerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"forest-1", "forest-2"}, got.UnlockedZones)
	assert.Equal(t, int64(10), got.Coins)

	_, err = store.PlayerStats().UnlockZone(ctx, nil, uuid.New(), "forest-2")
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
}

func TestMonsterOptimisticUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	m := &models.Monster{ID: uuid.New(), ClicksRequired: 50}
	require.NoError(t, store.Monsters().Create(ctx, nil, m))

	require.NoError(t, store.Monsters().UpdateClicksRequired(ctx, nil, m.ID, 50, 100))
	assert.ErrorIs(t, store.Monsters().UpdateClicksRequired(ctx, nil, m.ID, 50, 100), models.ErrConflict)

	got, err := store.Monsters().GetByID(ctx, nil, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.ClicksRequired)
}

func TestOutbox(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		e, err := models.NewOutboxEvent(models.EventBattleCompleted, map[string]int{"i": i}, now)
		require.NoError(t, err)
		require.NoError(t, store.Outbox().Enqueue(ctx, nil, e))
		ids = append(ids, e.ID)
	}

	pending, err := store.Outbox().FetchPending(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)

	require.NoError(t, store.Outbox().MarkPublished(ctx, nil, ids[0], now))
	require.NoError(t, store.Outbox().MarkFailed(ctx, nil, ids[1], "down"))

	pending, err = store.Outbox().FetchPending(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.ErrorIs(t, store.Outbox().MarkPublished(ctx, nil, uuid.New(), now), models.ErrNotFound)
}

func TestOutboxClaimPending(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		e, err := models.NewOutboxEvent(models.EventBattleCompleted, map[string]int{"i": i}, now)
		require.NoError(t, err)
		require.NoError(t, store.Outbox().Enqueue(ctx, nil, e))
		ids = append(ids, e.ID)
	}

	claimed, err := store.Outbox().ClaimPending(ctx, nil, 2, now, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, ids[0], claimed[0].ID)
	assert.Equal(t, ids[1], claimed[1].ID)

	claimed, err = store.Outbox().ClaimPending(ctx, nil, 10, now.Add(time.Second), time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, ids[2], claimed[0].ID)

	// Неудача снимает аренду, событие можно забрать сразу
	require.NoError(t, store.Outbox().MarkFailed(ctx, nil, ids[0], "down"))
	claimed, err = store.Outbox().ClaimPending(ctx, nil, 10, now.Add(2*time.Second), time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, ids[0], claimed[0].ID)

	// Истекшая аренда
	claimed, err = store.Outbox().ClaimPending(ctx, nil, 10, now.Add(2*time.Minute), time.Minute)
	require.NoError(t, err)
	assert.Len(t, claimed, 3)
}

func TestLocker(t *testing.T) {
	ctx := context.Background()
	l := NewLocker()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	token, err := l.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)
	_, err = l.TryLock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, models.ErrLockNotAcquired)

	require.NoError(t, l.Unlock(ctx, "k", "foreign"))
	_, err = l.TryLock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, models.ErrLockNotAcquired)

	now = now.Add(2 * time.Second)
	_, err = l.TryLock(ctx, "k", time.Second)
	require.NoError(t, err, "expired lock can be taken over")

	require.NoError(t, l.Unlock(ctx, "k", token), "stale token is a no-op")
	_, err = l.TryLock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, models.ErrLockNotAcquired)
}

func TestListHistoryKeyset(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	playerID := uuid.New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Две записи с одинаковым временем упорядочиваются по id
	sameA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	sameB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	records := []models.BattleHistory{
		{ID: uuid.New(), SessionID: uuid.New(), PlayerID: playerID, CreatedAt: base},
		{ID: sameA, SessionID: uuid.New(), PlayerID: playerID, CreatedAt: base.Add(time.Minute)},
		{ID: sameB, SessionID: uuid.New(), PlayerID: playerID, CreatedAt: base.Add(time.Minute)},
		{ID: uuid.New(), SessionID: uuid.New(), PlayerID: uuid.New(), CreatedAt: base.Add(time.Hour)},
	}
	for i := range records {
		require.NoError(t, store.Sessions().InsertHistory(ctx, nil, &records[i]))
	}

	all, err := store.Sessions().ListHistory(ctx, nil, playerID, nil, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{sameB, sameA, records[0].ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	rest, err := store.Sessions().ListHistory(ctx, nil, playerID, &models.HistoryCursor{CreatedAt: all[0].CreatedAt, ID: all[0].ID}, 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, sameA, rest[0].ID)

	limited, err := store.Sessions().ListHistory(ctx, nil, playerID, nil, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
