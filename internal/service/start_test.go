package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"monster-clicker/shared/interfaces/mocks"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestResolveZone(t *testing.T) {
	tests := []struct {
		name    string
		params  StartBattleParams
		want    string
		wantErr bool
	}{
		{name: "defaults", params: StartBattleParams{}, want: "forest-1"},
		{name: "empty biome", params: StartBattleParams{Biome: ptr(""), Tier: ptr(2)}, want: "forest-2"},
		{name: "explicit", params: StartBattleParams{Biome: ptr("Desert"), Tier: ptr(3)}, want: "desert-3"},
		{name: "unknown biome", params: StartBattleParams{Biome: ptr("swamp")}, wantErr: true},
		{name: "tier too high", params: StartBattleParams{Tier: ptr(6)}, wantErr: true},
		{name: "tier zero", params: StartBattleParams{Tier: ptr(0)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := ResolveZone(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, zone.Key())
		})
	}
}

func TestStartBattleCreatesSession(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	playerID := uuid.New()

	res, err := fx.svc.StartBattle(ctx, playerID, StartBattleParams{})
	require.NoError(t, err)

	assert.True(t, res.IsNewSession)
	assert.Equal(t, playerID, res.Session.PlayerID)
	assert.Equal(t, res.Monster.ID, res.Session.MonsterID)
	assert.Equal(t, "forest-1", res.Session.Zone().Key())
	assert.Equal(t, baseTime, res.Session.StartedAt)
	assert.Nil(t, res.Session.ActualBattleStartedAt)
	assert.Equal(t, "forest-slime", res.Monster.TemplateID)
	assert.False(t, res.Monster.IsBoss)
	assert.False(t, res.Monster.IsCorrupted)

	// Статистика создается при первом обращении
	stats := fx.playerStats(t, playerID)
	assert.Equal(t, models.DefaultMaxHealth, stats.MaxHealth)

	active, err := fx.svc.GetActiveBattle(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, active.Session.ID)
	assert.Equal(t, res.Monster.ClicksRequired, active.Monster.ClicksRequired)
}

func TestStartBattleReturnsActiveSession(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	playerID := uuid.New()

	first, err := fx.svc.StartBattle(ctx, playerID, StartBattleParams{})
	require.NoError(t, err)

	// Активная сессия возвращается даже при запросе другой зоны
	second, err := fx.svc.StartBattle(ctx, playerID, StartBattleParams{Biome: ptr("desert"), Tier: ptr(1)})
	require.NoError(t, err)
	assert.False(t, second.IsNewSession)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, first.Monster.ID, second.Monster.ID)
}

func TestStartBattleLockedZone(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.StartBattle(context.Background(), uuid.New(), StartBattleParams{Biome: ptr("forest"), Tier: ptr(2)})
	assert.ErrorIs(t, err, models.ErrZoneLocked)
}

func TestStartBattleInvalidZone(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.StartBattle(context.Background(), uuid.New(), StartBattleParams{Tier: ptr(9)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestStartBattleAfterUnlock(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	playerID := uuid.New()
	session := fx.seedBattle(t, playerID, seedParams{clicksRequired: 50, attackDamage: 2})
	fx.advance(10 * time.Second)
	_, err := fx.svc.CompleteBattle(ctx, playerID, CompleteBattleParams{SessionID: session.ID, ClickCount: 50})
	require.NoError(t, err)

	res, err := fx.svc.StartBattle(ctx, playerID, StartBattleParams{Tier: ptr(2)})
	require.NoError(t, err)
	assert.True(t, res.IsNewSession)
	assert.Equal(t, "forest-2", res.Session.Zone().Key())
}

func TestStartBattleCopiesChallenge(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	playerID := uuid.New()

	require.NoError(t, fx.svc.SetChallenge(ctx, playerID, &models.ChallengeConfig{
		MonsterHPMultiplier: 2,
		ForcedBuffs:         []models.BuffType{models.BuffRage},
	}))

	res, err := fx.svc.StartBattle(ctx, playerID, StartBattleParams{})
	require.NoError(t, err)
	require.NotNil(t, res.Session.Challenge)
	assert.InDelta(t, 2.0, res.Session.Challenge.MonsterHPMultiplier, 1e-9)
	assert.True(t, res.Monster.HasBuff(models.BuffRage))

	// Изменение настроек не трогает уже созданную сессию
	require.NoError(t, fx.svc.ClearChallenge(ctx, playerID))
	active, err := fx.svc.GetActiveBattle(ctx, playerID)
	require.NoError(t, err)
	require.NotNil(t, active.Session.Challenge)
	assert.InDelta(t, 2.0, active.Session.Challenge.MonsterHPMultiplier, 1e-9)
}

func TestStartBattleLockHeld(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	playerID := uuid.New()

	_, err := fx.locker.TryLock(ctx, startLockKey(playerID), time.Minute)
	require.NoError(t, err)

	_, err = fx.svc.StartBattle(ctx, playerID, StartBattleParams{})
	assert.ErrorIs(t, err, models.ErrBattleStartInProgress)

	_, err = fx.svc.GetActiveBattle(ctx, playerID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStartBattleReleasesLock(t *testing.T) {
	ctx := context.Background()
	locker := new(mocks.Locker)
	fx := newFixture(t, withLocker(locker))
	playerID := uuid.New()
	key := startLockKey(playerID)

	locker.On("TryLock", mock.Anything, key, DefaultStartLockTTL).Return("token-1", nil).Once()
	locker.On("Unlock", mock.Anything, key, "token-1").Return(nil).Once()

	_, err := fx.svc.StartBattle(ctx, playerID, StartBattleParams{})
	require.NoError(t, err)
	locker.AssertExpectations(t)
}

func TestStartBattleLockUnavailable(t *testing.T) {
	ctx := context.Background()
	locker := new(mocks.Locker)
	fx := newFixture(t, withLocker(locker))
	playerID := uuid.New()

	locker.On("TryLock", mock.Anything, startLockKey(playerID), DefaultStartLockTTL).
		Return("", errors.New("redis: connection refused")).Once()

	res, err := fx.svc.StartBattle(ctx, playerID, StartBattleParams{})
	require.NoError(t, err)
	assert.True(t, res.IsNewSession)
	locker.AssertExpectations(t)
	locker.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything)
}

func TestBeginBattle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	playerID := uuid.New()
	session := fx.seedBattle(t, playerID, seedParams{clicksRequired: 50, attackDamage: 2})

	fx.advance(3 * time.Second)
	begun, err := fx.svc.BeginBattle(ctx, playerID, session.ID)
	require.NoError(t, err)
	require.NotNil(t, begun.ActualBattleStartedAt)
	assert.Equal(t, baseTime.Add(3*time.Second), *begun.ActualBattleStartedAt)

	// Повторный вызов не сдвигает отметку
	fx.advance(3 * time.Second)
	again, err := fx.svc.BeginBattle(ctx, playerID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, baseTime.Add(3*time.Second), *again.ActualBattleStartedAt)

	_, err = fx.svc.BeginBattle(ctx, uuid.New(), session.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, fx.svc.ReportDeath(ctx, playerID, session.ID))
	_, err = fx.svc.BeginBattle(ctx, playerID, session.ID)
	assert.ErrorIs(t, err, models.ErrSessionAlreadyCompleted)
}
