package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMonsterApplyCheatPenaltyDoubles(t *testing.T) {
	m := &Monster{ID: uuid.New(), ClicksRequired: 50}

	assert.Equal(t, 100, m.ApplyCheatPenalty())
	assert.Equal(t, 200, m.ApplyCheatPenalty())
	assert.Equal(t, 200, m.ClicksRequired)
}

func TestMonsterApplyCheatPenaltySaturates(t *testing.T) {
	m := &Monster{ClicksRequired: MaxClicksRequired/2 + 1}
	assert.Equal(t, MaxClicksRequired, m.ApplyCheatPenalty())
	assert.Equal(t, MaxClicksRequired, m.ApplyCheatPenalty())

	m = &Monster{ClicksRequired: 50}
	for i := 0; i < 100; i++ {
		got := m.ApplyCheatPenalty()
		assert.Positive(t, got)
		assert.LessOrEqual(t, got, MaxClicksRequired)
	}
	assert.Equal(t, MaxClicksRequired, m.ClicksRequired)
}

func TestBattleSessionState(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := &BattleSession{StartedAt: started, LootOptions: []string{"a", "b"}}

	assert.True(t, s.IsActive())
	assert.Equal(t, started, s.BattleStart())

	begun := started.Add(5 * time.Second)
	s.ActualBattleStartedAt = &begun
	assert.Equal(t, begun, s.BattleStart())

	assert.True(t, s.HasLootOption("b"))
	assert.False(t, s.HasLootOption(LootSkipped))

	done := begun.Add(time.Minute)
	s.CompletedAt = &done
	assert.False(t, s.IsActive())

	cp := s.Clone()
	*cp.CompletedAt = started
	cp.LootOptions[0] = "z"
	assert.Equal(t, done, *s.CompletedAt)
	assert.Equal(t, "a", s.LootOptions[0])
}

func TestChallengeConfigDefaults(t *testing.T) {
	var c *ChallengeConfig
	assert.Equal(t, 1.0, c.HPMultiplier())
	assert.Equal(t, 1.0, c.BossSpawnRate())
	assert.Nil(t, c.Buffs())
	assert.Nil(t, c.Clone())

	c = &ChallengeConfig{MonsterDamageMultiplier: 2}
	assert.Equal(t, 2.0, c.DamageMultiplier())
	assert.Equal(t, 1.0, c.EscapeMultiplier())
}
