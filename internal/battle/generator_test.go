package battle

import (
	"testing"

	"monster-clicker/internal/content"
	"monster-clicker/internal/random"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource возвращает заранее заданные значения по порядку.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

func newTestGenerator(t *testing.T, src random.Source) *Generator {
	t.Helper()
	tables, err := content.Default()
	require.NoError(t, err)
	return NewGenerator(tables, src)
}

var forest1 = models.Zone{Biome: models.BiomeForest, Tier: 1}

func TestGenerateRegularMonster(t *testing.T) {
	g := newTestGenerator(t, &scriptedSource{floats: []float64{0.99, 0.99}, ints: []int{0, 5}})

	m, err := g.Generate(GenerateParams{Zone: forest1, Now: baseTime})
	require.NoError(t, err)

	assert.Equal(t, "forest-slime", m.TemplateID)
	assert.Equal(t, 35, m.ClicksRequired)
	assert.InDelta(t, 1.5, m.AttackDamage, 1e-9)
	assert.Equal(t, 60, m.EscapeTimerSeconds)
	assert.False(t, m.IsBoss)
	assert.False(t, m.IsCorrupted)
	assert.Empty(t, m.Buffs, "low tier regular monsters get no buffs")
	assert.Equal(t, "forest", m.LootTableID)
	assert.Equal(t, baseTime, m.CreatedAt)
	assert.NotEqual(t, uuid.Nil, m.ID)
}

func TestGenerateCorruptedMonster(t *testing.T) {
	g := newTestGenerator(t, &scriptedSource{floats: []float64{0.99, 0.05}, ints: []int{0, 5}})

	m, err := g.Generate(GenerateParams{Zone: forest1, Now: baseTime})
	require.NoError(t, err)

	assert.True(t, m.IsCorrupted)
	assert.Equal(t, 53, m.ClicksRequired) // ceil(35 * 1.5)
	assert.InDelta(t, 1.88, m.AttackDamage, 1e-9)
}

func TestGenerateCorruptionDependsOnStreak(t *testing.T) {
	// 0.25 выше базового шанса 10%, но ниже шанса при серии 10 (30%)
	g := newTestGenerator(t, &scriptedSource{floats: []float64{0.99, 0.25}, ints: []int{0, 0}})
	m, err := g.Generate(GenerateParams{Zone: forest1, Now: baseTime})
	require.NoError(t, err)
	assert.False(t, m.IsCorrupted)

	g = newTestGenerator(t, &scriptedSource{floats: []float64{0.99, 0.25}, ints: []int{0, 0}})
	m, err = g.Generate(GenerateParams{Zone: forest1, WinStreak: 10, Now: baseTime})
	require.NoError(t, err)
	assert.True(t, m.IsCorrupted)
}

func TestGenerateBoss(t *testing.T) {
	g := newTestGenerator(t, &scriptedSource{floats: []float64{0.0, 0.99}, ints: []int{0, 0, 0}})

	m, err := g.Generate(GenerateParams{Zone: forest1, Now: baseTime})
	require.NoError(t, err)

	assert.True(t, m.IsBoss)
	assert.Equal(t, "forest-ent", m.TemplateID)
	require.Len(t, m.Buffs, 1)
	assert.Equal(t, models.BuffShield, m.Buffs[0].Type)
	assert.Equal(t, 150, m.ClicksRequired) // 120 * shield 1.25
	require.Len(t, m.SpecialAttacks, 1)
	assert.InDelta(t, 8.0, m.SpecialAttacks[0].IntervalSeconds, 1e-9)
}

func TestGenerateTierScaling(t *testing.T) {
	g := newTestGenerator(t, &scriptedSource{floats: []float64{0.99, 0.99}, ints: []int{1, 0, 0}})

	m, err := g.Generate(GenerateParams{Zone: models.Zone{Biome: models.BiomeForest, Tier: 3}, Now: baseTime})
	require.NoError(t, err)

	assert.Equal(t, "forest-wolf", m.TemplateID)
	assert.Equal(t, 80, m.ClicksRequired)        // 40 * (1 + 0.5*2)
	assert.InDelta(t, 3.4, m.AttackDamage, 1e-9) // 2 * (1 + 0.35*2)
	assert.Empty(t, m.Buffs)
}

func TestGenerateAppliesChallengeModifiers(t *testing.T) {
	g := newTestGenerator(t, &scriptedSource{floats: []float64{0.99, 0.99}, ints: []int{0, 5}})

	challenge := &models.ChallengeConfig{
		MonsterHPMultiplier:     2,
		MonsterDamageMultiplier: 2,
		ForcedBuffs:             []models.BuffType{models.BuffRage},
		EscapeTimerMultiplier:   0.5,
	}
	m, err := g.Generate(GenerateParams{Zone: forest1, Challenge: challenge, Now: baseTime})
	require.NoError(t, err)

	assert.Equal(t, 70, m.ClicksRequired)
	assert.InDelta(t, 3.6, m.AttackDamage, 1e-9) // 1.5 * 2 * rage 1.2
	assert.Equal(t, 30, m.EscapeTimerSeconds)
	assert.True(t, m.HasBuff(models.BuffRage))
}

func TestGenerateBossChallengeModifiers(t *testing.T) {
	challenge := &models.ChallengeConfig{BossSpawnRateMultiplier: 10, BossAttackSpeedMultiplier: 2}

	g := newTestGenerator(t, &scriptedSource{floats: []float64{0.4, 0.99}, ints: []int{0, 0, 0}})
	m, err := g.Generate(GenerateParams{Zone: forest1, Challenge: challenge, Now: baseTime})
	require.NoError(t, err)
	assert.True(t, m.IsBoss, "spawn rate 0.05 * 10 = 0.5 > 0.4")
	assert.InDelta(t, 4.0, m.SpecialAttacks[0].IntervalSeconds, 1e-9)

	g = newTestGenerator(t, &scriptedSource{floats: []float64{0.4, 0.99}, ints: []int{0, 0}})
	m, err = g.Generate(GenerateParams{Zone: forest1, Now: baseTime})
	require.NoError(t, err)
	assert.False(t, m.IsBoss)
}

func TestGenerateIsReproducibleForSeed(t *testing.T) {
	challenge := &models.ChallengeConfig{MonsterHPMultiplier: 1.5, ForcedBuffs: []models.BuffType{models.BuffArmor}}
	params := GenerateParams{Zone: models.Zone{Biome: models.BiomeVolcano, Tier: 4}, WinStreak: 3, Challenge: challenge, Now: baseTime}

	for i := 0; i < 10; i++ {
		a, err := newTestGenerator(t, random.New(uint64(i))).Generate(params)
		require.NoError(t, err)
		b, err := newTestGenerator(t, random.New(uint64(i))).Generate(params)
		require.NoError(t, err)

		a.ID, b.ID = uuid.Nil, uuid.Nil
		assert.Equal(t, a, b)
	}
}

func TestGenerateRejectsInvalidZone(t *testing.T) {
	g := newTestGenerator(t, random.New(1))
	_, err := g.Generate(GenerateParams{Zone: models.Zone{Biome: models.BiomeForest, Tier: 6}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
