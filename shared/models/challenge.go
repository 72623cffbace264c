package models

// ChallengeConfig - набор модификаторов сложности, выбранный игроком.
// Нулевое значение множителя означает 1.0.
type ChallengeConfig struct {
	MonsterHPMultiplier       float64    `json:"monsterHpMultiplier,omitempty" yaml:"monsterHpMultiplier" validate:"omitempty,gte=0.5,lte=5"`
	MonsterDamageMultiplier   float64    `json:"monsterDamageMultiplier,omitempty" yaml:"monsterDamageMultiplier" validate:"omitempty,gte=0.5,lte=5"`
	ForcedBuffs               []BuffType `json:"forcedBuffs,omitempty" yaml:"forcedBuffs" validate:"omitempty,max=6,dive,oneof=shield armor rage swiftness regeneration thorns"`
	EscapeTimerMultiplier     float64    `json:"escapeTimerMultiplier,omitempty" yaml:"escapeTimerMultiplier" validate:"omitempty,gte=0.25,lte=1"`
	BossAttackSpeedMultiplier float64    `json:"bossAttackSpeedMultiplier,omitempty" yaml:"bossAttackSpeedMultiplier" validate:"omitempty,gte=1,lte=4"`
	BossSpawnRateMultiplier   float64    `json:"bossSpawnRateMultiplier,omitempty" yaml:"bossSpawnRateMultiplier" validate:"omitempty,gte=0.1,lte=10"`
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func (c *ChallengeConfig) HPMultiplier() float64 {
	if c == nil {
		return 1
	}
	return orOne(c.MonsterHPMultiplier)
}

func (c *ChallengeConfig) DamageMultiplier() float64 {
	if c == nil {
		return 1
	}
	return orOne(c.MonsterDamageMultiplier)
}

func (c *ChallengeConfig) EscapeMultiplier() float64 {
	if c == nil {
		return 1
	}
	return orOne(c.EscapeTimerMultiplier)
}

func (c *ChallengeConfig) BossAttackSpeed() float64 {
	if c == nil {
		return 1
	}
	return orOne(c.BossAttackSpeedMultiplier)
}

func (c *ChallengeConfig) BossSpawnRate() float64 {
	if c == nil {
		return 1
	}
	return orOne(c.BossSpawnRateMultiplier)
}

// Buffs возвращает принудительные баффы (nil-safe).
func (c *ChallengeConfig) Buffs() []BuffType {
	if c == nil {
		return nil
	}
	return c.ForcedBuffs
}

// Clone возвращает копию или nil.
func (c *ChallengeConfig) Clone() *ChallengeConfig {
	if c == nil {
		return nil
	}
	cp := *c
	cp.ForcedBuffs = append([]BuffType(nil), c.ForcedBuffs...)
	return &cp
}
