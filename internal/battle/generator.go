package battle

import (
	"fmt"
	"math"
	"time"

	"monster-clicker/internal/content"
	"monster-clicker/internal/random"
	"monster-clicker/shared/models"

	"github.com/google/uuid"
)

const (
	tierClickScale    = 0.5
	tierDamageScale   = 0.35
	minEscapeSeconds  = 10
	lowTierBuffCutoff = 3 // обычные монстры ниже этого тира без баффов
)

// GenerateParams - входные данные генерации монстра.
type GenerateParams struct {
	Zone      models.Zone
	WinStreak int
	Challenge *models.ChallengeConfig
	Now       time.Time
}

// Generator создает монстров по шаблонам контента.
type Generator struct {
	tables *content.Tables
	rng    random.Source
}

// NewGenerator создает генератор.
func NewGenerator(tables *content.Tables, rng random.Source) *Generator {
	return &Generator{tables: tables, rng: rng}
}

// Generate применяет шаги в фиксированном порядке, поэтому результат
// воспроизводим по seed и сохраненной конфигурации испытания:
//  1. шанс босса (тир * множитель испытания)
//  2. выбор шаблона
//  3. клики по шаблону * масштаб тира
//  4. урон по шаблону * масштаб тира
//  5. процедурные баффы
//  6. порча (зависит от серии побед)
//  7. множитель HP испытания
//  8. множитель урона испытания
//  9. принудительные баффы испытания
//  10. сжатие таймера побега
//  11. скорость атак босса
func (g *Generator) Generate(p GenerateParams) (*models.Monster, error) {
	if err := p.Zone.Validate(); err != nil {
		return nil, err
	}
	ch := p.Challenge

	// 1-2
	bossRate := clamp01(g.tables.BossSpawnRate(p.Zone) * ch.BossSpawnRate())
	isBoss := g.rng.Float64() < bossRate
	templates := g.tables.TemplatesFor(p.Zone, isBoss)
	if len(templates) == 0 && isBoss {
		isBoss = false
		templates = g.tables.TemplatesFor(p.Zone, false)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no monster templates for zone %s", p.Zone.Key())
	}
	tpl := templates[g.rng.IntN(len(templates))]

	m := &models.Monster{
		ID:                 uuid.New(),
		TemplateID:         tpl.ID,
		Name:               tpl.Name,
		Biome:              p.Zone.Biome,
		Tier:               p.Zone.Tier,
		IsBoss:             isBoss,
		EscapeTimerSeconds: tpl.EscapeTimerSeconds,
		LootTableID:        tpl.LootTableID,
		SpecialAttacks:     append([]models.SpecialAttack(nil), tpl.SpecialAttacks...),
		Buffs:              []models.MonsterBuff{},
		CreatedAt:          p.Now,
	}

	// 3-4
	clicks := float64(tpl.MinClicks + g.rng.IntN(tpl.MaxClicks-tpl.MinClicks+1))
	clicks *= 1 + tierClickScale*float64(p.Zone.Tier-1)
	damage := tpl.BaseDamage * (1 + tierDamageScale*float64(p.Zone.Tier-1))
	escape := float64(tpl.EscapeTimerSeconds)

	// 5
	for _, def := range g.rollBuffs(p.Zone.Tier, isBoss) {
		m.Buffs = append(m.Buffs, models.MonsterBuff{Type: def.Type, Magnitude: def.Magnitude})
		clicks, damage, escape = applyBuff(def, clicks, damage, escape)
	}

	// 6
	if g.rng.Float64() < CorruptionChance(p.WinStreak) {
		m.IsCorrupted = true
		clicks *= CorruptedHPBoost
		damage *= CorruptedDmgBoost
	}

	// 7-8
	clicks *= ch.HPMultiplier()
	damage *= ch.DamageMultiplier()

	// 9
	for _, bt := range ch.Buffs() {
		if m.HasBuff(bt) {
			continue
		}
		def, ok := g.tables.Buff(bt)
		if !ok {
			continue
		}
		m.Buffs = append(m.Buffs, models.MonsterBuff{Type: def.Type, Magnitude: def.Magnitude})
		clicks, damage, escape = applyBuff(def, clicks, damage, escape)
	}

	// 10
	escape *= ch.EscapeMultiplier()

	// 11
	if isBoss {
		speed := ch.BossAttackSpeed()
		for i := range m.SpecialAttacks {
			m.SpecialAttacks[i].IntervalSeconds = round2(m.SpecialAttacks[i].IntervalSeconds / speed)
		}
	}

	// погрешность float не должна давать лишний клик
	m.ClicksRequired = int(math.Ceil(math.Round(clicks*1e6) / 1e6))
	m.AttackDamage = round2(damage)
	m.EscapeTimerSeconds = int(math.Round(escape))
	if m.EscapeTimerSeconds < minEscapeSeconds {
		m.EscapeTimerSeconds = minEscapeSeconds
	}
	return m, nil
}

// rollBuffs выбирает различные баффы, доступные на тире.
func (g *Generator) rollBuffs(tier int, isBoss bool) []content.BuffDefinition {
	if !isBoss && tier < lowTierBuffCutoff {
		return nil
	}
	pool := g.tables.BuffsAvailable(tier)
	if len(pool) == 0 {
		return nil
	}

	var count int
	if isBoss {
		count = 1 + tier/2
	} else {
		count = g.rng.IntN(tier - 1) // тир 3: 0..1, тир 5: 0..3
	}
	if count > len(pool) {
		count = len(pool)
	}

	picked := make([]content.BuffDefinition, 0, count)
	for i := 0; i < count; i++ {
		idx := g.rng.IntN(len(pool))
		picked = append(picked, pool[idx])
		pool = append(pool[:idx:idx], pool[idx+1:]...)
	}
	return picked
}

func applyBuff(def content.BuffDefinition, clicks, damage, escape float64) (float64, float64, float64) {
	if def.ClicksMultiplier > 0 {
		clicks *= def.ClicksMultiplier
	}
	if def.DamageMultiplier > 0 {
		damage *= def.DamageMultiplier
	}
	if def.EscapeMultiplier > 0 {
		escape *= def.EscapeMultiplier
	}
	return clicks, damage, escape
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
