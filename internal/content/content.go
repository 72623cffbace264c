// Package content holds the read-only game content tables: biomes, monster
// templates, buffs, loot tables and item definitions.
package content

import (
	"fmt"
	"strings"

	"monster-clicker/shared/models"
)

// ItemKind - категория предмета.
type ItemKind string

const (
	KindConsumable ItemKind = "consumable"
	KindWeapon     ItemKind = "weapon"
	KindArmor      ItemKind = "armor"
	KindAccessory  ItemKind = "accessory"
	KindMaterial   ItemKind = "material"
)

// Rarity - редкость предмета.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// LegacyHealAmount - лечение расходников без явного healAmount,
// распознанных по имени ("potion"/"elixir").
const LegacyHealAmount = 50

// LootItem - определение предмета, который может выпасть из монстра.
type LootItem struct {
	ID         string   `json:"id" yaml:"id" validate:"required"`
	Name       string   `json:"name" yaml:"name" validate:"required"`
	Kind       ItemKind `json:"kind" yaml:"kind" validate:"required,oneof=consumable weapon armor accessory material"`
	Rarity     Rarity   `json:"rarity" yaml:"rarity" validate:"required,oneof=common uncommon rare epic legendary"`
	HealAmount int      `json:"healAmount,omitempty" yaml:"healAmount" validate:"gte=0"`
	Power      int      `json:"power,omitempty" yaml:"power" validate:"gte=0"`
}

// LootTable - набор предметов, из которого формируются варианты награды.
type LootTable struct {
	ID      string   `json:"id" yaml:"id" validate:"required"`
	ItemIDs []string `json:"itemIds" yaml:"itemIds" validate:"required,min=1,dive,required"`
}

// MonsterTemplate - шаблон, из которого генерируется монстр.
type MonsterTemplate struct {
	ID                 string                 `json:"id" yaml:"id" validate:"required"`
	Name               string                 `json:"name" yaml:"name" validate:"required"`
	Biome              string                 `json:"biome" yaml:"biome" validate:"required,oneof=forest desert tundra volcano abyss"`
	MinTier            int                    `json:"minTier" yaml:"minTier" validate:"gte=1,lte=5"`
	MaxTier            int                    `json:"maxTier" yaml:"maxTier" validate:"gte=1,lte=5,gtefield=MinTier"`
	IsBoss             bool                   `json:"isBoss" yaml:"isBoss"`
	MinClicks          int                    `json:"minClicks" yaml:"minClicks" validate:"gte=1"`
	MaxClicks          int                    `json:"maxClicks" yaml:"maxClicks" validate:"gtefield=MinClicks"`
	BaseDamage         float64                `json:"baseDamage" yaml:"baseDamage" validate:"gt=0"`
	EscapeTimerSeconds int                    `json:"escapeTimerSeconds" yaml:"escapeTimerSeconds" validate:"gte=10"`
	LootTableID        string                 `json:"lootTableId" yaml:"lootTableId" validate:"required"`
	SpecialAttacks     []models.SpecialAttack `json:"specialAttacks,omitempty" yaml:"specialAttacks"`
}

// BuffDefinition описывает эффект процедурного баффа на статы монстра.
// Нулевой множитель означает отсутствие эффекта.
type BuffDefinition struct {
	Type             models.BuffType `json:"type" yaml:"type" validate:"required,oneof=shield armor rage swiftness regeneration thorns"`
	MinTier          int             `json:"minTier" yaml:"minTier" validate:"gte=1,lte=5"`
	Magnitude        float64         `json:"magnitude" yaml:"magnitude" validate:"gte=0"`
	ClicksMultiplier float64         `json:"clicksMultiplier,omitempty" yaml:"clicksMultiplier" validate:"gte=0"`
	DamageMultiplier float64         `json:"damageMultiplier,omitempty" yaml:"damageMultiplier" validate:"gte=0"`
	EscapeMultiplier float64         `json:"escapeMultiplier,omitempty" yaml:"escapeMultiplier" validate:"gte=0"`
}

// BiomeSettings - параметры биома.
type BiomeSettings struct {
	Biome                string  `json:"biome" yaml:"biome" validate:"required,oneof=forest desert tundra volcano abyss"`
	BaseBossSpawnRate    float64 `json:"baseBossSpawnRate" yaml:"baseBossSpawnRate" validate:"gte=0,lte=1"`
	BossSpawnRatePerTier float64 `json:"bossSpawnRatePerTier" yaml:"bossSpawnRatePerTier" validate:"gte=0,lte=1"`
}

// Tables - проиндексированные таблицы контента. После Build не изменяются.
type Tables struct {
	Biomes     []BiomeSettings   `json:"biomes" yaml:"biomes" validate:"required,min=1,dive"`
	Monsters   []MonsterTemplate `json:"monsters" yaml:"monsters" validate:"required,min=1,dive"`
	Buffs      []BuffDefinition  `json:"buffs" yaml:"buffs" validate:"dive"`
	LootTables []LootTable       `json:"lootTables" yaml:"lootTables" validate:"required,min=1,dive"`
	Items      []LootItem        `json:"items" yaml:"items" validate:"required,min=1,dive"`

	itemsByID   map[string]LootItem
	tablesByID  map[string]LootTable
	buffsByType map[models.BuffType]BuffDefinition
	biomes      map[models.Biome]BiomeSettings
}

// Build строит индексы и проверяет ссылки между таблицами.
func (t *Tables) Build() error {
	t.itemsByID = make(map[string]LootItem, len(t.Items))
	for _, item := range t.Items {
		if _, dup := t.itemsByID[item.ID]; dup {
			return fmt.Errorf("duplicate item id %q", item.ID)
		}
		t.itemsByID[item.ID] = item
	}

	t.tablesByID = make(map[string]LootTable, len(t.LootTables))
	for _, lt := range t.LootTables {
		for _, id := range lt.ItemIDs {
			if _, ok := t.itemsByID[id]; !ok {
				return fmt.Errorf("loot table %q references unknown item %q", lt.ID, id)
			}
		}
		t.tablesByID[lt.ID] = lt
	}

	for _, m := range t.Monsters {
		if _, ok := t.tablesByID[m.LootTableID]; !ok {
			return fmt.Errorf("monster template %q references unknown loot table %q", m.ID, m.LootTableID)
		}
	}

	t.buffsByType = make(map[models.BuffType]BuffDefinition, len(t.Buffs))
	for _, b := range t.Buffs {
		t.buffsByType[b.Type] = b
	}

	t.biomes = make(map[models.Biome]BiomeSettings, len(t.Biomes))
	for _, b := range t.Biomes {
		biome, err := models.ParseBiome(b.Biome)
		if err != nil {
			return err
		}
		t.biomes[biome] = b
	}

	// У каждой зоны должен быть хотя бы один обычный шаблон
	for _, biome := range models.AllBiomes() {
		for tier := models.MinTier; tier <= models.MaxTier; tier++ {
			z := models.Zone{Biome: biome, Tier: tier}
			if len(t.TemplatesFor(z, false)) == 0 {
				return fmt.Errorf("no regular monster template for zone %s", z.Key())
			}
		}
	}
	return nil
}

// Item возвращает определение предмета.
func (t *Tables) Item(id string) (LootItem, bool) {
	item, ok := t.itemsByID[id]
	return item, ok
}

// LootTable возвращает таблицу лута.
func (t *Tables) LootTable(id string) (LootTable, bool) {
	lt, ok := t.tablesByID[id]
	return lt, ok
}

// Buff возвращает определение баффа.
func (t *Tables) Buff(bt models.BuffType) (BuffDefinition, bool) {
	b, ok := t.buffsByType[bt]
	return b, ok
}

// BuffsAvailable возвращает баффы, доступные на данном тире, в порядке таблицы.
func (t *Tables) BuffsAvailable(tier int) []BuffDefinition {
	var out []BuffDefinition
	for _, b := range t.Buffs {
		if b.MinTier <= tier {
			out = append(out, b)
		}
	}
	return out
}

// TemplatesFor возвращает шаблоны зоны: боссов или обычных монстров.
func (t *Tables) TemplatesFor(z models.Zone, boss bool) []MonsterTemplate {
	name := z.Biome.String()
	var out []MonsterTemplate
	for _, m := range t.Monsters {
		if m.Biome == name && m.IsBoss == boss && m.MinTier <= z.Tier && z.Tier <= m.MaxTier {
			out = append(out, m)
		}
	}
	return out
}

// BossSpawnRate - базовая вероятность босса для зоны до модификаторов испытания.
func (t *Tables) BossSpawnRate(z models.Zone) float64 {
	b, ok := t.biomes[z.Biome]
	if !ok {
		return 0
	}
	return b.BaseBossSpawnRate + b.BossSpawnRatePerTier*float64(z.Tier-1)
}

// HealingFor возвращает лечение от одного использования предмета.
// Неизвестные предметы и не-расходники не лечат.
func (t *Tables) HealingFor(itemID string) int {
	item, ok := t.itemsByID[itemID]
	if !ok || item.Kind != KindConsumable {
		return 0
	}
	if item.HealAmount > 0 {
		return item.HealAmount
	}
	// Старые предметы без healAmount распознаются по имени
	name := strings.ToLower(item.Name)
	if strings.Contains(name, "potion") || strings.Contains(name, "elixir") {
		return LegacyHealAmount
	}
	return 0
}
