package content

import "monster-clicker/shared/models"

// Default возвращает встроенные таблицы контента.
func Default() (*Tables, error) {
	t := defaultTables()
	if err := t.Build(); err != nil {
		return nil, err
	}
	return t, nil
}

func defaultTables() *Tables {
	return &Tables{
		Biomes: []BiomeSettings{
			{Biome: "forest", BaseBossSpawnRate: 0.05, BossSpawnRatePerTier: 0.025},
			{Biome: "desert", BaseBossSpawnRate: 0.05, BossSpawnRatePerTier: 0.025},
			{Biome: "tundra", BaseBossSpawnRate: 0.06, BossSpawnRatePerTier: 0.03},
			{Biome: "volcano", BaseBossSpawnRate: 0.07, BossSpawnRatePerTier: 0.03},
			{Biome: "abyss", BaseBossSpawnRate: 0.08, BossSpawnRatePerTier: 0.035},
		},
		Buffs: []BuffDefinition{
			{Type: models.BuffShield, MinTier: 1, Magnitude: 0.25, ClicksMultiplier: 1.25},
			{Type: models.BuffArmor, MinTier: 2, Magnitude: 0.15, ClicksMultiplier: 1.15},
			{Type: models.BuffRage, MinTier: 3, Magnitude: 0.2, DamageMultiplier: 1.2},
			{Type: models.BuffSwiftness, MinTier: 3, Magnitude: 0.2, EscapeMultiplier: 0.8},
			{Type: models.BuffRegeneration, MinTier: 4, Magnitude: 0.02},
			{Type: models.BuffThorns, MinTier: 4, Magnitude: 0.1, DamageMultiplier: 1.1},
		},
		Items: []LootItem{
			{ID: "minor-health-potion", Name: "Minor Health Potion", Kind: KindConsumable, Rarity: RarityCommon, HealAmount: 50},
			{ID: "health-potion", Name: "Health Potion", Kind: KindConsumable, Rarity: RarityUncommon, HealAmount: 50},
			{ID: "phoenix-elixir", Name: "Phoenix Elixir", Kind: KindConsumable, Rarity: RarityEpic, HealAmount: 50},
			// Предмет старого формата без healAmount
			{ID: "old-forest-potion", Name: "Old Forest Potion", Kind: KindConsumable, Rarity: RarityCommon},
			{ID: "smoke-bomb", Name: "Smoke Bomb", Kind: KindConsumable, Rarity: RarityUncommon},
			{ID: "oak-branch", Name: "Oak Branch", Kind: KindMaterial, Rarity: RarityCommon},
			{ID: "wolf-pelt", Name: "Wolf Pelt", Kind: KindMaterial, Rarity: RarityCommon},
			{ID: "druid-staff", Name: "Druid Staff", Kind: KindWeapon, Rarity: RarityRare, Power: 12},
			{ID: "sand-glass", Name: "Sand Glass", Kind: KindMaterial, Rarity: RarityCommon},
			{ID: "scarab-charm", Name: "Scarab Charm", Kind: KindAccessory, Rarity: RarityUncommon, Power: 5},
			{ID: "sunforged-scimitar", Name: "Sunforged Scimitar", Kind: KindWeapon, Rarity: RarityEpic, Power: 24},
			{ID: "frost-shard", Name: "Frost Shard", Kind: KindMaterial, Rarity: RarityCommon},
			{ID: "yeti-fur-cloak", Name: "Yeti Fur Cloak", Kind: KindArmor, Rarity: RarityRare, Power: 14},
			{ID: "glacier-crown", Name: "Glacier Crown", Kind: KindAccessory, Rarity: RarityLegendary, Power: 40},
			{ID: "obsidian-chunk", Name: "Obsidian Chunk", Kind: KindMaterial, Rarity: RarityCommon},
			{ID: "magma-plate", Name: "Magma Plate", Kind: KindArmor, Rarity: RarityEpic, Power: 26},
			{ID: "ember-blade", Name: "Ember Blade", Kind: KindWeapon, Rarity: RarityRare, Power: 18},
			{ID: "void-essence", Name: "Void Essence", Kind: KindMaterial, Rarity: RarityUncommon},
			{ID: "abyssal-ring", Name: "Abyssal Ring", Kind: KindAccessory, Rarity: RarityEpic, Power: 30},
			{ID: "starfall-greatsword", Name: "Starfall Greatsword", Kind: KindWeapon, Rarity: RarityLegendary, Power: 55},
		},
		LootTables: []LootTable{
			{ID: "forest", ItemIDs: []string{"minor-health-potion", "health-potion", "old-forest-potion", "oak-branch", "wolf-pelt", "druid-staff", "smoke-bomb"}},
			{ID: "desert", ItemIDs: []string{"minor-health-potion", "health-potion", "sand-glass", "scarab-charm", "sunforged-scimitar", "smoke-bomb"}},
			{ID: "tundra", ItemIDs: []string{"health-potion", "frost-shard", "yeti-fur-cloak", "glacier-crown", "smoke-bomb", "phoenix-elixir"}},
			{ID: "volcano", ItemIDs: []string{"health-potion", "obsidian-chunk", "magma-plate", "ember-blade", "phoenix-elixir", "smoke-bomb"}},
			{ID: "abyss", ItemIDs: []string{"health-potion", "phoenix-elixir", "void-essence", "abyssal-ring", "starfall-greatsword", "obsidian-chunk"}},
		},
		Monsters: []MonsterTemplate{
			{ID: "forest-slime", Name: "Moss Slime", Biome: "forest", MinTier: 1, MaxTier: 3, MinClicks: 30, MaxClicks: 45, BaseDamage: 1.5, EscapeTimerSeconds: 60, LootTableID: "forest"},
			{ID: "forest-wolf", Name: "Grey Wolf", Biome: "forest", MinTier: 2, MaxTier: 5, MinClicks: 40, MaxClicks: 60, BaseDamage: 2, EscapeTimerSeconds: 60, LootTableID: "forest"},
			{ID: "forest-ent", Name: "Ancient Ent", Biome: "forest", MinTier: 1, MaxTier: 5, IsBoss: true, MinClicks: 120, MaxClicks: 160, BaseDamage: 3, EscapeTimerSeconds: 90, LootTableID: "forest",
				SpecialAttacks: []models.SpecialAttack{{Name: "Root Slam", Damage: 15, IntervalSeconds: 8}}},
			{ID: "desert-scorpion", Name: "Dune Scorpion", Biome: "desert", MinTier: 1, MaxTier: 5, MinClicks: 45, MaxClicks: 65, BaseDamage: 2.5, EscapeTimerSeconds: 60, LootTableID: "desert"},
			{ID: "desert-mummy", Name: "Restless Mummy", Biome: "desert", MinTier: 3, MaxTier: 5, MinClicks: 55, MaxClicks: 75, BaseDamage: 2.5, EscapeTimerSeconds: 60, LootTableID: "desert"},
			{ID: "desert-sphinx", Name: "Sphinx", Biome: "desert", MinTier: 1, MaxTier: 5, IsBoss: true, MinClicks: 150, MaxClicks: 190, BaseDamage: 3.5, EscapeTimerSeconds: 90, LootTableID: "desert",
				SpecialAttacks: []models.SpecialAttack{{Name: "Riddle of Sand", Damage: 18, IntervalSeconds: 9}}},
			{ID: "tundra-yeti", Name: "Yeti", Biome: "tundra", MinTier: 1, MaxTier: 5, MinClicks: 60, MaxClicks: 80, BaseDamage: 3, EscapeTimerSeconds: 60, LootTableID: "tundra"},
			{ID: "tundra-wraith", Name: "Ice Wraith", Biome: "tundra", MinTier: 2, MaxTier: 5, MinClicks: 55, MaxClicks: 85, BaseDamage: 3.5, EscapeTimerSeconds: 55, LootTableID: "tundra"},
			{ID: "tundra-wyrm", Name: "Frost Wyrm", Biome: "tundra", MinTier: 1, MaxTier: 5, IsBoss: true, MinClicks: 170, MaxClicks: 220, BaseDamage: 4, EscapeTimerSeconds: 90, LootTableID: "tundra",
				SpecialAttacks: []models.SpecialAttack{{Name: "Blizzard Breath", Damage: 22, IntervalSeconds: 10}}},
			{ID: "volcano-imp", Name: "Lava Imp", Biome: "volcano", MinTier: 1, MaxTier: 5, MinClicks: 70, MaxClicks: 90, BaseDamage: 4, EscapeTimerSeconds: 55, LootTableID: "volcano"},
			{ID: "volcano-golem", Name: "Magma Golem", Biome: "volcano", MinTier: 2, MaxTier: 5, MinClicks: 90, MaxClicks: 120, BaseDamage: 3.5, EscapeTimerSeconds: 60, LootTableID: "volcano"},
			{ID: "volcano-drake", Name: "Cinder Drake", Biome: "volcano", MinTier: 1, MaxTier: 5, IsBoss: true, MinClicks: 200, MaxClicks: 260, BaseDamage: 5, EscapeTimerSeconds: 90, LootTableID: "volcano",
				SpecialAttacks: []models.SpecialAttack{{Name: "Eruption", Damage: 25, IntervalSeconds: 9}, {Name: "Ash Cloud", Damage: 10, IntervalSeconds: 5}}},
			{ID: "abyss-horror", Name: "Gibbering Horror", Biome: "abyss", MinTier: 1, MaxTier: 5, MinClicks: 85, MaxClicks: 110, BaseDamage: 5, EscapeTimerSeconds: 50, LootTableID: "abyss"},
			{ID: "abyss-shade", Name: "Void Shade", Biome: "abyss", MinTier: 1, MaxTier: 5, MinClicks: 75, MaxClicks: 105, BaseDamage: 5.5, EscapeTimerSeconds: 45, LootTableID: "abyss"},
			{ID: "abyss-leviathan", Name: "Abyssal Leviathan", Biome: "abyss", MinTier: 1, MaxTier: 5, IsBoss: true, MinClicks: 240, MaxClicks: 300, BaseDamage: 6, EscapeTimerSeconds: 100, LootTableID: "abyss",
				SpecialAttacks: []models.SpecialAttack{{Name: "Tidal Crush", Damage: 30, IntervalSeconds: 10}}},
		},
	}
}
