package content

import (
	"fmt"
	"math"

	"monster-clicker/internal/random"
)

var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
}

var baseRarityWeights = map[Rarity]float64{
	RarityCommon:    60,
	RarityUncommon:  25,
	RarityRare:      10,
	RarityEpic:      4,
	RarityLegendary: 1,
}

// RarityWeight возвращает вес редкости с учетом множителя качества:
// каждая ступень редкости умножается на quality^rank, обычные не меняются.
func RarityWeight(r Rarity, quality float64) float64 {
	if quality < 1 {
		quality = 1
	}
	return baseRarityWeights[r] * math.Pow(quality, float64(rarityRank[r]))
}

// GenerateLootOptions выбирает count предметов из таблицы лута.
// Пока в таблице есть невыбранные предметы, варианты не повторяются.
func (t *Tables) GenerateLootOptions(tableID string, count int, quality float64, rng random.Source) ([]LootItem, error) {
	lt, ok := t.tablesByID[tableID]
	if !ok {
		return nil, fmt.Errorf("unknown loot table %q", tableID)
	}
	if count <= 0 {
		return nil, nil
	}

	options := make([]LootItem, 0, count)
	pool := make([]LootItem, 0, len(lt.ItemIDs))
	for len(options) < count {
		if len(pool) == 0 {
			for _, id := range lt.ItemIDs {
				pool = append(pool, t.itemsByID[id])
			}
		}
		idx := pickWeighted(pool, quality, rng)
		options = append(options, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return options, nil
}

func pickWeighted(pool []LootItem, quality float64, rng random.Source) int {
	total := 0.0
	for _, item := range pool {
		total += RarityWeight(item.Rarity, quality)
	}
	roll := rng.Float64() * total
	for i, item := range pool {
		roll -= RarityWeight(item.Rarity, quality)
		if roll < 0 {
			return i
		}
	}
	return len(pool) - 1
}

// ItemIDs возвращает идентификаторы предметов.
func ItemIDs(items []LootItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// ResolveItems превращает идентификаторы в определения; неизвестные пропускаются.
func (t *Tables) ResolveItems(ids []string) []LootItem {
	out := make([]LootItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := t.itemsByID[id]; ok {
			out = append(out, item)
		}
	}
	return out
}
