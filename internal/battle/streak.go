package battle

import "math"

const (
	lootBonusPerWin   = 0.03
	lootBonusCap      = 0.30
	corruptionBase    = 0.10
	corruptionPerWin  = 0.02
	corruptionCap     = 0.35
	CorruptedHPBoost  = 1.5
	CorruptedDmgBoost = 1.25
)

// LootQualityMultiplier: +3% за каждую победу подряд, не более +30%.
func LootQualityMultiplier(winStreak int) float64 {
	if winStreak < 0 {
		winStreak = 0
	}
	bonus := math.Min(float64(winStreak)*lootBonusPerWin, lootBonusCap)
	// округляем, чтобы 10*0.03 давало ровно 1.30
	return math.Round((1+bonus)*1e6) / 1e6
}

// CorruptionChance: 10% базово, +2% за победу подряд, не более 35%.
func CorruptionChance(winStreak int) float64 {
	if winStreak < 0 {
		winStreak = 0
	}
	return math.Min(corruptionBase+float64(winStreak)*corruptionPerWin, corruptionCap)
}
