package battle

import "monster-clicker/shared/models"

// zoneProgression - фиксированный порядок открытия зон:
// тиры 1..5 каждого биома, затем следующий биом.
var zoneProgression = buildProgression()

func buildProgression() []models.Zone {
	zones := make([]models.Zone, 0, models.BiomeCount*models.MaxTier)
	for _, b := range models.AllBiomes() {
		for tier := models.MinTier; tier <= models.MaxTier; tier++ {
			zones = append(zones, models.Zone{Biome: b, Tier: tier})
		}
	}
	return zones
}

// ZoneProgression возвращает копию порядка прогрессии.
func ZoneProgression() []models.Zone {
	return append([]models.Zone(nil), zoneProgression...)
}

// NextZone возвращает зону, следующую за z. false - z последняя или невалидна.
func NextZone(z models.Zone) (models.Zone, bool) {
	for i, candidate := range zoneProgression {
		if candidate == z {
			if i+1 < len(zoneProgression) {
				return zoneProgression[i+1], true
			}
			return models.Zone{}, false
		}
	}
	return models.Zone{}, false
}
