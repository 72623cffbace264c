package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Biome - закрытый список игровых зон.
type Biome int

const (
	BiomeForest Biome = iota
	BiomeDesert
	BiomeTundra
	BiomeVolcano
	BiomeAbyss

	// BiomeCount - количество биомов, размерность матрицы серий.
	BiomeCount = 5
)

const (
	MinTier = 1
	MaxTier = 5
)

var biomeNames = [BiomeCount]string{"forest", "desert", "tundra", "volcano", "abyss"}

// AllBiomes возвращает биомы в порядке прогрессии.
func AllBiomes() []Biome {
	return []Biome{BiomeForest, BiomeDesert, BiomeTundra, BiomeVolcano, BiomeAbyss}
}

func (b Biome) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return biomeNames[b]
}

// Valid сообщает, входит ли значение в список биомов.
func (b Biome) Valid() bool {
	return b >= 0 && int(b) < BiomeCount
}

// ParseBiome разбирает имя биома без учета регистра.
func ParseBiome(s string) (Biome, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range biomeNames {
		if n == name {
			return Biome(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown biome %q", ErrInvalidInput, s)
}

func (b Biome) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid biome %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *Biome) UnmarshalText(text []byte) error {
	parsed, err := ParseBiome(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Zone - пара биом+тир, в которой проходит бой.
type Zone struct {
	Biome Biome `json:"biome"`
	Tier  int   `json:"tier"`
}

// DefaultZone открыта у каждого нового игрока.
var DefaultZone = Zone{Biome: BiomeForest, Tier: MinTier}

// Key возвращает ключ вида "forest-1", используемый в unlockedZones.
func (z Zone) Key() string {
	return z.Biome.String() + "-" + strconv.Itoa(z.Tier)
}

func (z Zone) String() string { return z.Key() }

// Validate проверяет биом и диапазон тира.
func (z Zone) Validate() error {
	if !z.Biome.Valid() {
		return fmt.Errorf("%w: invalid biome", ErrInvalidInput)
	}
	if z.Tier < MinTier || z.Tier > MaxTier {
		return fmt.Errorf("%w: tier must be between %d and %d", ErrInvalidInput, MinTier, MaxTier)
	}
	return nil
}

// ParseZoneKey разбирает ключ вида "desert-3".
func ParseZoneKey(key string) (Zone, error) {
	idx := strings.LastIndex(key, "-")
	if idx <= 0 {
		return Zone{}, fmt.Errorf("%w: malformed zone key %q", ErrInvalidInput, key)
	}
	biome, err := ParseBiome(key[:idx])
	if err != nil {
		return Zone{}, err
	}
	tier, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return Zone{}, fmt.Errorf("%w: malformed zone tier in %q", ErrInvalidInput, key)
	}
	z := Zone{Biome: biome, Tier: tier}
	return z, z.Validate()
}

// StreakMatrix хранит серии побед по каждому биому и тиру.
// Индексы: [biome][tier-1].
type StreakMatrix [BiomeCount][MaxTier]int

// Get возвращает серию для зоны; для невалидной зоны - 0.
func (m *StreakMatrix) Get(z Zone) int {
	if z.Validate() != nil {
		return 0
	}
	return m[z.Biome][z.Tier-1]
}

// Increment увеличивает серию зоны и возвращает новое значение.
func (m *StreakMatrix) Increment(z Zone) int {
	if z.Validate() != nil {
		return 0
	}
	m[z.Biome][z.Tier-1]++
	return m[z.Biome][z.Tier-1]
}

// Reset обнуляет серию зоны и возвращает потерянное значение.
func (m *StreakMatrix) Reset(z Zone) int {
	if z.Validate() != nil {
		return 0
	}
	lost := m[z.Biome][z.Tier-1]
	m[z.Biome][z.Tier-1] = 0
	return lost
}

// MarshalJSON кодирует матрицу как {"forest":[0,0,0,0,0],...}.
func (m StreakMatrix) MarshalJSON() ([]byte, error) {
	out := make(map[string][MaxTier]int, BiomeCount)
	for i := 0; i < BiomeCount; i++ {
		out[biomeNames[i]] = m[i]
	}
	return json.Marshal(out)
}

func (m *StreakMatrix) UnmarshalJSON(data []byte) error {
	var raw map[string][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var parsed StreakMatrix
	for name, tiers := range raw {
		biome, err := ParseBiome(name)
		if err != nil {
			return err
		}
		// Лишние тиры из старых записей игнорируются
		for t := 0; t < len(tiers) && t < MaxTier; t++ {
			parsed[biome][t] = tiers[t]
		}
	}
	*m = parsed
	return nil
}
