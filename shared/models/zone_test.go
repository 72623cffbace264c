package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZoneKey(t *testing.T) {
	z, err := ParseZoneKey("desert-3")
	require.NoError(t, err)
	assert.Equal(t, Zone{Biome: BiomeDesert, Tier: 3}, z)
	assert.Equal(t, "desert-3", z.Key())

	for _, bad := range []string{"", "desert", "-3", "swamp-1", "forest-x", "forest-0", "abyss-6"} {
		_, err := ParseZoneKey(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestBiomeText(t *testing.T) {
	b, err := ParseBiome(" Volcano ")
	require.NoError(t, err)
	assert.Equal(t, BiomeVolcano, b)

	data, err := json.Marshal(Zone{Biome: BiomeTundra, Tier: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"biome":"tundra","tier":2}`, string(data))

	var z Zone
	require.NoError(t, json.Unmarshal([]byte(`{"biome":"abyss","tier":5}`), &z))
	assert.Equal(t, Zone{Biome: BiomeAbyss, Tier: 5}, z)

	assert.Error(t, json.Unmarshal([]byte(`{"biome":"moon","tier":1}`), &z))
}

func TestStreakMatrix(t *testing.T) {
	var m StreakMatrix
	z := Zone{Biome: BiomeDesert, Tier: 2}

	assert.Equal(t, 1, m.Increment(z))
	assert.Equal(t, 2, m.Increment(z))
	assert.Equal(t, 0, m.Get(Zone{Biome: BiomeDesert, Tier: 3}), "streaks are per zone")
	assert.Equal(t, 2, m.Reset(z))
	assert.Equal(t, 0, m.Get(z))

	assert.Equal(t, 0, m.Increment(Zone{Biome: BiomeDesert, Tier: 7}))
}

func TestStreakMatrixJSON(t *testing.T) {
	var m StreakMatrix
	m.Increment(Zone{Biome: BiomeForest, Tier: 1})
	m.Increment(Zone{Biome: BiomeAbyss, Tier: 5})

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"forest":[1,0,0,0,0],
		"desert":[0,0,0,0,0],
		"tundra":[0,0,0,0,0],
		"volcano":[0,0,0,0,0],
		"abyss":[0,0,0,0,1]
	}`, string(data))

	var decoded StreakMatrix
	require.NoError(t, json.Unmarshal([]byte(`{"forest":[3,0,0,0,0,9],"tundra":[0,4]}`), &decoded))
	assert.Equal(t, 3, decoded.Get(Zone{Biome: BiomeForest, Tier: 1}))
	assert.Equal(t, 4, decoded.Get(Zone{Biome: BiomeTundra, Tier: 2}))
	assert.Equal(t, 0, decoded.Get(Zone{Biome: BiomeDesert, Tier: 1}))
}
