package battle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func input(elapsed time.Duration, clicks int) VerifyInput {
	return VerifyInput{
		BattleStart:    baseTime,
		Now:            baseTime.Add(elapsed),
		ClickCount:     clicks,
		ClicksRequired: 50,
		AttackDamage:   2,
		MaxHealth:      100,
	}
}

func TestVerifyLegitimateWin(t *testing.T) {
	v := Verify(input(10*time.Second, 50))

	assert.Equal(t, OutcomeLegitimateWin, v.Outcome)
	assert.InDelta(t, 10.0, v.TimeInSeconds, 1e-9)
	assert.InDelta(t, 5.0, v.ClickRate, 1e-9)
	assert.Equal(t, 20, v.ExpectedDamage)
	assert.Equal(t, 0, v.TotalHealing)
	assert.Equal(t, 80, v.ExpectedHP)
}

func TestVerifyClickRateCheat(t *testing.T) {
	v := Verify(input(10*time.Second, 200))

	assert.Equal(t, OutcomeClickRateCheat, v.Outcome)
	assert.InDelta(t, 20.0, v.ClickRate, 1e-9)
	assert.Equal(t, 80, v.ExpectedHP)
}

func TestVerifyClickRateBoundary(t *testing.T) {
	in := input(time.Second, 15)
	in.ClicksRequired = 15
	assert.Equal(t, OutcomeLegitimateWin, Verify(in).Outcome, "exactly 15 clicks/s is allowed")

	in = input(time.Second, 16)
	in.ClicksRequired = 16
	assert.Equal(t, OutcomeClickRateCheat, Verify(in).Outcome)
}

func TestVerifyHPCheatTakesPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		clicks int
	}{
		{"slow clicks", 10},
		{"enough clicks", 60},
		{"impossible click rate", 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 60s * 2 dmg = 120 > 100 HP
			v := Verify(input(60*time.Second, tt.clicks))
			assert.Equal(t, OutcomeHPCheat, v.Outcome)
			assert.Equal(t, 120, v.ExpectedDamage)
			assert.Equal(t, -20, v.ExpectedHP)
		})
	}
}

func TestVerifyExpectedHPExactlyZeroIsCheat(t *testing.T) {
	v := Verify(input(50*time.Second, 50))
	assert.Equal(t, 0, v.ExpectedHP)
	assert.Equal(t, OutcomeHPCheat, v.Outcome)
}

func TestVerifyHealingKeepsPlayerAlive(t *testing.T) {
	in := input(60*time.Second, 60)
	in.Heals = []int{50, 0, 50}

	v := Verify(in)
	assert.Equal(t, 100, v.TotalHealing)
	assert.Equal(t, 80, v.ExpectedHP)
	assert.Equal(t, OutcomeLegitimateWin, v.Outcome)
}

func TestVerifyIncomplete(t *testing.T) {
	v := Verify(input(10*time.Second, 49))
	assert.Equal(t, OutcomeIncomplete, v.Outcome)
}

func TestVerifyNonPositiveElapsedTime(t *testing.T) {
	for _, elapsed := range []time.Duration{0, -5 * time.Second} {
		v := Verify(input(elapsed, 50))
		assert.True(t, math.IsInf(v.ClickRate, 1))
		assert.Equal(t, OutcomeClickRateCheat, v.Outcome)
		assert.Equal(t, 0, v.ExpectedDamage)
	}

	v := Verify(input(0, 0))
	assert.Equal(t, OutcomeClickRateCheat, v.Outcome, "zero clicks at zero time must not produce NaN")
}

func TestVerifyFractionalDamageIsFloored(t *testing.T) {
	in := input(10500*time.Millisecond, 50)
	in.AttackDamage = 1.5
	v := Verify(in)
	assert.Equal(t, 15, v.ExpectedDamage) // floor(15.75)
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "5.00", FormatRate(5))
	assert.Equal(t, "15.33", FormatRate(15.333))
	assert.Equal(t, "Infinity", FormatRate(math.Inf(1)))
}
