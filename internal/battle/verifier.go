// Package battle contains the server-side battle rules: outcome verification,
// streak math, zone progression and monster generation. Nothing here touches storage.
package battle

import (
	"math"
	"time"
)

// MaxClickRate - потолок скорости кликов человека (кликов в секунду), включительно.
const MaxClickRate = 15.0

// Outcome - классификация заявленного клиентом результата боя.
type Outcome string

const (
	OutcomeLegitimateWin  Outcome = "legitimate_win"
	OutcomeClickRateCheat Outcome = "click_rate_cheat"
	OutcomeHPCheat        Outcome = "hp_cheat"
	OutcomeIncomplete     Outcome = "incomplete"
)

// VerifyInput - авторитетные данные сервера плюс заявка клиента.
type VerifyInput struct {
	BattleStart    time.Time
	Now            time.Time
	ClickCount     int
	ClicksRequired int
	AttackDamage   float64
	MaxHealth      int
	// Heals - лечение от каждого использованного предмета (0 для нелечащих).
	Heals []int
}

// Verdict - результат проверки и вычисленные значения для ответа клиенту.
type Verdict struct {
	Outcome        Outcome `json:"outcome"`
	TimeInSeconds  float64 `json:"timeInSeconds"`
	ClickRate      float64 `json:"clickRate"`
	ExpectedDamage int     `json:"expectedDamage"`
	TotalHealing   int     `json:"totalHealing"`
	ExpectedHP     int     `json:"expectedHP"`
}

// Verify классифицирует исход боя. Порядок проверок фиксирован:
// HP-выживание, затем скорость кликов, затем прогресс.
func Verify(in VerifyInput) Verdict {
	v := Verdict{
		TimeInSeconds: float64(in.Now.Sub(in.BattleStart).Milliseconds()) / 1000,
	}

	// Нулевое или отрицательное время (рассинхрон часов) - бесконечная скорость
	if v.TimeInSeconds <= 0 {
		v.ClickRate = math.Inf(1)
	} else {
		v.ClickRate = float64(in.ClickCount) / v.TimeInSeconds
	}

	v.ExpectedDamage = int(math.Floor(math.Max(v.TimeInSeconds, 0) * in.AttackDamage))
	for _, h := range in.Heals {
		if h > 0 {
			v.TotalHealing += h
		}
	}
	v.ExpectedHP = in.MaxHealth - v.ExpectedDamage + v.TotalHealing

	switch {
	case v.ExpectedHP <= 0:
		v.Outcome = OutcomeHPCheat
	case v.ClickRate > MaxClickRate:
		v.Outcome = OutcomeClickRateCheat
	case in.ClickCount < in.ClicksRequired:
		v.Outcome = OutcomeIncomplete
	default:
		v.Outcome = OutcomeLegitimateWin
	}
	return v
}
