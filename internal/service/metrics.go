package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	battleOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_outcomes_total",
			Help: "Total number of battle completion attempts by verified outcome.",
		},
		[]string{"outcome"},
	)

	sessionsStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_sessions_started_total",
			Help: "Total number of battle start requests by result (new or resumed).",
		},
		[]string{"result"},
	)

	zoneUnlockFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battle_zone_unlock_failures_total",
		Help: "Total number of failed best-effort zone unlocks after a win.",
	})

	lootSelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_loot_selections_total",
			Help: "Total number of loot selections by kind.",
		},
		[]string{"kind"},
	)
)
