package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_http_errors_total",
			Help: "Total number of error responses by HTTP status.",
		},
		[]string{"status"},
	)

	cheatResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battle_http_cheat_responses_total",
			Help: "Total number of completion responses flagged as cheating, by kind.",
		},
		[]string{"kind"},
	)
)
