package service

import "github.com/prometheus/client_golang/prometheus"

var (
	gamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tab_games_started_total",
			Help: "Games that reached the playing state",
		},
	)
	gamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tab_games_finished_total",
			Help: "Finished games by cause",
		},
		[]string{"cause"},
	)
	rollsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tab_rolls_total",
			Help: "Stick rolls performed",
		},
	)
)

func init() {
	prometheus.MustRegister(gamesStarted)
	prometheus.MustRegister(gamesFinished)
	prometheus.MustRegister(rollsTotal)
}
