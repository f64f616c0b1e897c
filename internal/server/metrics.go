package server

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	connected    prometheus.Gauge
	alive        prometheus.Gauge
	snapshots    prometheus.Counter
	sessionsOver prometheus.Counter
	bestScore    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gotris",
			Name:      "connected_players",
			Help:      "Players with an open websocket.",
		}),
		alive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gotris",
			Name:      "alive_players",
			Help:      "Connected players whose game is still running.",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gotris",
			Name:      "board_snapshots_total",
			Help:      "Board snapshots received from players.",
		}),
		sessionsOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gotris",
			Name:      "sessions_over_total",
			Help:      "Sessions reported finished.",
		}),
		bestScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gotris",
			Name:      "best_score",
			Help:      "Highest finished score seen by this relay.",
		}),
	}
	reg.MustRegister(m.connected, m.alive, m.snapshots, m.sessionsOver, m.bestScore)
	return m
}
