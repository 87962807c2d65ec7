// Package metrics provides Prometheus metrics for the pool ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics collects pool, bet and settlement counters. A nil
// *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	registry *prometheus.Registry

	PoolsCreated       prometheus.Counter
	PoolJoins          *prometheus.CounterVec
	BetsPlaced         *prometheus.CounterVec
	BetsSettled        *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
	SnapshotWrites     *prometheus.CounterVec
	MatchResultUpdates *prometheus.CounterVec
}

func New() *LedgerMetrics {
	registry := prometheus.NewRegistry()

	m := &LedgerMetrics{
		registry: registry,

		PoolsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pools_created_total",
				Help: "Total number of pools created",
			},
		),
		PoolJoins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_joins_total",
				Help: "Join attempts by outcome",
			},
			[]string{"result"},
		),
		BetsPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bets_placed_total",
				Help: "Bet submissions by outcome",
			},
			[]string{"result"},
		),
		BetsSettled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bets_settled_total",
				Help: "Settled bets by correctness",
			},
			[]string{"outcome"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notifications appended by type",
			},
			[]string{"type"},
		),
		SnapshotWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_snapshot_writes_total",
				Help: "Snapshot persist attempts by status",
			},
			[]string{"status"},
		),
		MatchResultUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_result_updates_total",
				Help: "Match updates received by resulting status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.PoolsCreated,
		m.PoolJoins,
		m.BetsPlaced,
		m.BetsSettled,
		m.Notifications,
		m.SnapshotWrites,
		m.MatchResultUpdates,
	)

	return m
}

func (m *LedgerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *LedgerMetrics) RecordPoolCreated() {
	if m == nil {
		return
	}
	m.PoolsCreated.Inc()
}

func (m *LedgerMetrics) RecordJoin(result string) {
	if m == nil {
		return
	}
	m.PoolJoins.WithLabelValues(result).Inc()
}

func (m *LedgerMetrics) RecordBet(result string) {
	if m == nil {
		return
	}
	m.BetsPlaced.WithLabelValues(result).Inc()
}

func (m *LedgerMetrics) RecordSettlement(correct bool) {
	if m == nil {
		return
	}
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	m.BetsSettled.WithLabelValues(outcome).Inc()
}

func (m *LedgerMetrics) RecordNotification(notificationType string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(notificationType).Inc()
}

func (m *LedgerMetrics) RecordSnapshotWrite(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SnapshotWrites.WithLabelValues(status).Inc()
}

func (m *LedgerMetrics) RecordMatchUpdate(status string) {
	if m == nil {
		return
	}
	m.MatchResultUpdates.WithLabelValues(status).Inc()
}
