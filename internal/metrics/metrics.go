// Package metrics содержит счётчики Prometheus для бота.
//
// Метки ограничены конечными наборами значений (исход реакции, вид
// транзакции, результат прогона, вид периода), поэтому кардинальность
// не растёт с числом пользователей и чатов.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ReactionEvents считает исходы обработки реакций: recorded, already_recorded,
	// store_error или причина отказа.
	ReactionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_reaction_events_total",
			Help: "Reaction events by processing outcome.",
		},
		[]string{"outcome"},
	)

	// LedgerInserts: записанные транзакции по source_kind.
	LedgerInserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_ledger_inserts_total",
			Help: "Ledger transactions written, by source kind.",
		},
		[]string{"source_kind"},
	)

	// SchedulerRuns считает прогоны обновления статуса: ok, partial, failed, skipped.
	SchedulerRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_scheduler_runs_total",
			Help: "Status refresh runs by result.",
		},
		[]string{"result"},
	)

	// RankingQueries: запросы рейтинга по виду периода.
	RankingQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_ranking_queries_total",
			Help: "Ranking queries by window kind.",
		},
		[]string{"window"},
	)
)

func init() {
	prometheus.MustRegister(ReactionEvents, LedgerInserts, SchedulerRuns, RankingQueries)
}
