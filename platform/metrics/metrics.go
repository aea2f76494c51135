// Package metrics provides Prometheus collectors for the application.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRunsTotal counts CRM full-sync attempts by outcome.
	SyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_sync_runs_total",
		Help: "Number of CRM full sync runs by outcome.",
	}, []string{"outcome"})

	// VacancyRecomputeTotal counts per-vacancy match recomputations by outcome.
	VacancyRecomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vacancy_match_recompute_total",
		Help: "Number of per-vacancy match score recomputations by outcome.",
	}, []string{"outcome"})

	// DashboardRequests observes dashboard summary latency per role.
	DashboardRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_summary_duration_seconds",
		Help:    "Latency of dashboard summary composition.",
		Buckets: prometheus.DefBuckets,
	}, []string{"role"})

	// CompletenessTodosCreated counts follow-up items created by the watchdog.
	CompletenessTodosCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "completeness_todos_created_total",
		Help: "Number of follow-up work items created by the completeness watchdog.",
	})
)
