// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReminderRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_runs_total",
			Help: "Total number of reminder runs by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	ReminderRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "reminder_run_duration_seconds",
			Help: "Duration of a reminder run in seconds",
		},
		[]string{"trigger"},
	)

	ReminderRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_records_total",
			Help: "Approval records by processing stage",
		},
		[]string{"stage"},
	)

	ReminderFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_failures_total",
			Help: "Per-record failures by error code",
		},
		[]string{"error_code"},
	)

	ReminderRunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminder_runs_active",
			Help: "Number of reminder runs in progress",
		},
	)

	AccountCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_account_cache_lookups_total",
			Help: "Account name cache lookups by result",
		},
		[]string{"result"},
	)
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "reminder_http_request_duration_seconds",
			Help: "HTTP request latency in seconds",
		},
		[]string{"method", "route"},
	)
)
