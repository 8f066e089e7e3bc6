// Package metrics provides Prometheus metrics for taskchat.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// providerRequestsTotal counts ClickUp API calls.
	// Labels:
	//   - endpoint: route shape, e.g. "folder", "list", "task"
	//   - outcome: "ok", "http_error" or "transport_error"
	providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskchat_provider_requests_total",
			Help: "Total number of ClickUp API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	refreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskchat_refresh_total",
			Help: "Total number of snapshot refresh attempts",
		},
		[]string{"status"},
	)

	refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskchat_refresh_duration_seconds",
			Help:    "Duration of snapshot refreshes in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	snapshotRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskchat_snapshot_rows",
			Help: "Number of task rows in the current snapshot",
		},
	)

	chatIntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskchat_chat_intents_total",
			Help: "Chat messages by interpreted intent",
		},
		[]string{"intent"},
	)

	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskchat_exports_total",
			Help: "Exports by format and status",
		},
		[]string{"format", "status"},
	)
)

// Registry holds every taskchat collector plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		providerRequestsTotal,
		refreshTotal,
		refreshDuration,
		snapshotRows,
		chatIntentsTotal,
		exportsTotal,
		collectors.NewGoCollector(),
	)
}

func RecordProviderRequest(endpoint, outcome string) {
	providerRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordRefresh records a refresh attempt and, on success, the new row count.
func RecordRefresh(success bool, rows int, durationSeconds float64) {
	status := "success"
	if !success {
		status = "failed"
	}
	refreshTotal.WithLabelValues(status).Inc()
	refreshDuration.Observe(durationSeconds)
	if success {
		snapshotRows.Set(float64(rows))
	}
}

func SetSnapshotRows(rows int) {
	snapshotRows.Set(float64(rows))
}

func RecordChatIntent(intent string) {
	chatIntentsTotal.WithLabelValues(intent).Inc()
}

func RecordExport(format string, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	exportsTotal.WithLabelValues(format, status).Inc()
}
