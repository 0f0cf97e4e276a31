// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds all Prometheus metrics of one summary run.
// Every Metrics owns its registry, so runs never share counters.
type Metrics struct {
	registry *prometheus.Registry

	// Run metrics
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	LastSuccessful prometheus.Gauge

	// Summary metrics
	RankedEntries    *prometheus.GaugeVec
	TotalTransfers   prometheus.Gauge
	SideOutputErrors *prometheus.CounterVec

	// Store metrics
	StoreCallDuration *prometheus.HistogramVec
	StoreCallErrors   *prometheus.CounterVec
	StoreRowsRead     *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_flow_lab"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Run metrics
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "runs_total",
			Help:      "Total number of summary runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "run_duration_seconds",
			Help:      "Summary run duration in seconds",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		LastSuccessful: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful summary run",
		}),

		// Summary metrics
		RankedEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "ranked_entries",
			Help:      "Number of rows in each ranking of the last document",
		}, []string{"ranking"}),
		TotalTransfers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "total_transfers",
			Help:      "Total transfers in the ledger at the last run",
		}),
		SideOutputErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "side_output_errors_total",
			Help:      "Total number of failed optional outputs by kind",
		}, []string{"output"}),

		// Store metrics
		StoreCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "call_duration_seconds",
			Help:      "Ledger store call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		StoreCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "call_errors_total",
			Help:      "Total number of ledger store call errors",
		}, []string{"backend", "operation"}),
		StoreRowsRead: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "rows_read_total",
			Help:      "Total number of rows returned by the ledger store",
		}, []string{"backend", "operation"}),
	}
}

// Registry returns the registry holding these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry in text exposition format, for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// RecordRun records a finished summary run.
func (m *Metrics) RecordRun(status string, durationSeconds float64, finishedAt int64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(durationSeconds)
	if status == StatusSuccess {
		m.LastSuccessful.Set(float64(finishedAt))
	}
}

// RecordDocument records the shape of a composed document.
func (m *Metrics) RecordDocument(top7d, top30d, holders int, totalTransfers int64) {
	m.RankedEntries.WithLabelValues("top_7d").Set(float64(top7d))
	m.RankedEntries.WithLabelValues("top_30d").Set(float64(top30d))
	m.RankedEntries.WithLabelValues("top_holders").Set(float64(holders))
	m.TotalTransfers.Set(float64(totalTransfers))
}

// RecordSideOutputError counts a failed optional output.
func (m *Metrics) RecordSideOutputError(output string) {
	m.SideOutputErrors.WithLabelValues(output).Inc()
}

// RecordStoreCall records ledger store call metrics.
func (m *Metrics) RecordStoreCall(backend, operation string, seconds float64, rows int, err error) {
	m.StoreCallDuration.WithLabelValues(backend, operation).Observe(seconds)
	if err != nil {
		m.StoreCallErrors.WithLabelValues(backend, operation).Inc()
		return
	}
	m.StoreRowsRead.WithLabelValues(backend, operation).Add(float64(rows))
}
