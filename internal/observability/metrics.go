package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics the scan orchestrator updates.
// Scoped to the scan domain: no network/transport counters, since the
// core has none.
type Metrics struct {
	FilesTotal        *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	ChunksPerFile      prometheus.Histogram
	CatalogOperations *prometheus.CounterVec
	CryptoOperations  *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		FilesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glacier_files_total",
				Help: "Files processed per scan, labeled by outcome",
			},
			[]string{"status"},
		),

		ScanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "glacier_scan_duration_seconds",
				Help:    "Wall-clock duration of a full directory scan",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
		),

		ChunksPerFile: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "glacier_chunks_per_file",
				Help:    "Chunk count distribution produced by content-defined chunking",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),

		CatalogOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glacier_catalog_operations_total",
				Help: "Catalog store operations, labeled by kind and result",
			},
			[]string{"operation", "result"},
		),

		CryptoOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glacier_crypto_operations_total",
				Help: "At-rest encryption operations performed while enrolling files",
			},
			[]string{"operation"},
		),
	}
}

// RecordFile records the terminal status of one scanned file.
func (m *Metrics) RecordFile(status string) {
	m.FilesTotal.WithLabelValues(status).Inc()
}

// RecordScan records the duration of a completed scan.
func (m *Metrics) RecordScan(durationSeconds float64) {
	m.ScanDuration.Observe(durationSeconds)
}

// RecordChunks records how many chunks a single file was split into.
func (m *Metrics) RecordChunks(count int) {
	m.ChunksPerFile.Observe(float64(count))
}

// RecordCatalogOperation records a catalog Save/Load call outcome.
func (m *Metrics) RecordCatalogOperation(operation string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	m.CatalogOperations.WithLabelValues(operation, result).Inc()
}

// RecordCryptoOperation records an at-rest encryption operation.
func (m *Metrics) RecordCryptoOperation(operation string) {
	m.CryptoOperations.WithLabelValues(operation).Inc()
}

// Handler exposes the Prometheus metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
