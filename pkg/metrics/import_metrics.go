package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ImportMetrics counts workbook imports and the records they produced.
type ImportMetrics struct {
	imports  *prometheus.CounterVec
	records  *prometheus.CounterVec
	warnings prometheus.Counter
	duration prometheus.Histogram
}

func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	factory := promauto.With(reg)
	return &ImportMetrics{
		imports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "review_imports_total",
			Help: "Workbook imports by terminal status",
		}, []string{"status"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "review_import_records_total",
			Help: "Imported logical records by kind and outcome",
		}, []string{"kind", "outcome"}),
		warnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "review_import_row_warnings_total",
			Help: "Rows dropped with a warning during imports",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "review_import_duration_seconds",
			Help:    "Wall time of one workbook import",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
}

func (m *ImportMetrics) ObserveImport(status string, warnings int, took time.Duration) {
	m.imports.WithLabelValues(status).Inc()
	m.warnings.Add(float64(warnings))
	m.duration.Observe(took.Seconds())
}

func (m *ImportMetrics) ObserveRecords(kind string, created, skipped, failed int) {
	m.records.WithLabelValues(kind, "created").Add(float64(created))
	m.records.WithLabelValues(kind, "skipped").Add(float64(skipped))
	m.records.WithLabelValues(kind, "failed").Add(float64(failed))
}
