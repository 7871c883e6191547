package metrics

import (
	"github.com/biom-format/tablecheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HistoryMetrics tracks the validation history store.
//
// Metrics:
//   - tablecheck_validator_history_records_stored_total: Records written
//   - tablecheck_validator_history_records_pruned_total: Records deleted by retention, by reason
//   - tablecheck_validator_history_errors_total: Failed storage operations
type HistoryMetrics struct {
	storedTotal prometheus.Counter
	prunedTotal *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
}

// NewHistoryMetrics creates and registers history metrics with the provided registry.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		storedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_records_stored_total",
				Help:      "Total number of validation results written to history",
			},
		),

		prunedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_records_pruned_total",
				Help:      "Total number of history records deleted by retention",
			},
			[]string{"reason"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "history_errors_total",
				Help:      "Total number of failed history storage operations",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		hm.storedTotal,
		hm.prunedTotal,
		hm.errorsTotal,
	)

	return hm
}

// RecordStored records one stored validation result.
func (hm *HistoryMetrics) RecordStored() {
	hm.storedTotal.Inc()
}

// RecordPruned records records deleted for the given reason ("age" or "count").
func (hm *HistoryMetrics) RecordPruned(reason string, count int64) {
	hm.prunedTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordError records a failed storage operation.
func (hm *HistoryMetrics) RecordError(operation string) {
	hm.errorsTotal.WithLabelValues(operation).Inc()
}
