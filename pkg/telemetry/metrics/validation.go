package metrics

import (
	"time"

	"github.com/biom-format/tablecheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks table validation runs.
//
// Metrics:
//   - tablecheck_validator_validations_total: Validations by verdict, table and matrix type
//   - tablecheck_validator_diagnostics_total: Diagnostics by kind
//   - tablecheck_validator_validation_duration_seconds: Validation duration
//   - tablecheck_validator_load_errors_total: Tables that could not be read or decoded
type ValidationMetrics struct {
	validationsTotal   *prometheus.CounterVec
	diagnosticsTotal   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	loadErrorsTotal    *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics with the provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of table validations",
			},
			[]string{"verdict", "table_type", "matrix_type"},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of validation diagnostics by kind",
			},
			[]string{"kind"},
		),

		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Duration of table validation in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"matrix_type"},
		),

		loadErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_errors_total",
				Help:      "Total number of tables that could not be loaded",
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.diagnosticsTotal,
		vm.validationDuration,
		vm.loadErrorsTotal,
	)

	return vm
}

// RecordValidation records one validation run.
func (vm *ValidationMetrics) RecordValidation(verdict, tableType, matrixType string, duration time.Duration) {
	vm.validationsTotal.WithLabelValues(verdict, tableType, matrixType).Inc()
	vm.validationDuration.WithLabelValues(matrixType).Observe(duration.Seconds())
}

// RecordDiagnostics adds count diagnostics of the given kind.
func (vm *ValidationMetrics) RecordDiagnostics(kind string, count int) {
	vm.diagnosticsTotal.WithLabelValues(kind).Add(float64(count))
}

// RecordLoadError records a table that failed to load.
func (vm *ValidationMetrics) RecordLoadError(format string) {
	vm.loadErrorsTotal.WithLabelValues(format).Inc()
}
