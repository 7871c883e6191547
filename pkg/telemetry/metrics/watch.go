package metrics

import (
	"github.com/biom-format/tablecheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetrics tracks the file watcher.
//
// Metrics:
//   - tablecheck_validator_watch_events_total: File system events by operation
//   - tablecheck_validator_watched_files: Tables currently known to the watcher
type WatchMetrics struct {
	eventsTotal  *prometheus.CounterVec
	watchedFiles prometheus.Gauge
}

// NewWatchMetrics creates and registers watcher metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of file system events handled by the watcher",
			},
			[]string{"op"},
		),

		watchedFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watched_files",
				Help:      "Number of table files known to the watcher",
			},
		),
	}

	registry.MustRegister(
		wm.eventsTotal,
		wm.watchedFiles,
	)

	return wm
}

// RecordEvent records a file system event ("create", "write", "remove", "rename").
func (wm *WatchMetrics) RecordEvent(op string) {
	wm.eventsTotal.WithLabelValues(op).Inc()
}

// SetWatchedFiles sets the number of watched table files.
func (wm *WatchMetrics) SetWatchedFiles(n int) {
	wm.watchedFiles.Set(float64(n))
}
