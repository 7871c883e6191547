package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	biomErrors "github.com/biom-format/tablecheck/pkg/biom/errors"
	"github.com/biom-format/tablecheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Verdict label values.
const (
	VerdictValid   = "valid"
	VerdictInvalid = "invalid"
)

// labelOther replaces label values once the cardinality limit is reached.
const labelOther = "other"

// Collector owns the Prometheus registry and every tablecheck metric.
// Table and matrix types come from user documents, so label sets are
// bounded by a CardinalityLimiter.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validationMetrics *ValidationMetrics
	historyMetrics    *HistoryMetrics
	watchMetrics      *WatchMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "tablecheck",
//		Subsystem: "validator",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(100),
	}

	c.validationMetrics = NewValidationMetrics(cfg, registry)
	c.historyMetrics = NewHistoryMetrics(cfg, registry)
	c.watchMetrics = NewWatchMetrics(cfg, registry)

	return c
}

// RecordValidation records a finished validation.
//
// Parameters:
//   - valid: the table verdict
//   - tableType: the document's 'type' value (case-folded for the label)
//   - matrixType: the document's 'matrix_type' value
//   - diagnostics: diagnostic counts by kind
//   - duration: time spent validating
func (c *Collector) RecordValidation(valid bool, tableType, matrixType string, diagnostics map[biomErrors.Kind]int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	verdict := VerdictInvalid
	if valid {
		verdict = VerdictValid
	}

	tableType = labelValue(tableType)
	matrixType = labelValue(matrixType)
	if !c.cardinalityLimiter.Allow(fmt.Sprintf("validation:%s:%s", tableType, matrixType)) {
		tableType, matrixType = labelOther, labelOther
	}

	c.validationMetrics.RecordValidation(verdict, tableType, matrixType, duration)
	for kind, n := range diagnostics {
		c.validationMetrics.RecordDiagnostics(string(kind), n)
	}
}

// RecordLoadError records a table that could not be read or decoded.
func (c *Collector) RecordLoadError(format string) {
	if !c.config.Enabled {
		return
	}

	c.validationMetrics.RecordLoadError(format)
}

// RecordHistoryStored records a validation result written to history.
func (c *Collector) RecordHistoryStored() {
	if !c.config.Enabled {
		return
	}

	c.historyMetrics.RecordStored()
}

// RecordHistoryPruned records history records deleted by retention.
func (c *Collector) RecordHistoryPruned(reason string, count int64) {
	if !c.config.Enabled || count <= 0 {
		return
	}

	c.historyMetrics.RecordPruned(reason, count)
}

// RecordHistoryError records a failed history operation.
func (c *Collector) RecordHistoryError(operation string) {
	if !c.config.Enabled {
		return
	}

	c.historyMetrics.RecordError(operation)
}

// RecordWatchEvent records a file system event seen by the watcher.
func (c *Collector) RecordWatchEvent(op string) {
	if !c.config.Enabled {
		return
	}

	c.watchMetrics.RecordEvent(op)
}

// SetWatchedFiles sets the number of table files known to the watcher.
func (c *Collector) SetWatchedFiles(n int) {
	if !c.config.Enabled {
		return
	}

	c.watchMetrics.SetWatchedFiles(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// labelValue normalizes a document value for use as a label.
func labelValue(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if the cardinality limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
