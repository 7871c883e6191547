package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	biomErrors "github.com/biom-format/tablecheck/pkg/biom/errors"
	"github.com/biom-format/tablecheck/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "metrics",
		DurationBuckets: []float64{0.001, 0.01, 0.1},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("Expected a registry to be created")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace || cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("Unexpected defaults: %s/%s", cfg.Namespace, cfg.Subsystem)
	}
	if len(cfg.DurationBuckets) != len(config.DefaultDurationBuckets) {
		t.Errorf("Expected default buckets, got %v", cfg.DurationBuckets)
	}
}

func TestCollector_RecordValidation(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordValidation(true, "OTU table", "sparse", nil, 2*time.Millisecond)
	collector.RecordValidation(false, "otu table", "dense", map[biomErrors.Kind]int{
		biomErrors.KindMissingField: 1,
		biomErrors.KindCardinality:  2,
	}, time.Millisecond)
	collector.RecordValidation(false, "", "", map[biomErrors.Kind]int{
		biomErrors.KindMissingField: 3,
	}, time.Millisecond)

	vm := collector.validationMetrics

	if got := testutil.ToFloat64(vm.validationsTotal.WithLabelValues(VerdictValid, "otu table", "sparse")); got != 1 {
		t.Errorf("valid sparse validations = %f, want 1", got)
	}
	if got := testutil.ToFloat64(vm.validationsTotal.WithLabelValues(VerdictInvalid, "otu table", "dense")); got != 1 {
		t.Errorf("invalid dense validations = %f, want 1", got)
	}
	if got := testutil.ToFloat64(vm.validationsTotal.WithLabelValues(VerdictInvalid, "unknown", "unknown")); got != 1 {
		t.Errorf("invalid unknown validations = %f, want 1", got)
	}
	if got := testutil.ToFloat64(vm.diagnosticsTotal.WithLabelValues("missing_field")); got != 4 {
		t.Errorf("missing_field diagnostics = %f, want 4", got)
	}
	if got := testutil.ToFloat64(vm.diagnosticsTotal.WithLabelValues("cardinality")); got != 2 {
		t.Errorf("cardinality diagnostics = %f, want 2", got)
	}
	if got := testutil.CollectAndCount(vm.validationDuration); got != 3 {
		t.Errorf("duration series = %d, want 3", got)
	}
}

func TestCollector_CardinalityLimit(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordValidation(true, "OTU table", "sparse", nil, time.Millisecond)
	collector.RecordValidation(true, "junk-1", "sparse", nil, time.Millisecond)
	collector.RecordValidation(true, "junk-2", "sparse", nil, time.Millisecond)

	vm := collector.validationMetrics
	if got := testutil.ToFloat64(vm.validationsTotal.WithLabelValues(VerdictValid, labelOther, labelOther)); got != 2 {
		t.Errorf("aggregated validations = %f, want 2", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordValidation(true, "otu table", "sparse", nil, time.Millisecond)
	collector.RecordLoadError("json")
	collector.RecordHistoryStored()
	collector.RecordHistoryPruned("age", 3)
	collector.RecordHistoryError("store")
	collector.RecordWatchEvent("write")
	collector.SetWatchedFiles(4)

	if got := testutil.CollectAndCount(collector.validationMetrics.validationsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d validation series", got)
	}
	if got := testutil.ToFloat64(collector.historyMetrics.storedTotal); got != 0 {
		t.Errorf("disabled collector recorded %f stored records", got)
	}
	if got := testutil.ToFloat64(collector.watchMetrics.watchedFiles); got != 0 {
		t.Errorf("disabled collector set watched files to %f", got)
	}
}

func TestCollector_HistoryMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordHistoryStored()
	collector.RecordHistoryStored()
	collector.RecordHistoryPruned("age", 5)
	collector.RecordHistoryPruned("count", 0)
	collector.RecordHistoryError("query")

	hm := collector.historyMetrics
	if got := testutil.ToFloat64(hm.storedTotal); got != 2 {
		t.Errorf("stored = %f, want 2", got)
	}
	if got := testutil.ToFloat64(hm.prunedTotal.WithLabelValues("age")); got != 5 {
		t.Errorf("pruned by age = %f, want 5", got)
	}
	if got := testutil.CollectAndCount(hm.prunedTotal); got != 1 {
		t.Errorf("pruned series = %d, want 1 (zero counts are skipped)", got)
	}
	if got := testutil.ToFloat64(hm.errorsTotal.WithLabelValues("query")); got != 1 {
		t.Errorf("query errors = %f, want 1", got)
	}
}

func TestCollector_WatchAndLoadMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordWatchEvent("write")
	collector.RecordWatchEvent("write")
	collector.RecordWatchEvent("create")
	collector.SetWatchedFiles(3)
	collector.RecordLoadError("yaml")

	if got := testutil.ToFloat64(collector.watchMetrics.eventsTotal.WithLabelValues("write")); got != 2 {
		t.Errorf("write events = %f, want 2", got)
	}
	if got := testutil.ToFloat64(collector.watchMetrics.watchedFiles); got != 3 {
		t.Errorf("watched files = %f, want 3", got)
	}
	if got := testutil.ToFloat64(collector.validationMetrics.loadErrorsTotal.WithLabelValues("yaml")); got != 1 {
		t.Errorf("yaml load errors = %f, want 1", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordValidation(true, "OTU table", "sparse", nil, time.Millisecond)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "test_metrics_validations_total") {
		t.Errorf("metrics output missing validations counter:\n%s", body)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(2)

	if !limiter.Allow("a") || !limiter.Allow("b") {
		t.Fatal("expected first two label sets to be allowed")
	}
	if !limiter.Allow("a") {
		t.Error("existing label set should stay allowed")
	}
	if limiter.Allow("c") {
		t.Error("third label set should be rejected")
	}
	if limiter.Count() != 2 {
		t.Errorf("Count() = %d, want 2", limiter.Count())
	}
}

func TestCardinalityLimiter_Concurrent(t *testing.T) {
	limiter := NewCardinalityLimiter(10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			limiter.Allow(string(rune('a' + i%26)))
		}(i)
	}
	wg.Wait()

	if limiter.Count() != 10 {
		t.Errorf("Count() = %d, want 10", limiter.Count())
	}
}
