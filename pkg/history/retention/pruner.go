package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/biom-format/tablecheck/pkg/config"
	"github.com/biom-format/tablecheck/pkg/history"
)

// Prune reasons reported to the Observer.
const (
	ReasonAge   = "age"
	ReasonCount = "count"
)

// Observer is notified of pruning outcomes. *metrics.Collector satisfies it.
type Observer interface {
	RecordHistoryPruned(reason string, count int64)
	RecordHistoryError(operation string)
}

// Result reports how many records one pruning cycle removed.
type Result struct {
	ByAge   int64
	ByCount int64
}

// Total returns the number of records removed for any reason.
func (r Result) Total() int64 {
	return r.ByAge + r.ByCount
}

// Pruner enforces retention policies on history records.
type Pruner struct {
	storage  history.Storage
	config   config.RetentionConfig
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithObserver reports pruning outcomes to o.
func WithObserver(o Observer) Option {
	return func(p *Pruner) {
		p.observer = o
	}
}

// WithClock replaces time.Now for computing the age cutoff.
func WithClock(now func() time.Time) Option {
	return func(p *Pruner) {
		p.now = now
	}
}

// NewPruner creates a new retention pruner.
func NewPruner(storage history.Storage, cfg config.RetentionConfig, opts ...Option) *Pruner {
	p := &Pruner{
		storage: storage,
		config:  cfg,
		logger:  slog.Default().With("component", "history.retention"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the retention settings the pruner enforces.
func (p *Pruner) Config() config.RetentionConfig {
	return p.config
}

// Prune deletes records older than the retention period, then the oldest
// records beyond the record cap. A zero Days or MaxRecords disables that
// phase.
func (p *Pruner) Prune(ctx context.Context) (Result, error) {
	var result Result

	if p.config.Days > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			p.recordError("prune_age")
			return result, history.NewRetentionError(p.config.Days, p.config.MaxRecords,
				fmt.Errorf("prune by age failed: %w", err))
		}
		result.ByAge = deleted
		p.recordPruned(ReasonAge, deleted)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			p.recordError("prune_count")
			return result, history.NewRetentionError(p.config.Days, p.config.MaxRecords,
				fmt.Errorf("prune by count failed: %w", err))
		}
		result.ByCount = deleted
		p.recordPruned(ReasonCount, deleted)
	}

	if result.Total() == 0 {
		p.logger.Debug("no records pruned",
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Info("history pruning completed",
			"deleted_by_age", result.ByAge,
			"deleted_by_count", result.ByCount,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}

	return result, nil
}

// pruneByAge deletes records checked before the retention cutoff.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.Days)

	p.logger.Debug("pruning by age",
		"cutoff_time", cutoff,
		"retention_days", p.config.Days,
	)

	// EndTime is inclusive; records checked exactly at the cutoff go too.
	return p.storage.Delete(ctx, &history.Query{EndTime: &cutoff})
}

// pruneByCount deletes the oldest records while the total exceeds the cap.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &history.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	if count <= p.config.MaxRecords {
		p.logger.Debug("record count within limit",
			"current", count,
			"max", p.config.MaxRecords,
		)
		return 0, nil
	}

	toDelete := count - p.config.MaxRecords
	p.logger.Info("record count exceeds limit, pruning oldest",
		"current_count", count,
		"max_records", p.config.MaxRecords,
		"to_delete", toDelete,
	)

	oldest, err := p.storage.Query(ctx, &history.Query{
		SortOrder: history.SortAscending,
		Limit:     int(toDelete),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query records: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	ids := make([]string, len(oldest))
	for i, r := range oldest {
		ids[i] = r.ID
	}

	deleted, err := p.storage.Delete(ctx, &history.Query{IDs: ids})
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}
	return deleted, nil
}

func (p *Pruner) recordPruned(reason string, n int64) {
	if p.observer != nil {
		p.observer.RecordHistoryPruned(reason, n)
	}
}

func (p *Pruner) recordError(op string) {
	if p.observer != nil {
		p.observer.RecordHistoryError(op)
	}
}
