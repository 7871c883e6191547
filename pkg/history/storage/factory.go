package storage

import (
	"fmt"

	"github.com/biom-format/tablecheck/pkg/config"
	"github.com/biom-format/tablecheck/pkg/history"
)

// New creates the history backend selected by cfg.Backend.
func New(cfg *config.HistoryConfig) (history.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		return NewSQLiteStorage(cfg.SQLite)
	default:
		return nil, history.NewStorageError(cfg.Backend, "open", fmt.Errorf("unknown history backend %q", cfg.Backend))
	}
}
