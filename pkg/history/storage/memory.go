package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/biom-format/tablecheck/pkg/history"
)

// memoryEntry pairs a record with its insertion order, used to break ties
// between records checked at the same instant.
type memoryEntry struct {
	record *history.Record
	seq    uint64
}

// MemoryStorage implements history.Storage using an in-memory map.
type MemoryStorage struct {
	records map[string]memoryEntry
	seq     uint64
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]memoryEntry),
	}
}

// Store persists a record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *history.Record) error {
	if record == nil {
		return history.NewStorageError("memory", "store", history.ErrInvalidRecord)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.records[record.ID] = memoryEntry{record: record.Clone(), seq: s.seq}
	return nil
}

// Query retrieves records matching the query filters.
func (s *MemoryStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	if query == nil {
		query = &history.Query{}
	}

	s.mu.RLock()
	matched := s.matching(query)
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b memoryEntry) int {
		c := a.record.CheckedAt.Compare(b.record.CheckedAt)
		if c == 0 {
			c = cmp.Compare(a.seq, b.seq)
		}
		if !query.Ascending() {
			c = -c
		}
		return c
	})

	// Apply pagination
	start := query.Offset
	if start > len(matched) {
		return []*history.Record{}, nil
	}
	limit := query.Limit
	if limit <= 0 {
		limit = history.DefaultQueryLimit
	}
	end := min(start+limit, len(matched))

	results := make([]*history.Record, 0, end-start)
	for _, e := range matched[start:end] {
		results = append(results, e.record.Clone())
	}
	return results, nil
}

// Count returns the number of records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	if query == nil {
		query = &history.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matching(query))), nil
}

// Delete removes records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	if query == nil {
		query = &history.Query{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, e := range s.matching(query) {
		delete(s.records, e.record.ID)
		deleted++
	}
	return deleted, nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]memoryEntry)
	return nil
}

// Size returns the number of records in storage.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// matching returns the entries that satisfy query. Callers hold the lock.
func (s *MemoryStorage) matching(query *history.Query) []memoryEntry {
	var out []memoryEntry
	for _, e := range s.records {
		if matchesQuery(e.record, query) {
			out = append(out, e)
		}
	}
	return out
}

// matchesQuery checks if a record matches the query filters.
func matchesQuery(record *history.Record, query *history.Query) bool {
	if len(query.IDs) > 0 && !slices.Contains(query.IDs, record.ID) {
		return false
	}
	if query.File != "" && record.File != query.File {
		return false
	}
	if query.Valid != nil && record.ValidTable != *query.Valid {
		return false
	}

	// Time range filter
	if query.StartTime != nil && record.CheckedAt.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.CheckedAt.After(*query.EndTime) {
		return false
	}

	return true
}
