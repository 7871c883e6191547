package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/biom-format/tablecheck/pkg/config"
	"github.com/biom-format/tablecheck/pkg/history"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// backends returns a fresh instance of every storage implementation.
func backends(t *testing.T) map[string]history.Storage {
	t.Helper()

	out := map[string]history.Storage{
		"memory": NewMemoryStorage(),
	}
	for _, driver := range []string{DriverModernc, DriverMattn} {
		cfg := testSQLiteConfig(filepath.Join(t.TempDir(), driver, "history.db"))
		cfg.Driver = driver
		s, err := NewSQLiteStorage(cfg)
		if err != nil {
			t.Fatalf("NewSQLiteStorage(%s) failed: %v", driver, err)
		}
		out["sqlite/"+driver] = s
	}
	for _, s := range out {
		t.Cleanup(func() { s.Close() })
	}
	return out
}

func testSQLiteConfig(path string) config.SQLiteConfig {
	return config.SQLiteConfig{
		Driver:       DriverModernc,
		Path:         path,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  time.Second,
	}
}

// seed stores n records for file, one minute apart starting at baseTime.
// Every third record is invalid.
func seed(t *testing.T, s history.Storage, file string, n int) []*history.Record {
	t.Helper()

	var records []*history.Record
	for i := 0; i < n; i++ {
		r := &history.Record{
			File:          file,
			ValidTable:    i%3 != 0,
			ReportLines:   []string{},
			FormatVersion: config.DefaultFormatVersion,
			TableType:     "OTU table",
			MatrixType:    "sparse",
			CheckedAt:     baseTime.Add(time.Duration(i) * time.Minute),
			Duration:      time.Duration(i) * time.Millisecond,
		}
		if !r.ValidTable {
			r.ReportLines = []string{"Missing field: 'date'"}
			r.DiagnosticCount = 1
		}
		if err := s.Store(context.Background(), r); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
		records = append(records, r)
	}
	return records
}

func TestStorage_StoreAndQuery(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := &history.Record{
				File:            "tables/otu.biom",
				ValidTable:      false,
				ReportLines:     []string{"Missing field: 'date'", "Invalid format_url: 'x'"},
				DiagnosticCount: 2,
				TableType:       "OTU table",
				MatrixType:      "dense",
				FormatVersion:   config.DefaultFormatVersion,
				CheckedAt:       baseTime,
				Duration:        1500 * time.Microsecond,
			}

			if err := s.Store(ctx, r); err != nil {
				t.Fatalf("Store failed: %v", err)
			}
			if r.ID == "" {
				t.Fatal("Store did not assign an ID")
			}

			got, err := s.Query(ctx, &history.Query{})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Query returned %d records, want 1", len(got))
			}

			g := got[0]
			if g.ID != r.ID || g.File != r.File || g.ValidTable != r.ValidTable {
				t.Errorf("got %+v, want %+v", g, r)
			}
			if len(g.ReportLines) != 2 || g.ReportLines[1] != "Invalid format_url: 'x'" {
				t.Errorf("ReportLines = %v", g.ReportLines)
			}
			if g.DiagnosticCount != 2 || g.TableType != "OTU table" || g.MatrixType != "dense" {
				t.Errorf("table facts not preserved: %+v", g)
			}
			if !g.CheckedAt.Equal(baseTime) {
				t.Errorf("CheckedAt = %v, want %v", g.CheckedAt, baseTime)
			}
			if g.Duration != r.Duration {
				t.Errorf("Duration = %v, want %v", g.Duration, r.Duration)
			}
		})
	}
}

func TestStorage_StoreNil(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Store(context.Background(), nil)
			if !errors.Is(err, history.ErrInvalidRecord) {
				t.Errorf("Store(nil) error = %v, want ErrInvalidRecord", err)
			}
			var se *history.StorageError
			if !errors.As(err, &se) {
				t.Errorf("Store(nil) error is not a StorageError")
			}
		})
	}
}

func TestStorage_QueryFilters(t *testing.T) {
	valid := true
	invalid := false
	start := baseTime.Add(2 * time.Minute)
	end := baseTime.Add(4 * time.Minute)

	tests := []struct {
		name  string
		query *history.Query
		want  int
	}{
		{name: "all", query: &history.Query{}, want: 9},
		{name: "by file", query: &history.Query{File: "a.biom"}, want: 6},
		{name: "unknown file", query: &history.Query{File: "missing.biom"}, want: 0},
		{name: "valid only", query: &history.Query{Valid: &valid}, want: 6},
		{name: "invalid only", query: &history.Query{Valid: &invalid}, want: 3},
		{name: "invalid for file", query: &history.Query{File: "a.biom", Valid: &invalid}, want: 2},
		{name: "time range inclusive", query: &history.Query{StartTime: &start, EndTime: &end}, want: 4},
		{name: "since", query: &history.Query{File: "b.biom", StartTime: &start}, want: 1},
	}

	for name, s := range backends(t) {
		seed(t, s, "a.biom", 6)
		seed(t, s, "b.biom", 3)

		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := s.Query(context.Background(), tt.query)
				if err != nil {
					t.Fatalf("Query failed: %v", err)
				}
				if len(got) != tt.want {
					t.Errorf("Query returned %d records, want %d", len(got), tt.want)
				}

				count, err := s.Count(context.Background(), tt.query)
				if err != nil {
					t.Fatalf("Count failed: %v", err)
				}
				if count != int64(tt.want) {
					t.Errorf("Count = %d, want %d", count, tt.want)
				}
			})
		}
	}
}

func TestStorage_QueryOrderAndPagination(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			records := seed(t, s, "a.biom", 5)

			got, err := s.Query(ctx, &history.Query{Limit: 2})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != 2 || got[0].ID != records[4].ID || got[1].ID != records[3].ID {
				t.Errorf("newest-first page wrong: %v", ids(got))
			}

			got, err = s.Query(ctx, &history.Query{SortOrder: "ASC", Limit: 2, Offset: 1})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != 2 || got[0].ID != records[1].ID || got[1].ID != records[2].ID {
				t.Errorf("oldest-first page wrong: %v", ids(got))
			}

			got, err = s.Query(ctx, &history.Query{Offset: 10})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("offset past end returned %d records", len(got))
			}
		})
	}
}

func TestStorage_QueryTiesKeepInsertionOrder(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var stored []string
			for i := 0; i < 3; i++ {
				r := &history.Record{File: "same.biom", CheckedAt: baseTime, ReportLines: []string{}}
				if err := s.Store(ctx, r); err != nil {
					t.Fatalf("Store failed: %v", err)
				}
				stored = append(stored, r.ID)
			}

			got, err := s.Query(ctx, &history.Query{SortOrder: "ASC"})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			for i, r := range got {
				if r.ID != stored[i] {
					t.Fatalf("order = %v, want %v", ids(got), stored)
				}
			}
		})
	}
}

func TestStorage_Delete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			records := seed(t, s, "a.biom", 6)
			seed(t, s, "b.biom", 2)

			cutoff := baseTime.Add(2 * time.Minute)
			deleted, err := s.Delete(ctx, &history.Query{File: "a.biom", EndTime: &cutoff})
			if err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if deleted != 3 {
				t.Errorf("Delete removed %d records, want 3", deleted)
			}

			deleted, err = s.Delete(ctx, &history.Query{IDs: []string{records[4].ID, records[5].ID, "unknown"}})
			if err != nil {
				t.Fatalf("Delete by IDs failed: %v", err)
			}
			if deleted != 2 {
				t.Errorf("Delete by IDs removed %d records, want 2", deleted)
			}

			count, err := s.Count(ctx, &history.Query{})
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if count != 3 {
				t.Errorf("Count after delete = %d, want 3", count)
			}
		})
	}
}

func TestStorage_ReturnedRecordsAreCopies(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := &history.Record{File: "a.biom", ReportLines: []string{"line"}, CheckedAt: baseTime}
			if err := s.Store(ctx, r); err != nil {
				t.Fatalf("Store failed: %v", err)
			}
			r.ReportLines[0] = "mutated"

			got, err := s.Query(ctx, &history.Query{})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			got[0].ReportLines[0] = "mutated again"

			again, err := s.Query(ctx, &history.Query{})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if again[0].ReportLines[0] != "line" {
				t.Errorf("stored record was mutated: %v", again[0].ReportLines)
			}
		})
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	cfg := testSQLiteConfig(path)

	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	seed(t, s, "a.biom", 2)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	count, err := s.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count after reopen = %d, want 2", count)
	}
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	cfg := testSQLiteConfig(":memory:")
	s, err := NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	defer s.Close()

	seed(t, s, "a.biom", 3)
	count, err := s.Count(context.Background(), &history.Query{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestNewSQLiteStorage_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SQLiteConfig
	}{
		{name: "empty path", cfg: config.SQLiteConfig{Driver: DriverModernc}},
		{name: "unknown driver", cfg: config.SQLiteConfig{Driver: "postgres", Path: filepath.Join(t.TempDir(), "x.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSQLiteStorage(tt.cfg)
			var se *history.StorageError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want StorageError", err)
			}
			if se.Operation != "open" {
				t.Errorf("Operation = %q, want open", se.Operation)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.HistoryConfig
		want    string
		wantErr bool
	}{
		{name: "memory", cfg: config.HistoryConfig{Backend: "memory"}, want: "memory"},
		{name: "sqlite", cfg: config.HistoryConfig{Backend: "sqlite", SQLite: testSQLiteConfig(filepath.Join(dir, "h.db"))}, want: "sqlite"},
		{name: "unknown", cfg: config.HistoryConfig{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer s.Close()

			switch s.(type) {
			case *MemoryStorage:
				if tt.want != "memory" {
					t.Errorf("got memory backend, want %s", tt.want)
				}
			case *SQLiteStorage:
				if tt.want != "sqlite" {
					t.Errorf("got sqlite backend, want %s", tt.want)
				}
			}
		})
	}
}

func TestBuildWhereClause(t *testing.T) {
	valid := true
	start := baseTime
	q := &history.Query{IDs: []string{"a", "b"}, File: "f", Valid: &valid, StartTime: &start}

	where, args := buildWhereClause(q)
	want := "id IN (?, ?) AND file = ? AND valid_table = ? AND checked_at >= ?"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 5 {
		t.Errorf("len(args) = %d, want 5", len(args))
	}

	where, args = buildWhereClause(&history.Query{})
	if where != "" || len(args) != 0 {
		t.Errorf("empty query produced %q %v", where, args)
	}
}

func ids(records []*history.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
