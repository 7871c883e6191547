package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/biom-format/tablecheck/pkg/config"
	"github.com/biom-format/tablecheck/pkg/history"
)

// Driver names registered with database/sql.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3
)

// SQLiteStorage implements history.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database described by cfg, creating the file,
// its parent directory and the schema as needed.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Driver == "" {
		cfg.Driver = config.DefaultHistorySQLiteDriver
	}
	if cfg.Path == "" {
		return nil, history.NewStorageError("sqlite", "open", errors.New("database path cannot be empty"))
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	if !isMemoryPath(cfg.Path) {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, history.NewStorageError("sqlite", "create_dir", err)
			}
		}
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	// Configure connection pool. Each in-memory connection is its own
	// database, so those are pinned to one connection.
	if isMemoryPath(cfg.Path) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite history storage initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"wal_mode", cfg.WALMode,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

// buildDSN adds the busy timeout to the path in the syntax of the selected
// driver, so that every pooled connection gets it.
func buildDSN(cfg config.SQLiteConfig) (string, error) {
	timeoutMs := cfg.BusyTimeout.Milliseconds()
	switch cfg.Driver {
	case DriverModernc:
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", cfg.Path, timeoutMs), nil
	case DriverMattn:
		return fmt.Sprintf("%s?_busy_timeout=%d", cfg.Path, timeoutMs), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", cfg.Driver)
	}
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode && !isMemoryPath(s.config.Path) {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return history.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store persists a record to the database.
func (s *SQLiteStorage) Store(ctx context.Context, record *history.Record) error {
	if record == nil {
		return history.NewStorageError("sqlite", "store", history.ErrInvalidRecord)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	lines := record.ReportLines
	if lines == nil {
		lines = []string{}
	}
	reportLines, err := json.Marshal(lines)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}

	query := `
		INSERT INTO validations (
			id, file, valid_table, report_lines, diagnostic_count,
			table_type, matrix_type, format_version, checked_at, duration
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.File, record.ValidTable, string(reportLines), record.DiagnosticCount,
		nullString(record.TableType), nullString(record.MatrixType), record.FormatVersion,
		record.CheckedAt.UnixNano(), int64(record.Duration),
	)
	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	if query == nil {
		query = &history.Query{}
	}

	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT " + selectColumns + " FROM validations"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	sortOrder := history.SortDescending
	if query.Ascending() {
		sortOrder = history.SortAscending
	}
	sqlQuery += fmt.Sprintf(" ORDER BY checked_at %s, rowid %s", sortOrder, sortOrder)

	// Add pagination
	limit := history.DefaultQueryLimit
	if query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	if query == nil {
		query = &history.Query{}
	}

	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM validations"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes records matching the query filters.
// Returns the number of records deleted.
func (s *SQLiteStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	if query == nil {
		query = &history.Query{}
	}

	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM validations"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite history storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func buildWhereClause(query *history.Query) (string, []any) {
	var conditions []string
	var args []any

	if len(query.IDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(query.IDs)), ", ")
		conditions = append(conditions, "id IN ("+placeholders+")")
		for _, id := range query.IDs {
			args = append(args, id)
		}
	}

	if query.File != "" {
		conditions = append(conditions, "file = ?")
		args = append(args, query.File)
	}

	if query.Valid != nil {
		conditions = append(conditions, "valid_table = ?")
		args = append(args, *query.Valid)
	}

	// Time range filter
	if query.StartTime != nil {
		conditions = append(conditions, "checked_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "checked_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}

	return strings.Join(conditions, " AND "), args
}

// scanRow scans a database row into a Record.
func scanRow(row *sql.Rows) (*history.Record, error) {
	var record history.Record
	var reportLines string
	var tableType, matrixType sql.NullString
	var checkedAt, duration int64

	err := row.Scan(
		&record.ID, &record.File, &record.ValidTable, &reportLines, &record.DiagnosticCount,
		&tableType, &matrixType, &record.FormatVersion, &checkedAt, &duration,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(reportLines), &record.ReportLines); err != nil {
		return nil, fmt.Errorf("failed to decode report lines of record %s: %w", record.ID, err)
	}

	record.TableType = tableType.String
	record.MatrixType = matrixType.String
	record.CheckedAt = time.Unix(0, checkedAt).UTC()
	record.Duration = time.Duration(duration)

	return &record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
