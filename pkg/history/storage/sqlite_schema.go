package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
// Timestamps and durations are stored as integer nanoseconds so that both
// drivers compare and scan them identically.
const Schema = `
CREATE TABLE IF NOT EXISTS validations (
    id TEXT PRIMARY KEY,
    file TEXT NOT NULL,

    -- Verdict
    valid_table BOOLEAN NOT NULL,
    report_lines TEXT NOT NULL,
    diagnostic_count INTEGER NOT NULL,

    -- Table facts
    table_type TEXT,
    matrix_type TEXT,
    format_version TEXT NOT NULL,

    -- Timing
    checked_at INTEGER NOT NULL,
    duration INTEGER NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_validations_checked_at ON validations(checked_at);
CREATE INDEX IF NOT EXISTS idx_validations_file ON validations(file);
CREATE INDEX IF NOT EXISTS idx_validations_valid_table ON validations(valid_table);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const selectColumns = `id, file, valid_table, report_lines, diagnostic_count,
	table_type, matrix_type, format_version, checked_at, duration`
