// Package storage provides history.Storage backends.
//
// MemoryStorage keeps records in a map and is meant for tests and short
// lived watch sessions. SQLiteStorage persists records in a SQLite database
// through either the pure Go driver (modernc.org/sqlite, driver name
// "sqlite") or the cgo driver (github.com/mattn/go-sqlite3, driver name
// "sqlite3").
//
// New selects a backend from the history configuration.
package storage
