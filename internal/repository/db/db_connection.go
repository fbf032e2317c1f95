package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens the SQLite database at path and ensures the schema exists.
// ":memory:" keeps everything inside the single pooled connection.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: SQLite has a single writer, and an in-memory
	// database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaRuns = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    created_by INTEGER NOT NULL DEFAULT 0,
    config TEXT NOT NULL,
    total INTEGER NOT NULL,
    pass_count INTEGER NOT NULL,
    fail_count INTEGER NOT NULL,
    anomaly_count INTEGER NOT NULL
);
`

const schemaRunsCreatedIdx = `
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at);
`

const schemaRunRecords = `
CREATE TABLE IF NOT EXISTS run_records (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    no INTEGER NOT NULL,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    date_time TEXT NOT NULL,
    sn TEXT NOT NULL,
    shift TEXT NOT NULL,
    feature1 INTEGER NOT NULL,
    feature2 TEXT NOT NULL,
    inlet_toc REAL NOT NULL,
    outlet_toc REAL NOT NULL,
    pressure_diff REAL NOT NULL,
    flow_rate REAL NOT NULL,
    temperature REAL NOT NULL,
    humidity REAL NOT NULL,
    result TEXT NOT NULL,
    aging_factor REAL NOT NULL,
    is_anomaly BOOLEAN NOT NULL,
    anomaly_kind TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, no)
);
`

const schemaSettings = `
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    preset TEXT NOT NULL,
    parameters TEXT NOT NULL,
    generation TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaRunEvents = `
CREATE TABLE IF NOT EXISTS run_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    run_id TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaRuns,
		schemaRunsCreatedIdx,
		schemaRunRecords,
		schemaSettings,
		schemaRunEvents,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
