package export

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"labclimate/internal/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

const schemaExportMeta = `
CREATE TABLE IF NOT EXISTS export_meta (
    title TEXT NOT NULL,
    exported_at TIMESTAMP NOT NULL,
    entries INTEGER NOT NULL
);
`

const schemaLogEntries = `
CREATE TABLE IF NOT EXISTS log_entries (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    timestamp TEXT NOT NULL,
    message TEXT NOT NULL
);
`

const (
	insertMetaSQL  = `INSERT INTO export_meta (title, exported_at, entries) VALUES (?, ?, ?)`
	insertEntrySQL = `INSERT INTO log_entries (id, position, timestamp, message) VALUES (?, ?, ?, ?)`
)

// writeSQLite replaces any file at path with a fresh snapshot database.
func writeSQLite(path string, entries []models.LogEntry, now time.Time) (err error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove previous snapshot: %w", err)
	}
	db, err := openSnapshotDB(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close sqlite: %w", cerr)
		}
	}()
	return writeEntries(db, entries, now)
}

// openSnapshotDB opens/creates the export file with conservative settings.
func openSnapshotDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}
	// single writer, short-lived
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}
	return db, nil
}

// writeEntries creates the schema and inserts every entry in one transaction.
func writeEntries(db *sql.DB, entries []models.LogEntry, now time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin export transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{schemaExportMeta, schemaLogEntries} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if _, err := tx.Exec(insertMetaSQL, reportTitle, now.Format(exportedLayout), len(entries)); err != nil {
		return fmt.Errorf("insert export meta: %w", err)
	}

	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		ts, msg := splitEntry(e.String(), now)
		if _, err := tx.Exec(insertEntrySQL, id, i, ts, msg); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export transaction: %w", err)
	}
	return nil
}
