// Package cache persists extracted records in a local SQLite database
// so repeated runs over an unchanged tree skip re-parsing workbooks.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/marenkov/sheaf/internal/extract"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS
// makes it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    path        TEXT PRIMARY KEY,
    mtime_ns    INTEGER NOT NULL,
    size        INTEGER NOT NULL,
    keys_json   TEXT NOT NULL,
    values_json TEXT NOT NULL,
    cached_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store is a read-through record cache backed by SQLite in WAL mode.
// Entries are keyed by absolute path and invalidated by mtime or size
// mismatch.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL
// mode and a busy timeout, and creates the schema if needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}

	// One connection: SQLite supports a single writer, and a lone pooled
	// connection avoids SQLITE_BUSY between connections that would each
	// need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the cached record for path if one exists with matching
// mtime and size. The second return value reports a hit.
func (s *Store) Get(ctx context.Context, path string, mtime time.Time, size int64) (extract.Record, bool, error) {
	const q = `SELECT mtime_ns, size, keys_json, values_json FROM records WHERE path = ?`

	var (
		storedMtime int64
		storedSize  int64
		keysJSON    string
		valuesJSON  string
	)
	err := s.db.QueryRowContext(ctx, q, path).Scan(&storedMtime, &storedSize, &keysJSON, &valuesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return extract.Empty(), false, nil
	}
	if err != nil {
		return extract.Empty(), false, fmt.Errorf("cache: get %q: %w", path, err)
	}

	if storedMtime != mtime.UnixNano() || storedSize != size {
		return extract.Empty(), false, nil // stale entry, treat as miss
	}

	rec := extract.Empty()
	if err := json.Unmarshal([]byte(keysJSON), &rec.Keys); err != nil {
		return extract.Empty(), false, fmt.Errorf("cache: decode keys for %q: %w", path, err)
	}
	if err := json.Unmarshal([]byte(valuesJSON), &rec.Values); err != nil {
		return extract.Empty(), false, fmt.Errorf("cache: decode values for %q: %w", path, err)
	}
	if rec.Values == nil {
		rec.Values = make(map[string]string)
	}
	return rec, true, nil
}

// Put upserts the record for path with its current file metadata.
func (s *Store) Put(ctx context.Context, path string, mtime time.Time, size int64, rec extract.Record) error {
	keysJSON, err := json.Marshal(rec.Keys)
	if err != nil {
		return fmt.Errorf("cache: encode keys for %q: %w", path, err)
	}
	valuesJSON, err := json.Marshal(rec.Values)
	if err != nil {
		return fmt.Errorf("cache: encode values for %q: %w", path, err)
	}

	const q = `
		INSERT INTO records (path, mtime_ns, size, keys_json, values_json, cached_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			mtime_ns    = excluded.mtime_ns,
			size        = excluded.size,
			keys_json   = excluded.keys_json,
			values_json = excluded.values_json,
			cached_at   = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, q, path, mtime.UnixNano(), size, string(keysJSON), string(valuesJSON)); err != nil {
		return fmt.Errorf("cache: put %q: %w", path, err)
	}
	return nil
}

// Prune removes entries for paths no longer present in the given set.
// Called after a successful run so removed files don't accumulate.
func (s *Store) Prune(ctx context.Context, keep []string) error {
	live := make(map[string]bool, len(keep))
	for _, p := range keep {
		live[p] = true
	}

	rows, err := s.db.QueryContext(ctx, "SELECT path FROM records")
	if err != nil {
		return fmt.Errorf("cache: list paths: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return fmt.Errorf("cache: scan path: %w", err)
		}
		if !live[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("cache: iterate paths: %w", err)
	}

	for _, p := range stale {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE path = ?", p); err != nil {
			return fmt.Errorf("cache: prune %q: %w", p, err)
		}
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
