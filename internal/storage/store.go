// Package storage implements the SQLite-backed repositories and the
// debt/ledger aggregation queries.
package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrUnavailable means the data directory or database file could not
	// be opened or created.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrQuery means a statement failed against an open store. Callers
	// can branch on the kind with errors.Is; the underlying message is
	// preserved for logging.
	ErrQuery = errors.New("query failed")
)

// Store is a ready-to-query handle over the local SQLite file. One
// pooled handle is shared by all operations; SQLite's own locking
// governs concurrent access.
type Store struct {
	db *sqlx.DB
}

// Open creates the data directory if needed, opens the database file,
// and applies the embedded schema migrations. Safe to call on a file
// that already holds data.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create db directory: %v", ErrUnavailable, err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", ErrUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}

	if err := applyMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Store{db: db}, nil
}

// applyMigrations brings the schema up to date on the shared handle.
// Already-applied versions are skipped, so every Open is safe against
// a database that holds data.
func applyMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// queryErr tags a failed statement with ErrQuery so callers can branch
// on the error kind.
func queryErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrQuery, op, err)
}

// paginate converts a 1-indexed page into LIMIT/OFFSET. Both values
// must be positive for pagination to apply.
func paginate(page, pageSize int) (limit, offset int, ok bool) {
	if page < 1 || pageSize < 1 {
		return 0, 0, false
	}
	return pageSize, (page - 1) * pageSize, true
}

// likePattern wraps a search term for substring matching. The term is
// always bound as a parameter, never spliced into statement text.
func likePattern(term string) string {
	return "%" + term + "%"
}

const timestampLayout = "2006-01-02 15:04:05"

// parseTimestamp reads the created_at format SQLite's datetime('now')
// produces, falling back to RFC 3339 for rows written by other tools.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
