package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	// DefaultPath is the store file used when no path is configured
	DefaultPath = "schoolbook.db"

	// DefaultBusyTimeout is how long a connection waits on a locked database
	DefaultBusyTimeout = 5 * time.Second

	// DefaultJournalMode is the SQLite journal mode set on every connection
	DefaultJournalMode = "WAL"
)

// Repository is the data-access entrypoint for the school registry.
// It holds configuration only; every call opens its own connection and
// releases it before returning.
type Repository struct {
	path        string
	busyTimeout time.Duration
	journalMode string

	// serializes writes issued through this repository
	mu sync.Mutex
}

// Option customizes a Repository
type Option func(*Repository)

// WithBusyTimeout sets how long a connection waits on a locked database
func WithBusyTimeout(d time.Duration) Option {
	return func(r *Repository) {
		if d >= 0 {
			r.busyTimeout = d
		}
	}
}

// WithJournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, ...)
func WithJournalMode(mode string) Option {
	return func(r *Repository) {
		if mode != "" {
			r.journalMode = mode
		}
	}
}

// New creates a repository backed by the SQLite file at path.
// An empty path falls back to DefaultPath.
func New(path string, opts ...Option) (*Repository, error) {
	if path == "" {
		path = DefaultPath
	}
	if path == ":memory:" {
		return nil, fmt.Errorf("in-memory databases are not supported: each operation opens a new connection")
	}

	r := &Repository{
		path:        path,
		busyTimeout: DefaultBusyTimeout,
		journalMode: DefaultJournalMode,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Path returns the database file path
func (r *Repository) Path() string {
	return r.path
}

// uriPathEscaper keeps '?' and '#' in the file name instead of letting the
// driver read them as the start of the query or fragment.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

func (r *Repository) dsn() string {
	// foreign key enforcement is per connection in SQLite, so it rides on the DSN
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)",
		uriPathEscaper.Replace(r.path), r.busyTimeout.Milliseconds(), r.journalMode)
}

// open returns a single-connection handle; callers must Close it.
func (r *Repository) open() (*sql.DB, error) {
	if dir := filepath.Dir(r.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: failed to create database directory: %w", ErrStorageUnavailable, err)
		}
	}

	conn, err := sql.Open("sqlite", r.dsn())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrStorageUnavailable, err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", ErrStorageUnavailable, err)
	}

	log.Trace().Str("path", r.path).Msg("Database connection opened")

	return conn, nil
}

// withConn runs fn on a fresh connection and closes it on every exit path
func (r *Repository) withConn(fn func(*sql.DB) error) error {
	conn, err := r.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("path", r.path).Msg("Failed to close database connection")
		}
	}()

	return fn(conn)
}

// transaction wraps fn in a database transaction on a fresh connection
func (r *Repository) transaction(fn func(*sql.Tx) error) error {
	return r.withConn(func(conn *sql.DB) error {
		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("%w: failed to begin transaction: %w", ErrStorageUnavailable, err)
		}

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction")
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: failed to commit transaction: %w", ErrStorageUnavailable, err)
		}

		return nil
	})
}
