// Package database is the connection layer over the embedded SQLite
// engine (modernc.org/sqlite, pure Go). It owns file preparation,
// pragma setup, schema introspection, bind-type resolution, and the
// translation of native engine errors into *errs.Error. Layers above
// this package never see a raw driver error.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/koustreak/LiteRi/internal/errs"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Conn is a single unit-of-work handle on one database file. The pool
// is pinned to one connection, so the DSN pragmas hold for every
// statement and the engine serializes writers itself. A Conn is safe
// for concurrent use; callers own its lifecycle and must Close it.
type Conn struct {
	db   *sql.DB
	path string
}

// Open prepares the database file and opens a connection to it.
// It calls Ping to validate the connection before returning.
//
// For file databases the parent directory and the file are created if
// absent. A file that exists but is not writable gets exactly one
// permission fix; if it still cannot be written, Open fails with a
// connection error rather than deferring the failure to the first
// statement.
func Open(ctx context.Context, cfg *Config) (*Conn, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "database path must not be empty")
	}

	path := cfg.Path
	if !isMemory(path) {
		if filepath.Ext(path) == "" {
			path += ".db"
		}
		if err := ensureFile(path); err != nil {
			return nil, errs.Wrap(errs.ErrKindConnectionFailed, "cannot prepare database file", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.dsn(path))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	// One connection keeps the pragma state and lets SQLite do its own
	// write serialization.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Conn{db: db, path: path}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := c.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// OpenDB wraps an already-open *sql.DB handle. Used by tests that
// drive the layer with a mock engine.
func OpenDB(db *sql.DB, path string) *Conn {
	return &Conn{db: db, path: path}
}

// ensureFile makes sure the database file exists and is writable.
func ensureFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, filePerm)
		if err != nil {
			return fmt.Errorf("creating database file: %w", err)
		}
		return f.Close()
	}
	if err != nil {
		return fmt.Errorf("checking database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path %s is a directory", path)
	}

	if writable(path) {
		return nil
	}
	// One permission fix, then give up.
	if err := os.Chmod(path, filePerm); err != nil {
		return fmt.Errorf("database file %s is not writable: %w", path, err)
	}
	if !writable(path) {
		return fmt.Errorf("database file %s is not writable", path)
	}
	return nil
}

func writable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Ping verifies the database is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return MapError(err, "ping failed")
	}
	return nil
}

// Close releases the connection. The unit of work ends here; nothing
// closes a Conn implicitly.
func (c *Conn) Close() {
	_ = c.db.Close()
}

// Path returns the resolved database file path (":memory:" included).
func (c *Conn) Path() string {
	return c.path
}

// DB exposes the live handle for callers that need the raw connection.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Query executes a SQL statement that returns multiple rows.
func (c *Conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err, "query failed")
	}
	return rows, nil
}

// QueryRow executes a SQL statement that returns at most one row.
// Scan errors must be passed through MapError by the caller.
func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

// Exec executes a SQL statement that returns no rows.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err, "exec failed")
	}
	return res, nil
}

// Begin starts a transaction.
func (c *Conn) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, MapError(err, "begin transaction failed")
	}
	return tx, nil
}
