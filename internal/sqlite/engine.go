package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// DatabaseFileName is the SQLite file created under the data directory.
const DatabaseFileName = "wallet.db"

// Engine implements types.Engine using SQLite as the storage backend.
// It is safe for concurrent use; the open/close lifecycle is guarded by mu.
type Engine struct {
	mu      sync.RWMutex
	open    bool
	dataDir string
	db      *sql.DB
	tables  map[string]*table
	logger  *slog.Logger

	// events carries blocked/closed signals observed during operations.
	// The channel survives reopen cycles so subscribers keep their feed.
	events chan types.LifecycleEvent
}

// NewEngine creates an engine for the database under dataDir.
// The engine is not open; call Open to connect.
func NewEngine(dataDir string) *Engine {
	return &Engine{
		dataDir: dataDir,
		tables:  make(map[string]*table),
		logger:  slog.Default().With("component", "engine"),
		events:  make(chan types.LifecycleEvent, 8),
	}
}

// Path returns the full path of the database file.
func (e *Engine) Path() string {
	return filepath.Join(e.dataDir, DatabaseFileName)
}

// Open connects to the database, creates the schema if missing, and runs
// pending migrations when the stored version is behind SchemaVersion.
// Returns types.ErrAlreadyOpen if called while open. A lock held by another
// connection surfaces as an error wrapping types.ErrEngineBlocked.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return types.ErrAlreadyOpen
	}

	if err := os.MkdirAll(e.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", e.Path())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if err := e.initConnection(ctx, db); err != nil {
		db.Close()
		return classify(err)
	}

	stored, err := readUserVersion(ctx, db)
	if err != nil {
		db.Close()
		return classify(err)
	}
	if stored < SchemaVersion {
		if err := runMigrations(ctx, db, stored, SchemaVersion); err != nil {
			db.Close()
			return classify(err)
		}
		e.logger.Info("schema migrated", "from", stored, "to", SchemaVersion)
	}

	e.db = db
	e.open = true

	for _, name := range types.AllTables {
		e.tables[name] = newTable(e, name)
	}

	e.logger.Info("engine opened", "path", e.Path(), "version", SchemaVersion)
	return nil
}

// initConnection applies the connection pragmas and the table schema.
func (e *Engine) initConnection(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("applying %s: %w", p, err)
		}
	}
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating indexes: %w", err)
		}
	}
	return nil
}

// Close releases the database connection. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return nil
	}

	if e.db != nil {
		if err := e.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		e.db = nil
	}

	e.open = false
	e.tables = make(map[string]*table)
	e.logger.Info("engine closed")
	return nil
}

// Table returns the accessor for the named table.
func (e *Engine) Table(name string) (types.Table, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.open {
		return nil, types.ErrEngineClosed
	}
	t, ok := e.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// Networks returns the typed accessor for the networks table.
func (e *Engine) Networks() (*NetworksTable, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.open {
		return nil, types.ErrEngineClosed
	}
	return &NetworksTable{engine: e}, nil
}

// Errors returns the typed accessor for the errors table.
func (e *Engine) Errors() (*ErrorsTable, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.open {
		return nil, types.ErrEngineClosed
	}
	return &ErrorsTable{engine: e}, nil
}

// Events returns the lifecycle signal channel.
func (e *Engine) Events() <-chan types.LifecycleEvent {
	return e.events
}

// Version reports the schema version stored on disk.
func (e *Engine) Version() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.open {
		return 0, types.ErrEngineClosed
	}
	return readUserVersion(context.Background(), e.db)
}

// Check verifies database integrity with a quick check pass.
func (e *Engine) Check(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.open {
		return types.ErrEngineClosed
	}

	var result string
	if err := e.db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return e.fail(fmt.Errorf("integrity check: %w", err))
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// fail classifies an operation error and, when it indicates a blocked or
// torn-down connection, publishes the matching lifecycle signal.
// The send never blocks; with no listener draining, extra signals drop.
func (e *Engine) fail(err error) error {
	err = classify(err)

	var sig types.LifecycleSignal
	switch {
	case errors.Is(err, types.ErrEngineBlocked):
		sig = types.SignalBlocked
	case errors.Is(err, types.ErrEngineClosed):
		sig = types.SignalClosed
	default:
		return err
	}

	select {
	case e.events <- types.LifecycleEvent{Signal: sig, Err: err}:
	default:
	}
	return err
}

// classify maps driver-level failures onto the engine sentinel errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "SQLITE_BUSY"),
		strings.Contains(msg, "locking protocol"):
		return fmt.Errorf("%w: %s", types.ErrEngineBlocked, msg)
	case errors.Is(err, sql.ErrConnDone),
		strings.Contains(msg, "database is closed"),
		strings.Contains(msg, "sql: database is closed"):
		return fmt.Errorf("%w: %s", types.ErrEngineClosed, msg)
	default:
		return err
	}
}

// readUserVersion reads PRAGMA user_version from the connection.
func readUserVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading user_version: %w", err)
	}
	return v, nil
}
