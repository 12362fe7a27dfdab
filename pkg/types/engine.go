package types

import (
	"context"
	"errors"
)

// Engine is the contract over the transactional, table-oriented persistent
// store. The database manager owns the lifecycle; everything else reaches
// tables through an open engine.
type Engine interface {
	// Open connects to the store, creating the schema if missing and running
	// pending migrations when the on-disk version is behind the declared one.
	// Returns ErrAlreadyOpen if called while open.
	Open(ctx context.Context) error

	// Close releases the connection. Idempotent: closing a closed engine
	// succeeds. After Close, table operations return ErrEngineClosed.
	Close() error

	// Table returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a declared table.
	Table(name string) (Table, error)

	// Events returns the channel on which the engine reports lifecycle
	// signals (blocked, closed) observed outside the caller's control.
	Events() <-chan LifecycleEvent

	// Version reports the schema version currently stored on disk.
	Version() (int, error)
}

// Table is a named, independently indexed collection of JSON records.
type Table interface {
	// Get retrieves a record by primary key.
	// Returns ErrInvalidID if key is empty, ErrNotFound if absent.
	Get(key string) ([]byte, error)

	// Put creates or replaces the record stored under key.
	Put(key string, record []byte) error

	// Add inserts a new record, failing with ErrDuplicateKey if the key or
	// any unique index value is already present.
	Add(key string, record []byte) error

	// Delete removes a record by primary key.
	// Returns ErrNotFound if absent.
	Delete(key string) error

	// List returns all records keyed by primary key.
	List() (map[string][]byte, error)

	// Clear removes every record from the table.
	Clear() error
}

// Engine lifecycle errors.
var (
	ErrEngineClosed  = errors.New("engine is closed")
	ErrAlreadyOpen   = errors.New("engine is already open")
	ErrEngineBlocked = errors.New("engine is blocked by another connection")
	ErrTableNotFound = errors.New("table not found")
)

// Table operation errors.
var (
	ErrInvalidID    = errors.New("invalid id")
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid record data")
)
