package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// timestampLayout is RFC 3339 with a fixed nine-digit fraction and UTC
// offset. The fixed width keeps the stored strings in chronological order
// under the lexicographic ORDER BY that listErrors relies on; a variable
// fraction would sort "...00Z" after "...00.5Z".
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrorsTable is the typed accessor for the captured-errors table. Capture
// deduplicates by identity: a second occurrence of the same id increments
// counts and refreshes the timestamp instead of inserting a new row.
type ErrorsTable struct {
	engine *Engine
}

// Capture inserts the record or, when the identity already exists, bumps its
// occurrence count and timestamp. The whole operation is one statement, so
// concurrent captures of the same identity never produce two rows.
func (t *ErrorsTable) Capture(ce *types.CapturedError) error {
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	if !t.engine.open {
		return types.ErrEngineClosed
	}

	_, err := t.engine.db.Exec(`
		INSERT INTO errors (id, name, message, stack, timestamp, location, pathname, hash, counts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			counts = counts + 1,
			timestamp = excluded.timestamp`,
		ce.ID, ce.Error.Name, ce.Error.Message, ce.Error.Stack,
		ce.Extra.Timestamp.UTC().Format(timestampLayout),
		ce.Extra.Location, ce.Extra.Pathname, ce.Extra.Hash, ce.Extra.Counts)
	if err != nil {
		return t.engine.fail(fmt.Errorf("capturing error: %w", err))
	}
	return nil
}

// Get returns the captured error with the given identity.
func (t *ErrorsTable) Get(id string) (*types.CapturedError, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.engine.mu.RLock()
	defer t.engine.mu.RUnlock()
	if !t.engine.open {
		return nil, types.ErrEngineClosed
	}
	return t.engine.getError(id)
}

// List returns all captured errors ordered by last occurrence.
func (t *ErrorsTable) List() ([]types.CapturedError, error) {
	t.engine.mu.RLock()
	defer t.engine.mu.RUnlock()
	if !t.engine.open {
		return nil, types.ErrEngineClosed
	}
	return t.engine.listErrors()
}

// Delete removes the captured errors with the given identities. Missing ids
// are skipped; dismissing an already-dismissed error is not a failure.
func (t *ErrorsTable) Delete(ids ...string) error {
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	if !t.engine.open {
		return types.ErrEngineClosed
	}

	for _, id := range ids {
		if id == "" {
			return types.ErrInvalidID
		}
		if _, err := t.engine.db.Exec("DELETE FROM errors WHERE id = ?", id); err != nil {
			return t.engine.fail(fmt.Errorf("deleting error: %w", err))
		}
	}
	return nil
}

// Clear empties the table unconditionally.
func (t *ErrorsTable) Clear() error {
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	if !t.engine.open {
		return types.ErrEngineClosed
	}

	if _, err := t.engine.db.Exec("DELETE FROM errors"); err != nil {
		return t.engine.fail(fmt.Errorf("clearing errors: %w", err))
	}
	return nil
}

// Count returns the number of stored records.
func (t *ErrorsTable) Count() (int, error) {
	t.engine.mu.RLock()
	defer t.engine.mu.RUnlock()
	if !t.engine.open {
		return 0, types.ErrEngineClosed
	}

	var n int
	if err := t.engine.db.QueryRow("SELECT COUNT(*) FROM errors").Scan(&n); err != nil {
		return 0, t.engine.fail(fmt.Errorf("counting errors: %w", err))
	}
	return n, nil
}

// Internal helpers. Callers hold the engine lock.

func (e *Engine) getError(id string) (*types.CapturedError, error) {
	row := e.db.QueryRow(
		"SELECT id, name, message, stack, timestamp, location, pathname, hash, counts FROM errors WHERE id = ?", id)
	return scanCapturedError(row.Scan)
}

func (e *Engine) listErrors() ([]types.CapturedError, error) {
	rows, err := e.db.Query(
		"SELECT id, name, message, stack, timestamp, location, pathname, hash, counts FROM errors ORDER BY timestamp")
	if err != nil {
		return nil, e.fail(fmt.Errorf("listing errors: %w", err))
	}
	defer rows.Close()

	var captured []types.CapturedError
	for rows.Next() {
		ce, err := scanCapturedError(rows.Scan)
		if err != nil {
			return nil, err
		}
		captured = append(captured, *ce)
	}
	return captured, rows.Err()
}

func (e *Engine) putError(ce *types.CapturedError, replace bool) error {
	query := `INSERT INTO errors (id, name, message, stack, timestamp, location, pathname, hash, counts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if replace {
		query += ` ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			message = excluded.message,
			stack = excluded.stack,
			timestamp = excluded.timestamp,
			location = excluded.location,
			pathname = excluded.pathname,
			hash = excluded.hash,
			counts = excluded.counts`
	}
	_, err := e.db.Exec(query,
		ce.ID, ce.Error.Name, ce.Error.Message, ce.Error.Stack,
		ce.Extra.Timestamp.UTC().Format(timestampLayout),
		ce.Extra.Location, ce.Extra.Pathname, ce.Extra.Hash, ce.Extra.Counts)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateKey
		}
		return e.fail(fmt.Errorf("writing error record: %w", err))
	}
	return nil
}

func scanCapturedError(scan func(dest ...any) error) (*types.CapturedError, error) {
	var ce types.CapturedError
	var ts string
	var location, pathname, hash sql.NullString
	err := scan(&ce.ID, &ce.Error.Name, &ce.Error.Message, &ce.Error.Stack,
		&ts, &location, &pathname, &hash, &ce.Extra.Counts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning captured error: %w", err)
	}
	ce.Extra.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parsing error timestamp: %w", err)
	}
	ce.Extra.Location = location.String
	ce.Extra.Pathname = pathname.String
	ce.Extra.Hash = hash.String
	return &ce, nil
}
