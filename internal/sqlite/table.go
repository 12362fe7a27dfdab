package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// tableSpec describes how one table stores its records: the primary key
// column plus any indexed columns extracted from the record JSON on write.
type tableSpec struct {
	key     string
	columns []extractedColumn
}

// extractedColumn maps a JSON field of the record onto a dedicated column so
// the engine can enforce unique indexes on it.
type extractedColumn struct {
	column string
	field  string
}

// tableSpecs declares the persisted layout for the document tables. The
// networks and errors tables hold fully typed columns and are dispatched
// separately below.
var tableSpecs = map[string]tableSpec{
	types.TableVaults:       {key: "key"},
	types.TableAccounts:     {key: "address", columns: []extractedColumn{{"name", "name"}}},
	types.TableConnections:  {key: "origin"},
	types.TableTransactions: {key: "id"},
	types.TableAssets:       {key: "asset_id", columns: []extractedColumn{{"name", "name"}, {"symbol", "symbol"}}},
	types.TableABIs:         {key: "contract_id"},
}

// table implements types.Table for a single named table.
type table struct {
	name   string
	engine *Engine
}

func newTable(e *Engine, name string) *table {
	return &table{name: name, engine: e}
}

// Get retrieves a record by primary key.
func (t *table) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, types.ErrInvalidID
	}
	t.engine.mu.RLock()
	defer t.engine.mu.RUnlock()
	if !t.engine.open {
		return nil, types.ErrEngineClosed
	}

	switch t.name {
	case types.TableNetworks:
		n, err := t.engine.getNetwork(key)
		if err != nil {
			return nil, err
		}
		return json.Marshal(n)
	case types.TableErrors:
		ce, err := t.engine.getError(key)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ce)
	default:
		return t.getDocument(key)
	}
}

// Put creates or replaces the record stored under key.
func (t *table) Put(key string, record []byte) error {
	return t.write(key, record, true)
}

// Add inserts a new record, failing on a duplicate key or unique index value.
func (t *table) Add(key string, record []byte) error {
	return t.write(key, record, false)
}

func (t *table) write(key string, record []byte, replace bool) error {
	if key == "" {
		return types.ErrInvalidID
	}
	if !json.Valid(record) {
		return types.ErrInvalidData
	}
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	if !t.engine.open {
		return types.ErrEngineClosed
	}

	switch t.name {
	case types.TableNetworks:
		var n types.Network
		if err := json.Unmarshal(record, &n); err != nil {
			return types.ErrInvalidData
		}
		n.ID = key
		return t.engine.putNetwork(&n, replace)
	case types.TableErrors:
		var ce types.CapturedError
		if err := json.Unmarshal(record, &ce); err != nil {
			return types.ErrInvalidData
		}
		ce.ID = key
		return t.engine.putError(&ce, replace)
	default:
		return t.putDocument(key, record, replace)
	}
}

// Delete removes a record by primary key.
func (t *table) Delete(key string) error {
	if key == "" {
		return types.ErrInvalidID
	}
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	if !t.engine.open {
		return types.ErrEngineClosed
	}

	keyColumn, tbl := t.layout()
	res, err := t.engine.db.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", tbl, keyColumn), key)
	if err != nil {
		return t.engine.fail(fmt.Errorf("deleting from %s: %w", tbl, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", tbl, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// List returns all records keyed by primary key.
func (t *table) List() (map[string][]byte, error) {
	t.engine.mu.RLock()
	defer t.engine.mu.RUnlock()
	if !t.engine.open {
		return nil, types.ErrEngineClosed
	}

	switch t.name {
	case types.TableNetworks:
		networks, err := t.engine.listNetworks()
		if err != nil {
			return nil, err
		}
		out := make(map[string][]byte, len(networks))
		for _, n := range networks {
			rec, err := json.Marshal(n)
			if err != nil {
				return nil, fmt.Errorf("marshaling network: %w", err)
			}
			out[n.ID] = rec
		}
		return out, nil
	case types.TableErrors:
		captured, err := t.engine.listErrors()
		if err != nil {
			return nil, err
		}
		out := make(map[string][]byte, len(captured))
		for _, ce := range captured {
			rec, err := json.Marshal(ce)
			if err != nil {
				return nil, fmt.Errorf("marshaling captured error: %w", err)
			}
			out[ce.ID] = rec
		}
		return out, nil
	default:
		return t.listDocuments()
	}
}

// Clear removes every record from the table.
func (t *table) Clear() error {
	t.engine.mu.Lock()
	defer t.engine.mu.Unlock()
	if !t.engine.open {
		return types.ErrEngineClosed
	}

	_, tbl := t.layout()
	if _, err := t.engine.db.Exec("DELETE FROM " + tbl); err != nil {
		return t.engine.fail(fmt.Errorf("clearing %s: %w", tbl, err))
	}
	return nil
}

// layout returns the primary key column and SQL table name.
func (t *table) layout() (keyColumn, tbl string) {
	switch t.name {
	case types.TableNetworks:
		return "id", "networks"
	case types.TableErrors:
		return "id", "errors"
	default:
		return tableSpecs[t.name].key, t.name
	}
}

// Document table operations. The record is stored as JSON in the data
// column; declared fields are extracted into dedicated columns so unique
// indexes apply. Callers hold the engine lock.

func (t *table) getDocument(key string) ([]byte, error) {
	spec := tableSpecs[t.name]
	var data string
	err := t.engine.db.QueryRow(
		fmt.Sprintf("SELECT data FROM %s WHERE %s = ?", t.name, spec.key), key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, t.engine.fail(fmt.Errorf("reading %s: %w", t.name, err))
	}
	return []byte(data), nil
}

func (t *table) putDocument(key string, record []byte, replace bool) error {
	spec := tableSpecs[t.name]

	columns := []string{spec.key}
	values := []any{key}
	if len(spec.columns) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(record, &fields); err != nil {
			return types.ErrInvalidData
		}
		for _, ec := range spec.columns {
			columns = append(columns, ec.column)
			values = append(values, fmt.Sprint(fields[ec.field]))
		}
	}
	columns = append(columns, "data")
	values = append(values, string(record))

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(columns, ", "), placeholders)
	if replace {
		var sets []string
		for _, col := range columns[1:] {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
		}
		query += fmt.Sprintf(" ON CONFLICT(%s) DO UPDATE SET %s",
			spec.key, strings.Join(sets, ", "))
	}

	if _, err := t.engine.db.Exec(query, values...); err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateKey
		}
		return t.engine.fail(fmt.Errorf("writing %s: %w", t.name, err))
	}
	return nil
}

func (t *table) listDocuments() (map[string][]byte, error) {
	spec := tableSpecs[t.name]
	rows, err := t.engine.db.Query(
		fmt.Sprintf("SELECT %s, data FROM %s", spec.key, t.name))
	if err != nil {
		return nil, t.engine.fail(fmt.Errorf("listing %s: %w", t.name, err))
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.name, err)
		}
		out[key] = []byte(data)
	}
	return out, rows.Err()
}

// isUniqueViolation reports whether err is a primary key or unique index
// conflict.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLITE_CONSTRAINT")
}
