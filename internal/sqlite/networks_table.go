package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// NetworksTable is the typed accessor for the networks table. Rows are
// created and replaced by migrations; runtime access is read-mostly plus
// endpoint selection.
type NetworksTable struct {
	engine *Engine
}

// List returns all configured networks.
func (n *NetworksTable) List() ([]types.Network, error) {
	n.engine.mu.RLock()
	defer n.engine.mu.RUnlock()
	if !n.engine.open {
		return nil, types.ErrEngineClosed
	}
	return n.engine.listNetworks()
}

// Get returns the network with the given id.
func (n *NetworksTable) Get(id string) (*types.Network, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	n.engine.mu.RLock()
	defer n.engine.mu.RUnlock()
	if !n.engine.open {
		return nil, types.ErrEngineClosed
	}
	return n.engine.getNetwork(id)
}

// Selected returns the currently selected network, or ErrNotFound when no
// endpoint is selected.
func (n *NetworksTable) Selected() (*types.Network, error) {
	n.engine.mu.RLock()
	defer n.engine.mu.RUnlock()
	if !n.engine.open {
		return nil, types.ErrEngineClosed
	}

	row := n.engine.db.QueryRow(
		"SELECT id, chain_id, url, name, is_selected FROM networks WHERE is_selected = 1")
	return scanNetwork(row)
}

// Select marks the network with the given id as selected and deselects the
// rest, atomically.
func (n *NetworksTable) Select(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	n.engine.mu.Lock()
	defer n.engine.mu.Unlock()
	if !n.engine.open {
		return types.ErrEngineClosed
	}

	tx, err := n.engine.db.Begin()
	if err != nil {
		return n.engine.fail(fmt.Errorf("beginning select transaction: %w", err))
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM networks WHERE id = ?", id).Scan(&exists); err != nil {
		return n.engine.fail(fmt.Errorf("selecting network: %w", err))
	}
	if exists == 0 {
		return types.ErrNotFound
	}

	if _, err := tx.Exec("UPDATE networks SET is_selected = (id = ?)", id); err != nil {
		return n.engine.fail(fmt.Errorf("selecting network: %w", err))
	}
	return tx.Commit()
}

// Internal helpers used by both the typed accessor and the generic table
// dispatch. Callers hold the engine lock.

func (e *Engine) getNetwork(id string) (*types.Network, error) {
	row := e.db.QueryRow(
		"SELECT id, chain_id, url, name, is_selected FROM networks WHERE id = ?", id)
	return scanNetwork(row)
}

func (e *Engine) listNetworks() ([]types.Network, error) {
	rows, err := e.db.Query(
		"SELECT id, chain_id, url, name, is_selected FROM networks ORDER BY name")
	if err != nil {
		return nil, e.fail(fmt.Errorf("listing networks: %w", err))
	}
	defer rows.Close()

	var networks []types.Network
	for rows.Next() {
		var n types.Network
		var selected int
		if err := rows.Scan(&n.ID, &n.ChainID, &n.URL, &n.Name, &selected); err != nil {
			return nil, fmt.Errorf("scanning network: %w", err)
		}
		n.IsSelected = selected != 0
		networks = append(networks, n)
	}
	return networks, rows.Err()
}

func (e *Engine) putNetwork(n *types.Network, replace bool) error {
	query := `INSERT INTO networks (id, chain_id, url, name, is_selected) VALUES (?, ?, ?, ?, ?)`
	if replace {
		query += ` ON CONFLICT(id) DO UPDATE SET
			chain_id = excluded.chain_id,
			url = excluded.url,
			name = excluded.name,
			is_selected = excluded.is_selected`
	}
	_, err := e.db.Exec(query, n.ID, n.ChainID, n.URL, n.Name, boolToInt(n.IsSelected))
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateKey
		}
		return e.fail(fmt.Errorf("writing network: %w", err))
	}
	return nil
}

func scanNetwork(row *sql.Row) (*types.Network, error) {
	var n types.Network
	var selected int
	err := row.Scan(&n.ID, &n.ChainID, &n.URL, &n.Name, &selected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning network: %w", err)
	}
	n.IsSelected = selected != 0
	return &n, nil
}
