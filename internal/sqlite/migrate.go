package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SchemaVersion is the schema version declared by the current build. Opening
// a database stored at an older version triggers the pending migrations.
const SchemaVersion = 19

// Migration is one ordered schema upgrade step. Apply runs inside a single
// transaction together with the version bump, so an interrupted migration
// rolls back completely and leaves the prior version untouched.
type Migration struct {
	Version int
	Apply   func(ctx context.Context, tx *sql.Tx) error
}

// migrations lists the upgrade steps in ascending version order.
var migrations = []Migration{
	{Version: SchemaVersion, Apply: resetDefaultNetworks},
}

// Default network seeds. The version bump replaces the entire network set
// with these two endpoints; any user-customized list is discarded on purpose
// as schema-reset semantics for this version only.
const (
	testnetName = "Fuel Sepolia Testnet"
	testnetURL  = "https://testnet.fuel.network/v1/graphql"
	devnetName  = "Fuel Ignition Devnet"
	devnetURL   = "https://devnet.fuel.network/v1/graphql"
)

// resetDefaultNetworks clears the networks table and seeds the testnet and
// devnet endpoints, each under a freshly generated identity. Only the
// testnet entry is selected.
func resetDefaultNetworks(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM networks"); err != nil {
		return fmt.Errorf("clearing networks: %w", err)
	}

	seeds := []struct {
		name     string
		url      string
		chainID  int64
		selected bool
	}{
		{testnetName, testnetURL, 0, true},
		{devnetName, devnetURL, 0, false},
	}
	for _, s := range seeds {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generating network id: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO networks (id, chain_id, url, name, is_selected) VALUES (?, ?, ?, ?, ?)",
			id.String(), s.chainID, s.url, s.name, boolToInt(s.selected))
		if err != nil {
			return fmt.Errorf("seeding network %s: %w", s.name, err)
		}
	}
	return nil
}

// runMigrations applies every migration with from < Version <= to, each in
// its own transaction that also bumps user_version. A failed step aborts the
// whole open attempt with the store left at the last committed version.
func runMigrations(ctx context.Context, db *sql.DB, from, to int) error {
	for _, m := range migrations {
		if m.Version <= from || m.Version > to {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migrating to version %d: %w", m.Version, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration transaction: %w", err)
	}
	defer tx.Rollback()

	if err := m.Apply(ctx, tx); err != nil {
		return err
	}

	// user_version is transactional in SQLite, so the bump commits or rolls
	// back together with the migration body.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("bumping user_version: %w", err)
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
