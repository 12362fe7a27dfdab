// Atomicity and bounds tests for the migration runner.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestApplyMigration_RollsBackOnFailure(t *testing.T) {
	e := newTestEngine(t)

	// The body clears networks and then fails; the whole transaction must
	// roll back, leaving both the table and the stored version untouched.
	failing := Migration{
		Version: SchemaVersion + 1,
		Apply: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "DELETE FROM networks"); err != nil {
				return err
			}
			return errors.New("interrupted")
		},
	}

	if err := applyMigration(context.Background(), e.db, failing); err == nil {
		t.Fatal("expected migration failure")
	}

	v, err := e.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if v != SchemaVersion {
		t.Errorf("version moved despite rollback: %d", v)
	}

	networks, err := e.Networks()
	if err != nil {
		t.Fatalf("Networks failed: %v", err)
	}
	list, err := networks.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("networks table partially cleared: %d rows", len(list))
	}
}

func TestApplyMigration_CommitsVersionWithBody(t *testing.T) {
	e := newTestEngine(t)

	marker := Migration{
		Version: SchemaVersion + 1,
		Apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO vaults (key, data) VALUES ('migrated', '{}')")
			return err
		},
	}

	if err := applyMigration(context.Background(), e.db, marker); err != nil {
		t.Fatalf("applyMigration failed: %v", err)
	}

	v, err := e.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if v != SchemaVersion+1 {
		t.Errorf("expected version %d, got %d", SchemaVersion+1, v)
	}
}

func TestRunMigrations_SkipsOutOfRangeSteps(t *testing.T) {
	e := newTestEngine(t)

	// The stored version already equals the declared one; rerunning the
	// migration list must be a no-op.
	networks, err := e.Networks()
	if err != nil {
		t.Fatalf("Networks failed: %v", err)
	}
	before, err := networks.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if err := runMigrations(context.Background(), e.db, SchemaVersion, SchemaVersion); err != nil {
		t.Fatalf("runMigrations failed: %v", err)
	}

	after, err := networks.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(before) != len(after) || before[0].ID != after[0].ID {
		t.Error("in-range check failed: migration reran at current version")
	}
}
