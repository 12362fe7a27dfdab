// Package walletdb exposes the wallet store: a resilient local persistent
// database that stays available across engine failures and hosts the
// crash-capture triage flow.
//
// Example:
//
//	store, err := walletdb.New(types.DefaultConfig(dataDir))
//	if err != nil { ... }
//	if err := store.Open(ctx); err != nil { ... }
//	defer store.Shutdown(ctx)
package walletdb

import (
	"context"
	"fmt"

	"github.com/os2357/fuels-wallet/internal/capture"
	"github.com/os2357/fuels-wallet/internal/database"
	"github.com/os2357/fuels-wallet/internal/notify"
	"github.com/os2357/fuels-wallet/internal/sqlite"
	"github.com/os2357/fuels-wallet/pkg/types"
)

// Store is the composition root for the wallet database. Exactly one Store
// exists per process; it owns the engine handle, the availability manager,
// the notification broadcaster, and the error capture service.
type Store struct {
	cfg         types.Config
	engine      *sqlite.Engine
	manager     *database.Manager
	broadcaster *notify.Broadcaster
	capture     *capture.Service
}

// New wires a Store from the configuration. The store starts closed.
func New(cfg types.Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := sqlite.NewEngine(cfg.DataDir)
	broadcaster := notify.NewBroadcaster()
	manager := database.NewManager(engine, broadcaster,
		database.WithAlwaysOpen(cfg.AlwaysOpen))

	var sink capture.Reporter
	if cfg.ReportURL != "" {
		sink = capture.NewHTTPReporter(cfg.ReportURL)
	}

	s := &Store{
		cfg:         cfg,
		engine:      engine,
		manager:     manager,
		broadcaster: broadcaster,
	}
	s.capture = capture.New(&captureStore{s}, sink)
	return s, nil
}

// Open brings the store up, migrating the schema when needed.
func (s *Store) Open(ctx context.Context) error {
	return s.manager.Open(ctx)
}

// Close issues a logical close request. Under the always-open policy the
// request self-heals into a reopen until the restart-attempt budget runs
// out.
func (s *Store) Close(ctx context.Context) error {
	return s.manager.Close(ctx, false)
}

// Shutdown stops lifecycle watching and force-closes the store. Used at
// process teardown only.
func (s *Store) Shutdown(ctx context.Context) error {
	s.manager.Stop()
	return s.manager.Close(ctx, true)
}

// State returns the lifecycle state of the store handle.
func (s *Store) State() database.State {
	return s.manager.State()
}

// Version reports the schema version stored on disk.
func (s *Store) Version() (int, error) {
	return s.engine.Version()
}

// Check runs an immediate integrity check.
func (s *Store) Check(ctx context.Context) error {
	return s.manager.Check(ctx)
}

// Table returns the generic accessor for the named table. Callers must
// treat an ErrEngineClosed as "temporarily unavailable": the manager may be
// mid-restart.
func (s *Store) Table(name string) (types.Table, error) {
	return s.engine.Table(name)
}

// Subscribe registers a listener for database notifications such as the
// restart broadcast.
func (s *Store) Subscribe() chan types.DBEvent {
	return s.broadcaster.Subscribe()
}

// Unsubscribe removes a listener.
func (s *Store) Unsubscribe(ch chan types.DBEvent) {
	s.broadcaster.Unsubscribe(ch)
}

// Events exposes the broadcaster for components that fan notifications
// further out, such as the websocket hub.
func (s *Store) Events() *notify.Broadcaster {
	return s.broadcaster
}

// Export writes every table to JSONL files under dir.
func (s *Store) Export(dir string) error {
	return s.engine.ExportAll(dir)
}

// Networks returns all configured networks.
func (s *Store) Networks() ([]types.Network, error) {
	nt, err := s.engine.Networks()
	if err != nil {
		return nil, err
	}
	return nt.List()
}

// SelectedNetwork returns the currently selected network.
func (s *Store) SelectedNetwork() (*types.Network, error) {
	nt, err := s.engine.Networks()
	if err != nil {
		return nil, err
	}
	return nt.Selected()
}

// SelectNetwork marks the given network as selected.
func (s *Store) SelectNetwork(id string) error {
	nt, err := s.engine.Networks()
	if err != nil {
		return err
	}
	return nt.Select(id)
}

// Capture records a crash occurrence; see capture.Service.Capture.
func (s *Store) Capture(sig types.ErrorSignature, extra types.ErrorExtra) string {
	return s.capture.Capture(sig, extra)
}

// VisibleErrors lists the captured errors that should trigger the floating
// indicator.
func (s *Store) VisibleErrors() ([]types.CapturedError, error) {
	return s.capture.ListVisible()
}

// IgnoreError hides an identity from the indicator for this session.
func (s *Store) IgnoreError(id string) {
	s.capture.Ignore(id)
}

// DismissErrors permanently removes the given identities.
func (s *Store) DismissErrors(ids ...string) error {
	return s.capture.Dismiss(ids...)
}

// DismissAllErrors permanently removes every visible record.
func (s *Store) DismissAllErrors() error {
	return s.capture.DismissAll()
}

// ReportErrors sends the matched records to the reporting sink, deleting
// them on success.
func (s *Store) ReportErrors(ctx context.Context, ids ...string) error {
	return s.capture.Report(ctx, ids...)
}

// ClearErrors empties the errors table unconditionally.
func (s *Store) ClearErrors() error {
	return s.capture.Clear()
}

// captureStore adapts the engine's errors table for the capture service.
// The indirection resolves the table lazily so the service keeps working
// across restarts that recreate the handle.
type captureStore struct {
	store *Store
}

func (c *captureStore) table() (*sqlite.ErrorsTable, error) {
	return c.store.engine.Errors()
}

func (c *captureStore) Capture(ce *types.CapturedError) error {
	t, err := c.table()
	if err != nil {
		return fmt.Errorf("errors table: %w", err)
	}
	return t.Capture(ce)
}

func (c *captureStore) List() ([]types.CapturedError, error) {
	t, err := c.table()
	if err != nil {
		return nil, fmt.Errorf("errors table: %w", err)
	}
	return t.List()
}

func (c *captureStore) Delete(ids ...string) error {
	t, err := c.table()
	if err != nil {
		return fmt.Errorf("errors table: %w", err)
	}
	return t.Delete(ids...)
}

func (c *captureStore) Clear() error {
	t, err := c.table()
	if err != nil {
		return fmt.Errorf("errors table: %w", err)
	}
	return t.Clear()
}
