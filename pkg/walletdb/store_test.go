// Round-trip tests wiring the full store: engine, manager, broadcaster, and
// capture service over a real database file.
package walletdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/os2357/fuels-wallet/internal/database"
	"github.com/os2357/fuels-wallet/internal/sqlite"
	"github.com/os2357/fuels-wallet/pkg/types"
)

func newTestStore(t *testing.T, cfg types.Config) *Store {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func TestStore_NewRejectsInvalidConfig(t *testing.T) {
	_, err := New(types.Config{})
	require.ErrorIs(t, err, types.ErrDataDirEmpty)
}

func TestStore_OpenMigratesAndSeeds(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, types.DefaultConfig(dir))

	assert.Equal(t, database.StateOpen, s.State())

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, sqlite.SchemaVersion, v)

	selected, err := s.SelectedNetwork()
	require.NoError(t, err)
	assert.True(t, selected.IsSelected)

	_, err = os.Stat(filepath.Join(dir, sqlite.DatabaseFileName))
	require.NoError(t, err)
}

func TestStore_TableRoundTrip(t *testing.T) {
	s := newTestStore(t, types.DefaultConfig(t.TempDir()))

	tbl, err := s.Table(types.TableAccounts)
	require.NoError(t, err)

	record := []byte(`{"address":"fuel1abc","name":"Main"}`)
	require.NoError(t, tbl.Add("fuel1abc", record))

	got, err := tbl.Get("fuel1abc")
	require.NoError(t, err)
	assert.JSONEq(t, string(record), string(got))
}

func TestStore_AlwaysOpenAbsorbsLogicalClose(t *testing.T) {
	s := newTestStore(t, types.DefaultConfig(t.TempDir()))

	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, database.StateOpen, s.State(), "always-open store heals a logical close")

	// Data access still works through the healed handle.
	_, err := s.Networks()
	require.NoError(t, err)
}

func TestStore_ShutdownClosesForReal(t *testing.T) {
	s, err := New(types.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, s.Open(context.Background()))

	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, database.StateClosed, s.State())

	_, err = s.Table(types.TableAccounts)
	require.ErrorIs(t, err, types.ErrEngineClosed)
}

func TestStore_SelectNetwork(t *testing.T) {
	s := newTestStore(t, types.DefaultConfig(t.TempDir()))

	networks, err := s.Networks()
	require.NoError(t, err)
	require.Len(t, networks, 2)

	var target types.Network
	for _, n := range networks {
		if !n.IsSelected {
			target = n
		}
	}
	require.NotEmpty(t, target.ID)

	require.NoError(t, s.SelectNetwork(target.ID))
	selected, err := s.SelectedNetwork()
	require.NoError(t, err)
	assert.Equal(t, target.ID, selected.ID)
}

func TestStore_CaptureTriageFlow(t *testing.T) {
	var reported []types.CapturedError
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reported))
	}))
	defer srv.Close()

	cfg := types.DefaultConfig(t.TempDir())
	cfg.ReportURL = srv.URL
	s := newTestStore(t, cfg)

	sig := types.ErrorSignature{Name: "Error", Message: "boom", Stack: "at main"}
	id := s.Capture(sig, types.ErrorExtra{})
	s.Capture(sig, types.ErrorExtra{})

	visible, err := s.VisibleErrors()
	require.NoError(t, err)
	require.Len(t, visible, 1, "repeat captures deduplicate")
	assert.Equal(t, 1, visible[0].Extra.Counts)

	s.IgnoreError(id)
	visible, err = s.VisibleErrors()
	require.NoError(t, err)
	assert.Empty(t, visible, "ignored identity hides from the indicator")

	require.NoError(t, s.ReportErrors(context.Background(), id))
	require.Len(t, reported, 1)
	assert.Equal(t, id, reported[0].ID)

	visible, err = s.VisibleErrors()
	require.NoError(t, err)
	assert.Empty(t, visible, "reported records are dismissed")
}

func TestStore_CaptureSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, types.DefaultConfig(dir))

	sig := types.ErrorSignature{Name: "Error", Message: "persists", Stack: "at main"}
	id := s.Capture(sig, types.ErrorExtra{})
	require.NoError(t, s.Shutdown(context.Background()))

	// A fresh store over the same directory sees the stored record but not
	// the previous session's ignores.
	s2 := newTestStore(t, types.DefaultConfig(dir))
	visible, err := s2.VisibleErrors()
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, id, visible[0].ID)
}

func TestStore_SubscribeReceivesRestartBroadcast(t *testing.T) {
	s := newTestStore(t, types.DefaultConfig(t.TempDir()))

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.Events().Publish(types.RestartedEvent())

	select {
	case ev := <-ch:
		assert.Equal(t, types.DBEventRestarted, ev.Payload.Event)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestStore_Export(t *testing.T) {
	s := newTestStore(t, types.DefaultConfig(t.TempDir()))

	out := t.TempDir()
	require.NoError(t, s.Export(out))
	for _, name := range types.AllTables {
		_, err := os.Stat(filepath.Join(out, name+".jsonl"))
		assert.NoError(t, err, "missing export for %s", name)
	}
}
