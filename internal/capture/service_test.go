package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// fakeStore is an in-memory Store with the same dedup-on-capture behavior
// as the errors table.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]types.CapturedError
	failure error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]types.CapturedError)}
}

func (s *fakeStore) Capture(ce *types.CapturedError) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	if existing, ok := s.records[ce.ID]; ok {
		existing.Extra.Counts++
		existing.Extra.Timestamp = ce.Extra.Timestamp
		s.records[ce.ID] = existing
		return nil
	}
	s.records[ce.ID] = *ce
	return nil
}

func (s *fakeStore) List() ([]types.CapturedError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return nil, s.failure
	}
	out := make([]types.CapturedError, 0, len(s.records))
	for _, ce := range s.records {
		out = append(out, ce)
	}
	return out, nil
}

func (s *fakeStore) Delete(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	for _, id := range ids {
		delete(s.records, id)
	}
	return nil
}

func (s *fakeStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]types.CapturedError)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *fakeStore) get(id string) (types.CapturedError, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ce, ok := s.records[id]
	return ce, ok
}

// fakeReporter records sent batches and can be scripted to fail.
type fakeReporter struct {
	mu      sync.Mutex
	batches [][]types.CapturedError
	failure error
}

func (r *fakeReporter) Send(ctx context.Context, records []types.CapturedError) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure != nil {
		return r.failure
	}
	r.batches = append(r.batches, records)
	return nil
}

func sig(msg string) types.ErrorSignature {
	return types.ErrorSignature{Name: "Error", Message: msg, Stack: "at main"}
}

func TestService_CaptureReturnsDeterministicIdentity(t *testing.T) {
	s := New(newFakeStore(), nil)

	id1 := s.Capture(sig("boom"), types.ErrorExtra{})
	id2 := s.Capture(sig("boom"), types.ErrorExtra{})
	id3 := s.Capture(sig("other"), types.ErrorExtra{})

	assert.Equal(t, id1, id2, "same signature maps to the same identity")
	assert.NotEqual(t, id1, id3)
}

func TestService_CaptureDefaultsTimestampAndCounts(t *testing.T) {
	store := newFakeStore()
	s := New(store, nil)

	id := s.Capture(sig("boom"), types.ErrorExtra{})

	ce, ok := store.get(id)
	require.True(t, ok)
	assert.Equal(t, 0, ce.Extra.Counts, "counts tracks recurrences, not occurrences")
	assert.WithinDuration(t, time.Now().UTC(), ce.Extra.Timestamp, time.Minute)
}

func TestService_CaptureDeduplicates(t *testing.T) {
	store := newFakeStore()
	s := New(store, nil)

	id := s.Capture(sig("boom"), types.ErrorExtra{})
	s.Capture(sig("boom"), types.ErrorExtra{})
	s.Capture(sig("boom"), types.ErrorExtra{})

	assert.Equal(t, 1, store.count())
	ce, _ := store.get(id)
	assert.Equal(t, 2, ce.Extra.Counts)
}

func TestService_CaptureSwallowsStoreFailures(t *testing.T) {
	store := newFakeStore()
	store.failure = errors.New("store down")
	s := New(store, nil)

	// The caller's error path must never fail because capture did.
	id := s.Capture(sig("boom"), types.ErrorExtra{})
	assert.NotEmpty(t, id)
}

func TestService_CaptureErr(t *testing.T) {
	store := newFakeStore()
	s := New(store, nil)

	id := s.CaptureErr(errors.New("something broke"), "unlock")

	ce, ok := store.get(id)
	require.True(t, ok)
	assert.Equal(t, "something broke", ce.Error.Message)
	assert.Equal(t, "unlock", ce.Extra.Location)
	assert.NotEmpty(t, ce.Error.Stack)
}

func TestService_IgnoreHidesWithoutDeleting(t *testing.T) {
	store := newFakeStore()
	s := New(store, nil)

	kept := s.Capture(sig("kept"), types.ErrorExtra{})
	hidden := s.Capture(sig("hidden"), types.ErrorExtra{})

	s.Ignore(hidden)

	visible, err := s.ListVisible()
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, kept, visible[0].ID)

	// The record survives the session-scoped ignore.
	assert.Equal(t, 2, store.count())
}

func TestService_DismissDeletesAndForgetsIgnore(t *testing.T) {
	store := newFakeStore()
	s := New(store, nil)

	id := s.Capture(sig("boom"), types.ErrorExtra{})
	s.Ignore(id)

	require.NoError(t, s.Dismiss(id))
	assert.Equal(t, 0, store.count())

	// Re-capturing the same identity makes it visible again.
	s.Capture(sig("boom"), types.ErrorExtra{})
	visible, err := s.ListVisible()
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestService_DismissAllRemovesOnlyVisible(t *testing.T) {
	store := newFakeStore()
	s := New(store, nil)

	s.Capture(sig("a"), types.ErrorExtra{})
	s.Capture(sig("b"), types.ErrorExtra{})
	ignored := s.Capture(sig("c"), types.ErrorExtra{})
	s.Ignore(ignored)

	require.NoError(t, s.DismissAll())

	assert.Equal(t, 1, store.count(), "ignored record is not visible, so it stays")
	_, ok := store.get(ignored)
	assert.True(t, ok)
}

func TestService_ReportSendsAndDismisses(t *testing.T) {
	store := newFakeStore()
	sink := &fakeReporter{}
	s := New(store, sink)

	id := s.Capture(sig("boom"), types.ErrorExtra{})
	other := s.Capture(sig("other"), types.ErrorExtra{})

	require.NoError(t, s.Report(context.Background(), id))

	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 1)
	assert.Equal(t, id, sink.batches[0][0].ID)

	_, ok := store.get(id)
	assert.False(t, ok, "reported record is dismissed")
	_, ok = store.get(other)
	assert.True(t, ok, "unreported record stays")
}

func TestService_ReportFailureKeepsRecords(t *testing.T) {
	store := newFakeStore()
	sink := &fakeReporter{failure: errors.New("endpoint down")}
	s := New(store, sink)

	id := s.Capture(sig("boom"), types.ErrorExtra{})

	require.Error(t, s.Report(context.Background(), id))
	assert.Equal(t, 1, store.count(), "failed report leaves the record for retry")
}

func TestService_ReportWithoutSink(t *testing.T) {
	s := New(newFakeStore(), nil)
	require.Error(t, s.Report(context.Background(), "any"))
}

func TestService_ReportUnknownIDsIsNoop(t *testing.T) {
	store := newFakeStore()
	sink := &fakeReporter{}
	s := New(store, sink)

	require.NoError(t, s.Report(context.Background(), "missing"))
	assert.Empty(t, sink.batches)
}

func TestService_ClearResetsIgnores(t *testing.T) {
	store := newFakeStore()
	s := New(store, nil)

	id := s.Capture(sig("boom"), types.ErrorExtra{})
	s.Ignore(id)

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, store.count())

	// The identity is capturable and visible again after Clear.
	s.Capture(sig("boom"), types.ErrorExtra{})
	visible, err := s.ListVisible()
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}
