// Package capture records application crashes into the errors table,
// deduplicates them by content identity, and drives the triage flow that
// decides what the floating error indicator shows.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// Store is what the service needs from the errors table.
// *sqlite.ErrorsTable satisfies it.
type Store interface {
	Capture(*types.CapturedError) error
	List() ([]types.CapturedError, error)
	Delete(ids ...string) error
	Clear() error
}

// Reporter is the external sink captured errors are sent to.
type Reporter interface {
	Send(ctx context.Context, records []types.CapturedError) error
}

// Service implements error capture and triage. Ignoring is session-scoped:
// an ignored identity stops triggering the indicator but its record stays in
// the store until dismissed or reported.
type Service struct {
	mu      sync.Mutex
	store   Store
	sink    Reporter
	ignored map[string]struct{}
	logger  *slog.Logger
}

// New creates a capture service over the given store and reporting sink.
// A nil sink disables Report.
func New(store Store, sink Reporter) *Service {
	return &Service{
		store:   store,
		sink:    sink,
		ignored: make(map[string]struct{}),
		logger:  slog.Default().With("component", "capture"),
	}
}

// Capture records one crash occurrence and returns its identity. A repeat of
// an already-stored identity increments its occurrence count instead of
// inserting a duplicate. Capture never fails the caller's error-handling
// path: if the store cannot be written to, the occurrence is dropped.
func (s *Service) Capture(sig types.ErrorSignature, extra types.ErrorExtra) string {
	id := sig.Identity()
	if extra.Timestamp.IsZero() {
		extra.Timestamp = time.Now().UTC()
	}

	// counts tracks recurrences: a first capture stores zero, and the store
	// increments on every repeat of the same identity.
	ce := &types.CapturedError{ID: id, Error: sig, Extra: extra}
	if err := s.store.Capture(ce); err != nil {
		s.logger.Warn("dropping error capture", "id", id, "error", err)
	}
	return id
}

// CaptureErr is a convenience wrapper for capturing a Go error with the
// current stack.
func (s *Service) CaptureErr(err error, location string) string {
	return s.Capture(types.ErrorSignature{
		Name:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Stack:   string(debug.Stack()),
	}, types.ErrorExtra{Location: location})
}

// ListVisible returns the stored records that should trigger the floating
// indicator: everything not ignored this session.
func (s *Service) ListVisible() ([]types.CapturedError, error) {
	records, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing captured errors: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	visible := records[:0]
	for _, ce := range records {
		if _, skip := s.ignored[ce.ID]; !skip {
			visible = append(visible, ce)
		}
	}
	return visible, nil
}

// Ignore hides the identity from the indicator for the current session. The
// stored record is untouched.
func (s *Service) Ignore(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignored[id] = struct{}{}
}

// Dismiss permanently removes the given identities from the store.
func (s *Service) Dismiss(ids ...string) error {
	if err := s.store.Delete(ids...); err != nil {
		return fmt.Errorf("dismissing errors: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.ignored, id)
	}
	return nil
}

// DismissAll permanently removes every currently visible record.
func (s *Service) DismissAll() error {
	visible, err := s.ListVisible()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(visible))
	for _, ce := range visible {
		ids = append(ids, ce.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	return s.Dismiss(ids...)
}

// Report sends the matched records to the reporting sink and deletes them on
// success. On a send failure the records remain stored; the retry happens at
// the next report attempt.
func (s *Service) Report(ctx context.Context, ids ...string) error {
	if s.sink == nil {
		return fmt.Errorf("no reporting sink configured")
	}

	stored, err := s.store.List()
	if err != nil {
		return fmt.Errorf("loading errors for report: %w", err)
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var batch []types.CapturedError
	for _, ce := range stored {
		if _, ok := wanted[ce.ID]; ok {
			batch = append(batch, ce)
		}
	}
	if len(batch) == 0 {
		return nil
	}

	if err := s.sink.Send(ctx, batch); err != nil {
		return fmt.Errorf("sending error report: %w", err)
	}

	sent := make([]string, 0, len(batch))
	for _, ce := range batch {
		sent = append(sent, ce.ID)
	}
	return s.Dismiss(sent...)
}

// Clear empties the table unconditionally and forgets session ignores.
func (s *Service) Clear() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing captured errors: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignored = make(map[string]struct{})
	return nil
}
