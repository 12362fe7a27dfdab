// Deduplication and triage-support tests for the captured-errors table.
package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/os2357/fuels-wallet/pkg/types"
)

func testCapturedError(msg string, ts time.Time) *types.CapturedError {
	sig := types.ErrorSignature{Name: "Error", Message: msg, Stack: "at main\nat run"}
	return &types.CapturedError{
		ID:    sig.Identity(),
		Error: sig,
		Extra: types.ErrorExtra{Timestamp: ts},
	}
}

func TestErrorsTable_CaptureStoresRecord(t *testing.T) {
	e := newTestEngine(t)
	tbl, err := e.Errors()
	if err != nil {
		t.Fatalf("Errors failed: %v", err)
	}

	ce := testCapturedError("boom", time.Now().UTC())
	if err := tbl.Capture(ce); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	got, err := tbl.Get(ce.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Error.Message != "boom" {
		t.Errorf("message mismatch: %q", got.Error.Message)
	}
	if got.Extra.Counts != 0 {
		t.Errorf("expected zero recurrences on first capture, got %d", got.Extra.Counts)
	}
}

func TestErrorsTable_CaptureDeduplicates(t *testing.T) {
	e := newTestEngine(t)
	tbl, err := e.Errors()
	if err != nil {
		t.Fatalf("Errors failed: %v", err)
	}

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	if err := tbl.Capture(testCapturedError("boom", first)); err != nil {
		t.Fatalf("first Capture failed: %v", err)
	}
	if err := tbl.Capture(testCapturedError("boom", later)); err != nil {
		t.Fatalf("second Capture failed: %v", err)
	}
	if err := tbl.Capture(testCapturedError("boom", later.Add(time.Hour))); err != nil {
		t.Fatalf("third Capture failed: %v", err)
	}

	n, err := tbl.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row after repeated captures, got %d", n)
	}

	got, err := tbl.Get(testCapturedError("boom", first).ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Extra.Counts != 2 {
		t.Errorf("expected counts 2 after two recurrences, got %d", got.Extra.Counts)
	}
	if !got.Extra.Timestamp.Equal(later.Add(time.Hour)) {
		t.Errorf("timestamp should track the latest occurrence, got %v", got.Extra.Timestamp)
	}
}

func TestErrorsTable_DistinctIdentitiesStayApart(t *testing.T) {
	e := newTestEngine(t)
	tbl, err := e.Errors()
	if err != nil {
		t.Fatalf("Errors failed: %v", err)
	}

	now := time.Now().UTC()
	if err := tbl.Capture(testCapturedError("boom", now)); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := tbl.Capture(testCapturedError("different boom", now)); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	n, err := tbl.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 distinct records, got %d", n)
	}
}

func TestErrorsTable_ListOrderedByTimestamp(t *testing.T) {
	e := newTestEngine(t)
	tbl, err := e.Errors()
	if err != nil {
		t.Fatalf("Errors failed: %v", err)
	}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := tbl.Capture(testCapturedError("second", base.Add(time.Minute))); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := tbl.Capture(testCapturedError("first", base)); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	list, err := tbl.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].Error.Message != "first" || list[1].Error.Message != "second" {
		t.Errorf("list not ordered by timestamp: %q, %q",
			list[0].Error.Message, list[1].Error.Message)
	}
}

func TestErrorsTable_ListOrdersMixedFractionTimestamps(t *testing.T) {
	e := newTestEngine(t)
	tbl, err := e.Errors()
	if err != nil {
		t.Fatalf("Errors failed: %v", err)
	}

	// A whole-second timestamp must sort before a later fractional one.
	// The stored encoding always carries nine fraction digits, so the
	// string order matches the chronological order.
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := tbl.Capture(testCapturedError("second", base.Add(500*time.Millisecond))); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := tbl.Capture(testCapturedError("first", base)); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	list, err := tbl.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].Error.Message != "first" || list[1].Error.Message != "second" {
		t.Errorf("list not ordered by timestamp: %q, %q",
			list[0].Error.Message, list[1].Error.Message)
	}
	if !list[0].Extra.Timestamp.Equal(base) {
		t.Errorf("timestamp lost precision: %v", list[0].Extra.Timestamp)
	}
}

func TestErrorsTable_DeleteSkipsMissing(t *testing.T) {
	e := newTestEngine(t)
	tbl, err := e.Errors()
	if err != nil {
		t.Fatalf("Errors failed: %v", err)
	}

	ce := testCapturedError("boom", time.Now().UTC())
	if err := tbl.Capture(ce); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	// Deleting a present and an absent id together succeeds.
	if err := tbl.Delete(ce.ID, "absent"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := tbl.Get(ce.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestErrorsTable_Clear(t *testing.T) {
	e := newTestEngine(t)
	tbl, err := e.Errors()
	if err != nil {
		t.Fatalf("Errors failed: %v", err)
	}

	now := time.Now().UTC()
	if err := tbl.Capture(testCapturedError("one", now)); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := tbl.Capture(testCapturedError("two", now)); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if err := tbl.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, err := tbl.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty table after Clear, got %d", n)
	}
}
