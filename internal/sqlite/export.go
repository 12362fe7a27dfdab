// JSONL export of table contents, used by the export CLI command and as a
// plain-text backup format.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// ExportTable writes every record of the named table to <dir>/<name>.jsonl,
// one JSON document per line, ordered by primary key.
func (e *Engine) ExportTable(dir, name string) error {
	tbl, err := e.Table(name)
	if err != nil {
		return err
	}
	records, err := tbl.List()
	if err != nil {
		return fmt.Errorf("listing %s for export: %w", name, err)
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]json.RawMessage, 0, len(records))
	for _, key := range keys {
		lines = append(lines, json.RawMessage(records[key]))
	}
	return writeJSONL(filepath.Join(dir, name+".jsonl"), lines)
}

// ExportAll exports every declared table into dir.
func (e *Engine) ExportAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	for _, name := range types.AllTables {
		if err := e.ExportTable(dir, name); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
