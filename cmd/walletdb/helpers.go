// Shared helpers for walletdb CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/os2357/fuels-wallet/pkg/types"
	"github.com/os2357/fuels-wallet/pkg/walletdb"
)

// validTableNamesStr is a comma-separated list of valid table names for
// error output.
var validTableNamesStr = strings.Join(types.AllTables, ", ")

// openStore resolves the data directory, wires the store, and opens it.
func openStore(ctx context.Context) (*walletdb.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.DefaultConfig(dataDir)
	cfg.ReportURL = configReportURL

	s, err := walletdb.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Open(ctx); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
