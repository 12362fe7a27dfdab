// Get command retrieves a record by key from a table.
package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/os2357/fuels-wallet/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <table> <key>",
	Short: "Get a record by key",
	Long: `Get retrieves a record from the specified table by its primary key.

Valid table names: vaults, accounts, networks, connections, transactions,
assets, abis, errors

Example:
  walletdb get accounts fuel1abc...
  walletdb get networks 0198a7f2-...`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	tableName := args[0]
	key := args[1]

	table, err := store.Table(tableName)
	if err != nil {
		if errors.Is(err, types.ErrTableNotFound) {
			return fmt.Errorf("unknown table %q (valid: %s)", tableName, validTableNamesStr)
		}
		return fmt.Errorf("get table: %w", err)
	}

	record, err := table.Get(key)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("no record %q in table %q", key, tableName)
		}
		return fmt.Errorf("get record: %w", err)
	}

	var pretty any
	if err := json.Unmarshal(record, &pretty); err != nil {
		fmt.Println(string(record))
		return nil
	}
	return printJSON(pretty)
}
