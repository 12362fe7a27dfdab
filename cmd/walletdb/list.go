// List command dumps all records from a table.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/os2357/fuels-wallet/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <table>",
	Short: "List all records in a table",
	Long: `List dumps every record from the specified table, keyed by primary key.

Valid table names: vaults, accounts, networks, connections, transactions,
assets, abis, errors

Example:
  walletdb list accounts
  walletdb list transactions`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	tableName := args[0]

	table, err := store.Table(tableName)
	if err != nil {
		if errors.Is(err, types.ErrTableNotFound) {
			return fmt.Errorf("unknown table %q (valid: %s)", tableName, validTableNamesStr)
		}
		return fmt.Errorf("get table: %w", err)
	}

	records, err := table.List()
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(records))
	for _, key := range keys {
		var decoded any
		if err := json.Unmarshal(records[key], &decoded); err != nil {
			decoded = string(records[key])
		}
		out[key] = decoded
	}
	return printJSON(out)
}
