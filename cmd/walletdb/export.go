// Export command dumps every table to JSONL files.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Export all tables as JSONL files",
	Long: `Export writes one <table>.jsonl file per table into the given
directory, one JSON record per line in key order.

Example:
  walletdb export ./backup`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := store.Export(dir); err != nil {
		return fmt.Errorf("export tables: %w", err)
	}
	fmt.Printf("exported to %s\n", dir)
	return nil
}
