// Status command reports the store's availability state and schema version.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store availability and schema version",
	Long: `Status reports the manager state, the on-disk schema version, and the
result of an integrity check.

Example:
  walletdb status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	version, err := store.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	integrity := "ok"
	if err := store.Check(cmd.Context()); err != nil {
		integrity = err.Error()
	}

	if flagJSON {
		return printJSON(map[string]any{
			"state":     string(store.State()),
			"schema":    version,
			"integrity": integrity,
		})
	}

	fmt.Printf("state:     %s\n", store.State())
	fmt.Printf("schema:    %d\n", version)
	fmt.Printf("integrity: %s\n", integrity)
	return nil
}
