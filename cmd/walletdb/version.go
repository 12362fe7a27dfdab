// Version command prints the CLI version and the declared schema version.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/os2357/fuels-wallet/internal/sqlite"
	"github.com/os2357/fuels-wallet/pkg/walletdb"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("walletdb %s (schema %d)\n", walletdb.Version, sqlite.SchemaVersion)
	},
}
