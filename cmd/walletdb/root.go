// Root command for the walletdb CLI.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/os2357/fuels-wallet/internal/paths"
	"github.com/os2357/fuels-wallet/pkg/walletdb"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configDataDir   string
	configReportURL string
)

// store is the process-wide store handle, opened before each command runs.
var store *walletdb.Store

var rootCmd = &cobra.Command{
	Use:     "walletdb",
	Short:   "walletdb inspects and maintains the wallet's local store",
	Version: walletdb.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		configDataDir = cfg.GetString(cfgKeyDataDir)
		configReportURL = cfg.GetString(cfgKeyReportURL)

		store, err = openStore(cmd.Context())
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.fuels-wallet)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(errorsCmd)
	rootCmd.AddCommand(networksCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// closeStore shuts the store down at command teardown.
func closeStore(ctx context.Context) error {
	if store == nil {
		return nil
	}
	return store.Shutdown(ctx)
}

// resolveDataDir returns the data directory path following the precedence:
// --data-dir flag > config.yaml data_dir > FUELS_WALLET_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following the
// precedence: --config-dir flag > FUELS_WALLET_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
